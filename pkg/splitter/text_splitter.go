package splitter

import (
	"github.com/tmc/langchaingo/textsplitter"
)

// TextSplitter wraps the langchaingo recursive character splitter behind the
// chunking contract the knowledge store depends on.
type TextSplitter struct {
	splitter textsplitter.TextSplitter
}

// NewRecursiveCharacterTextSplitter creates a splitter that breaks text on
// paragraph, line, word and finally character boundaries, keeping chunks at
// most chunkSize characters with chunkOverlap characters of shared context.
func NewRecursiveCharacterTextSplitter(chunkSize, chunkOverlap int) *TextSplitter {
	ts := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	return &TextSplitter{splitter: ts}
}

// SplitText splits text into chunks.
func (ts *TextSplitter) SplitText(text string) ([]string, error) {
	return ts.splitter.SplitText(text)
}
