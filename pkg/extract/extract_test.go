package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFromPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o644))

	text, err := TextFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", text)
}

func TestTextFromMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nbody"), 0o644))

	text, err := TextFromFile(path)

	require.NoError(t, err)
	assert.Contains(t, text, "# Title")
}

func TestTextFromDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	writeDocx(t, path, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := TextFromFile(path)

	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
}

func TestTextFromUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89}, 0o644))

	_, err := TextFromFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestTextFromMissingFile(t *testing.T) {
	_, err := TextFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	entry, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}
