package research

import (
	"fmt"
	"strings"
)

const maxRenderedAbstract = 500

// RenderAcademic formats parsed paper records as the markdown block that goes
// into the evidence log and the accumulated narrative.
func RenderAcademic(items []ResultItem) string {
	var b strings.Builder
	b.WriteString("## Academic Sources\n\n")

	if len(items) == 0 {
		b.WriteString("*No academic papers found for this query.*\n\n")
		return b.String()
	}

	for i, item := range items {
		fmt.Fprintf(&b, "### %d. [%s](%s)\n\n", i+1, item.Title, item.URL)
		if item.Authors != "" {
			fmt.Fprintf(&b, "**Authors:** %s\n\n", item.Authors)
		}
		if item.Published != "" {
			fmt.Fprintf(&b, "**Published:** %s\n\n", item.Published)
		}
		abstract := item.Snippet
		if runes := []rune(abstract); len(runes) > maxRenderedAbstract {
			abstract = string(runes[:maxRenderedAbstract]) + "..."
		}
		fmt.Fprintf(&b, "**Abstract:**\n%s\n\n", abstract)
		b.WriteString("---\n\n")
	}

	return b.String()
}

// RenderVideo formats parsed video records for the evidence log.
func RenderVideo(items []ResultItem) string {
	var b strings.Builder
	b.WriteString("## Related Videos\n\n")

	if len(items) == 0 {
		b.WriteString("*No relevant videos found for this query.*\n\n")
		return b.String()
	}

	for _, item := range items {
		fmt.Fprintf(&b, "### [%s](https://www.youtube.com/watch?v=%s)\n\n", item.Title, videoID(item.URL))
		if item.Snippet != "" {
			b.WriteString(item.Snippet + "\n\n")
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// videoID pulls the watch id out of a YouTube URL, tolerating extra query
// parameters after it.
func videoID(url string) string {
	id := url
	if i := strings.LastIndex(id, "v="); i >= 0 {
		id = id[i+2:]
	}
	if i := strings.Index(id, "&"); i >= 0 {
		id = id[:i]
	}
	return id
}
