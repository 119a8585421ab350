package research

import "strings"

// ContinuationMarker is the literal the reflection service embeds in its
// commentary when it wants another evidence-gathering pass. Absence of the
// marker means no further research is needed.
const ContinuationMarker = "FURTHER_RESEARCH_NEEDED: Yes"

// ParseContinuation reports whether the reflection commentary asks for more
// evidence.
func ParseContinuation(commentary string) bool {
	return strings.Contains(commentary, ContinuationMarker)
}

// ParseAcademicResults extracts paper records from academic search output.
// Records are blank-line-delimited blocks of "Title:", "URL:", "Authors:",
// "Published:" and "Abstract:" lines. A record is kept only if it carries all
// of title, URL and abstract; partial or malformed records are dropped.
func ParseAcademicResults(raw string) []ResultItem {
	var items []ResultItem

	for _, section := range strings.Split(raw, "\n\n") {
		section = strings.TrimSpace(section)
		if !strings.HasPrefix(section, "Title:") {
			continue
		}

		var item ResultItem
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "Title:"):
				item.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
			case strings.HasPrefix(line, "URL:"):
				item.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
			case strings.HasPrefix(line, "Authors:"):
				item.Authors = strings.TrimSpace(strings.TrimPrefix(line, "Authors:"))
			case strings.HasPrefix(line, "Published:"):
				item.Published = strings.TrimSpace(strings.TrimPrefix(line, "Published:"))
			case strings.HasPrefix(line, "Abstract:"):
				item.Snippet = strings.TrimSpace(strings.TrimPrefix(line, "Abstract:"))
			}
		}

		if item.Title != "" && item.URL != "" && item.Snippet != "" {
			items = append(items, item)
		}
	}

	return items
}

// ParseVideoResults extracts video records from video search output. Records
// are groups of "Title:", "URL:" and "Description:" lines separated by blank
// lines; a record is kept if it has both title and URL.
func ParseVideoResults(raw string) []ResultItem {
	var items []ResultItem
	var item ResultItem

	flush := func() {
		if item.Title != "" && item.URL != "" {
			items = append(items, item)
		}
		item = ResultItem{}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "Title:"):
			item.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "URL:"):
			item.URL = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
		case strings.HasPrefix(line, "Description:"):
			item.Snippet = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}
	flush()

	return items
}
