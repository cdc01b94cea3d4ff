// Package sources re-extracts search-grounding citations from the literal
// "**Sources:**" block that round-trips through plain-text model output.
package sources

import (
	"regexp"
	"strings"
)

// Source is one extracted citation.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

const blockMarker = "**Sources:**"

var (
	lineRe     = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)
	titleURLRe = regexp.MustCompile(`^(.+?):\s+(https?://\S+)\s*$`)
	urlRe      = regexp.MustCompile(`https?://\S+`)
)

// Extract splits a trailing sources block from text. Each block line is
// expected as "[n] title: url"; lines without a colon-delimited title fall
// back to the first URL token with the remainder as title. Lines with no
// URL are dropped. The returned text has the entire block removed. A
// marker that yields no sources is not a block; the text comes back
// unchanged then.
func Extract(text string) (string, []Source) {
	idx := strings.LastIndex(text, blockMarker)
	if idx < 0 {
		return text, nil
	}

	cleaned := strings.TrimSpace(text[:idx])
	block := text[idx+len(blockMarker):]

	var out []Source
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rest := strings.TrimSpace(m[2])

		if tm := titleURLRe.FindStringSubmatch(rest); tm != nil {
			out = append(out, Source{
				Title: strings.TrimSpace(tm[1]),
				URL:   tm[2],
			})
			continue
		}

		url := urlRe.FindString(rest)
		if url == "" {
			continue
		}
		title := strings.TrimSpace(strings.Replace(rest, url, "", 1))
		title = strings.TrimSuffix(strings.TrimSpace(title), ":")
		out = append(out, Source{Title: strings.TrimSpace(title), URL: url})
	}

	if len(out) == 0 {
		return text, nil
	}
	return cleaned, out
}
