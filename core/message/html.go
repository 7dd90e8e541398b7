package message

import "strings"

// htmlShell wraps body markup in a minimal document with a fixed font style
// so the mail renders consistently across clients.
const (
	htmlShellOpen = `<!DOCTYPE html><html><head><meta charset="UTF-8"></head>` +
		`<body style="font-family: Arial, sans-serif; font-size: 14px; color: #222;">`
	htmlShellClose = `</body></html>`
)

// wrapHTML converts literal newlines to <br> and wraps the result in the
// document shell. Markup already present in the body (bold, italic, links)
// passes through untouched.
func wrapHTML(body string) string {
	return htmlShellOpen + strings.ReplaceAll(body, "\n", "<br>") + htmlShellClose
}

// StripTags produces a plain-text rendition of HTML-ish markup by dropping
// everything between '<' and the next '>'. An unterminated '<' consumes the
// rest of the input. Entities are not decoded; this is a fallback body for
// text-only clients, not a full HTML-to-text conversion.
func StripTags(html string) string {
	var b strings.Builder
	b.Grow(len(html))

	insideTag := false
	for _, c := range html {
		switch {
		case c == '<':
			insideTag = true
		case c == '>':
			insideTag = false
		case !insideTag:
			b.WriteRune(c)
		}
	}
	return b.String()
}
