package template

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Recipient is a single delivery target with its placeholder substitutions.
// Args maps placeholder names (without braces) to the values injected into
// the template's subject and body for this recipient.
type Recipient struct {
	Email string            `json:"email"`
	Args  map[string]string `json:"args"`
}

// Template is a reusable email blueprint: a subject and an HTML-ish body that
// may contain {key} placeholder tokens, plus the attachments and recipient
// list for one bulk send. The ID is assigned at creation and never changes.
type Template struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Subject         string      `json:"subject"`
	Body            string      `json:"body"`
	AttachmentPaths []string    `json:"attachment_paths"`
	Recipients      []Recipient `json:"recipients"`
}

// New creates an empty template with a fresh unique ID.
func New(name string) *Template {
	return &Template{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// Render replaces every {key} token whose key is present in args with the
// corresponding value. The scan is a single left-to-right pass over the
// original text: substituted values are never re-scanned, so a value that
// itself contains {other_key} passes through verbatim. Placeholders without
// a matching key are left untouched.
func Render(text string, args map[string]string) string {
	if len(args) == 0 || !strings.Contains(text, "{") {
		return text
	}

	pairs := make([]string, 0, len(args)*2)
	for key, value := range args {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// RenderSubject renders the template subject for the given recipient.
func (t *Template) RenderSubject(r Recipient) string {
	return Render(t.Subject, r.Args)
}

// RenderBody renders the template body for the given recipient.
func (t *Template) RenderBody(r Recipient) string {
	return Render(t.Body, r.Args)
}

// Placeholders returns the distinct placeholder keys found in the subject and
// body, in first-occurrence order (subject scanned before body). Empty {}
// spans are skipped. An unterminated brace consumes the rest of the input and
// yields no key; this mirrors the renderer's tolerance for stray braces.
func (t *Template) Placeholders() []string {
	combined := t.Subject + " " + t.Body

	var keys []string
	seen := make(map[string]struct{})

	for i := 0; i < len(combined); i++ {
		if combined[i] != '{' {
			continue
		}
		end := strings.IndexByte(combined[i+1:], '}')
		if end < 0 {
			break
		}
		key := combined[i+1 : i+1+end]
		i += end + 1

		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Clone returns a deep copy of the template. The dispatcher snapshots a
// template via Clone before a bulk send so concurrent edits to the live
// record cannot affect in-flight delivery.
func (t *Template) Clone() *Template {
	clone := &Template{
		ID:              t.ID,
		Name:            t.Name,
		Subject:         t.Subject,
		Body:            t.Body,
		AttachmentPaths: slices.Clone(t.AttachmentPaths),
	}
	if t.Recipients != nil {
		clone.Recipients = make([]Recipient, len(t.Recipients))
		for i, r := range t.Recipients {
			clone.Recipients[i] = Recipient{
				Email: r.Email,
				Args:  maps.Clone(r.Args),
			}
		}
	}
	return clone
}
