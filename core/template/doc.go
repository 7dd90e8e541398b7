// Package template defines the email template model and its placeholder
// rendering rules.
//
// A template holds a subject and body containing {key} tokens, an ordered
// attachment list, and the recipients of one bulk send. Each recipient
// carries its own substitution map, so the same template renders differently
// per recipient:
//
//	tmpl := template.New("welcome")
//	tmpl.Subject = "Hi {name}"
//	tmpl.Body = "Welcome aboard, {name}!"
//
//	rendered := tmpl.RenderSubject(template.Recipient{
//		Email: "ada@example.com",
//		Args:  map[string]string{"name": "Ada"},
//	})
//	// rendered == "Hi Ada"
//
// Rendering is a single pass over the original text: values are never
// re-expanded, so recipient-supplied values containing brace tokens cannot
// trigger recursive substitution. Unknown placeholders stay verbatim in the
// output, which makes missing argument keys visible in the delivered mail
// rather than failing the send.
//
// Placeholders reports the distinct keys used by a template in first-seen
// order, which editors use to prefill recipient argument maps.
package template
