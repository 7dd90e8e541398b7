// Package message assembles MIME email messages from rendered templates.
//
// Build performs the full per-recipient assembly: it renders the subject and
// body through core/template, validates the From, Reply-To, and To addresses,
// stamps a unique Message-ID, derives an HTML variant (newlines become <br>,
// wrapped in a minimal styled document) and a plain-text variant (markup
// stripped), and attaches the raw bytes of each readable attachment file.
//
// The resulting Message serializes to RFC 5322 wire format via Bytes:
// a multipart/alternative carrying the plain and HTML bodies, nested in a
// multipart/mixed when attachments are present. Transports with structured
// APIs can instead read the Message fields directly.
//
// Address validation failures are reported as ErrInvalidAddress naming the
// offending field; they abort only the message being built, never the batch.
package message
