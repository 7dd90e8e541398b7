package message

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailkit/core/template"
)

// Sender identifies the sending account: the display name and address used
// for the From and Reply-To headers, and the host embedded in generated
// Message-ID values (normally the SMTP relay host).
type Sender struct {
	Name  string
	Email string
	Host  string
}

// Attachment is a single binary part of a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a fully rendered, ready-to-send email. Bytes serializes it to
// RFC 5322 wire format; transports that speak a structured API (Postmark)
// consume the fields directly.
type Message struct {
	From        string
	ReplyTo     string
	To          string
	Subject     string
	MessageID   string
	Date        time.Time
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// fallbackFilename names attachment parts whose path has no usable final
// segment.
const fallbackFilename = "attachment"

// Build renders the template for one recipient and assembles a complete
// message: validated envelope, unique Message-ID, HTML body with the document
// shell, plain-text fallback, and one binary part per readable attachment.
//
// Attachment files are read at build time, once per recipient. A missing or
// unreadable file is skipped without error; the message is delivered without
// that part. This is the accepted trade-off for long-running batches where an
// operator may touch attachment files mid-send.
func Build(sender Sender, tmpl *template.Template, rcpt template.Recipient) (*Message, error) {
	from := fmt.Sprintf("%s <%s>", sender.Name, sender.Email)
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", ErrInvalidAddress, from, err)
	}
	if _, err := mail.ParseAddress(sender.Email); err != nil {
		return nil, fmt.Errorf("%w: reply-to %q: %v", ErrInvalidAddress, sender.Email, err)
	}
	if _, err := mail.ParseAddress(rcpt.Email); err != nil {
		return nil, fmt.Errorf("%w: to %q: %v", ErrInvalidAddress, rcpt.Email, err)
	}

	body := tmpl.RenderBody(rcpt)

	msg := &Message{
		From:      from,
		ReplyTo:   sender.Email,
		To:        rcpt.Email,
		Subject:   tmpl.RenderSubject(rcpt),
		MessageID: newMessageID(sender.Host),
		Date:      time.Now(),
		HTMLBody:  wrapHTML(body),
		TextBody:  StripTags(body),
	}

	for _, path := range tmpl.AttachmentPaths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    attachmentFilename(path),
			ContentType: "application/octet-stream",
			Content:     content,
		})
	}

	return msg, nil
}

// newMessageID generates a globally unique Message-ID of the form
// <uuid.timestamp@host>. Spam filters treat messages without one with
// suspicion, and it must differ per message, not per template.
func newMessageID(host string) string {
	return fmt.Sprintf("<%s.%d@%s>", uuid.NewString(), time.Now().Unix(), host)
}

// attachmentFilename derives the display name from the path's final segment.
func attachmentFilename(path string) string {
	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fallbackFilename
	}
	return base
}

// Bytes serializes the message to RFC 5322 wire format. Text bodies are
// quoted-printable encoded, attachments base64 encoded. Without attachments
// the body is exactly a multipart/alternative; with attachments the
// alternative is nested inside a multipart/mixed.
func (m *Message) Bytes() []byte {
	var buf bytes.Buffer

	writeHeader(&buf, "From", m.From)
	writeHeader(&buf, "Reply-To", m.ReplyTo)
	writeHeader(&buf, "To", m.To)
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	writeHeader(&buf, "Message-ID", m.MessageID)
	writeHeader(&buf, "Date", m.Date.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")

	altBoundary, altBody := m.alternativeBody()

	if len(m.Attachments) == 0 {
		writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", altBoundary))
		buf.WriteString("\r\n")
		buf.Write(altBody)
		return buf.Bytes()
	}

	mixed := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mixed.Boundary()))
	buf.WriteString("\r\n")

	altHeader := textproto.MIMEHeader{}
	altHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", altBoundary))
	part, _ := mixed.CreatePart(altHeader)
	_, _ = part.Write(altBody)

	for _, a := range m.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", a.ContentType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		part, _ := mixed.CreatePart(header)
		writeBase64(part, a.Content)
	}

	_ = mixed.Close()
	return buf.Bytes()
}

// alternativeBody renders the plain+HTML multipart/alternative section and
// returns its boundary together with the encoded bytes.
func (m *Message) alternativeBody() (boundary string, body []byte) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	plainHeader := textproto.MIMEHeader{}
	plainHeader.Set("Content-Type", `text/plain; charset="UTF-8"`)
	plainHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	part, _ := w.CreatePart(plainHeader)
	writeQuotedPrintable(part, m.TextBody)

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
	htmlHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	part, _ = w.CreatePart(htmlHeader)
	writeQuotedPrintable(part, m.HTMLBody)

	_ = w.Close()
	return w.Boundary(), buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeQuotedPrintable(w io.Writer, s string) {
	qp := quotedprintable.NewWriter(w)
	_, _ = qp.Write([]byte(s))
	_ = qp.Close()
}

// writeBase64 emits base64 content wrapped at the 76-column MIME line limit.
func writeBase64(w io.Writer, content []byte) {
	encoded := base64.StdEncoding.EncodeToString(content)
	const lineLen = 76
	for len(encoded) > 0 {
		n := min(lineLen, len(encoded))
		_, _ = io.WriteString(w, encoded[:n])
		_, _ = io.WriteString(w, "\r\n")
		encoded = encoded[n:]
	}
}
