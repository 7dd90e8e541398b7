package postmark

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/mailkit/core/dispatch"
	"github.com/dmitrymomot/mailkit/core/message"
)

// Client implements dispatch.Transport over Postmark's transactional API.
// The API is stateless, so sessions carry no connection: Connect only
// validates that the account is usable.
type Client struct {
	client *postmark.Client
	config Config
}

var _ dispatch.Transport = (*Client)(nil)

// New creates a Postmark transport, validating credentials and sender
// identity up front.
func New(cfg Config) (*Client, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", dispatch.ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", dispatch.ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", dispatch.ErrInvalidConfig)
	}
	if cfg.FromName == "" {
		return nil, fmt.Errorf("%w: FromName is required", dispatch.ErrInvalidConfig)
	}

	return &Client{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNew creates a Postmark transport that panics on invalid config.
func MustNew(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Sender returns the envelope identity. The Message-ID host is the sender
// address domain, since there is no relay host to borrow.
func (c *Client) Sender() message.Sender {
	host := c.config.SenderEmail
	if _, domain, ok := strings.Cut(c.config.SenderEmail, "@"); ok {
		host = domain
	}
	return message.Sender{
		Name:  c.config.FromName,
		Email: c.config.SenderEmail,
		Host:  host,
	}
}

// Connect returns a stateless session bound to this client.
func (c *Client) Connect(_ context.Context) (dispatch.Session, error) {
	return &session{client: c.client}, nil
}

type session struct {
	client *postmark.Client
}

// Send maps the built message onto Postmark's Email payload and submits it.
// The generated Message-ID travels as a custom header so anti-spam hygiene
// matches the SMTP transport.
func (s *session) Send(ctx context.Context, msg *message.Message) error {
	email := postmark.Email{
		From:     msg.From,
		ReplyTo:  msg.ReplyTo,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
		Headers: []postmark.Header{
			{Name: "Message-ID", Value: msg.MessageID},
		},
	}
	for _, a := range msg.Attachments {
		email.Attachments = append(email.Attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	resp, err := s.client.SendEmail(ctx, email)
	if err != nil {
		return errors.Join(dispatch.ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			dispatch.ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

// Close is a no-op; the API holds no connection state.
func (s *session) Close() error {
	return nil
}

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail checks if the provided string is a valid email address.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
