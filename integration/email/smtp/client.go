package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"regexp"
	"strconv"

	"github.com/dmitrymomot/mailkit/core/dispatch"
	"github.com/dmitrymomot/mailkit/core/message"
)

// Client implements dispatch.Transport over standard SMTP. A single Client
// is safe for concurrent use; each Connect call yields an independent
// session.
type Client struct {
	config Config
	auth   smtp.Auth
}

var _ dispatch.Transport = (*Client)(nil)

// New creates an SMTP transport, validating the full configuration up front.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", dispatch.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", dispatch.ErrInvalidConfig)
	}
	if cfg.Username == "" || !isValidEmail(cfg.Username) {
		return nil, fmt.Errorf("%w: Username must be a valid email address", dispatch.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", dispatch.ErrInvalidConfig)
	}
	if cfg.TLSMode != "tls" && cfg.TLSMode != "starttls" && cfg.TLSMode != "plain" {
		return nil, fmt.Errorf("%w: TLSMode must be tls, starttls, or plain", dispatch.ErrInvalidConfig)
	}
	if cfg.FromName == "" {
		return nil, fmt.Errorf("%w: FromName is required", dispatch.ErrInvalidConfig)
	}

	return &Client{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}, nil
}

// MustNew creates an SMTP transport that panics on invalid config, failing
// fast during initialization rather than allowing a broken service to start.
func MustNew(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Sender returns the envelope identity derived from the configuration:
// display name, sending address, and the relay host used in Message-ID
// generation.
func (c *Client) Sender() message.Sender {
	return message.Sender{
		Name:  c.config.FromName,
		Email: c.config.Username,
		Host:  c.config.Host,
	}
}

// Connect dials the relay per the configured TLS mode and authenticates.
// The returned session is reused for every message of a batch; reconnecting
// per recipient wastes round trips and risks provider rate limits.
func (c *Client) Connect(ctx context.Context) (dispatch.Session, error) {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	var (
		client *smtp.Client
		err    error
	)
	switch c.config.TLSMode {
	case "tls":
		client, err = c.dialTLS(ctx, addr)
	case "starttls":
		client, err = c.dialSTARTTLS(ctx, addr)
	case "plain":
		client, err = c.dialPlain(ctx, addr)
	}
	if err != nil {
		return nil, errors.Join(dispatch.ErrConnectFailed, err)
	}

	if err := client.Auth(c.auth); err != nil {
		_ = client.Close()
		return nil, errors.Join(dispatch.ErrConnectFailed, fmt.Errorf("authentication failed: %w", err))
	}

	return &Session{client: client}, nil
}

// dialTLS opens a direct TLS connection (implicit TLS, port 465).
func (c *Client) dialTLS(ctx context.Context, addr string) (*smtp.Client, error) {
	dialer := tls.Dialer{Config: &tls.Config{ServerName: c.config.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server with TLS: %w", err)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// dialSTARTTLS opens a plain connection and upgrades it (port 587).
func (c *Client) dialSTARTTLS(ctx context.Context, addr string) (*smtp.Client, error) {
	client, err := c.dialPlain(ctx, addr)
	if err != nil {
		return nil, err
	}

	if err := client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}
	return client, nil
}

// dialPlain opens an unencrypted connection (development only).
func (c *Client) dialPlain(ctx context.Context, addr string) (*smtp.Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// Session is one authenticated SMTP connection, good for any number of
// sequential messages.
type Session struct {
	client *smtp.Client
}

var _ dispatch.Session = (*Session)(nil)

// Send runs one MAIL/RCPT/DATA transaction. On failure the session is RSET
// so it stays usable for the next recipient of the batch.
func (s *Session) Send(ctx context.Context, msg *message.Message) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(dispatch.ErrSendFailed, err)
	}

	if err := s.transact(msg); err != nil {
		_ = s.client.Reset()
		return errors.Join(dispatch.ErrSendFailed, err)
	}
	return nil
}

func (s *Session) transact(msg *message.Message) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	if err := s.client.Mail(from.Address); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := s.client.Rcpt(to.Address); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := writer.Write(msg.Bytes()); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}

// Close quits the session. Quit errors are tolerated: some servers drop the
// connection immediately after the final DATA, and the messages are already
// accepted at that point.
func (s *Session) Close() error {
	if err := s.client.Quit(); err != nil {
		_ = s.client.Close()
	}
	return nil
}

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail checks if the provided string is a valid email address.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
