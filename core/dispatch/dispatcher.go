package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/mailkit/core/logger"
	"github.com/dmitrymomot/mailkit/core/message"
	"github.com/dmitrymomot/mailkit/core/template"
)

// Transport establishes authenticated delivery sessions. Connection failure
// is fatal to a batch: no recipients are attempted without a session.
type Transport interface {
	Connect(ctx context.Context) (Session, error)
}

// Session delivers individual messages over an established transport session.
// One session is reused for every recipient of a batch; implementations must
// survive a rejected recipient and stay usable for the next one.
type Session interface {
	Send(ctx context.Context, msg *message.Message) error
	Close() error
}

// Dispatcher runs bulk sends: one template snapshot, all its recipients,
// delivered sequentially over a single transport session with a throttle
// delay between sends and an ordered progress event stream back to the
// caller. A per-recipient failure never aborts the batch.
type Dispatcher struct {
	transport  Transport
	sender     message.Sender
	sendDelay  time.Duration
	bufferSize int
	logger     *slog.Logger
}

// New creates a Dispatcher delivering via the given transport on behalf of
// the given sender identity.
func New(transport Transport, sender message.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport:  transport,
		sender:     sender,
		sendDelay:  DefaultSendDelay,
		bufferSize: DefaultBufferSize,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts a bulk send over all recipients of tmpl and returns the
// progress stream. The template is snapshotted before the worker starts, so
// edits to tmpl during the send do not affect in-flight delivery.
//
// Events arrive in strictly increasing recipient-index order, one per
// recipient, followed by exactly one StatusDone event; the channel is closed
// after Done. If the transport session cannot be established, the stream is
// exactly one StatusFailed (index 0, email "N/A") followed by Done, and no
// recipients are attempted.
//
// The batch runs to completion once started; ctx bounds individual transport
// operations but does not cancel the loop.
func (d *Dispatcher) Dispatch(ctx context.Context, tmpl *template.Template) <-chan Progress {
	snapshot := tmpl.Clone()
	events := make(chan Progress, d.bufferSize)
	go d.run(ctx, snapshot, events)
	return events
}

func (d *Dispatcher) run(ctx context.Context, tmpl *template.Template, events chan<- Progress) {
	defer close(events)

	log := d.logger.With(logger.Component("dispatch"), slog.String("template_id", tmpl.ID))
	start := time.Now()

	session, err := d.transport.Connect(ctx)
	if err != nil {
		log.ErrorContext(ctx, "transport session failed, batch aborted", logger.Error(err))
		events <- Progress{
			Status: StatusFailed,
			Index:  0,
			Email:  "N/A",
			Error:  fmt.Sprintf("failed to create transport: %v", err),
		}
		events <- Progress{Status: StatusDone}
		return
	}
	defer func() { _ = session.Close() }()

	d.checkAttachments(ctx, log, tmpl)

	for i, rcpt := range tmpl.Recipients {
		events <- d.deliver(ctx, log, session, tmpl, i, rcpt)

		if i < len(tmpl.Recipients)-1 && d.sendDelay > 0 {
			time.Sleep(d.sendDelay)
		}
	}

	log.InfoContext(ctx, "batch finished",
		slog.Int("recipients", len(tmpl.Recipients)),
		logger.Duration(time.Since(start)))
	events <- Progress{Status: StatusDone}
}

// deliver builds and sends the message for one recipient, converting any
// failure into a StatusFailed event rather than an error.
func (d *Dispatcher) deliver(ctx context.Context, log *slog.Logger, session Session, tmpl *template.Template, index int, rcpt template.Recipient) Progress {
	msg, err := message.Build(d.sender, tmpl, rcpt)
	if err == nil {
		err = session.Send(ctx, msg)
	}
	if err != nil {
		log.WarnContext(ctx, "recipient failed",
			slog.Int("index", index),
			slog.String("email", rcpt.Email),
			logger.Error(err))
		return Progress{Status: StatusFailed, Index: index, Email: rcpt.Email, Error: err.Error()}
	}

	log.InfoContext(ctx, "recipient sent",
		slog.Int("index", index),
		slog.String("email", rcpt.Email))
	return Progress{Status: StatusSent, Index: index, Email: rcpt.Email}
}

// checkAttachments logs a warning for attachment paths that are not readable
// at batch start. Missing files are still skipped silently per message; this
// gives the operator one early signal instead of N silent omissions.
func (d *Dispatcher) checkAttachments(ctx context.Context, log *slog.Logger, tmpl *template.Template) {
	for _, path := range tmpl.AttachmentPaths {
		if _, err := os.Stat(path); err != nil {
			log.WarnContext(ctx, "attachment not readable, parts will be omitted",
				slog.String("path", path),
				logger.Error(err))
		}
	}
}

// SendOne delivers the template to a single recipient synchronously,
// bypassing the progress stream. It opens a fresh session, sends, and closes;
// it shares the build and transport logic with bulk dispatch but not the
// state machine.
func (d *Dispatcher) SendOne(ctx context.Context, tmpl *template.Template, rcpt template.Recipient) error {
	session, err := d.transport.Connect(ctx)
	if err != nil {
		return errors.Join(ErrConnectFailed, err)
	}
	defer func() { _ = session.Close() }()

	msg, err := message.Build(d.sender, tmpl, rcpt)
	if err != nil {
		return err
	}
	if err := session.Send(ctx, msg); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
