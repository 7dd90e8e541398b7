package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/core/dispatch"
	"github.com/dmitrymomot/mailkit/core/message"
	"github.com/dmitrymomot/mailkit/core/template"
)

var testSender = message.Sender{
	Name:  "Acme Mailer",
	Email: "sender@example.com",
	Host:  "smtp.example.com",
}

type fakeSession struct {
	sent    []*message.Message
	failFor map[string]error
	closed  bool
}

func (s *fakeSession) Send(_ context.Context, msg *message.Message) error {
	if err := s.failFor[msg.To]; err != nil {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeTransport struct {
	session    *fakeSession
	connectErr error
	connects   int
}

func (t *fakeTransport) Connect(_ context.Context) (dispatch.Session, error) {
	t.connects++
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.session, nil
}

func batchTemplate(emails ...string) *template.Template {
	tmpl := template.New("batch")
	tmpl.Subject = "Hi {name}"
	tmpl.Body = "Hello {name}"
	for _, email := range emails {
		tmpl.Recipients = append(tmpl.Recipients, template.Recipient{
			Email: email,
			Args:  map[string]string{"name": "There"},
		})
	}
	return tmpl
}

func drain(t *testing.T, events <-chan dispatch.Progress) []dispatch.Progress {
	t.Helper()

	var collected []dispatch.Progress
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return collected
			}
			collected = append(collected, ev)
		case <-timeout:
			t.Fatal("timed out draining progress events")
		}
	}
}

func TestDispatch_AllSent(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	transport := &fakeTransport{session: session}
	d := dispatch.New(transport, testSender, dispatch.WithSendDelay(0))

	events := drain(t, d.Dispatch(context.Background(), batchTemplate(
		"a@example.com", "b@example.com",
	)))

	require.Len(t, events, 3)
	assert.Equal(t, dispatch.Progress{Status: dispatch.StatusSent, Index: 0, Email: "a@example.com"}, events[0])
	assert.Equal(t, dispatch.Progress{Status: dispatch.StatusSent, Index: 1, Email: "b@example.com"}, events[1])
	assert.Equal(t, dispatch.StatusDone, events[2].Status)

	assert.Len(t, session.sent, 2)
	assert.True(t, session.closed, "session must be closed after the batch")
	assert.Equal(t, 1, transport.connects, "one session per batch")
}

func TestDispatch_MiddleRecipientFails(t *testing.T) {
	t.Parallel()

	// Recipient 1 has an unparsable address: the build fails, the batch
	// continues.
	session := &fakeSession{}
	d := dispatch.New(&fakeTransport{session: session}, testSender, dispatch.WithSendDelay(0))

	events := drain(t, d.Dispatch(context.Background(), batchTemplate(
		"a@example.com", "not an address", "c@example.com",
	)))

	require.Len(t, events, 4, "exactly one event per recipient plus done")
	assert.Equal(t, dispatch.StatusSent, events[0].Status)
	assert.Equal(t, 0, events[0].Index)
	assert.Equal(t, dispatch.StatusFailed, events[1].Status)
	assert.Equal(t, 1, events[1].Index)
	assert.Equal(t, "not an address", events[1].Email)
	assert.NotEmpty(t, events[1].Error)
	assert.Equal(t, dispatch.StatusSent, events[2].Status)
	assert.Equal(t, 2, events[2].Index)
	assert.Equal(t, dispatch.StatusDone, events[3].Status)

	assert.Len(t, session.sent, 2)
}

func TestDispatch_SendFailureIsolated(t *testing.T) {
	t.Parallel()

	session := &fakeSession{
		failFor: map[string]error{"b@example.com": errors.New("550 mailbox unavailable")},
	}
	d := dispatch.New(&fakeTransport{session: session}, testSender, dispatch.WithSendDelay(0))

	events := drain(t, d.Dispatch(context.Background(), batchTemplate(
		"a@example.com", "b@example.com", "c@example.com",
	)))

	require.Len(t, events, 4)
	assert.Equal(t, dispatch.StatusFailed, events[1].Status)
	assert.Contains(t, events[1].Error, "550 mailbox unavailable")
	assert.Equal(t, dispatch.StatusSent, events[2].Status)
}

func TestDispatch_ConnectFailure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{connectErr: errors.New("dial tcp: connection refused")}
	d := dispatch.New(transport, testSender, dispatch.WithSendDelay(0))

	events := drain(t, d.Dispatch(context.Background(), batchTemplate(
		"a@example.com", "b@example.com", "c@example.com",
	)))

	require.Len(t, events, 2, "connect failure yields one failed event plus done")
	assert.Equal(t, dispatch.StatusFailed, events[0].Status)
	assert.Equal(t, 0, events[0].Index)
	assert.Equal(t, "N/A", events[0].Email)
	assert.Contains(t, events[0].Error, "connection refused")
	assert.Equal(t, dispatch.StatusDone, events[1].Status)
}

func TestDispatch_NoDelayAfterLastRecipient(t *testing.T) {
	t.Parallel()

	const delay = 60 * time.Millisecond

	session := &fakeSession{}
	d := dispatch.New(&fakeTransport{session: session}, testSender, dispatch.WithSendDelay(delay))

	start := time.Now()
	events := drain(t, d.Dispatch(context.Background(), batchTemplate(
		"a@example.com", "b@example.com", "c@example.com",
	)))
	elapsed := time.Since(start)

	require.Len(t, events, 4)
	// Three recipients mean two inter-send delays, never three.
	assert.GreaterOrEqual(t, elapsed, 2*delay)
	assert.Less(t, elapsed, 3*delay)
}

func TestDispatch_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	d := dispatch.New(&fakeTransport{session: session}, testSender,
		dispatch.WithSendDelay(20*time.Millisecond))

	tmpl := batchTemplate("a@example.com", "b@example.com")
	events := d.Dispatch(context.Background(), tmpl)

	// Concurrent edits to the live template must not affect the running batch.
	tmpl.Recipients = nil
	tmpl.Subject = "edited {name}"

	collected := drain(t, events)
	require.Len(t, collected, 3)
	assert.Equal(t, "a@example.com", collected[0].Email)
	assert.Equal(t, "b@example.com", collected[1].Email)
}

func TestSendOne(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		session := &fakeSession{}
		transport := &fakeTransport{session: session}
		d := dispatch.New(transport, testSender)

		tmpl := batchTemplate()
		rcpt := template.Recipient{Email: "ada@example.com", Args: map[string]string{"name": "Ada"}}

		require.NoError(t, d.SendOne(context.Background(), tmpl, rcpt))
		require.Len(t, session.sent, 1)
		assert.Equal(t, "Hi Ada", session.sent[0].Subject)
		assert.True(t, session.closed)
	})

	t.Run("connect failure", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New(&fakeTransport{connectErr: errors.New("refused")}, testSender)

		err := d.SendOne(context.Background(), batchTemplate(), template.Recipient{Email: "a@example.com"})
		require.ErrorIs(t, err, dispatch.ErrConnectFailed)
	})

	t.Run("build failure", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New(&fakeTransport{session: &fakeSession{}}, testSender)

		err := d.SendOne(context.Background(), batchTemplate(), template.Recipient{Email: "nope"})
		require.ErrorIs(t, err, message.ErrInvalidAddress)
	})

	t.Run("send failure", func(t *testing.T) {
		t.Parallel()

		session := &fakeSession{failFor: map[string]error{"a@example.com": errors.New("rejected")}}
		d := dispatch.New(&fakeTransport{session: session}, testSender)

		err := d.SendOne(context.Background(), batchTemplate(), template.Recipient{Email: "a@example.com"})
		require.ErrorIs(t, err, dispatch.ErrSendFailed)
	})
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sent", dispatch.StatusSent.String())
	assert.Equal(t, "failed", dispatch.StatusFailed.String())
	assert.Equal(t, "done", dispatch.StatusDone.String())
	assert.Equal(t, "unknown", dispatch.Status(0).String())
}
