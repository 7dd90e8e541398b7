// Package dispatch coordinates bulk email delivery.
//
// A Dispatcher iterates the recipients of a template snapshot sequentially,
// building and sending one message per recipient over a single shared
// transport session, throttling between sends, and reporting every outcome
// on an ordered progress channel. One recipient's failure never aborts the
// batch; only session establishment failure does.
//
// # Progress stream
//
// Dispatch spawns a worker goroutine and returns a buffered channel the
// caller drains at its own pace:
//
//	events := dispatcher.Dispatch(ctx, tmpl)
//	for ev := range events {
//		switch ev.Status {
//		case dispatch.StatusSent:
//			fmt.Printf("sent %d %s\n", ev.Index, ev.Email)
//		case dispatch.StatusFailed:
//			fmt.Printf("failed %d %s: %s\n", ev.Index, ev.Email, ev.Error)
//		case dispatch.StatusDone:
//			fmt.Println("batch complete")
//		}
//	}
//
// Events are emitted in strictly increasing recipient-index order with
// exactly one terminal StatusDone, after which the channel is closed. The
// stream is the only communication back to the caller; the worker shares no
// mutable state with it.
//
// # Cancellation
//
// A started batch runs to completion. The context bounds individual
// transport operations, but there is no mid-batch cancellation: abandoning
// the channel leaves the worker to finish on its own, which avoids tearing
// down the SMTP session in a half-written protocol state.
//
// # Transports
//
// Delivery is abstracted behind the Transport and Session interfaces;
// integration/email/smtp and integration/email/postmark provide
// implementations.
package dispatch
