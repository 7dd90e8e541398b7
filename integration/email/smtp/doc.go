// Package smtp provides an SMTP implementation of the dispatch.Transport
// interface.
//
// The client supports implicit TLS (port 465, the relay submission
// convention and the default), STARTTLS upgrade (port 587), and plain
// connections for development. Connect authenticates once and returns a
// session that is reused for every recipient of a bulk send; a rejected
// recipient resets the session without tearing it down.
//
// Basic usage:
//
//	cfg := smtp.Config{
//		Host:     "smtp.example.com",
//		Port:     465,
//		Username: "sender@example.com",
//		Password: "app-password",
//		TLSMode:  "tls",
//		FromName: "Example Team",
//	}
//
//	transport, err := smtp.New(cfg)
//	if err != nil {
//		// Handle configuration error
//	}
//
//	dispatcher := dispatch.New(transport, transport.Sender())
//	events := dispatcher.Dispatch(ctx, tmpl)
//
// Configuration is validated in New so malformed credentials surface at
// startup rather than mid-batch.
package smtp
