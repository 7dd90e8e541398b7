// Package postmark provides a Postmark-backed implementation of the
// dispatch.Transport interface.
//
// It is a drop-in alternative to the SMTP transport for deployments that
// relay through Postmark's transactional API: the dispatcher, message
// builder, and progress semantics are identical, only delivery differs.
// Because the API is stateless, session establishment cannot fail the way an
// SMTP connection can; per-message API errors surface as per-recipient
// failures.
package postmark
