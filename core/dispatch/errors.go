package dispatch

import "errors"

// Error variables define transport-level failures. Session establishment
// failure (ErrConnectFailed) is fatal to a whole batch; send failure
// (ErrSendFailed) aborts only the recipient being delivered.
var (
	ErrInvalidConfig = errors.New("invalid transport configuration")
	ErrConnectFailed = errors.New("failed to establish transport session")
	ErrSendFailed    = errors.New("failed to send email")
)
