package message

import "errors"

// Error variables for message construction failures. Wrap with errors.Join()
// or fmt.Errorf("%w: ...") to attach field-level context.
var (
	ErrInvalidAddress = errors.New("invalid mail address")
	ErrBuildFailed    = errors.New("failed to build message")
)
