package service

import "errors"

// Engine error taxonomy. All of these are recoverable, caller-handled
// failures; none should ever crash a session.
var (
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("admin access required")
	ErrInvalidImport      = errors.New("import payload is malformed")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnknownContent     = errors.New("unknown lesson, section or module")
)
