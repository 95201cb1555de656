package prompts

import "errors"

// Sentinel error kinds. Use errors.Is to classify an error returned by Store.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidFolder   = errors.New("invalid folder")
	ErrDuplicateFolder = errors.New("duplicate folder")
	ErrInvalidVote     = errors.New("invalid vote type")
)

// Error is a client-facing store error. Message is safe to show to callers.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	errPromptRequired = newError(ErrValidation, "Title and body are required")
	errFolderRequired = newError(ErrValidation, "Folder name is required")
	errInvalidFolder  = newError(ErrInvalidFolder, "Invalid folder_id")
	errDuplicateName  = newError(ErrDuplicateFolder, "Folder name already exists")
	errInvalidVote    = newError(ErrInvalidVote, `vote_type must be "up" or "down"`)
)

// Message returns the client-facing message carried by err, or fallback
// when err is not a store Error.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
