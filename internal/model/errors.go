package model

import (
	"errors"
	"fmt"
)

// Server and client error identifiers carried in an Error envelope.
const (
	ErrNotSignedIn    = 1
	ErrUnauthorized   = 2
	ErrInvalidRequest = 3
	ErrUserExists     = 4
	ErrRequestFailed  = 5
	ErrImport         = 6
	ErrInUse          = 7
	ErrInternal       = 999
)

var errorStrings = map[int]string{
	ErrNotSignedIn:    "Not Signed In",
	ErrUnauthorized:   "Unauthorized Access",
	ErrInvalidRequest: "Invalid Request",
	ErrUserExists:     "User Exists",
	ErrImport:         "Import Error",
	ErrInUse:          "In Use Error",
	ErrInternal:       "Internal Error",
}

// Error is the envelope every server response may carry in place of a result.
type Error struct {
	ErrorId     int
	ErrorString string
}

// NewError builds an Error with the standard text for id.
func NewError(id int) *Error {
	s, ok := errorStrings[id]
	if !ok {
		s = errorStrings[ErrInternal]
	}
	return &Error{ErrorId: id, ErrorString: s}
}

// RequestFailed wraps a transport failure.
func RequestFailed(cause error) *Error {
	return &Error{ErrorId: ErrRequestFailed, ErrorString: "Request Failed: " + cause.Error()}
}

// ClientError reports a failure that happened locally while handling a response.
func ClientError(format string, args ...any) *Error {
	return &Error{ErrorId: ErrInternal, ErrorString: "Client Error: " + fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.ErrorString
}

// IsError reports whether the envelope describes a failure.
func (e *Error) IsError() bool {
	return e != nil && e.ErrorId > 0
}

// HasErrorID reports whether err is, or wraps, an Error with the given id.
func HasErrorID(err error, id int) bool {
	var e *Error
	return errors.As(err, &e) && e.ErrorId == id
}

// UnmarshalJSON treats a missing ErrorId as "no error".
func (e *Error) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}
	out := Error{ErrorId: -1}
	if err := f.getAll(map[string]any{"ErrorId": &out.ErrorId, "ErrorString": &out.ErrorString}); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}
	*e = out
	return nil
}

// IsNotSignedIn reports whether err means there is no session. Callers
// resuming a session treat it as a normal outcome.
func IsNotSignedIn(err error) bool {
	return HasErrorID(err, ErrNotSignedIn)
}

// RemapInvalidRequest replaces the text of an Invalid Request error with a
// message that fits the operation that failed. Other errors pass through.
func RemapInvalidRequest(err error, friendly string) error {
	var e *Error
	if !errors.As(err, &e) || e.ErrorId != ErrInvalidRequest {
		return err
	}
	return &Error{ErrorId: ErrInvalidRequest, ErrorString: friendly}
}

// Messages used when remapping Invalid Request errors.
const (
	OFXFileImportHint     = "Please check that the file you uploaded is a valid OFX file for this account and try again."
	OFXDownloadImportHint = "Please check that your password and all other OFX login credentials are correct."
)
