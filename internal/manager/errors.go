package manager

import (
	"errors"
	"fmt"
)

// Codes carried by rejections. They are part of the bridge contract.
const (
	CodeClearAllCookies      = "CLEAR_ALL_COOKIES_ERROR"
	CodeRemoveSessionCookies = "REMOVE_SESSION_COOKIES_ERROR"
)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrInvalidCookie = errors.New("invalid cookie")
	ErrPanic         = errors.New("cookie store panicked")
)

// Error is a rejection of a bulk operation on the shared store.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func reject(code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}
