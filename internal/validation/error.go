package validation

import "fmt"

// Error marks user-input problems so the transport layer can map them
// to a 400 instead of a 500.
type Error string

func (e Error) Error() string { return string(e) }

func Errorf(format string, args ...any) Error {
	return Error(fmt.Sprintf(format, args...))
}
