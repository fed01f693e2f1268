package writer

import (
	"fmt"
	"strings"
)

// Classification buckets a transport failure by what the batch should do
// about it.
type Classification int

const (
	ClassUnexpected Classification = iota
	ClassFatalAuth
	ClassRecoverableWarning
	ClassFatalPermission
	ClassUserConfig
	ClassTransient
)

func (c Classification) String() string {
	switch c {
	case ClassFatalAuth:
		return "fatal-auth"
	case ClassRecoverableWarning:
		return "recoverable-permission-warning"
	case ClassFatalPermission:
		return "fatal-permission"
	case ClassUserConfig:
		return "user-config-error"
	case ClassTransient:
		return "transient-service-error"
	}

	return "unexpected"
}

// Classify maps an HTTP status code and (for 403s) the service's reason
// phrase to a Classification. It is a pure function of the pair - retry
// policy for transient errors lives in the transport client, not here.
func Classify(status int, reason string) Classification {
	switch {
	case status == 401:
		return ClassFatalAuth

	case status == 403:
		if strings.Contains(strings.ToLower(reason), "forbidden") {
			return ClassRecoverableWarning
		}
		return ClassFatalPermission

	case status == 400:
		return ClassUserConfig

	case status >= 500 && status <= 599:
		return ClassTransient
	}

	return ClassUnexpected
}

// TransportError is the only view the engine has of a failed remote call -
// an HTTP-ish status code and the reason phrase reported by the service.
type TransportError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote service error %v (%s): %s", e.StatusCode, e.Reason, e.Message)
	}

	return fmt.Sprintf("remote service error %v (%s)", e.StatusCode, e.Reason)
}

// UserError is a failure attributable to the configuration or the remote
// account (bad action, missing input, expired credentials). The CLI maps it
// to exit code 1.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// ApplicationError is an internal invariant violation (e.g. an item with no
// resolvable input source). The CLI maps it to exit code 2.
type ApplicationError struct {
	Message string
	Err     error
}

func (e *ApplicationError) Error() string {
	return e.Message
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

func userErrorf(err error, format string, args ...any) error {
	return &UserError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func applicationErrorf(err error, format string, args ...any) error {
	return &ApplicationError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
