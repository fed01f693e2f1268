package gdrive

import (
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/gdrive-utils/gdrive-writer/writer"
)

func gerror(code int, reason string) *googleapi.Error {
	gerr := googleapi.Error{
		Code:    code,
		Message: "remote call failed",
	}

	if reason != "" {
		gerr.Errors = []googleapi.ErrorItem{{Reason: reason}}
	}

	return &gerr
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{gerror(429, "rateLimitExceeded"), true},
		{gerror(500, ""), true},
		{gerror(503, ""), true},
		{gerror(403, "userRateLimitExceeded"), true},
		{gerror(403, "insufficientPermissions"), false},
		{gerror(403, "dailyLimitExceeded"), false},
		{gerror(403, "usageLimits.userRateLimitExceededUnreg"), false},
		{gerror(401, ""), false},
		{gerror(404, ""), false},
		{fmt.Errorf("dial tcp: connection refused"), false},
	}

	for _, test := range tests {
		if retryable := retryable(test.err); retryable != test.retryable {
			t.Errorf("Incorrect retryable for %v - expected:%v, got:%v", test.err, test.retryable, retryable)
		}
	}
}

func TestNotFound(t *testing.T) {
	if !notFound(gerror(404, "")) {
		t.Errorf("Expected 404 to report as not found")
	}

	if notFound(gerror(403, "Forbidden")) {
		t.Errorf("Expected 403 to not report as not found")
	}

	if notFound(nil) {
		t.Errorf("Expected nil error to not report as not found")
	}
}

func TestTransportError(t *testing.T) {
	err := transportError(gerror(403, "Forbidden"))

	terr, ok := err.(*writer.TransportError)
	if !ok {
		t.Fatalf("Expected *writer.TransportError, got %T", err)
	}

	if terr.StatusCode != 403 {
		t.Errorf("Incorrect status code - expected:%v, got:%v", 403, terr.StatusCode)
	}

	if terr.Reason != "Forbidden" {
		t.Errorf("Incorrect reason - expected:%v, got:%v", "Forbidden", terr.Reason)
	}
}

// a googleapi error without an error item falls back to the HTTP status text
func TestTransportErrorWithoutReason(t *testing.T) {
	err := transportError(gerror(401, ""))

	terr, ok := err.(*writer.TransportError)
	if !ok {
		t.Fatalf("Expected *writer.TransportError, got %T", err)
	}

	if terr.Reason != "Unauthorized" {
		t.Errorf("Incorrect reason - expected:%v, got:%v", "Unauthorized", terr.Reason)
	}
}

func TestTransportErrorPassthrough(t *testing.T) {
	err := fmt.Errorf("dial tcp: connection refused")

	if mapped := transportError(err); mapped != err {
		t.Errorf("Expected non-API error to pass through unchanged, got %v", mapped)
	}
}
