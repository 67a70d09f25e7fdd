package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetch marks network, transport, or HTTP-status failures on any GET.
	ErrFetch = errors.New("fetch failure")
	// ErrParse marks malformed persisted data where no fallback chain exists.
	ErrParse = errors.New("parse failure")
	// ErrDownload marks a failed transfer that left the filesystem untouched.
	ErrDownload = errors.New("download failure")
	// ErrIO marks local filesystem failures (permissions, disk full, rename).
	ErrIO = errors.New("io failure")
	// ErrNotFound marks a missing bundle or record lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks an operation that hit its deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetch
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
