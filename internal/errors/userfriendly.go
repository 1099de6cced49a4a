package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapAdapterError wraps bus adapter errors with user-friendly context
func WrapAdapterError(err error, adapter string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to open CEC adapter %q", adapter),
		Reason:  extractAdapterReason(err),
		Hint:    "The adapter name may be wrong, or the device node may not be accessible",
		Try:     "cecomply test --adapter loopback --la 1",
		Err:     err,
	}
}

// WrapBusError wraps bus transaction errors with user-friendly context
func WrapBusError(err error, operation string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("CEC bus operation failed: %s", operation),
		Reason:  extractBusReason(err),
		Hint:    "The remote device may have dropped off the bus, or the adapter lost its logical address",
		Try:     "Re-run with --tags core to check basic reachability first",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Run \"cecomply config init\" to see the expected layout",
		Try:     fmt.Sprintf("cecomply test --config %s -v", configPath),
		Err:     err,
	}
}

func extractAdapterReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "permission denied") {
		return "Permission denied - the device node is not accessible to this user"
	}
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "unknown adapter") {
		return "Adapter not found"
	}
	if strings.Contains(errStr, "busy") {
		return "Adapter is claimed by another process"
	}

	return "Adapter could not be opened"
}

func extractBusReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "timed out") || strings.Contains(errStr, "timeout") {
		return "The bus transaction timed out"
	}
	if strings.Contains(errStr, "did not ack") {
		return "The destination did not acknowledge the frame"
	}
	if strings.Contains(errStr, "arbitration") {
		return "Bus arbitration was lost repeatedly"
	}

	return "CEC bus error occurred"
}
