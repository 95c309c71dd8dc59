package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the aegis command.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitRejected = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// RejectionError reports that a guardrail rejected the checked value. The
// result itself has already been printed.
type RejectionError struct {
	Stage  string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Stage, e.Reason)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// NewRejectionError creates a new RejectionError.
func NewRejectionError(stage, reason string) *RejectionError {
	return &RejectionError{
		Stage:  stage,
		Reason: reason,
	}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return ExitRejected
	}
	return ExitError
}
