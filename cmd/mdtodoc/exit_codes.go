package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdtodoc"
	"github.com/alnah/go-mdtodoc/internal/config"
)

// Exit codes for the mdtodoc CLI.
// Any failure while compiling exits 1; 2 is kept for bad invocations.
const (
	ExitSuccess = 0 // every source compiled
	ExitFailure = 1 // input, resource, network, extension or write error
	ExitUsage   = 2 // invalid flags or configuration
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// An unknown embed mode is rejected like any other compile input.
	if errors.Is(err, mdtodoc.ErrInvalidEmbedMode) {
		return ExitFailure
	}
	if errors.Is(err, errUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitFailure
}

// errUsage marks flag parsing failures.
var errUsage = errors.New("invalid usage")

// usageError wraps a pflag error so exitCodeFor maps it to ExitUsage.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", errUsage, err)
}
