// Package process manages the lifetime of extension executables.
package process
