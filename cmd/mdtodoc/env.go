package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdtodoc/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config // base configuration before config file, env and flags
	CacheDir string         // builtin asset cache; empty uses the user cache dir
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}
