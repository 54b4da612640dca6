package internal

import (
	"github.com/starford/raido/internal/archiver"
	"github.com/starford/raido/internal/status"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	archiver archiver.Archiver
	reporter status.Reporter
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithArchiver overrides the external archiver command, mainly for tests.
func WithArchiver(arch archiver.Archiver) Option {
	return func(a *application) {
		a.archiver = arch
	}
}

// WithReporter adds an extra progress reporter alongside the built-in ones.
func WithReporter(r status.Reporter) Option {
	return func(a *application) {
		a.reporter = r
	}
}
