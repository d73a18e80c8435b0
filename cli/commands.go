package cli

import (
	"go.uber.org/zap"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
	Debug     bool `help:"Log debug information to stderr."`
}

// Logger returns the logger selected by the global flags.
func (g *Globals) Logger() (*zap.Logger, error) {
	if !g.Debug {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Parse a beancount file and summarize its directives."`
	Format FormatCmd `cmd:"" help:"Format a beancount file to align numbers and currencies."`
	Serve  ServeCmd  `cmd:"" help:"Serve a JSON API for reading, writing and formatting a ledger."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging beancount files."`
}
