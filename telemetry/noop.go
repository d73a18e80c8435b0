package telemetry

import (
	"io"

	"github.com/robinvdvleuten/beancount-grammar/output"
)

// noOpCollector is used when no collector is configured.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer { return noOpTimer{} }

func (noOpCollector) Report(w io.Writer, styles *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(name string) Timer { return noOpTimer{} }
