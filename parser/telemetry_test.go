package parser

import (
	"bytes"
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/beancount-grammar/telemetry"
)

func TestParseRecordsTimings(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	root := collector.Start("parse")
	_, err := ParseString(ctx, "2021-01-01 open Assets:Cash\n")
	root.End()
	assert.NoError(t, err)

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "├─ parser.lex")
	assert.Contains(t, buf.String(), "└─ parser.grammar")
}
