package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStylesArePlainWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name   string
		render func(string) string
	}{
		{"Success", styles.Success},
		{"Error", styles.Error},
		{"Warning", styles.Warning},
		{"FilePath", styles.FilePath},
		{"Account", styles.Account},
		{"Amount", styles.Amount},
		{"Literal", styles.Literal},
		{"Keyword", styles.Keyword},
		{"Dim", styles.Dim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "Assets:Cash", tt.render("Assets:Cash"))
		})
	}
}

func TestStylesTiming(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Equal(t, "12ms", styles.Timing("12ms", false))
	assert.Equal(t, "1.20s", styles.Timing("1.20s", true))
}

func TestStylesOutput(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)
	assert.True(t, styles.Output() != nil)
}
