package cli

import (
	"strings"
	"testing"
)

func TestOutputFormats(t *testing.T) {
	result := map[string]any{"name": "test", "count": 2}

	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatJSON, `"name": "test"`},
		{FormatYAML, "name: test"},
		{"", "name: test"}, // default is YAML
	}
	for _, tt := range tests {
		var buf strings.Builder
		if err := Output(result, OutputOptions{Format: tt.format, Writer: &buf}); err != nil {
			t.Errorf("Output(%q): %v", tt.format, err)
			continue
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("Output(%q) = %q, want contains %q", tt.format, buf.String(), tt.want)
		}
	}
}

func TestOutputRawString(t *testing.T) {
	var buf strings.Builder
	if err := Output("plain text", OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if buf.String() != "plain text" {
		t.Errorf("raw output = %q", buf.String())
	}
}

func TestOutputUnknownFormat(t *testing.T) {
	if err := Output("x", OutputOptions{Format: "xml", Writer: &strings.Builder{}}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestByteCount(t *testing.T) {
	if got := byteCount(999); got != "999B" {
		t.Errorf("byteCount(999) = %q", got)
	}
	if got := byteCount(1234); got != "1.2kB" {
		t.Errorf("byteCount(1234) = %q", got)
	}
}
