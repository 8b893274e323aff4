package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how structured results are rendered.
type OutputFormat string

const (
	// FormatYAML renders YAML. It is the default when no format is set.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON renders indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatRaw writes strings and byte slices unmodified.
	FormatRaw OutputFormat = "raw"
)

// OutputOptions selects the format and destination for Output. The zero
// value renders YAML to stdout.
type OutputOptions struct {
	Format OutputFormat

	// File receives the output when set; otherwise stdout.
	File string

	// Writer takes precedence over File when set.
	Writer io.Writer
}

// Output renders result in the selected format and writes it out.
func Output(result any, opts OutputOptions) error {
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	} else if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatRaw:
		switch v := result.(type) {
		case string:
			_, err := io.WriteString(w, v)
			return err
		case []byte:
			_, err := w.Write(v)
			return err
		default:
			_, err := fmt.Fprintf(w, "%v", v)
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s", opts.Format)
	}
}
