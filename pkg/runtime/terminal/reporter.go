package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/export"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Reporter renders command results either as a text table or as the JSON payload the API returns.
type Reporter struct {
	writer io.Writer
	format Format
	table  *export.Reporter
}

func NewReporter(writer io.Writer, format Format) (*Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	switch format {
	case FormatTable, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q (want table or json)", format)
	}
	return &Reporter{writer: writer, format: format, table: export.NewReporter(writer)}, nil
}

func (c *Reporter) Render(report *export.Report, payload any) error {
	if c.format == FormatJSON {
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}
	return c.table.Handle(report)
}
