package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how reports are written.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatCBOR  Format = "cbor"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatYAML, FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, yaml, json or cbor)", s)
	}
}

// encMode writes CBOR with Core Deterministic Encoding so that equal reports
// produce equal bytes.
var encMode cbor.EncMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cli: CBOR encoder initialization failed: " + err.Error())
	}
}

// tabular is implemented by every report.
type tabular interface {
	header() []string
	rows() [][]string
}

// render writes report in the given format.
func render(w io.Writer, format Format, report tabular) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(report)

	case FormatCBOR:
		data, err := encMode.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode CBOR: %w", err)
		}

		_, err = w.Write(data)

		return err

	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader(report.header())
		table.SetBorder(false)
		table.SetCenterSeparator("")
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.AppendBulk(report.rows())
		table.Render()

		return nil
	}
}
