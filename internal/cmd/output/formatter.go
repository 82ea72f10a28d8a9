// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatMarkdown represents Markdown output format.
	FormatMarkdown Format = "markdown"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// Tabular reports whether format renders Data rather than raw values.
func (f Format) Tabular() bool {
	return f == FormatTable || f == FormatMarkdown || f == ""
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// Data represents data formatted for table or Markdown output.
type Data struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Alignment is optional, one entry per column.
	Alignment []tw.Align
	// Footer is printed below the table.
	Footer string
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format. Non-table data falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	d, ok := asData(data)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}

	if d.Title != "" {
		if _, err := fmt.Fprintln(w, d.Title); err != nil {
			return err
		}
	}

	config := tablewriter.Config{}
	if len(d.Alignment) > 0 {
		config.Header.Alignment = tw.CellAlignment{PerColumn: d.Alignment}
		config.Row.Alignment = tw.CellAlignment{PerColumn: d.Alignment}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(d.Headers) > 0 {
		headers := make([]any, len(d.Headers))
		for i, h := range d.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range d.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if d.Footer != "" {
		_, err := fmt.Fprintln(w, d.Footer)
		return err
	}
	return nil
}

// MarkdownFormatter outputs a Markdown section with a table.
type MarkdownFormatter struct{}

// Format outputs data as Markdown. Non-table data falls back to a YAML code block.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	doc := md.NewMarkdown(w)

	d, ok := asData(data)
	if !ok {
		var b strings.Builder
		if err := (&YAMLFormatter{}).Format(&b, data); err != nil {
			return err
		}
		return doc.CodeBlocks(md.SyntaxHighlight("yaml"), b.String()).Build()
	}

	if d.Title != "" {
		doc.H2(d.Title)
	}
	if len(d.Rows) > 0 {
		doc.Table(md.TableSet{Header: d.Headers, Rows: d.Rows})
	} else {
		doc.PlainText(md.Italic("No rows"))
	}
	if d.Footer != "" {
		doc.LF().PlainText(d.Footer)
	}
	return doc.Build()
}

func asData(data any) (Data, bool) {
	switch v := data.(type) {
	case Data:
		return v, true
	case *Data:
		if v == nil {
			return Data{}, false
		}
		return *v, true
	default:
		return Data{}, false
	}
}

// Header title-cases a snake_case key, e.g. "output_dir" becomes "Output Dir".
func Header(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Headers applies Header to every key.
func Headers(keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = Header(k)
	}
	return out
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, markdown", s)
	}
}
