package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/tirasundara/payment-ledger/internal/domain"
)

// outputPrecision is the number of fractional digits printed for balances
const outputPrecision = 4

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// OutputFormatter defines the interface for formatting final account states
type OutputFormatter interface {
	Format(accounts []domain.AccountSnapshot) ([]byte, error)
	FileExtension() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, prettyPrint bool) (OutputFormatter, error) {
	switch name {
	case "csv":
		return NewCSVFormatter(), nil
	case "json":
		return NewJSONFormatter(prettyPrint), nil
	case "table":
		return NewTableFormatter(), nil

	// Can add other formatters later
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

// CSVFormatter formats accounts as CSV with a client,available,held,total,locked header
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format implements the OutputFormatter interface for CSV
func (f *CSVFormatter) Format(accounts []domain.AccountSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(accountHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, acc := range accounts {
		if err := w.Write(accountRow(acc)); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *CSVFormatter) FileExtension() string {
	return "csv"
}

// JSONFormatter formats accounts as JSON
type JSONFormatter struct {
	PrettyPrint bool
}

func NewJSONFormatter(prettyPrint bool) *JSONFormatter {
	return &JSONFormatter{
		PrettyPrint: prettyPrint,
	}
}

// Format implements the OutputFormatter interface for JSON
func (f *JSONFormatter) Format(accounts []domain.AccountSnapshot) ([]byte, error) {
	if accounts == nil {
		accounts = []domain.AccountSnapshot{}
	}
	if f.PrettyPrint {
		return json.MarshalIndent(accounts, "", "  ")
	}
	return json.Marshal(accounts)
}

func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// TableFormatter renders accounts as a text table for terminals
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Format implements the OutputFormatter interface for text tables
func (f *TableFormatter) Format(accounts []domain.AccountSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(accountHeader)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, acc := range accounts {
		table.Append(accountRow(acc))
	}
	table.Render()

	return buf.Bytes(), nil
}

func (f *TableFormatter) FileExtension() string {
	return "txt"
}

func accountRow(acc domain.AccountSnapshot) []string {
	return []string{
		strconv.FormatUint(uint64(acc.Client), 10),
		acc.Available.StringFixed(outputPrecision),
		acc.Held.StringFixed(outputPrecision),
		acc.Total.StringFixed(outputPrecision),
		strconv.FormatBool(acc.Locked),
	}
}
