package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

// WriteRunResults outputs the records produced by a scoring run, dispatching
// based on the output format configured.
func WriteRunResults(records []schema.PackageRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForRun(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, runCSVHeader, func(csvWriter *csv.Writer) error {
				return writeCSVResultsForRun(csvWriter, records)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(records, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeRunTable generates and writes the human-readable run summary table.
func writeRunTable(records []schema.PackageRecord, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Package", "Version", "Score", "Label", "PyTyped", "Reused"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	scored := 0
	var data [][]string
	for i, r := range records {
		scoreCell, labelCell, pyTypedCell := "-", "skipped", "-"
		if r.Score != nil {
			scored++
			scoreCell = fmt.Sprintf("%.1f", *r.Score)
			if cfg.UseColors {
				labelCell = contract.GetColorLabel(*r.Score)
			} else {
				labelCell = contract.GetPlainLabel(*r.Score)
			}
		}
		if r.PyTyped != nil {
			pyTypedCell = strconv.FormatBool(*r.PyTyped)
		}
		row := []string{
			strconv.Itoa(i + 1),
			truncateName(r.Name, nameWidth),
			r.LatestVersion,
			scoreCell,
			labelCell,
			pyTypedCell,
			strconv.FormatBool(r.Reused),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Scored %d of %d packages on the %s channel\n", scored, len(records), cfg.Channel); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Run completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

var runCSVHeader = []string{
	"rank",
	"package",
	"version",
	"score",
	"label",
	"py_typed",
	"mypy",
	"pyright",
	"samples",
	"verifytypes",
	"reused",
}

// writeCSVResultsForRun writes the run records in CSV format.
func writeCSVResultsForRun(w *csv.Writer, records []schema.PackageRecord) error {
	for i, r := range records {
		scoreCell, labelCell, pyTypedCell := "", "", ""
		if r.Score != nil {
			scoreCell = fmt.Sprintf("%.1f", *r.Score)
			labelCell = contract.GetPlainLabel(*r.Score)
		}
		if r.PyTyped != nil {
			pyTypedCell = strconv.FormatBool(*r.PyTyped)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.LatestVersion,
			scoreCell,
			labelCell,
			pyTypedCell,
			strconv.FormatBool(r.Checks.Mypy),
			strconv.FormatBool(r.Checks.Pyright),
			strconv.FormatBool(r.Checks.Samples),
			strconv.FormatBool(r.Checks.Verifytypes),
			strconv.FormatBool(r.Reused),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForRun writes the run records in JSON format.
func writeJSONResultsForRun(w io.Writer, records []schema.PackageRecord) error {
	type JSONRunRecord struct {
		Rank  int    `json:"rank"`
		Label string `json:"label,omitempty"`
		schema.PackageRecord
	}

	output := make([]JSONRunRecord, len(records))
	for i, r := range records {
		rec := JSONRunRecord{Rank: i + 1, PackageRecord: r}
		if r.Score != nil {
			rec.Label = contract.GetPlainLabel(*r.Score)
		}
		output[i] = rec
	}

	return writeJSON(w, output)
}
