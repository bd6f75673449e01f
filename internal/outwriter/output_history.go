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

// WriteHistoryEntries outputs score history entries, dispatching based on the
// output format configured.
func WriteHistoryEntries(entries []schema.ScoreHistoryEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeHistoryJSONResults(entries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeHistoryCSVResults(entries, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(entries, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryJSONResults handles opening the file and calling the JSON writer.
func writeHistoryJSONResults(entries []schema.ScoreHistoryEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForHistory(w, entries)
	}, "Wrote JSON")
}

// writeHistoryCSVResults handles opening the file and calling the CSV writer.
func writeHistoryCSVResults(entries []schema.ScoreHistoryEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, historyCSVHeader, func(csvWriter *csv.Writer) error {
			return writeCSVResultsForHistory(csvWriter, entries)
		})
	}, "Wrote CSV")
}

// writeHistoryTable generates and writes the human-readable table.
func writeHistoryTable(entries []schema.ScoreHistoryEntry, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Package", "Version", "Score", "Label", "PyTyped", "Date"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for i, e := range entries {
		label := contract.GetPlainLabel(e.Score)
		if cfg.UseColors {
			label = contract.GetColorLabel(e.Score)
		}
		row := []string{
			strconv.Itoa(i + 1),
			truncateName(e.Package, nameWidth),
			e.LatestVersion,
			fmt.Sprintf("%.1f", e.Score),
			label,
			strconv.FormatBool(e.PyTyped),
			e.Date.Format(schema.PartitionLayout),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	typed := 0
	for _, e := range entries {
		if e.PyTyped {
			typed++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d packages (%d shipping py.typed)\n", len(entries), typed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Query completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

var historyCSVHeader = []string{
	"rank",
	"partition",
	"package",
	"version",
	"score",
	"label",
	"py_typed",
	"mypy",
	"pyright",
	"samples",
	"verifytypes",
	"date",
}

// writeCSVResultsForHistory writes the score history in CSV format.
func writeCSVResultsForHistory(w *csv.Writer, entries []schema.ScoreHistoryEntry) error {
	for i, e := range entries {
		rec := []string{
			strconv.Itoa(i + 1),
			e.PartitionKey,
			e.Package,
			e.LatestVersion,
			fmt.Sprintf("%.1f", e.Score),
			contract.GetPlainLabel(e.Score),
			strconv.FormatBool(e.PyTyped),
			strconv.FormatBool(e.Mypy),
			strconv.FormatBool(e.Pyright),
			strconv.FormatBool(e.Samples),
			strconv.FormatBool(e.Verifytypes),
			e.Date.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForHistory writes the score history in JSON format.
func writeJSONResultsForHistory(w io.Writer, entries []schema.ScoreHistoryEntry) error {
	// Prepare the data structure for JSON with rank and label added
	type JSONHistoryEntry struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ScoreHistoryEntry
	}

	output := make([]JSONHistoryEntry, len(entries))
	for i, e := range entries {
		output[i] = JSONHistoryEntry{
			Rank:              i + 1,
			Label:             contract.GetPlainLabel(e.Score),
			ScoreHistoryEntry: e,
		}
	}

	return writeJSON(w, output)
}
