package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytyped/typescore/internal/contract"
	"github.com/pytyped/typescore/schema"
)

func sampleEntries() []schema.ScoreHistoryEntry {
	return []schema.ScoreHistoryEntry{
		{
			PartitionKey:  "2026-08-01",
			RowKey:        "widget-sdk",
			Package:       "widget-sdk",
			Date:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			LatestVersion: "1.2.3",
			Score:         87.3,
			PyTyped:       true,
			Mypy:          true,
			Pyright:       true,
			Samples:       true,
			Verifytypes:   true,
		},
		{
			PartitionKey:  "2026-08-01",
			RowKey:        "gadget-core",
			Package:       "gadget-core",
			Date:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			LatestVersion: "0.9.0",
			Score:         42.1,
			PyTyped:       false,
			Mypy:          true,
			Pyright:       true,
			Samples:       false,
			Verifytypes:   true,
		},
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Width:          120,
		HistoryBackend: schema.SQLiteBackend,
		Channel:        schema.ReleasedChannel,
	}
}

func TestWriteHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()

	err := writeHistoryTable(sampleEntries(), cfg, 50*time.Millisecond, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "widget-sdk")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "87.3")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "Weak")
	assert.Contains(t, out, "Showing 2 packages (1 shipping py.typed)")
	assert.Contains(t, out, "History backend: sqlite")
}

func TestWriteCSVResultsForHistory(t *testing.T) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)

	require.NoError(t, csvWriter.Write(historyCSVHeader))
	require.NoError(t, writeCSVResultsForHistory(csvWriter, sampleEntries()))
	csvWriter.Flush()

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 entries

	assert.Equal(t, "package", rows[0][2])
	assert.Equal(t, "widget-sdk", rows[1][2])
	assert.Equal(t, "87.3", rows[1][4])
	assert.Equal(t, "Strong", rows[1][5])
	assert.Equal(t, "false", rows[2][6]) // gadget-core py_typed
}

func TestWriteJSONResultsForHistory(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeJSONResultsForHistory(&buf, sampleEntries()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Equal(t, "Strong", decoded[0]["label"])
	assert.Equal(t, "widget-sdk", decoded[0]["package"])
	assert.Equal(t, 87.3, decoded[0]["score"])
	assert.Equal(t, false, decoded[1]["pyTyped"])
}

func TestGetMaxTableNameWidth(t *testing.T) {
	cfg := testConfig()

	// Wide terminal is capped
	cfg.Width = 300
	assert.Equal(t, 50, GetMaxTableNameWidth(cfg))

	// Narrow terminal hits the floor
	cfg.Width = 40
	assert.Equal(t, 12, GetMaxTableNameWidth(cfg))

	// In-between widths scale with the terminal
	cfg.Width = 100
	assert.Equal(t, 38, GetMaxTableNameWidth(cfg))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 20))
	assert.Equal(t, "a-very-long-packa...", truncateName("a-very-long-package-name-indeed", 20))
	assert.Len(t, truncateName("a-very-long-package-name-indeed", 20), 20)
}
