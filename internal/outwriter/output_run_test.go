package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pytyped/typescore/schema"
)

func sampleRecords() []schema.PackageRecord {
	score := 87.3
	pyTyped := true
	return []schema.PackageRecord{
		{
			Name:          "widget-sdk",
			LatestVersion: "1.2.3",
			Checks:        schema.AllChecksEnabled(),
			Score:         &score,
			PyTyped:       &pyTyped,
			AsOf:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// Skipped package, never scored
			Name:          "broken-pkg",
			LatestVersion: "0.1.0",
			Checks:        schema.AllChecksEnabled(),
		},
	}
}

func TestWriteRunTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()

	err := writeRunTable(sampleRecords(), cfg, 2*time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "widget-sdk")
	assert.Contains(t, out, "87.3")
	assert.Contains(t, out, "Strong")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "Scored 1 of 2 packages on the released channel")
}

func TestWriteCSVResultsForRun(t *testing.T) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)

	require.NoError(t, csvWriter.Write(runCSVHeader))
	require.NoError(t, writeCSVResultsForRun(csvWriter, sampleRecords()))
	csvWriter.Flush()

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "widget-sdk", rows[1][1])
	assert.Equal(t, "87.3", rows[1][3])
	// Skipped packages leave score cells empty
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "", rows[2][5])
}

func TestWriteJSONResultsForRun(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeJSONResultsForRun(&buf, sampleRecords()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "widget-sdk", decoded[0]["name"])
	assert.Equal(t, 87.3, decoded[0]["score"])
	assert.Equal(t, "Strong", decoded[0]["label"])
	// Skipped packages serialize with null score and no label
	assert.Nil(t, decoded[1]["score"])
	_, hasLabel := decoded[1]["label"]
	assert.False(t, hasLabel)
}
