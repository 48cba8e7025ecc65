package benchmark

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	berrors "benchdiff/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSON_Fixture(t *testing.T) {
	records, err := LoadJSON(filepath.Join("testdata", "base_benchmarks.json"), MetricMean)
	require.NoError(t, err)

	assert.Len(t, records, 4)
	rec := records["parse/parse_small"]
	v, ok := rec.Value(MetricMean)
	assert.True(t, ok)
	assert.Equal(t, int64(1599000), v)
	v, ok = rec.Value(MetricSlowest)
	assert.True(t, ok)
	assert.Equal(t, int64(1738000), v)
	require.NotNil(t, rec.Iters)
	assert.Equal(t, int64(100), *rec.Iters)
}

func TestLoadJSON_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		metric    string
		sentinel  error
		wantMsg   string
		wantIndex int
		wantField string
	}{
		{
			name:      "invalid syntax",
			content:   `[{"name": "a",`,
			metric:    MetricMean,
			sentinel:  berrors.ErrInvalidJSON,
			wantMsg:   "Invalid JSON in",
			wantIndex: berrors.NoIndex,
		},
		{
			name:      "object at top level",
			content:   `{"name": "a"}`,
			metric:    MetricMean,
			sentinel:  berrors.ErrNotArray,
			wantMsg:   "Expected JSON array in",
			wantIndex: berrors.NoIndex,
		},
		{
			name:      "missing name",
			content:   `[{"name": "a", "mean": {"value": 1}}, {"mean": {"value": 2}}]`,
			metric:    MetricMean,
			sentinel:  berrors.ErrMissingField,
			wantMsg:   "Entry 1 in",
			wantIndex: 1,
			wantField: "name",
		},
		{
			name:      "missing metric",
			content:   `[{"name": "a", "median": {"value": 1}}]`,
			metric:    MetricMean,
			sentinel:  berrors.ErrMissingField,
			wantMsg:   "Benchmark 'a' in",
			wantIndex: 0,
			wantField: "mean",
		},
		{
			name:      "missing value",
			content:   `[{"name": "a", "mean": {"unit": "ns"}}]`,
			metric:    MetricMean,
			sentinel:  berrors.ErrMissingField,
			wantMsg:   "has metric 'mean' but no 'value' field",
			wantIndex: 0,
			wantField: "mean.value",
		},
		{
			name:      "fractional value",
			content:   `[{"name": "a", "mean": {"value": 1.5}}]`,
			metric:    MetricMean,
			sentinel:  berrors.ErrInvalidField,
			wantMsg:   "invalid 'value'",
			wantIndex: 0,
			wantField: "mean.value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bench.json", tt.content)

			_, err := LoadJSON(path, tt.metric)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), path)

			var inErr *berrors.InputError
			require.True(t, errors.As(err, &inErr))
			assert.Equal(t, path, inErr.Path)
			assert.Equal(t, tt.wantIndex, inErr.Index)
			assert.Equal(t, tt.wantField, inErr.Field)
		})
	}
}

func TestLoadJSON_TopLevelKind(t *testing.T) {
	_, err := LoadJSON(writeFile(t, "s.json", `"text"`), MetricMean)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got string")
}

func TestLoadJSON_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")

	_, err := LoadJSON(path, MetricMean)

	require.Error(t, err)
	assert.True(t, errors.Is(err, berrors.ErrFileNotFound))
	assert.Equal(t, "File '"+path+"' not found", err.Error())
}

func TestLoadJSON_IgnoresUnknownFieldsAndKeepsLastDuplicate(t *testing.T) {
	path := writeFile(t, "dup.json", `[
		{"name": "a", "mean": {"value": 1, "unit": "ns"}, "extra": true},
		{"name": "a", "mean": {"value": 2}}
	]`)

	records, err := LoadJSON(path, MetricMean)

	require.NoError(t, err)
	require.Len(t, records, 1)
	v, _ := records["a"].Value(MetricMean)
	assert.Equal(t, int64(2), v)
}

func TestLoadFile_Formats(t *testing.T) {
	divanPath := filepath.Join("testdata", "divan_output.txt")

	records, err := LoadFile(divanPath, MetricMean, FormatAuto)
	require.NoError(t, err)
	assert.Len(t, records, 6)
	v, ok := records["parse/parse_small"].Value(MetricMean)
	assert.True(t, ok)
	assert.Equal(t, int64(1599000), v)

	records, err = LoadFile(filepath.Join("testdata", "pr_benchmarks.json"), MetricMean, FormatAuto)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	// JSON content without a .json extension is still detected.
	jsonNoExt := writeFile(t, "run.out", `  [{"name": "x", "mean": {"value": 7}}]`)
	records, err = LoadFile(jsonNoExt, MetricMean, FormatAuto)
	require.NoError(t, err)
	assert.Contains(t, records, "x")

	_, err = LoadFile(divanPath, MetricMean, FormatJSON)
	assert.True(t, errors.Is(err, berrors.ErrInvalidJSON))

	_, err = LoadFile(divanPath, MetricMean, "xml")
	assert.ErrorContains(t, err, "unsupported input format")
}

func TestLoadFile_DivanFormatForcesText(t *testing.T) {
	path := writeFile(t, "bench.json", "grp  fastest │ slowest │ median │ mean │ samples │ iters\n╰─ op  1 ns │ 2 ns │ 1 ns │ 1 ns │ 1 │ 1\n")

	records, err := LoadFile(path, MetricMean, FormatDivan)

	require.NoError(t, err)
	assert.Contains(t, records, "grp/op")
}

func TestLoadRun_RequiresEveryMetric(t *testing.T) {
	path := writeFile(t, "run.json", `[{"name": "a", "mean": {"value": 5}, "median": {"value": 4}},
		{"name": "b", "mean": {"value": 9}}]`)

	run, err := LoadRun(path, FormatAuto, []string{MetricMean})
	require.NoError(t, err)
	assert.Len(t, run.Records, 2)

	_, err = LoadRun(path, FormatAuto, []string{MetricMean, MetricMedian})
	require.Error(t, err)
	assert.True(t, errors.Is(err, berrors.ErrMissingField))
	assert.Equal(t, "Benchmark 'b' in '"+path+"' missing metric 'median'", err.Error())
}

func TestLoadRun_DivanWarnings(t *testing.T) {
	path := writeFile(t, "bench.txt", "grp  fastest │ slowest │ median │ mean │ samples │ iters\n"+
		"├─ bad  1 ns │ 2 ns\n"+
		"╰─ odd  9 ns │ 2 ns │ 1 ns │ 1 ns │ 1 │ 1\n")

	run, err := LoadRun(path, FormatAuto, nil)

	require.NoError(t, err)
	assert.Equal(t, path, run.Path)
	assert.Contains(t, run.Records, "grp/odd")
	require.Len(t, run.Warnings, 3)
	assert.Contains(t, run.Warnings[0], "expected 6 columns")
	assert.Contains(t, run.Warnings[1], "fastest (9 ns) > median (1 ns)")
	assert.Contains(t, run.Warnings[2], "fastest (9 ns) > mean (1 ns)")
}

func TestLoadRun_AutoDetectsJSONObjectInTextFile(t *testing.T) {
	path := writeFile(t, "base.out", `{"name": "x"}`)

	_, err := LoadRun(path, FormatAuto, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, berrors.ErrNotArray))
	assert.Equal(t, "Expected JSON array in '"+path+"', got object", err.Error())
}

func TestLoadRun_DivanWithoutRowsIsInputError(t *testing.T) {
	path := writeFile(t, "base.out", "this is not benchmark output\n")

	_, err := LoadRun(path, FormatAuto, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, berrors.ErrNoBenchmarks))
	assert.True(t, berrors.IsInputError(err))
	assert.Equal(t, "No benchmark rows found in '"+path+"'", err.Error())

	empty := writeFile(t, "empty.out", "\n\n")
	run, err := LoadRun(empty, FormatAuto, nil)
	require.NoError(t, err)
	assert.Empty(t, run.Records)
}
