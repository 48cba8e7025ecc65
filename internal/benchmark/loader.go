package benchmark

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	berrors "benchdiff/internal/errors"
)

// Input formats accepted by LoadFile.
const (
	FormatAuto  = "auto"
	FormatJSON  = "json"
	FormatDivan = "divan"
)

// IsFormat reports whether name is an accepted input format.
func IsFormat(name string) bool {
	return name == FormatAuto || name == FormatJSON || name == FormatDivan
}

// LoadFile loads a run from path in the given format. FormatAuto picks JSON
// for a .json file or content starting with '[', '{' or '"', and divan text
// otherwise.
func LoadFile(path, metric, format string) (map[string]Record, error) {
	run, err := LoadRun(path, format, []string{metric})
	if err != nil {
		return nil, err
	}
	return run.Records, nil
}

// Run is one loaded input together with the data-quality warnings raised
// while reading it.
type Run struct {
	Path     string
	Records  map[string]Record
	Warnings []string
}

// LoadRun reads path once and decodes it. JSON input must carry every
// metric in metrics for every entry; divan input carries all of them.
// Non-blank divan input without a single benchmark row is an error.
func LoadRun(path, format string, metrics []string) (Run, error) {
	if len(metrics) == 0 {
		metrics = []string{MetricMean}
	}
	if !IsFormat(format) && format != "" {
		return Run{}, fmt.Errorf("unsupported input format: %s", format)
	}

	data, err := readInput(path)
	if err != nil {
		return Run{}, err
	}

	run := Run{Path: path}
	if format == FormatDivan || (format != FormatJSON && !looksLikeJSON(path, data)) {
		run.Records, run.Warnings = decodeDivan(data)
		if len(run.Records) == 0 && len(bytes.TrimSpace(data)) > 0 {
			return Run{}, berrors.NewFileError(path, berrors.ErrNoBenchmarks,
				"No benchmark rows found in '%s'", path)
		}
		return run, nil
	}

	for _, metric := range metrics {
		if run.Records, err = DecodeJSON(path, data, metric); err != nil {
			return Run{}, err
		}
	}
	return run, nil
}

// LoadJSON loads a benchmark JSON file and returns its entries keyed by name.
// Every entry must carry a name and a value for metric.
func LoadJSON(path, metric string) (map[string]Record, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(path, data, metric)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, berrors.NewFileError(path, berrors.ErrFileNotFound, "File '%s' not found", path)
		}
		return nil, berrors.NewFileError(path, berrors.ErrUnreadable, "Cannot read '%s': %v", path, err)
	}
	return data, nil
}

func looksLikeJSON(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}
	// Objects and strings are never divan output; let the JSON decoder
	// reject them.
	switch trimmed[0] {
	case '[', '{', '"':
		return true
	}
	return false
}

func decodeDivan(data []byte) (map[string]Record, []string) {
	results, warnings := ParseDivanOutputWithWarnings(string(data))
	records := make(map[string]Record, len(results))
	for _, r := range results {
		warnings = append(warnings, r.Validate()...)
		records[r.Name] = r.ToRecord()
	}
	return records, warnings
}

// DecodeJSON decodes benchmark JSON read from path. path is only used in
// error messages.
func DecodeJSON(path string, data []byte, metric string) (map[string]Record, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, berrors.NewFileError(path, berrors.ErrInvalidJSON, "Invalid JSON in '%s': %v", path, err)
	}
	if _, ok := doc.([]any); !ok {
		return nil, berrors.NewFileError(path, berrors.ErrNotArray, "Expected JSON array in '%s', got %s", path, jsonKind(doc))
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, berrors.NewFileError(path, berrors.ErrInvalidJSON, "Invalid JSON in '%s': %v", path, err)
	}

	records := make(map[string]Record, len(entries))
	for i, raw := range entries {
		rec, err := decodeEntry(path, i, raw, metric)
		if err != nil {
			return nil, err
		}
		records[rec.Name] = rec
	}
	return records, nil
}

func decodeEntry(path string, index int, raw json.RawMessage, metric string) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Record{}, berrors.NewEntryError(path, index, "", "name", berrors.ErrMissingField,
			"Entry %d in '%s' missing required field 'name'", index, path)
	}

	rawName, ok := fields["name"]
	if !ok {
		return Record{}, berrors.NewEntryError(path, index, "", "name", berrors.ErrMissingField,
			"Entry %d in '%s' missing required field 'name'", index, path)
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		return Record{}, berrors.NewEntryError(path, index, "", "name", berrors.ErrInvalidField,
			"Entry %d in '%s' has a non-string 'name'", index, path)
	}

	rawMetric, ok := fields[metric]
	if !ok {
		return Record{}, berrors.NewEntryError(path, index, name, metric, berrors.ErrMissingField,
			"Benchmark '%s' in '%s' missing metric '%s'", name, path, metric)
	}
	m, err := decodeMeasurement(rawMetric)
	if errors.Is(err, errNoValue) {
		return Record{}, berrors.NewEntryError(path, index, name, metric+".value", berrors.ErrMissingField,
			"Benchmark '%s' in '%s' has metric '%s' but no 'value' field", name, path, metric)
	}
	if err != nil {
		return Record{}, berrors.NewEntryError(path, index, name, metric+".value", berrors.ErrInvalidField,
			"Benchmark '%s' in '%s' has metric '%s' with an invalid 'value': %v", name, path, metric, err)
	}

	rec := Record{Name: name, Metrics: map[string]TimeMeasurement{metric: m}}
	// Other metrics are optional; keep the ones that decode cleanly.
	for _, other := range Metrics {
		if other == metric {
			continue
		}
		if raw, ok := fields[other]; ok {
			if m, err := decodeMeasurement(raw); err == nil {
				rec.Metrics[other] = m
			}
		}
	}
	rec.Samples = decodeOptionalCount(fields[columnSamples])
	rec.Iters = decodeOptionalCount(fields[columnIters])
	return rec, nil
}

var errNoValue = errors.New("no value")

func decodeMeasurement(raw json.RawMessage) (TimeMeasurement, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return TimeMeasurement{}, errNoValue
	}
	rawValue, ok := obj["value"]
	if !ok {
		return TimeMeasurement{}, errNoValue
	}

	var n json.Number
	if err := json.Unmarshal(rawValue, &n); err != nil {
		return TimeMeasurement{}, fmt.Errorf("not a number: %s", rawValue)
	}
	if v, err := n.Int64(); err == nil {
		return TimeMeasurement{Value: v}, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return TimeMeasurement{}, fmt.Errorf("not an integer: %s", n)
	}
	return TimeMeasurement{Value: int64(f)}, nil
}

func decodeOptionalCount(raw json.RawMessage) *int64 {
	if raw == nil {
		return nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
