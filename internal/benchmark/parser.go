package benchmark

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	columnDivider = "│"

	// Divan indents nested tree levels by three runes ("│  " or "   ").
	treeIndentWidth = 3

	columnSamples = "samples"
	columnIters   = "iters"
)

var treeMarkers = []string{"╰─", "├─", "└─"}

// defaultColumns is the column order divan prints; used until a header is seen.
var defaultColumns = []string{MetricFastest, MetricSlowest, MetricMedian, MetricMean, columnSamples, columnIters}

var knownColumns = map[string]bool{
	MetricFastest: true,
	MetricSlowest: true,
	MetricMedian:  true,
	MetricMean:    true,
	columnSamples: true,
	columnIters:   true,
}

// ParseDivanOutput parses divan benchmark output.
// Unrecognized lines are skipped. Malformed rows are skipped and logged at debug level.
func ParseDivanOutput(output string) []Result {
	results, warnings := ParseDivanOutputWithWarnings(output)
	for _, w := range warnings {
		slog.Debug("Skipped divan row", "warning", w)
	}
	return results
}

// ParseDivanOutputWithWarnings parses divan benchmark output and also returns
// one warning per data row that could not be parsed.
func ParseDivanOutputWithWarnings(output string) ([]Result, []string) {
	p := &divanParser{columns: defaultColumns}
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if depth, rest, ok := splitTreeMarker(line); ok {
			p.treeLine(lineNo, depth, rest)
			continue
		}
		p.headerLine(line)
	}
	if err := scanner.Err(); err != nil {
		p.warn(lineNo, "read failed: %v", err)
	}

	return p.results, p.warnings
}

type divanParser struct {
	group    string
	columns  []string
	branches []string

	results  []Result
	warnings []string
}

func (p *divanParser) warn(lineNo int, format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf("line %d: ", lineNo)+fmt.Sprintf(format, args...))
}

// headerLine handles "<group>  fastest │ slowest │ ...". Lines that do not
// look like a header are ignored.
func (p *divanParser) headerLine(line string) {
	if !strings.Contains(line, columnDivider) {
		return
	}
	cells := strings.Split(line, columnDivider)
	first := strings.Fields(cells[0])
	if len(first) < 2 {
		return
	}

	columns := make([]string, 0, len(cells))
	columns = append(columns, strings.Join(first[1:], " "))
	for _, c := range cells[1:] {
		columns = append(columns, strings.TrimSpace(c))
	}

	known := 0
	for _, c := range columns {
		if knownColumns[c] {
			known++
		}
	}
	if known == 0 {
		return
	}

	p.group = first[0]
	p.columns = columns
	p.branches = nil
}

// treeLine handles a line that starts with a tree marker: either a data row
// or, when it carries no columns, a nested group.
func (p *divanParser) treeLine(lineNo, depth int, rest string) {
	if depth < len(p.branches) {
		p.branches = p.branches[:depth]
	}

	if !strings.Contains(rest, columnDivider) {
		fields := strings.Fields(rest)
		if len(fields) == 1 {
			p.branches = append(p.branches, fields[0])
		}
		return
	}

	cells := strings.Split(rest, columnDivider)
	first := strings.Fields(cells[0])
	if len(first) == 1 && blankCells(cells[1:]) {
		// Parent rows of nested groups print empty columns.
		p.branches = append(p.branches, first[0])
		return
	}
	if len(first) < 2 {
		p.warn(lineNo, "missing benchmark name or first value")
		return
	}

	values := make([]string, 0, len(cells))
	values = append(values, strings.Join(first[1:], " "))
	for _, c := range cells[1:] {
		values = append(values, strings.TrimSpace(c))
	}
	if len(values) != len(p.columns) {
		p.warn(lineNo, "expected %d columns, got %d", len(p.columns), len(values))
		return
	}

	res := Result{Name: p.name(first[0])}
	for i, column := range p.columns {
		if err := res.set(column, values[i]); err != nil {
			p.warn(lineNo, "%s: %v", res.Name, err)
			return
		}
	}
	p.results = append(p.results, res)
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (p *divanParser) name(leaf string) string {
	parts := make([]string, 0, len(p.branches)+2)
	if p.group != "" {
		parts = append(parts, p.group)
	}
	parts = append(parts, p.branches...)
	parts = append(parts, leaf)
	return strings.Join(parts, "/")
}

func (r *Result) set(column, value string) error {
	var err error
	switch column {
	case MetricFastest:
		r.Fastest, err = ParseTime(value)
	case MetricSlowest:
		r.Slowest, err = ParseTime(value)
	case MetricMedian:
		r.Median, err = ParseTime(value)
	case MetricMean:
		r.Mean, err = ParseTime(value)
	case columnSamples:
		r.Samples, err = parseCount(value)
	case columnIters:
		r.Iters, err = parseCount(value)
	}
	if err != nil {
		return fmt.Errorf("column %s: %w", column, err)
	}
	return nil
}

// ParseTime parses a divan time cell such as "1.551 ms" or "8 ns".
func ParseTime(s string) (TimeMeasurement, error) {
	s = strings.TrimSpace(s)
	var magnitude, unit string
	if fields := strings.Fields(s); len(fields) == 2 {
		magnitude, unit = fields[0], fields[1]
	} else {
		i := strings.IndexFunc(s, unicode.IsLetter)
		if i <= 0 {
			return TimeMeasurement{}, fmt.Errorf("invalid time %q", s)
		}
		magnitude, unit = s[:i], s[i:]
	}

	v, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return TimeMeasurement{}, fmt.Errorf("invalid time %q", s)
	}
	return NewTimeMeasurement(v, unit)
}

func parseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return n, nil
}

// splitTreeMarker strips the tree indentation and marker from line.
// depth is the nesting level of the marker.
func splitTreeMarker(line string) (depth int, rest string, ok bool) {
	indent := 0
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r != ' ' && r != '│' {
			break
		}
		indent++
		i += size
	}

	for _, marker := range treeMarkers {
		if strings.HasPrefix(line[i:], marker) {
			return indent / treeIndentWidth, strings.TrimLeft(line[i+len(marker):], " "), true
		}
	}
	return 0, "", false
}
