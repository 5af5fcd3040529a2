package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"takt/internal/uph"
)

// DataSource is the provenance tag stamped onto CSV-sourced summaries.
const DataSource = "csv"

// Required and optional CSV column names.
const (
	colOperator  = "operator_name"
	colWorkCtr   = "work_center"
	colRouting   = "routing"
	colMONumber  = "mo_number"
	colQuantity  = "mo_quantity"
	colDuration  = "duration_seconds"
	colOperation = "operation"
	colState     = "state"
)

var requiredColumns = []string{colOperator, colWorkCtr, colRouting, colMONumber, colQuantity, colDuration}

// Report summarizes one CSV read.
type Report struct {
	Rows     int
	Imported int
	Skipped  int
}

var titleCaser = cases.Title(language.Und)

// ReadCycles parses a work-cycle CSV export. Malformed rows are skipped and
// counted in the report; only a missing or unusable header is fatal.
func ReadCycles(r io.Reader) ([]uph.WorkCycle, Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Report{}, errors.New("csv is empty")
		}
		return nil, Report{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, Report{}, fmt.Errorf("csv missing required column %q", name)
		}
	}

	var cycles []uph.WorkCycle
	var report Report
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A ragged row is a data defect, not a fatal condition.
			report.Rows++
			report.Skipped++
			continue
		}
		report.Rows++

		cycle, ok := cycleFromRow(row, columns)
		if !ok {
			report.Skipped++
			continue
		}
		cycles = append(cycles, cycle)
		report.Imported++
	}

	return cycles, report, nil
}

func cycleFromRow(row []string, columns map[string]int) (uph.WorkCycle, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	state := strings.ToLower(field(colState))
	if state != "" && state != uph.StateDone {
		return uph.WorkCycle{}, false
	}

	quantity, err := strconv.ParseFloat(field(colQuantity), 64)
	if err != nil || quantity <= 0 {
		return uph.WorkCycle{}, false
	}

	// An unparseable duration degrades to zero: the cycle stays countable
	// but adds no time.
	duration, err := strconv.ParseFloat(field(colDuration), 64)
	if err != nil || duration < 0 {
		duration = 0
	}

	cycle := uph.WorkCycle{
		Operator:        canonicalName(field(colOperator)),
		WorkCenterRaw:   field(colWorkCtr),
		Routing:         field(colRouting),
		MONumber:        field(colMONumber),
		MOQuantity:      quantity,
		DurationSeconds: duration,
		Operation:       field(colOperation),
		State:           state,
	}
	if cycle.Operator == "" || cycle.WorkCenterRaw == "" || cycle.Routing == "" || cycle.MONumber == "" {
		return uph.WorkCycle{}, false
	}
	return cycle, true
}

// canonicalName collapses interior whitespace and title-cases the operator's
// display name. "jane doe" and "JANE DOE" are the same person; without this
// they would land in separate groups.
func canonicalName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	if collapsed == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(collapsed))
}
