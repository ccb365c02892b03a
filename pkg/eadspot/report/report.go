// Package report aggregates recognition results across a run: CSV rows
// with surrounding context, the run-wide unique name set, and the run
// totals behind the final summary line.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
	"github.com/archivetools/eadspot/pkg/eadspot/resource"
)

// ContextPad is the number of characters kept on each side of a
// recognized span in the CSV context column.
const ContextPad = 100

// Totals accumulates monotonically over one run and is read once at
// the end.
type Totals struct {
	APICalls  int
	APITime   time.Duration
	Resources int
}

// Aggregator folds per-blob result sets into the run-wide report
// state. A CSV target is optional; the unique name set and totals are
// always maintained.
type Aggregator struct {
	path   string
	file   *os.File
	writer *csv.Writer
	pad    int

	unique map[resource.NamePair]struct{}
	totals Totals
}

// New opens the aggregator. When csvPath is non-empty the file is
// created and the header row written eagerly, before any data rows,
// since rows arrive across many sections. An unwritable target is a
// configuration error.
func New(csvPath string, pad int) (*Aggregator, error) {
	if pad <= 0 {
		pad = ContextPad
	}
	a := &Aggregator{
		path:   csvPath,
		pad:    pad,
		unique: make(map[resource.NamePair]struct{}),
	}
	if csvPath == "" {
		return a, nil
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot write CSV report %s: %v", internalerr.ErrInvalidConfig, csvPath, err)
	}
	a.file = f
	a.writer = csv.NewWriter(f)
	if err := a.writer.Write([]string{"Name", "URI", "Similarity Score", "Support Score", "Type", "Context"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	a.writer.Flush()
	return a, a.writer.Error()
}

// Record folds one blob's result set into the report. Row order
// follows the order resources were returned, not any global sort.
func (a *Aggregator) Record(text string, records []resource.Record) error {
	for _, rec := range records {
		a.unique[rec.Pair()] = struct{}{}
		a.totals.Resources++
		if a.writer == nil {
			continue
		}
		row := []string{
			rec.SurfaceForm,
			rec.URI,
			fmt.Sprintf("%g", rec.SimilarityScore),
			fmt.Sprintf("%d", rec.Support),
			rec.Kind(),
			ContextWindow(text, rec.Offset, len(rec.SurfaceForm), a.pad),
		}
		if err := a.writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	if a.writer != nil {
		a.writer.Flush()
		return a.writer.Error()
	}
	return nil
}

// AddCalls folds the service client's own bookkeeping into the totals.
func (a *Aggregator) AddCalls(calls int, elapsed time.Duration) {
	a.totals.APICalls = calls
	a.totals.APITime = elapsed
}

// Totals returns the running totals.
func (a *Aggregator) Totals() Totals {
	return a.totals
}

// UniqueNames returns all (surface form, URI) pairs seen this run,
// sorted ascending so the listing is stable regardless of traversal
// order.
func (a *Aggregator) UniqueNames() []resource.NamePair {
	out := make([]resource.NamePair, 0, len(a.unique))
	for p := range a.unique {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Close finalizes the CSV target. A run that found nothing leaves no
// header-only artifact behind: the file is removed and removed=true
// reported so the caller can say why.
func (a *Aggregator) Close() (removed bool, err error) {
	if a.file == nil {
		return false, nil
	}
	a.writer.Flush()
	werr := a.writer.Error()
	cerr := a.file.Close()
	if werr != nil {
		return false, werr
	}
	if cerr != nil {
		return false, cerr
	}
	if a.totals.Resources == 0 {
		if err := os.Remove(a.path); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ContextWindow extracts [offset-pad, offset+length+pad] from text,
// clamped to the text's bounds, whitespace-normalized. Never reads
// outside the text, however close the span sits to either end.
func ContextWindow(text string, offset, length, pad int) string {
	lo := offset - pad
	if lo < 0 {
		lo = 0
	}
	hi := offset + length + pad
	if hi > len(text) {
		hi = len(text)
	}
	if lo >= hi {
		return ""
	}
	return strings.Join(strings.Fields(text[lo:hi]), " ")
}
