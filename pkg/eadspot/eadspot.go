// Package eadspot drives one annotation run: document in, sections
// out, one recognition call per distinct text blob, results folded
// into the console report, CSV, catalog, and optionally back into the
// source tree.
package eadspot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/archivetools/eadspot/pkg/eadspot/annotate"
	"github.com/archivetools/eadspot/pkg/eadspot/config"
	"github.com/archivetools/eadspot/pkg/eadspot/extract"
	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
	"github.com/archivetools/eadspot/pkg/eadspot/report"
	"github.com/archivetools/eadspot/pkg/eadspot/resource"
	"github.com/archivetools/eadspot/pkg/eadspot/store"
)

// AnnotationClient recognizes entities in one text blob. It returns
// the text as seen by the service (context windows are computed
// against it) and the recognized records, and keeps its own call
// bookkeeping.
type AnnotationClient interface {
	Annotate(ctx context.Context, text string) (string, []resource.Record, error)
	Calls() (int, time.Duration)
}

// AuthorityLookup resolves a secondary identifier for a name.
// Best-effort: ok=false is a normal outcome, never an error.
type AuthorityLookup interface {
	Lookup(ctx context.Context, name string) (string, bool)
}

// InterruptFlag is the cooperative cancellation token polled at
// section and node boundaries.
type InterruptFlag interface {
	Interrupted() bool
}

// Options wires a Runner.
type Options struct {
	Config config.Config
	Client AnnotationClient

	// Persons and Places are optional secondary-identifier lookups.
	Persons AuthorityLookup
	Places  AuthorityLookup

	// Catalog is the optional occurrence store.
	Catalog store.Store

	Interrupt InterruptFlag
	Log       zerolog.Logger

	// Out receives the console report; defaults to os.Stdout.
	Out io.Writer
}

// Runner is the run controller.
type Runner struct {
	cfg       config.Config
	client    AnnotationClient
	persons   AuthorityLookup
	places    AuthorityLookup
	catalog   store.Store
	interrupt InterruptFlag
	log       zerolog.Logger
	out       io.Writer
}

// New creates a Runner with the given dependencies.
func New(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		cfg:       opts.Config,
		client:    opts.Client,
		persons:   opts.Persons,
		places:    opts.Places,
		catalog:   opts.Catalog,
		interrupt: opts.Interrupt,
		log:       opts.Log,
		out:       out,
	}
}

// Run executes one annotation run end to end. A recognition-service
// failure aborts the whole run; a half-annotated document is worse
// than no output. A set interrupt flag stops before the next unit of
// work but still emits the report accumulated so far.
func (r *Runner) Run(ctx context.Context) error {
	doc, label, err := r.loadDocument()
	if err != nil {
		return err
	}

	ext, err := extract.New(extract.Options{
		Kind:  r.cfg.Kind,
		Doc:   doc,
		Path:  r.cfg.PathExpr,
		Label: label,
		Log:   r.log,
	})
	if err != nil {
		return err
	}
	sections, err := ext.Sections()
	if err != nil {
		return err
	}
	r.log.Info().Int("sections", len(sections)).Str("input", r.cfg.Input).Msg("document traversed")

	agg, err := report.New(r.cfg.CSVPath, r.cfg.ContextPad)
	if err != nil {
		return err
	}

	var ann *annotate.Annotator
	if r.cfg.OutPath != "" {
		ann = annotate.New(annotate.Options{
			Kind:         r.cfg.Kind,
			TrackChanges: r.cfg.TrackChanges,
		})
	}

	runID := ulid.Make().String()
	queried := make(map[string]struct{})
	interrupted := false

loop:
	for _, sec := range sections {
		if r.interrupted() {
			interrupted = true
			break
		}
		if !r.cfg.Unique {
			fmt.Fprintf(r.out, "\n%s\n", sec.Label)
		}
		r.log.Debug().Str("section", sec.Label).Int("nodes", len(sec.Nodes)).Msg("processing section")

		for _, node := range sec.Nodes {
			if r.interrupted() {
				interrupted = true
				break loop
			}
			text := extract.Flatten(node)
			if text == "" {
				continue
			}
			if _, seen := queried[text]; seen {
				r.log.Debug().Str("section", sec.Label).Msg("text already queried; skipping")
				continue
			}
			queried[text] = struct{}{}

			if !r.cfg.Unique && r.cfg.EchoText && r.cfg.Kind == extract.KindEAD {
				fmt.Fprintln(r.out, text)
			}

			echoed, records, err := r.client.Annotate(ctx, text)
			if err != nil {
				return fmt.Errorf("annotating section %q: %w", sec.Label, err)
			}
			if len(records) == 0 {
				if !r.cfg.Unique {
					fmt.Fprintln(r.out, "  no resources identified")
				}
				continue
			}
			if echoed == "" {
				echoed = text
			}

			if err := agg.Record(echoed, records); err != nil {
				return err
			}

			ids := r.enrich(ctx, records)
			if ann != nil {
				n := ann.Annotate(node, records, ids)
				r.log.Debug().Str("section", sec.Label).Int("embedded", n).Int("recognized", len(records)).Msg("markup embedded")
			}
			if err := r.catalogRecords(ctx, runID, sec.Label, records); err != nil {
				return err
			}
		}
	}

	calls, elapsed := r.client.Calls()
	agg.AddCalls(calls, elapsed)
	totals := agg.Totals()

	if r.cfg.Unique {
		for _, p := range agg.UniqueNames() {
			fmt.Fprintf(r.out, "%s\t%s\n", p.Surface, p.URI)
		}
	}

	removed, err := agg.Close()
	if err != nil {
		return fmt.Errorf("finalize CSV report: %w", err)
	}
	if removed {
		r.log.Info().Str("csv", r.cfg.CSVPath).Msg("no resources found; empty CSV report discarded")
	}

	if r.cfg.OutPath != "" {
		if err := r.writeDocument(doc, totals.Resources, interrupted); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out, "\n%d calls to the annotation service took %s\n",
		totals.APICalls, totals.APITime.Round(time.Millisecond))
	return nil
}

func (r *Runner) interrupted() bool {
	return r.interrupt != nil && r.interrupt.Interrupted()
}

// loadDocument parses the input. Plain text is wrapped in a synthetic
// one-element tree so every kind flows through the same loop.
func (r *Runner) loadDocument() (*etree.Document, string, error) {
	if r.cfg.Kind == extract.KindText {
		data, err := os.ReadFile(r.cfg.Input)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
		}
		return extract.TextDocument(string(data)), filepath.Base(r.cfg.Input), nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(r.cfg.Input); err != nil {
		return nil, "", fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidInput, r.cfg.Input, err)
	}
	return doc, "", nil
}

// enrich prints each recognized record in listing mode and resolves
// secondary identifiers where enabled, keyed by record URI for the
// annotator.
func (r *Runner) enrich(ctx context.Context, records []resource.Record) map[string]string {
	ids := make(map[string]string)
	for _, rec := range records {
		if !r.cfg.Unique {
			if r.cfg.ShowScores {
				fmt.Fprintf(r.out, "  %s  <%s>  (%.3f/%d)\n", rec.SurfaceForm, rec.URI, rec.SimilarityScore, rec.Support)
			} else {
				fmt.Fprintf(r.out, "  %s  <%s>\n", rec.SurfaceForm, rec.URI)
			}
		}
		switch rec.Kind() {
		case resource.KindPerson:
			if r.persons == nil {
				continue
			}
			if id, ok := r.persons.Lookup(ctx, rec.SurfaceForm); ok {
				ids[rec.URI] = id
				if !r.cfg.Unique {
					fmt.Fprintf(r.out, "    VIAF: %s\n", id)
				}
			}
		case resource.KindPlace:
			if r.places == nil {
				continue
			}
			if id, ok := r.places.Lookup(ctx, rec.SurfaceForm); ok {
				ids[rec.URI] = id
				if !r.cfg.Unique {
					fmt.Fprintf(r.out, "    GeoNames: %s\n", id)
				}
			}
		}
	}
	return ids
}

// catalogRecords writes occurrences to the catalog when one is
// configured. Write failures abort the run, same as recognition
// failures.
func (r *Runner) catalogRecords(ctx context.Context, runID, section string, records []resource.Record) error {
	if r.catalog == nil {
		return nil
	}
	now := time.Now()
	for _, rec := range records {
		occ := store.Occurrence{
			ID:           ulid.Make().String(),
			RunID:        runID,
			Section:      section,
			SurfaceForm:  rec.SurfaceForm,
			URI:          rec.URI,
			Kind:         rec.Kind(),
			Similarity:   rec.SimilarityScore,
			Support:      rec.Support,
			RecognizedAt: now,
		}
		if err := r.catalog.SaveOccurrence(ctx, occ); err != nil {
			return fmt.Errorf("catalog write: %w", err)
		}
	}
	return nil
}

// writeDocument serializes the mutated tree, but only for a run that
// found something and ran to completion. A partially processed
// document is unsafe to serialize over the original.
func (r *Runner) writeDocument(doc *etree.Document, resources int, interrupted bool) error {
	if interrupted {
		r.log.Warn().Str("out", r.cfg.OutPath).Msg("run interrupted; rewritten document not written")
		return nil
	}
	if resources == 0 {
		r.log.Warn().Str("out", r.cfg.OutPath).Msg("no resources found; rewritten document not written")
		return nil
	}
	if r.cfg.TrackChanges {
		annotate.EnableTrackChanges(doc)
	}
	doc.Indent(2)
	if err := doc.WriteToFile(r.cfg.OutPath); err != nil {
		return fmt.Errorf("write rewritten document: %w", err)
	}
	r.log.Info().Str("out", r.cfg.OutPath).Msg("rewritten document written")
	return nil
}
