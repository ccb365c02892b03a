package main

import (
	"context"
	"flag"
	"os"

	"github.com/archivetools/eadspot/internal/authority"
	"github.com/archivetools/eadspot/internal/interrupt"
	"github.com/archivetools/eadspot/internal/logger"
	"github.com/archivetools/eadspot/internal/spotlight"
	"github.com/archivetools/eadspot/pkg/eadspot"
	"github.com/archivetools/eadspot/pkg/eadspot/config"
	"github.com/archivetools/eadspot/pkg/eadspot/extract"
	sqlitestore "github.com/archivetools/eadspot/pkg/eadspot/store/sqlite"
)

// Recognition-tuning fallbacks applied when neither a flag nor the
// defaults file sets a value.
const (
	defaultConfidence = 0.5
	defaultSupport    = 20
)

func main() {
	var (
		in         = flag.String("in", "", "Input document (required)")
		kind       = flag.String("kind", "", "Document kind: text, ead, or path (default: detect from extension)")
		pathExpr   = flag.String("path", "", "Path expression selecting blocks to annotate (path kind, required)")
		unique     = flag.Bool("unique", false, "Suppress per-call output; print the sorted unique name set at the end")
		viaf       = flag.Bool("viaf", false, "Look up VIAF identifiers for recognized persons")
		geonames   = flag.Bool("geonames", false, "Look up GeoNames identifiers for recognized places")
		geoUser    = flag.String("geonames-user", "", "GeoNames web service username")
		verbosity  = flag.String("verbosity", "info", "Log level: debug, info, warn, error, fatal")
		outPath    = flag.String("out", "", "Rewritten document output path")
		csvPath    = flag.String("csv", "", "CSV report output path")
		track      = flag.Bool("track-changes", false, "Embed markup as tracked changes for review")
		confidence = flag.Float64("confidence", 0, "Minimum similarity confidence in [0,1] (default 0.5)")
		support    = flag.Int("support", 0, "Minimum support score (default 20)")
		types      = flag.String("types", "", "Comma-separated type restriction (e.g. DBpedia:Person,DBpedia:Place)")
		showScores = flag.Bool("show-scores", false, "Show similarity/support scores in the listing")
		service    = flag.String("service", "", "Annotation service base URL")
		cfgPath    = flag.String("config", "", "YAML defaults file")
		catalog    = flag.String("catalog", "", "SQLite occurrence catalog path (optional)")
		echoText   = flag.Bool("echo-text", false, "Echo normalized source text per section (ead kind only)")
	)
	flag.Parse()

	level, err := logger.ParseLevel(*verbosity)
	if err != nil {
		flag.PrintDefaults()
		os.Exit(1)
	}
	log := logger.New(level, os.Stderr)

	cfg := config.Config{
		Input:            *in,
		Kind:             extract.Kind(*kind),
		PathExpr:         *pathExpr,
		Unique:           *unique,
		EchoText:         *echoText,
		Verbosity:        *verbosity,
		OutPath:          *outPath,
		CSVPath:          *csvPath,
		CatalogPath:      *catalog,
		TrackChanges:     *track,
		VIAF:             *viaf,
		GeoNames:         *geonames,
		GeoNamesUsername: *geoUser,
		ServiceURL:       *service,
		Confidence:       *confidence,
		Support:          *support,
		Types:            *types,
		ShowScores:       *showScores,
	}

	if *cfgPath != "" {
		defaults, err := config.LoadDefaults(*cfgPath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load defaults file")
		}
		cfg.Apply(defaults)
	}
	if cfg.Confidence == 0 {
		cfg.Confidence = defaultConfidence
	}
	if cfg.Support == 0 {
		cfg.Support = defaultSupport
	}
	if cfg.Kind == "" {
		detected, err := config.DetectKind(cfg.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot determine document kind")
		}
		cfg.Kind = detected
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	proxy, err := cfg.CheckProxy()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if proxy == "" {
		log.Warn().Msg("no HTTP proxy configured in the environment")
	} else {
		log.Debug().Str("proxy", proxy).Msg("using HTTP proxy from environment")
	}

	ctx := context.Background()

	client := &spotlight.Client{
		BaseURL:    cfg.ServiceURL,
		Confidence: cfg.Confidence,
		Support:    cfg.Support,
		Types:      cfg.Types,
	}

	opts := eadspot.Options{
		Config:    cfg,
		Client:    client,
		Interrupt: interrupt.Install(log),
		Log:       log,
		Out:       os.Stdout,
	}
	if cfg.VIAF {
		opts.Persons = &authority.VIAF{}
	}
	if cfg.GeoNames {
		opts.Places = &authority.GeoNames{Username: cfg.GeoNamesUsername}
	}
	if cfg.CatalogPath != "" {
		st, err := sqlitestore.Open(ctx, cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("catalog", cfg.CatalogPath).Msg("cannot open occurrence catalog")
		}
		defer st.Close()
		opts.Catalog = st
	}

	if err := eadspot.New(opts).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}
