package handlers

import (
	"photovault/internal/ingest"
	"photovault/internal/startup"
	"photovault/internal/walker"
)

type Handlers struct {
	runner     *ingest.Runner
	reporter   *ingest.Reporter
	walkConfig walker.Config
	sourceDir  string
	destPrefix string
}

func New(runner *ingest.Runner, reporter *ingest.Reporter, config *startup.Config) *Handlers {
	wc := walker.DefaultConfig()
	wc.NumWorkers = config.WalkWorkers
	return &Handlers{
		runner:     runner,
		reporter:   reporter,
		walkConfig: wc,
		sourceDir:  config.SourceDir,
		destPrefix: config.DestPrefix,
	}
}
