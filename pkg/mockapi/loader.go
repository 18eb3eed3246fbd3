package mockapi

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/proxymock/proxymock/pkg/config"
	"github.com/proxymock/proxymock/pkg/document"
	"github.com/proxymock/proxymock/pkg/logging"
	"github.com/proxymock/proxymock/pkg/routing"
)

// Loader builds the route table and document store from the API
// definition the host config points at, and keeps the table fresh when
// the definition file changes on disk.
//
// Load-time failures degrade instead of aborting activation: a missing or
// unparsable definition (or a missing data file) yields an empty route
// table, and an unparsable data file leaves the store unset.
type Loader struct {
	cfg *config.Config
	log *slog.Logger

	// watchInterval overrides the definition-file poll interval; zero
	// means config.WatchInterval.
	watchInterval time.Duration
}

// NewLoader creates a Loader for the given host config.
func NewLoader(cfg *config.Config, log *slog.Logger) *Loader {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{cfg: cfg, log: log}
}

// APIPath returns the resolved API definition file path: tokens
// substituted, relative paths joined onto the host config directory.
func (l *Loader) APIPath() string {
	return l.cfg.ExpandPath(l.cfg.APIFile)
}

// Load builds the initial route table and document store.
func (l *Loader) Load() (*routing.Table, *document.Store) {
	apiPath := l.APIPath()

	api, err := config.LoadAPIConfig(apiPath)
	if err != nil {
		l.log.Error("failed to load API definition; mock API disabled", "path", apiPath, "error", err)
		return routing.Empty(), document.New()
	}

	table, err := routing.Build(api)
	if err != nil {
		l.log.Error("failed to build route table; mock API disabled", "path", apiPath, "error", err)
		return routing.Empty(), document.New()
	}

	dataPath := l.resolveDataFile(apiPath, api.DataFile)
	store, err := document.LoadFile(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Warn("data file missing; all actions disabled", "path", dataPath)
			return routing.Empty(), document.New()
		}
		l.log.Error("failed to load data file; document store left unset", "path", dataPath, "error", err)
		return table, document.New()
	}

	l.log.Info("mock API loaded", "path", apiPath, "routes", table.Len(), "items", store.Len())
	return table, store
}

// ReloadTable rebuilds the route table from the definition file. The
// document store is not touched by reloads.
func (l *Loader) ReloadTable() (*routing.Table, error) {
	api, err := config.LoadAPIConfig(l.APIPath())
	if err != nil {
		return nil, err
	}
	return routing.Build(api)
}

// Watch starts a background watcher on the definition file. On change it
// rebuilds the route table and swaps it into the engine atomically; a
// failed rebuild keeps the previous table. The returned function stops
// the watcher and joins its goroutine.
func (l *Loader) Watch(e *Engine) (stop func()) {
	watcher := config.NewWatcher(l.APIPath(), l.watchInterval)
	events := watcher.Start()

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		for {
			select {
			case <-stopCh:
				return
			case ev := <-events:
				table, err := l.ReloadTable()
				if err != nil {
					l.log.Error("definition reload failed; keeping previous route table",
						"path", ev.Path, "error", err)
					continue
				}
				e.SwapTable(table)
				l.log.Info("route table reloaded", "path", ev.Path, "routes", table.Len())
			}
		}
	}()

	return func() {
		close(stopCh)
		watcher.Stop()
		<-doneCh
	}
}

// resolveDataFile resolves the data file path against the definition
// file's directory, after token substitution.
func (l *Loader) resolveDataFile(apiPath, dataFile string) string {
	p := l.cfg.ExpandTokens(dataFile)
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(apiPath), p)
	}
	return filepath.Clean(p)
}
