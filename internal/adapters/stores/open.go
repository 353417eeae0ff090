// Package stores opens the diagram store a configuration names.
package stores

import (
	"fmt"
	"net/http"
	"time"

	"schemer/internal/adapters/filesystem"
	"schemer/internal/adapters/remote"
	"schemer/internal/adapters/sqlite"
	"schemer/internal/config"
	"schemer/internal/ports"
)

// remoteTimeout bounds each request of the remote backend.
const remoteTimeout = 10 * time.Second

// Open returns the store for cfg and a function that releases it.
func Open(cfg config.StoreConfig) (ports.DiagramStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendFile, "":
		return filesystem.NewRepository(cfg.Path), noop, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendRemote:
		s, err := remote.NewStore(cfg.URL, &http.Client{Timeout: remoteTimeout})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// History returns the snapshot history of repo when it keeps one.
func History(repo ports.DiagramStore) (ports.SnapshotHistory, bool) {
	h, ok := repo.(ports.SnapshotHistory)
	return h, ok
}
