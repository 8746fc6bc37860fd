package ports

import "go.trai.ch/memo/internal/core/domain"

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// ResultStore is one run's result document: decoded command results keyed by
// command name, plus the provenance of the configuration that produced them.
type ResultStore interface {
	// Get retrieves the stored value for a command.
	// Returns nil, false if not found.
	Get(name string) (any, bool)

	// Put encodes and records the value a command computed. Values the
	// durable encoding cannot represent are rejected.
	Put(name string, value any) error

	// Names returns the stored command names in sorted order, without the
	// reserved provenance entry.
	Names() []string

	// Path returns the file this store loads from and dumps to.
	Path() string

	// Dump writes the document to disk, creating parent directories as
	// needed.
	Dump() error
}

// StoreFactory opens result stores bound to a configuration snapshot.
type StoreFactory interface {
	// Open loads the store at path. A missing file yields an empty store. An
	// existing file whose recorded hash differs from prov is treated as
	// empty without touching the file on disk.
	Open(path string, prov domain.Provenance) (ResultStore, error)
}
