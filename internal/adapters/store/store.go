// Package store persists run results as a single JSON document per run.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/codec"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Factory implements ports.StoreFactory for JSON documents on disk.
type Factory struct {
	log ports.Logger
}

// NewFactory creates a store factory.
func NewFactory(log ports.Logger) *Factory {
	return &Factory{log: log}
}

// Open loads the result document at path. A missing file yields an empty
// store. A document recorded under a different configuration hash is ignored
// without touching the file, so stale results survive until the next dump.
func (f *Factory) Open(path string, prov domain.Provenance) (ports.ResultStore, error) {
	s := &ResultStore{
		path:   path,
		prov:   prov,
		log:    f.log,
		values: map[string]any{},
		trees:  map[string]any{},
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the run configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.log.Debug(fmt.Sprintf("no result file at %s, starting empty", path))
			return s, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", path)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreDecodeFailed, err), "path", path)
	}

	stored, ok := storedProvenance(doc)
	if !ok || stored.Hash != prov.Hash {
		f.log.Info(fmt.Sprintf("configuration changed, ignoring stored results in %s", path))
		return s, nil
	}

	for name, tree := range doc {
		if name == domain.ProvenanceKey {
			continue
		}
		value, err := codec.Decode(tree)
		if err != nil {
			err = zerr.With(errors.Join(domain.ErrStoreDecodeFailed, err), "path", path)
			return nil, zerr.With(err, "entry", name)
		}
		s.values[name] = value
		s.trees[name] = tree
	}

	f.log.Debug(fmt.Sprintf("loaded %d stored results from %s", len(s.values), path))
	return s, nil
}

// storedProvenance extracts the provenance entry from a decoded document.
func storedProvenance(doc map[string]any) (domain.Provenance, bool) {
	entry, ok := doc[domain.ProvenanceKey].(map[string]any)
	if !ok {
		return domain.Provenance{}, false
	}
	hash, ok := entry["hash"].(string)
	if !ok {
		return domain.Provenance{}, false
	}
	path, _ := entry["path"].(string)
	return domain.Provenance{Hash: hash, Path: path}, true
}

// ResultStore implements ports.ResultStore. Values are kept twice: decoded
// for Get and as their durable trees for Dump, so a dump after a reload
// reproduces the file byte for byte.
type ResultStore struct {
	path   string
	prov   domain.Provenance
	log    ports.Logger
	values map[string]any
	trees  map[string]any
}

// Get retrieves the stored value for a command.
func (s *ResultStore) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Put encodes and records the value a command computed. Encoding failures
// leave the store unchanged.
func (s *ResultStore) Put(name string, value any) error {
	tree, err := codec.Encode(value)
	if err != nil {
		return zerr.With(err, "entry", name)
	}
	s.values[name] = value
	s.trees[name] = tree
	return nil
}

// Names returns the stored command names in sorted order.
func (s *ResultStore) Names() []string {
	names := make([]string, 0, len(s.trees))
	for name := range s.trees {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Path returns the file this store loads from and dumps to.
func (s *ResultStore) Path() string {
	return s.path
}

// Dump writes the document to disk. The write goes through a temporary file
// in the target directory followed by a rename, so readers never observe a
// partial document.
func (s *ResultStore) Dump() error {
	doc := make(map[string]any, len(s.trees)+1)
	for name, tree := range s.trees {
		doc[name] = tree
	}
	doc[domain.ProvenanceKey] = s.prov

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}

	tmp, err := os.CreateTemp(dir, ".memo-tmp-*.json")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := tmp.Sync(); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path)
	}

	s.log.Debug(fmt.Sprintf("dumped %d results to %s", len(s.trees), s.path))
	return nil
}
