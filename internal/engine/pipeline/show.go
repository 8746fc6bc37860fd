package pipeline

import (
	"encoding/json"
	"fmt"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/codec"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// show renders the store's current contents in display form. Arrays collapse
// to readable one-liners instead of their durable encoding. The store is
// never written.
func (p *Pipeline) show(cfg *domain.Config, store ports.ResultStore) error {
	doc := map[string]any{
		domain.ProvenanceKey: domain.Provenance{Hash: cfg.Hash, Path: cfg.Path},
	}
	for _, name := range store.Names() {
		value, ok := store.Get(name)
		if !ok {
			continue
		}
		doc[name] = codec.EncodeDisplay(value)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to render results")
	}

	if _, err := fmt.Fprintf(p.out, "%s\n", data); err != nil {
		return zerr.Wrap(err, "failed to write results")
	}
	return nil
}
