package descgo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/descgo/hpatches"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/persistence"
	"github.com/hupe1980/descgo/phototourism"
)

// ErrNoRoot is returned when a store is opened without a dataset root.
var ErrNoRoot = errors.New("dataset root not configured")

// ErrNameOnly is returned by the typed openers when the NameOnly option is
// set; a typed store always carries data.
var ErrNameOnly = errors.New("name-only store has no data")

// Store is the variant-neutral metadata view of an opened store. Callers
// that need descriptor data use the typed OpenHPatches/OpenPhototourism,
// or type-assert to *hpatches.Store[T] / *phototourism.Store[T].
type Store interface {
	Name() string
	Variant() model.Variant
	Dim() int
	Total() int
	Sequences() []string
}

// identityStore is the NameOnly result: identity metadata, no data.
type identityStore struct {
	name    string
	variant model.Variant
}

func (s *identityStore) Name() string           { return s.name }
func (s *identityStore) Variant() model.Variant { return s.variant }
func (s *identityStore) Dim() int               { return 0 }
func (s *identityStore) Total() int             { return 0 }
func (s *identityStore) Sequences() []string    { return nil }

// Open constructs the store for the descriptor set under the configured
// variant. With caching enabled (the default) a previously built store is
// restored from its cache file; otherwise the raw files are parsed and the
// result cached. With the NameOnly option no I/O happens at all.
func Open[T model.Float](name string, opts ...Option[T]) (Store, error) {
	o := newOptions(opts)
	if o.nameOnly {
		return &identityStore{name: name, variant: o.variant}, nil
	}
	switch o.variant {
	case model.VariantHPatches:
		return openHPatches(name, o)
	case model.VariantPhototourism:
		return openPhototourism(name, o)
	default:
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownVariant, uint8(o.variant))
	}
}

// OpenHPatches opens an HPatches-style store with full data access.
func OpenHPatches[T model.Float](name string, opts ...Option[T]) (*hpatches.Store[T], error) {
	o := newOptions(opts)
	o.variant = model.VariantHPatches
	if o.nameOnly {
		return nil, ErrNameOnly
	}
	return openHPatches(name, o)
}

// OpenPhototourism opens a Phototourism-style store with full data access.
func OpenPhototourism[T model.Float](name string, opts ...Option[T]) (*phototourism.Store[T], error) {
	o := newOptions(opts)
	o.variant = model.VariantPhototourism
	if o.nameOnly {
		return nil, ErrNameOnly
	}
	return openPhototourism(name, o)
}

func openHPatches[T model.Float](name string, o *options[T]) (*hpatches.Store[T], error) {
	path, err := cachePath(o, model.VariantHPatches, name)
	if err != nil {
		return nil, err
	}

	snap, fromCache, err := persistence.LoadOrBuild(path, o.useCache, o.compression,
		func() (*persistence.Snapshot[T], error) {
			st, err := hpatches.Load[T](hpatches.LoadConfig{
				Root:     o.root,
				Name:     name,
				NaNFill:  o.nanFill,
				Progress: o.progress,
			})
			if err != nil {
				return nil, err
			}
			return st.Snapshot(), nil
		})
	if err != nil {
		o.logger.LogOpen("hpatches", name, 0, 0, false, err)
		return nil, err
	}

	st, err := hpatches.FromSnapshot(snap, o.root, name)
	if err != nil {
		return nil, err
	}
	o.applyNormalizer(st.Data())
	o.logger.LogOpen("hpatches", name, st.Dim(), st.Total(), fromCache, nil)
	return st, nil
}

func openPhototourism[T model.Float](name string, o *options[T]) (*phototourism.Store[T], error) {
	path, err := cachePath(o, model.VariantPhototourism, name)
	if err != nil {
		return nil, err
	}

	snap, fromCache, err := persistence.LoadOrBuild(path, o.useCache, o.compression,
		func() (*persistence.Snapshot[T], error) {
			st, err := phototourism.Load[T](phototourism.LoadConfig{
				Root:      o.root,
				MetaRoot:  o.metaRoot,
				Name:      name,
				Sequences: o.sequences,
				NaNFill:   o.nanFill,
				Progress:  o.progress,
			})
			if err != nil {
				return nil, err
			}
			return st.Snapshot(), nil
		})
	if err != nil {
		o.logger.LogOpen("phototourism", name, 0, 0, false, err)
		return nil, err
	}

	st, err := phototourism.FromSnapshot(snap, o.root, o.metaRoot, name)
	if err != nil {
		return nil, err
	}
	o.applyNormalizer(st.Data())
	o.logger.LogOpen("phototourism", name, st.Dim(), st.Total(), fromCache, nil)
	return st, nil
}

// cachePath derives the per-descriptor-set cache file path and makes sure
// its directory exists when caching is enabled.
func cachePath[T model.Float](o *options[T], variant model.Variant, name string) (string, error) {
	if o.root == "" {
		return "", ErrNoRoot
	}
	dir := o.cacheDir
	if dir == "" {
		dir = filepath.Join(o.root, ".cache")
	}
	if o.useCache {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.desc", variant, name)), nil
}
