package descgo

import (
	"math"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/normalize"
	"github.com/hupe1980/descgo/persistence"
	"github.com/hupe1980/descgo/progress"
)

// KeepNaN is the NaN-fill sentinel: NaN entries in the raw tables are left
// untouched instead of being replaced.
var KeepNaN = math.NaN()

type options[T model.Float] struct {
	variant     model.Variant
	root        string
	metaRoot    string
	cacheDir    string
	useCache    bool
	nanFill     float64
	sequences   []string
	compression persistence.Compression
	normalizer  normalize.Normalizer[T]
	progress    progress.Reporter
	logger      *Logger
	nameOnly    bool
}

// Option configures store construction. Options exist to keep the Open
// surface small; the zero configuration (hpatches variant, caching on,
// NaN replaced with 0, zstd-compressed cache) matches the benchmark
// defaults.
type Option[T model.Float] func(*options[T])

func newOptions[T model.Float](opts []Option[T]) *options[T] {
	o := &options[T]{
		variant:     model.VariantHPatches,
		useCache:    true,
		nanFill:     0,
		compression: persistence.CompressionZstd,
		logger:      NoopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options[T]) applyNormalizer(m *matrix.Matrix[T]) {
	if o.normalizer == nil {
		return
	}
	o.normalizer.Normalize(m)
	o.logger.LogNormalize(o.normalizer.Name(), m.Cols())
}

// WithVariant selects the dataset variant. Default: hpatches.
func WithVariant[T model.Float](v model.Variant) Option[T] {
	return func(o *options[T]) { o.variant = v }
}

// WithRoot sets the dataset root; descriptor files live under
// <root>/<descriptor name>.
func WithRoot[T model.Float](root string) Option[T] {
	return func(o *options[T]) { o.root = root }
}

// WithMetaRoot sets the metadata root for the phototourism variant.
// Defaults to the dataset root.
func WithMetaRoot[T model.Float](metaRoot string) Option[T] {
	return func(o *options[T]) { o.metaRoot = metaRoot }
}

// WithCacheDir sets the directory for cache files.
// Defaults to <root>/.cache.
func WithCacheDir[T model.Float](dir string) Option[T] {
	return func(o *options[T]) { o.cacheDir = dir }
}

// WithCache enables or disables the on-disk cache. Default: enabled.
// With caching disabled every Open re-parses the raw files.
func WithCache[T model.Float](enabled bool) Option[T] {
	return func(o *options[T]) { o.useCache = enabled }
}

// WithNaNFill sets the value that replaces NaN entries in the raw tables.
// Default: 0. Pass KeepNaN to preserve NaN entries.
func WithNaNFill[T model.Float](v float64) Option[T] {
	return func(o *options[T]) { o.nanFill = v }
}

// WithSequences sets the known sequence list for the phototourism
// variant. Default: liberty, notredame, yosemite.
func WithSequences[T model.Float](sequences ...string) Option[T] {
	return func(o *options[T]) { o.sequences = sequences }
}

// WithCompression selects the cache payload codec. Default: zstd.
// Uncompressed caches can be restored through a memory map.
func WithCompression[T model.Float](c persistence.Compression) Option[T] {
	return func(o *options[T]) { o.compression = c }
}

// WithNormalizer applies a post-processing transform to the finished
// store's data, after loading or cache restore. The cache always holds
// the untransformed data.
func WithNormalizer[T model.Float](n normalize.Normalizer[T]) Option[T] {
	return func(o *options[T]) { o.normalizer = n }
}

// WithProgress sets the ingestion progress reporter.
func WithProgress[T model.Float](r progress.Reporter) Option[T] {
	return func(o *options[T]) { o.progress = r }
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger[T model.Float](l *Logger) Option[T] {
	return func(o *options[T]) {
		if l != nil {
			o.logger = l
		}
	}
}

// NameOnly constructs identity metadata without touching the file system.
// Only Open supports it; the typed openers need the data.
func NameOnly[T model.Float]() Option[T] {
	return func(o *options[T]) { o.nameOnly = true }
}
