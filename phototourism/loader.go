package phototourism

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/progress"
	"github.com/hupe1980/descgo/tableio"
)

// DefaultSequences is the canonical Phototourism sequence list.
var DefaultSequences = []string{"liberty", "notredame", "yosemite"}

// LoadConfig configures a raw-file load.
type LoadConfig struct {
	// Root is the dataset root; descriptor files live under Root/Name.
	Root string
	// MetaRoot is the root of the per-sequence metadata directories.
	// Defaults to Root.
	MetaRoot string
	// Name is the descriptor-set name.
	Name string
	// Sequences is the known sequence list. Defaults to DefaultSequences.
	Sequences []string
	// NaNFill replaces NaN entries in the raw tables. Pass tableio.KeepNaN
	// to leave them untouched.
	NaNFill float64
	// Progress receives per-sequence ingestion events. Optional.
	Progress progress.Reporter
}

func (c *LoadConfig) sequences() []string {
	if len(c.Sequences) > 0 {
		return c.Sequences
	}
	return DefaultSequences
}

func (c *LoadConfig) metaRoot() string {
	if c.MetaRoot != "" {
		return c.MetaRoot
	}
	return c.Root
}

func (c *LoadConfig) reporter() progress.Reporter {
	if c.Progress == nil {
		return progress.NoopReporter{}
	}
	return c.Progress
}

// Load builds a Store from the raw files under Root/Name. The raw layout
// is auto-detected: a subdirectory named after the first known sequence
// means per-image files, otherwise one tab-delimited table per sequence.
// Any dimensionality mismatch aborts the load; no partial store is
// returned.
func Load[T model.Float](cfg LoadConfig) (*Store[T], error) {
	sequences := cfg.sequences()
	dir := filepath.Join(cfg.Root, cfg.Name)
	perImage, err := detectPerImageLayout(dir, sequences[0])
	if err != nil {
		return nil, err
	}

	rep := cfg.reporter()
	rep.Start(cfg.Name, len(sequences))

	var (
		dim     = -1
		counts  = make([]int, len(sequences))
		blocks  = make([]*matrix.Matrix[T], len(sequences))
		corrIDs [][]int64
		refIDs  [][]int64
	)
	for i, seq := range sequences {
		var block *matrix.Matrix[T]
		if perImage {
			block, err = loadSequenceDir[T](filepath.Join(dir, seq), cfg.NaNFill, &dim)
		} else {
			block, err = loadSequenceFile[T](filepath.Join(dir, seq+".txt"), cfg.NaNFill, &dim)
		}
		if err != nil {
			return nil, err
		}
		blocks[i] = block
		counts[i] = block.Cols()

		corr, ref, err := loadSequenceMeta(cfg.metaRoot(), seq, block.Cols())
		if err != nil {
			return nil, err
		}
		corrIDs = append(corrIDs, corr)
		refIDs = append(refIDs, ref)
		rep.Step(seq)
	}
	rep.Done()

	offsets := model.NewOffsetTable(counts)
	total := offsets.Total(counts)

	data := make([]T, 0, dim*total)
	correspondence := make([]int64, 0, total)
	reference := make([]int64, 0, total)
	for i := range sequences {
		data = append(data, blocks[i].Data()...)
		correspondence = append(correspondence, corrIDs[i]...)
		reference = append(reference, refIDs[i]...)
	}
	m, err := matrix.FromData(dim, total, data)
	if err != nil {
		return nil, err
	}

	return &Store[T]{
		name:              cfg.Name,
		root:              cfg.Root,
		metaRoot:          cfg.metaRoot(),
		nanFill:           cfg.NaNFill,
		sequences:         append([]string(nil), sequences...),
		seqIndex:          buildSeqIndex(sequences),
		counts:            counts,
		offsets:           offsets,
		dim:               dim,
		total:             total,
		data:              m,
		correspondenceIDs: correspondence,
		referenceImageIDs: reference,
	}, nil
}

func detectPerImageLayout(dir, firstSequence string) (bool, error) {
	if _, err := os.Stat(dir); err != nil {
		return false, err
	}
	fi, err := os.Stat(filepath.Join(dir, firstSequence))
	if err == nil && fi.IsDir() {
		return true, nil
	}
	return false, nil
}

// loadSequenceDir reads every descriptor file of one sequence directory in
// sorted order and concatenates them along the column axis.
func loadSequenceDir[T model.Float](seqDir string, nanFill float64, dim *int) (*matrix.Matrix[T], error) {
	files, err := listFiles(seqDir)
	if err != nil {
		return nil, err
	}

	var (
		data []T
		cols int
	)
	for _, name := range files {
		path := filepath.Join(seqDir, name)
		m, err := tableio.ReadTable[T](path, nanFill)
		if err != nil {
			return nil, err
		}
		if *dim == -1 {
			*dim = m.Rows()
		}
		if m.Rows() != *dim {
			return nil, &model.DimensionMismatchError{Path: path, Expected: *dim, Actual: m.Rows()}
		}
		data = append(data, m.Data()...)
		cols += m.Cols()
	}
	return matrix.FromData(*dim, cols, data)
}

// loadSequenceFile reads one tab-delimited table holding a whole sequence.
func loadSequenceFile[T model.Float](path string, nanFill float64, dim *int) (*matrix.Matrix[T], error) {
	m, err := tableio.ReadTable[T](path, nanFill)
	if err != nil {
		return nil, err
	}
	if *dim == -1 {
		*dim = m.Rows()
	}
	if m.Rows() != *dim {
		return nil, &model.DimensionMismatchError{Path: path, Expected: *dim, Actual: m.Rows()}
	}
	return m, nil
}

// loadSequenceMeta reads the correspondence-id and reference-image-id
// columns for one sequence. The files carry 1-based ids; they are stored
// 0-based to match internal indexing.
func loadSequenceMeta(metaRoot, seq string, count int) (corr, ref []int64, err error) {
	corrPath := filepath.Join(metaRoot, seq, "info.txt")
	corr, err = tableio.ReadIntColumn(corrPath)
	if err != nil {
		return nil, nil, err
	}
	refPath := filepath.Join(metaRoot, seq, "interest.txt")
	ref, err = tableio.ReadIntColumn(refPath)
	if err != nil {
		return nil, nil, err
	}
	if len(corr) != count {
		return nil, nil, fmt.Errorf("%s: %d correspondence ids for %d descriptors in sequence %q", corrPath, len(corr), count, seq)
	}
	if len(ref) != count {
		return nil, nil, fmt.Errorf("%s: %d reference image ids for %d descriptors in sequence %q", refPath, len(ref), count, seq)
	}
	for i := range corr {
		corr[i]--
	}
	for i := range ref {
		ref[i]--
	}
	return corr, ref, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no descriptor files under %s", dir)
	}
	return files, nil
}
