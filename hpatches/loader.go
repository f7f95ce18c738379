package hpatches

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/descgo/matrix"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/progress"
	"github.com/hupe1980/descgo/tableio"
)

// LoadConfig configures a raw-file load.
type LoadConfig struct {
	// Root is the dataset root; descriptor files live under Root/Name.
	Root string
	// Name is the descriptor-set name.
	Name string
	// NaNFill replaces NaN entries in the raw tables. Pass tableio.KeepNaN
	// to leave them untouched.
	NaNFill float64
	// Progress receives per-sequence ingestion events. Optional.
	Progress progress.Reporter
	// Parallelism bounds the concurrent per-image file reads within one
	// sequence. Defaults to min(NumImageSlots, GOMAXPROCS).
	Parallelism int
}

func (c *LoadConfig) reporter() progress.Reporter {
	if c.Progress == nil {
		return progress.NoopReporter{}
	}
	return c.Progress
}

func (c *LoadConfig) parallelism() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	p := runtime.GOMAXPROCS(0)
	if p > model.NumImageSlots {
		p = model.NumImageSlots
	}
	return p
}

// Load builds a Store by reading every per-sequence, per-image descriptor
// table under Root/Name. Sequences are the subdirectories of that path, in
// sorted order. Any dimensionality or per-image count mismatch aborts the
// load; no partial store is returned.
//
// The 16 image files of one sequence are read concurrently, but each result
// lands in its fixed image-axis slot before concatenation, so the loaded
// store is identical to a sequential load.
func Load[T model.Float](cfg LoadConfig) (*Store[T], error) {
	dir := filepath.Join(cfg.Root, cfg.Name)
	sequences, err := listSequences(dir)
	if err != nil {
		return nil, err
	}

	rep := cfg.reporter()
	rep.Start(cfg.Name, len(sequences))

	var (
		dim    = -1
		counts = make([]int, len(sequences))
		blocks = make([][model.NumImageSlots]*matrix.Matrix[T], len(sequences))
	)
	for i, seq := range sequences {
		seqDir := filepath.Join(dir, seq)

		g := new(errgroup.Group)
		g.SetLimit(cfg.parallelism())
		for slot := 0; slot < model.NumImageSlots; slot++ {
			slot := slot
			g.Go(func() error {
				m, err := tableio.ReadTable[T](filepath.Join(seqDir, model.ImageAxis[slot]+".csv"), cfg.NaNFill)
				if err != nil {
					return err
				}
				blocks[i][slot] = m
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Validate in slot order so errors are deterministic.
		for slot := 0; slot < model.NumImageSlots; slot++ {
			m := blocks[i][slot]
			if dim == -1 {
				dim = m.Rows()
			}
			if m.Rows() != dim {
				return nil, &model.DimensionMismatchError{
					Path:     filepath.Join(seqDir, model.ImageAxis[slot]+".csv"),
					Expected: dim,
					Actual:   m.Rows(),
				}
			}
			if m.Cols() != blocks[i][0].Cols() {
				return nil, &model.CountMismatchError{
					Sequence: seq,
					Label:    model.ImageAxis[slot],
					Expected: blocks[i][0].Cols(),
					Actual:   m.Cols(),
				}
			}
		}
		counts[i] = blocks[i][0].Cols()
		rep.Step(seq)
	}
	rep.Done()

	offsets := model.NewOffsetTable(counts)
	total := offsets.Total(counts)

	// Assemble the slot-major concatenation: for each image slot, every
	// sequence's block in sequence order. Columns are contiguous in the
	// column-major source blocks, so each block is a single copy.
	data := make([]T, dim*total*model.NumImageSlots)
	for slot := 0; slot < model.NumImageSlots; slot++ {
		for i := range sequences {
			dst := (slot*total + offsets[i]) * dim
			copy(data[dst:dst+counts[i]*dim], blocks[i][slot].Data())
		}
	}
	m, err := matrix.FromData(dim, total*model.NumImageSlots, data)
	if err != nil {
		return nil, err
	}

	return &Store[T]{
		name:      cfg.Name,
		root:      cfg.Root,
		nanFill:   cfg.NaNFill,
		sequences: sequences,
		seqIndex:  buildSeqIndex(sequences),
		counts:    counts,
		offsets:   offsets,
		dim:       dim,
		total:     total,
		data:      m,
	}, nil
}

func listSequences(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var sequences []string
	for _, e := range entries {
		if e.IsDir() {
			sequences = append(sequences, e.Name())
		}
	}
	if len(sequences) == 0 {
		return nil, fmt.Errorf("no sequence directories under %s", dir)
	}
	sort.Strings(sequences)
	return sequences, nil
}
