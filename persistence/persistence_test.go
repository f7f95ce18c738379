package persistence

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/descgo/model"
)

func TestHeaderSize(t *testing.T) {
	assert.Equal(t, headerSize, binary.Size(FileHeader{}))
}

func TestParseCompression(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		got, err := ParseCompression(comp.String())
		require.NoError(t, err)
		assert.Equal(t, comp, got)
	}

	got, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, got)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func hpatchesSnapshot() *Snapshot[float32] {
	const (
		dim   = 2
		slots = 16
		total = 3
	)
	data := make([]float32, dim*total*slots)
	for i := range data {
		data[i] = float32(i) * 0.5
	}
	return &Snapshot[float32]{
		Variant:   model.VariantHPatches,
		Dim:       dim,
		SlotCount: slots,
		Total:     total,
		NaNFill:   -1,
		Sequences: []string{"seq1", "seq2"},
		Counts:    []int{2, 1},
		Offsets:   model.OffsetTable{0, 2},
		Data:      data,
	}
}

func phototourismSnapshot() *Snapshot[float32] {
	const (
		dim   = 3
		total = 4
	)
	data := make([]float32, dim*total)
	for i := range data {
		data[i] = float32(i)
	}
	return &Snapshot[float32]{
		Variant:           model.VariantPhototourism,
		Dim:               dim,
		SlotCount:         1,
		Total:             total,
		Sequences:         []string{"liberty"},
		Counts:            []int{total},
		Offsets:           model.OffsetTable{0},
		CorrespondenceIDs: []int64{0, 0, 1, 1},
		ReferenceImageIDs: []int64{0, 1, 2, 0},
		Data:              data,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	snapshots := map[string]*Snapshot[float32]{
		"hpatches":     hpatchesSnapshot(),
		"phototourism": phototourismSnapshot(),
	}
	codecs := []Compression{CompressionNone, CompressionZstd, CompressionLZ4}

	for name, snap := range snapshots {
		for _, comp := range codecs {
			t.Run(name+"/"+comp.String(), func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "store.desc")
				require.NoError(t, Save(path, snap, comp))

				got, err := Load[float32](path)
				require.NoError(t, err)
				assert.Equal(t, snap, got)
			})
		}
	}
}

func TestLoadMapped(t *testing.T) {
	snap := hpatchesSnapshot()

	t.Run("uncompressed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		require.NoError(t, Save(path, snap, CompressionNone))

		got, err := LoadMapped[float32](path)
		require.NoError(t, err)
		assert.Equal(t, snap, got)
	})

	// Compressed caches fall back to the streaming path.
	t.Run("zstd fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		require.NoError(t, Save(path, snap, CompressionZstd))

		got, err := LoadMapped[float32](path)
		require.NoError(t, err)
		assert.Equal(t, snap, got)
	})
}

func TestSaveRejectsInvalidSnapshot(t *testing.T) {
	snap := hpatchesSnapshot()
	snap.Data = snap.Data[:1]
	path := filepath.Join(t.TempDir(), "store.desc")

	require.Error(t, Save(path, snap, CompressionNone))
	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.desc")
	require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF // flip a byte in the data section
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err = Load[float32](path)
	var cme *ChecksumMismatchError
	require.ErrorAs(t, err, &cme)

	_, err = LoadMapped[float32](path)
	assert.ErrorAs(t, err, &cme)
}

func TestLoadBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.desc")
	require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err = Load[float32](path)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoadBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.desc")
	require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(raw[4:], 0x00990000)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err = Load[float32](path)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestLoadElemKindMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.desc")
	require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))

	_, err := Load[float64](path)
	assert.ErrorIs(t, err, ErrElemKindMismatch)
}

func TestLoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.desc")
	require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)/2], 0644))

	_, err = Load[float32](path)
	require.Error(t, err)

	_, err = LoadMapped[float32](path)
	require.Error(t, err)
}

func TestLoadOrBuild(t *testing.T) {
	t.Run("miss builds and caches", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		builds := 0
		build := func() (*Snapshot[float32], error) {
			builds++
			return hpatchesSnapshot(), nil
		}

		snap, fromCache, err := LoadOrBuild(path, true, CompressionZstd, build)
		require.NoError(t, err)
		assert.False(t, fromCache)
		assert.Equal(t, 1, builds)
		require.NoError(t, snap.Validate())

		// Second call hits the cache and never invokes build.
		snap2, fromCache, err := LoadOrBuild(path, true, CompressionZstd, build)
		require.NoError(t, err)
		assert.True(t, fromCache)
		assert.Equal(t, 1, builds)
		assert.Equal(t, snap, snap2)
	})

	t.Run("cache disabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		builds := 0
		build := func() (*Snapshot[float32], error) {
			builds++
			return hpatchesSnapshot(), nil
		}

		_, fromCache, err := LoadOrBuild(path, false, CompressionNone, build)
		require.NoError(t, err)
		assert.False(t, fromCache)

		_, _, err = LoadOrBuild(path, false, CompressionNone, build)
		require.NoError(t, err)
		assert.Equal(t, 2, builds)

		_, err = os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupt cache surfaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		require.NoError(t, Save(path, hpatchesSnapshot(), CompressionNone))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xFF
		require.NoError(t, os.WriteFile(path, raw, 0644))

		_, _, err = LoadOrBuild(path, true, CompressionNone, func() (*Snapshot[float32], error) {
			t.Fatal("build must not run on a corrupt cache")
			return nil, nil
		})
		var cme *ChecksumMismatchError
		assert.ErrorAs(t, err, &cme)
	})

	t.Run("build failure leaves no cache", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.desc")
		wantErr := errors.New("raw files unreadable")

		_, _, err := LoadOrBuild(path, true, CompressionNone, func() (*Snapshot[float32], error) {
			return nil, wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		_, err = os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
