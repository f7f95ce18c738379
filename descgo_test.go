package descgo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/normalize"
	"github.com/hupe1980/descgo/persistence"
)

// hpatchesFixture lays out <root>/<name>/<seq>/<label>.csv with
// deterministic values si*1e6 + slot*5e4 + idx0*100 + row.
func hpatchesFixture(t *testing.T, root, name string, sequences []string, counts []int, dim int) {
	t.Helper()
	for si, seq := range sequences {
		seqDir := filepath.Join(root, name, seq)
		require.NoError(t, os.MkdirAll(seqDir, 0755))
		for slot, label := range model.ImageAxis {
			var sb strings.Builder
			for idx0 := 0; idx0 < counts[si]; idx0++ {
				for row := 0; row < dim; row++ {
					if row > 0 {
						sb.WriteByte(',')
					}
					fmt.Fprintf(&sb, "%d", si*1_000_000+slot*50_000+idx0*100+row)
				}
				sb.WriteByte('\n')
			}
			require.NoError(t, os.WriteFile(filepath.Join(seqDir, label+".csv"), []byte(sb.String()), 0644))
		}
	}
}

// phototourismFixture lays out <root>/<name>/<seq>.txt plus the metadata
// files under <root>/<seq>/.
func phototourismFixture(t *testing.T, root, name string, sequences []string, counts []int, dim int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
	for si, seq := range sequences {
		var data, info, interest strings.Builder
		for idx0 := 0; idx0 < counts[si]; idx0++ {
			for row := 0; row < dim; row++ {
				if row > 0 {
					data.WriteByte('\t')
				}
				fmt.Fprintf(&data, "%d", si*1_000_000+idx0*100+row)
			}
			data.WriteByte('\n')
			fmt.Fprintf(&info, "%d 0\n", idx0/2+1)
			fmt.Fprintf(&interest, "%d 0 0\n", idx0+1)
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, name, seq+".txt"), []byte(data.String()), 0644))

		metaDir := filepath.Join(root, seq)
		require.NoError(t, os.MkdirAll(metaDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(metaDir, "info.txt"), []byte(info.String()), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(metaDir, "interest.txt"), []byte(interest.String()), 0644))
	}
}

func TestOpenHPatches(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1", "seq2"}, []int{3, 2}, 2)

	st, err := OpenHPatches[float32]("sift", WithRoot[float32](root))
	require.NoError(t, err)
	assert.Equal(t, "sift", st.Name())
	assert.Equal(t, model.VariantHPatches, st.Variant())
	assert.Equal(t, 2, st.Dim())
	assert.Equal(t, 5, st.Total())
	assert.Equal(t, []string{"seq1", "seq2"}, st.Sequences())

	// The first open writes the cache; the second restores from it with
	// identical answers.
	cacheFile := filepath.Join(root, ".cache", "hpatches-sift.desc")
	_, err = os.Stat(cacheFile)
	require.NoError(t, err)

	cached, err := OpenHPatches[float32]("sift", WithRoot[float32](root))
	require.NoError(t, err)
	a, err := st.Get([]string{"seq2"}, model.NoiseHard, []int{3}, []int{2})
	require.NoError(t, err)
	b, err := cached.Get([]string{"seq2"}, model.NoiseHard, []int{3}, []int{2})
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	require.NoError(t, cached.VerifyAll())
}

func TestOpenPhototourism(t *testing.T) {
	root := t.TempDir()
	sequences := []string{"liberty", "notredame"}
	phototourismFixture(t, root, "brief", sequences, []int{4, 2}, 3)

	st, err := OpenPhototourism[float32]("brief",
		WithRoot[float32](root),
		WithSequences[float32](sequences...),
	)
	require.NoError(t, err)
	assert.Equal(t, 6, st.Total())
	assert.Equal(t, []int64{0, 0, 1, 1, 0, 0}, st.CorrespondenceIDs())

	got, seqIDs, err := st.Get("notredame", []int{2})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, seqIDs)
	assert.Equal(t, float32(1_000_100), got.At(0, 0))

	cached, err := OpenPhototourism[float32]("brief",
		WithRoot[float32](root),
		WithSequences[float32](sequences...),
	)
	require.NoError(t, err)
	assert.Equal(t, st.ReferenceImageIDs(), cached.ReferenceImageIDs())
}

func TestOpenDispatch(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1"}, []int{2}, 2)

	st, err := Open[float32]("sift", WithRoot[float32](root))
	require.NoError(t, err)
	assert.Equal(t, model.VariantHPatches, st.Variant())
	assert.Equal(t, 2, st.Total())

	_, err = Open[float32]("sift",
		WithRoot[float32](root),
		WithVariant[float32](model.Variant(7)),
	)
	assert.ErrorIs(t, err, model.ErrUnknownVariant)
}

func TestNameOnly(t *testing.T) {
	st, err := Open[float32]("sift", NameOnly[float32]())
	require.NoError(t, err)
	assert.Equal(t, "sift", st.Name())
	assert.Equal(t, model.VariantHPatches, st.Variant())
	assert.Zero(t, st.Total())
	assert.Nil(t, st.Sequences())

	_, err = OpenHPatches[float32]("sift", NameOnly[float32]())
	assert.ErrorIs(t, err, ErrNameOnly)

	_, err = OpenPhototourism[float32]("sift", NameOnly[float32]())
	assert.ErrorIs(t, err, ErrNameOnly)
}

func TestOpenNoRoot(t *testing.T) {
	_, err := OpenHPatches[float32]("sift")
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestCacheDisabled(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1"}, []int{2}, 2)

	_, err := OpenHPatches[float32]("sift",
		WithRoot[float32](root),
		WithCache[float32](false),
	)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, ".cache"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompressionOption(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1"}, []int{2}, 2)
	cacheDir := t.TempDir()

	st, err := OpenHPatches[float32]("sift",
		WithRoot[float32](root),
		WithCacheDir[float32](cacheDir),
		WithCompression[float32](persistence.CompressionLZ4),
	)
	require.NoError(t, err)

	cached, err := OpenHPatches[float32]("sift",
		WithRoot[float32](root),
		WithCacheDir[float32](cacheDir),
		WithCompression[float32](persistence.CompressionLZ4),
	)
	require.NoError(t, err)
	assert.True(t, st.Data().Equal(cached.Data()))
}

func TestNormalizerAppliedAfterCache(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1"}, []int{2}, 2)

	st, err := OpenHPatches[float32]("sift",
		WithRoot[float32](root),
		WithNormalizer[float32](normalize.L2[float32]{}),
	)
	require.NoError(t, err)

	col := st.Data().Col(0)
	var sum float64
	for _, v := range col {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	// The cache holds the raw data; a normalizer-free open restores it.
	raw, err := OpenHPatches[float32]("sift", WithRoot[float32](root))
	require.NoError(t, err)
	assert.Equal(t, float32(1), raw.Data().Col(0)[1])
}

func TestKeepNaN(t *testing.T) {
	root := t.TempDir()
	hpatchesFixture(t, root, "sift", []string{"seq1"}, []int{2}, 2)
	path := filepath.Join(root, "sift", "seq1", "ref.csv")
	require.NoError(t, os.WriteFile(path, []byte("NaN,1\n100,101\n"), 0644))

	st, err := OpenHPatches[float64]("sift",
		WithRoot[float64](root),
		WithCache[float64](false),
		WithNaNFill[float64](KeepNaN),
	)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(st.Data().At(0, 0)))

	filled, err := OpenHPatches[float64]("sift",
		WithRoot[float64](root),
		WithCache[float64](false),
		WithNaNFill[float64](-7),
	)
	require.NoError(t, err)
	assert.Equal(t, float64(-7), filled.Data().At(0, 0))
}
