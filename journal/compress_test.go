package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

const compressedTrades = `[
	{"id": "a", "date": "2024-01-02", "pnl": 100},
	{"id": "b", "date": "2024-01-03", "pnl": -40}
]`

func TestLoadTradesFileXZ(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(compressedTrades))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "trades.json.xz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	recs, skipped, err := LoadTradesFile(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, recs, 2)
	assert.Equal(t, -40.0, recs[1].PnL)
}

func TestLoadTradesFileLZMA(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(compressedTrades))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "trades.json.lzma")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	recs, _, err := LoadTradesFile(path)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestLoadTradesFileCorruptXZ(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.json.xz")
	require.NoError(t, os.WriteFile(path, []byte("not xz at all"), 0644))

	_, _, err := LoadTradesFile(path)
	assert.Error(t, err)
}
