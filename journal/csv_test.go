package journal

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	assert.Equal(t, CSVColumns, header)
}

func TestCSVJournalRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	rec := sampleTrade()
	require.NoError(t, j.RecordTrade(context.Background(), rec))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	raws, skipped, err := ReadTradesCSV(f)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, raws, 1)

	recs, bad := Normalize(raws)
	assert.Empty(t, bad)
	require.Len(t, recs, 1)
	got := recs[0]

	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, got.Date.Equal(rec.Date))
	assert.Equal(t, rec.Direction, got.Direction)
	assert.InDelta(t, rec.PnL, got.PnL, 1e-9)
	assert.Equal(t, rec.LevelTags, got.LevelTags)
	assert.Equal(t, rec.ExecutedRules, got.ExecutedRules)
	assert.Equal(t, []string{}, got.PhaseTags)
	assert.Equal(t, rec.Notes, got.Notes)
}

func TestReadTradesCSVSkipsBadNumbers(t *testing.T) {
	t.Parallel()

	in := "date,symbol,pnl,psychology_factors\n" +
		"2024-01-02,ES,100,fomo;revenge\n" +
		"2024-01-03,ES,abc,\n" +
		"2024-01-04,NQ,-50,\n"

	raws, skipped, err := ReadTradesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Contains(t, skipped[0].Reason, "pnl")

	assert.Equal(t, StringList{"fomo", "revenge"}, raws[0].PsychologyFactors)
	assert.Equal(t, StringList{}, raws[1].PsychologyFactors)
	assert.Equal(t, Num(-50), raws[1].PnL)
	assert.False(t, raws[1].Size.Set)
}

func TestReadTradesCSVRequiresDate(t *testing.T) {
	t.Parallel()

	_, _, err := ReadTradesCSV(strings.NewReader("symbol,pnl\nES,1\n"))
	assert.Error(t, err)
}

func TestReadTradesCSVSkipsMalformedRow(t *testing.T) {
	t.Parallel()

	in := "id,date,pnl\n" +
		"a,2024-01-02,100\n" +
		"b,2024-01-03,\"5\"x\n" +
		"c,2024-01-04,-50\n"

	raws, skipped, err := ReadTradesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "a", raws[0].ID)
	assert.Equal(t, "c", raws[1].ID)
	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Contains(t, skipped[0].Reason, "parse error")
}
