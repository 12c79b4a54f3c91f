package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePersistsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	s, err := NewStorage(path)
	require.NoError(t, err)
	assert.Zero(t, s.Count())

	first := &Record{
		Timestamp:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		TxHash:       "0x01",
		SourceAmount: "10",
		TargetAmount: "2.5",
		Network:      "MAINNET",
		Status:       StatusApproved,
		Message:      "OK",
	}
	require.NoError(t, s.Add(first))
	assert.NotEmpty(t, first.ID)

	second := &Record{SourceAmount: "4", TargetAmount: "1", Network: "TESTNET", Status: StatusFailed}
	require.NoError(t, s.Add(second))
	assert.False(t, second.Timestamp.IsZero())

	reopened, err := NewStorage(path)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Count())

	list := reopened.List(0)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Len(t, reopened.List(1), 1)

	got, err := reopened.Get("0x01")
	require.NoError(t, err)
	assert.Equal(t, "OK", got.Message)

	got, err = reopened.Get(second.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)

	_, err = reopened.Get("missing")
	require.Error(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestNewStorageRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStorage(path)
	require.Error(t, err)
}
