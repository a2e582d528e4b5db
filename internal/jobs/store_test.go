package jobs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	rec := &Record{
		Backend:    "qiskit",
		NumQubits:  2,
		Shots:      1024,
		Counts:     quantum.Counts{"00": 500, "11": 524},
		DurationMS: 12,
	}
	require.NoError(t, store.Save(rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "qiskit", got.Backend)
	assert.Equal(t, 2, got.NumQubits)
	assert.Equal(t, 1024, got.Shots)
	assert.Equal(t, quantum.Counts{"00": 500, "11": 524}, got.Counts)
	assert.Equal(t, int64(12), got.DurationMS)
}

func TestGetMissingRecord(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(&Record{
			Backend:   "cirq",
			NumQubits: 1,
			Shots:     100,
			Counts:    quantum.Counts{"0": 100},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.True(t, records[1].CreatedAt.After(records[2].CreatedAt))
}

func TestListAppliesLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(&Record{
			Backend: "cirq", NumQubits: 1, Shots: 1,
			Counts: quantum.Counts{"0": 1},
		}))
	}

	records, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDeleteOlderThan(t *testing.T) {
	store := openTestStore(t)

	old := &Record{
		Backend: "qiskit", NumQubits: 1, Shots: 1,
		Counts:    quantum.Counts{"0": 1},
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	fresh := &Record{
		Backend: "qiskit", NumQubits: 1, Shots: 1,
		Counts: quantum.Counts{"1": 1},
	}
	require.NoError(t, store.Save(old))
	require.NoError(t, store.Save(fresh))

	deleted, err := store.DeleteOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestCleanupJobRun(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(&Record{
		Backend: "cirq", NumQubits: 1, Shots: 1,
		Counts:    quantum.Counts{"0": 1},
		CreatedAt: time.Now().UTC().Add(-72 * time.Hour),
	}))

	NewCleanupJob(store, 24*time.Hour, zerolog.Nop()).Run()

	records, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
