package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/store"
	"github.com/Raimguhinov/briefing-go/internal/store/file"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	saved   briefing.State
	saves   int
	failing bool
}

func (r *memRepo) Load(context.Context) (briefing.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved.Clone(), nil
}

func (r *memRepo) Save(_ context.Context, st briefing.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("disk full")
	}
	r.saves++
	r.saved = st.Clone()
	return nil
}

func (r *memRepo) Close() error { return nil }

func openStore(t *testing.T, repo store.Repository) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), repo, logger.Discard())
	require.NoError(t, err)
	return s
}

func addAlarm(title string) func(*briefing.State) []briefing.Intent {
	at, _ := wallclock.Parse("2500-02-20T21:03")
	return func(st *briefing.State) []briefing.Intent {
		_, intents := st.AddAlarm(title, at, briefing.Flags{}, "")
		return intents
	}
}

func TestApplyPersistsAndCommits(t *testing.T) {
	repo := &memRepo{}
	s := openStore(t, repo)

	intents, err := s.Apply(context.Background(), "create", addAlarm("a"))

	require.NoError(t, err)
	assert.NotEmpty(t, intents)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, s.Snapshot(), repo.saved)
	assert.Equal(t, 1, s.Snapshot().NextID)
}

func TestApplyNoopSkipsSave(t *testing.T) {
	repo := &memRepo{}
	s := openStore(t, repo)

	_, err := s.Apply(context.Background(), "dismiss", func(st *briefing.State) []briefing.Intent {
		_, intents := st.DismissAlarm("missing")
		return intents
	})

	require.NoError(t, err)
	assert.Zero(t, repo.saves)
}

func TestApplySaveFailureKeepsState(t *testing.T) {
	repo := &memRepo{}
	s := openStore(t, repo)
	_, err := s.Apply(context.Background(), "create", addAlarm("a"))
	require.NoError(t, err)
	before := s.Snapshot()

	repo.failing = true
	intents, err := s.Apply(context.Background(), "create", addAlarm("b"))

	require.Error(t, err)
	assert.Nil(t, intents)
	assert.Equal(t, briefing.ErrPersistence, briefing.ErrorCode(err))
	assert.Equal(t, before, s.Snapshot(), "counter and collections must not move without a successful save")
}

func TestApplyConcurrentCreatesGetDistinctIDs(t *testing.T) {
	repo := &memRepo{}
	s := openStore(t, repo)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Apply(context.Background(), "create", addAlarm(string(rune('A'+i))))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, n, snap.NextID)
	require.Len(t, snap.Pending, n)
	seen := make(map[int]bool, n)
	for _, a := range snap.Pending {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
	assert.Equal(t, snap, repo.saved)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := openStore(t, &memRepo{})
	_, err := s.Apply(context.Background(), "create", addAlarm("a"))
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Pending[0].Title = "changed"

	assert.Equal(t, "a", s.Snapshot().Pending[0].Title)
}

func TestFileRoundTripThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := openStore(t, file.New(path))

	_, err := s.Apply(context.Background(), "create", addAlarm("a"))
	require.NoError(t, err)
	_, err = s.Apply(context.Background(), "notify", func(st *briefing.State) []briefing.Intent {
		return st.AddNotification(briefing.Notification{Title: "n", Body: "b"})
	})
	require.NoError(t, err)

	reopened := openStore(t, file.New(path))
	assert.Equal(t, s.Snapshot(), reopened.Snapshot())
}

func TestNewFromURL(t *testing.T) {
	dir := t.TempDir()
	repo, err := store.NewFromURL(context.Background(), "file://"+filepath.Join(dir, "state.json"), store.Options{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &file.Repository{}, repo)

	_, err = store.NewFromURL(context.Background(), "ftp://example.com/state", store.Options{}, logger.Discard())
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	repo := &memRepo{}
	s := openStore(t, repo)
	_, err := s.Apply(context.Background(), "create", addAlarm("a"))
	require.NoError(t, err)

	intents, err := s.Reset(context.Background())

	require.NoError(t, err)
	assert.Contains(t, intents, briefing.Disarm(0))
	assert.Zero(t, s.Snapshot().NextID)
	assert.Empty(t, s.Snapshot().Pending)
	assert.Equal(t, s.Snapshot(), repo.saved)
}
