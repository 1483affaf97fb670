package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/store/file"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	repo := file.New(filepath.Join(t.TempDir(), "missing.json"))

	st, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, st.NextID)
	assert.Empty(t, st.Pending)
	assert.Empty(t, st.Fired)
	assert.Empty(t, st.Notifications)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	repo := file.New(path)

	at, err := wallclock.Parse("1231-02-20T21:03")
	require.NoError(t, err)
	st := briefing.State{}.Clone()
	a, _ := st.AddAlarm("a", at, briefing.Flags{Weather: true, News: true}, "")
	st.Fire(a.ID, "body\n")
	st.AddAlarm("b", at.AddDate(1000, 0, 0), briefing.Flags{}, "preview")
	st.AddNotification(briefing.Notification{Title: "n", Body: "m"})

	require.NoError(t, repo.Save(context.Background(), st))
	got, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, st, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := file.New(path).Load(context.Background())

	assert.Error(t, err)
}

func TestResetLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	repo := file.New(path)

	st := briefing.State{NextID: 7}
	st.Reset()
	require.NoError(t, repo.Save(context.Background(), st))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_id":0,"notifications":[],"fired_alarms":[],"pending_alarms":[]}`, string(data))
}
