// Package file keeps the state record in a JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
)

// Repository writes the whole record to a temporary file in the target
// directory and renames it into place, so readers see either the old or the
// new record.
type Repository struct {
	path string
}

func New(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) Load(_ context.Context) (briefing.State, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return briefing.State{}.Clone(), nil
	}
	if err != nil {
		return briefing.State{}, fmt.Errorf("file - Load - ReadFile: %w", err)
	}

	var st briefing.State
	if err := json.Unmarshal(data, &st); err != nil {
		return briefing.State{}, fmt.Errorf("file - Load - %s: %w", r.path, err)
	}
	return st.Clone(), nil
}

func (r *Repository) Save(_ context.Context, st briefing.State) (err error) {
	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return fmt.Errorf("file - Save - Marshal: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file - Save - MkdirAll: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("file - Save - CreateTemp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file - Save - Write: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file - Save - Sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("file - Save - Close: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("file - Save - Rename: %w", err)
	}
	return nil
}

func (r *Repository) Close() error { return nil }
