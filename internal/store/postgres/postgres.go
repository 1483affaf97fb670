// Package postgres keeps the state record in a single jsonb row.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/Raimguhinov/briefing-go/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

const stateRowID = 1

type Repository struct {
	client *postgres.Postgres
	logger *logger.Logger
}

// New prepares the schema and returns the repository.
func New(ctx context.Context, client *postgres.Postgres, l *logger.Logger) (*Repository, error) {
	r := &Repository{
		client: client,
		logger: l.Component("store/postgres"),
	}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS briefing`,
	`CREATE TABLE IF NOT EXISTS briefing.state (
		id         SMALLINT PRIMARY KEY CHECK (id = 1),
		data       JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func (r *Repository) migrate(ctx context.Context) error {
	for i, query := range migrations {
		if _, err := r.client.Pool.Exec(ctx, query); err != nil {
			err = r.client.ToPgErr(err)
			r.logger.Error("postgres.migrate", "stmt", i, logger.Err(err))
			return fmt.Errorf("postgres - migrate - stmt %d: %w", i, err)
		}
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) (briefing.State, error) {
	r.logger.Debug("postgres.Load")

	var data []byte
	err := r.client.Pool.QueryRow(ctx, `
		SELECT data
		FROM briefing.state
		WHERE id = $1
	`, stateRowID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return briefing.State{}.Clone(), nil
	}
	if err != nil {
		err = r.client.ToPgErr(err)
		r.logger.Error("postgres.Load", logger.Err(err))
		return briefing.State{}, err
	}

	var st briefing.State
	if err := json.Unmarshal(data, &st); err != nil {
		return briefing.State{}, fmt.Errorf("postgres - Load - Unmarshal: %w", err)
	}
	return st.Clone(), nil
}

func (r *Repository) Save(ctx context.Context, st briefing.State) error {
	r.logger.Debug("postgres.Save")

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("postgres - Save - Marshal: %w", err)
	}

	tx, err := r.client.NewTx(ctx)
	if err != nil {
		r.logger.Error("postgres.Save", logger.Err(err))
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `
		INSERT INTO briefing.state (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
	`, stateRowID, data); err != nil {
		err = r.client.ToPgErr(err)
		r.logger.Error("postgres.Save", logger.Err(err))
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = r.client.ToPgErr(err)
		r.logger.Error("postgres.Save", logger.Err(err))
		return err
	}
	return nil
}

func (r *Repository) Close() error {
	r.client.Close()
	return nil
}
