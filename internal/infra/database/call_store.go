package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// CallStore is the Postgres-backed call-record collection. Same discipline
// as LeadStore: the table lock in Update is what makes the in-process merge
// safe against concurrent callbacks for the same call.
type CallStore struct {
	DB *sql.DB
}

func NewCallStore(db *sql.DB) *CallStore {
	return &CallStore{DB: db}
}

func (s *CallStore) ReadAll(ctx context.Context) ([]entity.CallRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT doc FROM calls ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := []entity.CallRecord{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var call entity.CallRecord
		if err := json.Unmarshal(raw, &call); err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

func (s *CallStore) WriteAll(ctx context.Context, calls []entity.CallRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceCalls(ctx, tx, calls); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *CallStore) Update(ctx context.Context, fn func(calls []entity.CallRecord) []entity.CallRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE calls IN ACCESS EXCLUSIVE MODE`); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT doc FROM calls ORDER BY position`)
	if err != nil {
		return err
	}
	calls := []entity.CallRecord{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			rows.Close()
			return err
		}
		var call entity.CallRecord
		if err := json.Unmarshal(raw, &call); err != nil {
			rows.Close()
			return err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if err := replaceCalls(ctx, tx, fn(calls)); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceCalls(ctx context.Context, tx *sql.Tx, calls []entity.CallRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM calls`); err != nil {
		return err
	}
	for i, call := range calls {
		raw, err := json.Marshal(call)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO calls (call_id, position, doc) VALUES ($1, $2, $3)`,
			call.CallID, i, raw,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
