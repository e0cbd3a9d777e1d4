package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// LeadStore backs the lead collection with Postgres while keeping the
// whole-collection contract: ReadAll selects everything, WriteAll replaces
// everything, Update runs both inside one transaction holding an exclusive
// table lock so concurrent read-modify-write sequences serialize.
type LeadStore struct {
	DB *sql.DB
}

func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{DB: db}
}

func (s *LeadStore) ReadAll(ctx context.Context) ([]entity.Lead, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT doc FROM leads ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var lead entity.Lead
		if err := json.Unmarshal(raw, &lead); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (s *LeadStore) WriteAll(ctx context.Context, leads []entity.Lead) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceLeads(ctx, tx, leads); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *LeadStore) Update(ctx context.Context, fn func(leads []entity.Lead) []entity.Lead) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE leads IN ACCESS EXCLUSIVE MODE`); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT doc FROM leads ORDER BY position`)
	if err != nil {
		return err
	}
	leads := []entity.Lead{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			rows.Close()
			return err
		}
		var lead entity.Lead
		if err := json.Unmarshal(raw, &lead); err != nil {
			rows.Close()
			return err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if err := replaceLeads(ctx, tx, fn(leads)); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceLeads(ctx context.Context, tx *sql.Tx, leads []entity.Lead) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return err
	}
	for i, lead := range leads {
		raw, err := json.Marshal(lead)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leads (lead_id, position, doc) VALUES ($1, $2, $3)`,
			lead.LeadID, i, raw,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
