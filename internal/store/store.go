// Package store persists the normalized datasets and exposes the per-office winners view.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	contrib "election-ingest/internal/contrib/model"
	"election-ingest/internal/results/model"
)

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects with the modernc SQLite driver or lib/pq and pings the database.
func Open(ctx context.Context, dbType, url string) (*Store, error) {
	if dbType != SQLite && dbType != Postgres {
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
	db, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}
	if dbType == SQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}
	return &Store{db: db, dialect: dbType}, nil
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Build replaces one year's results and contributions in a single transaction,
// so a failure leaves the previous data untouched.
func (s *Store) Build(ctx context.Context, year int, results []model.OfficeRecord, contributions []contrib.Contribution) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := saveResults(ctx, tx, year, results); err != nil {
			return err
		}
		return saveContributions(ctx, tx, year, contributions)
	})
}

// SaveResults replaces one year's results and leaves its contributions alone.
func (s *Store) SaveResults(ctx context.Context, year int, records []model.OfficeRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error { return saveResults(ctx, tx, year, records) })
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveResults(ctx context.Context, tx *sql.Tx, year int, records []model.OfficeRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM election_results WHERE year = $1`, year); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO election_results
		(year, office, candidate, ward, subdivision, vote_count) VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare results insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range records {
		votes := sql.NullInt64{}
		if r.VoteCount != nil {
			votes = sql.NullInt64{Int64: *r.VoteCount, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, year, r.Office, r.Candidate, r.Ward, r.Subdivision, votes); err != nil {
			return fmt.Errorf("insert result %s/%s/%d: %w", r.Office, r.Candidate, r.Subdivision, err)
		}
	}
	return nil
}

func saveContributions(ctx context.Context, tx *sql.Tx, year int, cs []contrib.Contribution) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM contributions WHERE year = $1`, year); err != nil {
		return fmt.Errorf("clear contributions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO contributions
		(id, year, contributor_name, contributor_address, contributor_postal_code, amount, contribution_date,
		 contribution_type, contributor_type, description, registrant_name, registrant_type, office, ward)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`)
	if err != nil {
		return fmt.Errorf("prepare contributions insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range cs {
		_, err := stmt.ExecContext(ctx, uuid.NewString(), year, c.ContributorName, c.ContributorAddress,
			c.ContributorPostalCode, c.Amount.StringFixed(2), c.Date.Format("2006-01-02"),
			string(c.ContributionType), string(c.ContributorType), c.Description, c.RegistrantName,
			string(c.RegistrantType), string(c.Office), c.Ward)
		if err != nil {
			return fmt.Errorf("insert contribution from %q: %w", c.ContributorName, err)
		}
	}
	return nil
}

type Winner struct {
	Year       int    `json:"year"`
	Office     string `json:"office"`
	Candidate  string `json:"candidate"`
	TotalVotes *int64 `json:"total_votes"`
}

// Winners reads the office_winners view for one year, ordered by office.
func (s *Store) Winners(ctx context.Context, year int) ([]Winner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, office, candidate, total_votes
		FROM office_winners WHERE year = $1 ORDER BY office, candidate`, year)
	if err != nil {
		return nil, fmt.Errorf("query winners: %w", err)
	}
	defer rows.Close()
	var out []Winner
	for rows.Next() {
		var w Winner
		if err := rows.Scan(&w.Year, &w.Office, &w.Candidate, &w.TotalVotes); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
