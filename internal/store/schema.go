package store

import (
	"context"
	"fmt"
)

// amount is exact text in SQLite, where NUMERIC affinity would turn it into a float
var amountType = map[string]string{Postgres: "NUMERIC(14,2)", SQLite: "TEXT"}

var createView = map[string]string{Postgres: "CREATE OR REPLACE VIEW", SQLite: "CREATE VIEW IF NOT EXISTS"}

const schema = `
CREATE TABLE IF NOT EXISTS election_results (
    year INTEGER NOT NULL,
    office TEXT NOT NULL,
    candidate TEXT NOT NULL,
    ward TEXT NOT NULL,
    subdivision INTEGER NOT NULL CHECK (subdivision > 0),
    vote_count INTEGER CHECK (vote_count >= 0),
    PRIMARY KEY (year, office, ward, candidate, subdivision)
);

CREATE INDEX IF NOT EXISTS idx_election_results_office ON election_results(year, office);

CREATE TABLE IF NOT EXISTS contributions (
    id TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    contributor_name TEXT NOT NULL,
    contributor_address TEXT,
    contributor_postal_code TEXT,
    amount %s NOT NULL,
    contribution_date DATE NOT NULL,
    contribution_type TEXT NOT NULL CHECK (contribution_type IN ('Monetary', 'Goods/Services')),
    contributor_type TEXT NOT NULL,
    description TEXT,
    registrant_name TEXT NOT NULL,
    registrant_type TEXT NOT NULL CHECK (registrant_type IN ('Candidate', 'Third Party Advertiser')),
    office TEXT NOT NULL,
    ward INTEGER NOT NULL CHECK (ward BETWEEN 0 AND 25)
);

CREATE INDEX IF NOT EXISTS idx_contributions_registrant ON contributions(year, registrant_name);
`

// Winner per office: highest summed vote count. Blank cells are NULL and ignored by SUM;
// a candidate with no counted votes at all sorts last.
const winnersView = `%s office_winners AS
SELECT year, office, candidate, total_votes FROM (
    SELECT year, office, candidate, SUM(vote_count) AS total_votes,
           RANK() OVER (PARTITION BY year, office ORDER BY COALESCE(SUM(vote_count), -1) DESC) AS rnk
    FROM election_results
    GROUP BY year, office, candidate
) ranked
WHERE rnk = 1`

// CreateSchema creates tables and the winners view. Safe to call multiple times.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(schema, amountType[s.dialect])); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(winnersView, createView[s.dialect])); err != nil {
		return fmt.Errorf("failed to create winners view: %w", err)
	}
	return nil
}
