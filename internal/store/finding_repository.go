package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agustinp/tradepulse/internal/contracts"
)

// FindingRepository implements contracts.FindingRepository on Postgres.
type FindingRepository struct {
	pool *pgxpool.Pool
}

// NewFindingRepository creates a new finding repository.
func NewFindingRepository(pool *pgxpool.Pool) *FindingRepository {
	return &FindingRepository{pool: pool}
}

// Append stores an integrity finding.
func (r *FindingRepository) Append(ctx context.Context, finding *contracts.IntegrityFinding) error {
	query := `
		INSERT INTO integrity_findings (symbol, business_date, check_type, status, details, checked_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		finding.Symbol, finding.BusinessDate, finding.CheckType, finding.Status, finding.Details,
	).Scan(&finding.ID)
}

// GetBySymbol retrieves recent findings for a symbol, newest first.
func (r *FindingRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*contracts.IntegrityFinding, error) {
	query := `
		SELECT id, symbol, business_date, check_type, status, details, checked_at
		FROM integrity_findings
		WHERE symbol = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []*contracts.IntegrityFinding
	for rows.Next() {
		var f contracts.IntegrityFinding
		if err := rows.Scan(&f.ID, &f.Symbol, &f.BusinessDate, &f.CheckType, &f.Status, &f.Details, &f.CheckedAt); err != nil {
			return nil, err
		}
		findings = append(findings, &f)
	}
	return findings, rows.Err()
}
