package repository

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/catalog/internal/store"
)

// Querier is the subset of pgxpool.Pool used here.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

type productRepository struct {
	db    Querier
	table string
}

// NewProductRepository reads raw product documents from table, one JSON document per row
// in its data column. It satisfies store.DatasetSource.
func NewProductRepository(db Querier, table string) store.DatasetSource {
	return &productRepository{
		db:    db,
		table: table,
	}
}

func (r *productRepository) Name() string {
	return "postgres:" + r.table
}

// Load assembles the rows into a single JSON array document.
func (r *productRepository) Load(ctx context.Context) ([]byte, error) {
	query := fmt.Sprintf(`SELECT data::text FROM %s ORDER BY id`, pgx.Identifier{r.table}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw products: %w", err)
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.WriteByte('[')
	count := 0
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan raw product: %w", err)
		}
		if count > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(doc)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read raw products: %w", err)
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}
