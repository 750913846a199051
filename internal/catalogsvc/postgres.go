package catalogsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	offer       TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	image_one   TEXT NOT NULL DEFAULT '',
	image_two   TEXT NOT NULL DEFAULT '',
	sizes       JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_name_id_idx ON products (name, id);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (lower(category));
`

const productColumns = `id, name, price, description, category, offer, image, image_one, image_two, sizes`

// filterClause matches the category set (if any) and any size label in the
// size set (if any), both case-insensitively.
const filterClause = `
WHERE (cardinality($1::text[]) = 0 OR lower(category) = ANY($1))
  AND (cardinality($2::text[]) = 0 OR EXISTS (
	SELECT 1 FROM jsonb_array_elements(sizes) AS s WHERE lower(s->>'size') = ANY($2)))`

// PostgresStorage stores products in a PostgreSQL "products" table with the
// size variants in a JSONB column.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PostgresStorage)(nil)

// NewPostgresStorage connects to databaseURL and pings it.
func NewPostgresStorage(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStorage{pool: pool}, nil
}

// EnsureSchema creates the products table and its indexes when missing.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts products when the table has no rows. It reports how
// many rows were inserted.
func (s *PostgresStorage) SeedIfEmpty(ctx context.Context, products []catalog.Product) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 || len(products) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		args, err := insertArgs(p)
		if err != nil {
			return 0, err
		}
		batch.Queue(`INSERT INTO products (`+productColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb)`, args...)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}

func (s *PostgresStorage) All(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return collectProducts(rows)
}

func (s *PostgresStorage) Page(ctx context.Context, q PageQuery) (catalog.PageResult, error) {
	q = q.normalized()
	categories, sizes := filterArgs(q.Filter)

	var total int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`+filterClause, categories, sizes).Scan(&total)
	if err != nil {
		return catalog.PageResult{}, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products`+filterClause+` ORDER BY name, id LIMIT $3 OFFSET $4`,
		categories, sizes, q.PageSize, (q.Page-1)*q.PageSize)
	if err != nil {
		return catalog.PageResult{}, fmt.Errorf("failed to query products: %w", err)
	}
	items, err := collectProducts(rows)
	if err != nil {
		return catalog.PageResult{}, err
	}
	return catalog.PageResult{
		Items:       items,
		TotalPages:  totalPages(total, q.PageSize),
		CurrentPage: q.Page,
	}, nil
}

func (s *PostgresStorage) Get(ctx context.Context, id string) (catalog.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return collectOne(rows, "get", id)
}

func (s *PostgresStorage) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = uuid.NewString()
	args, err := insertArgs(p)
	if err != nil {
		return catalog.Product{}, err
	}
	rows, err := s.pool.Query(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb) RETURNING `+productColumns,
		args...)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return collectOne(rows, "create", p.ID)
}

func (s *PostgresStorage) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	p.ID = id
	args, err := insertArgs(p)
	if err != nil {
		return catalog.Product{}, err
	}
	rows, err := s.pool.Query(ctx, `
UPDATE products SET name = $2, price = $3, description = $4, category = $5, offer = $6,
	image = $7, image_one = $8, image_two = $9, sizes = $10::jsonb, updated_at = now()
WHERE id = $1
RETURNING `+productColumns, args...)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return collectOne(rows, "update", id)
}

func (s *PostgresStorage) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %q: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

// filterArgs lowercases the normalized filter values. Empty sets are passed as
// empty arrays, never NULL.
func filterArgs(f catalog.Filter) (categories, sizes []string) {
	n := f.Normalize()
	categories = make([]string, 0, len(n.Categories))
	for _, c := range n.Categories {
		categories = append(categories, strings.ToLower(c))
	}
	sizes = make([]string, 0, len(n.Sizes))
	for _, sz := range n.Sizes {
		sizes = append(sizes, strings.ToLower(sz))
	}
	return categories, sizes
}

func insertArgs(p catalog.Product) ([]any, error) {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []catalog.SizeStock{}
	}
	raw, err := json.Marshal(sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sizes: %w", err)
	}
	return []any{
		p.ID, p.Name, p.Price, p.Description, p.Category, string(p.Offer),
		p.Image, p.ImageOne, p.ImageTwo, string(raw),
	}, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p     catalog.Product
		offer string
		sizes []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &offer,
		&p.Image, &p.ImageOne, &p.ImageTwo, &sizes)
	if err != nil {
		return catalog.Product{}, err
	}
	p.Offer = catalog.Offer(offer)
	if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
		return catalog.Product{}, fmt.Errorf("failed to decode sizes of %q: %w", p.ID, err)
	}
	if p.Sizes == nil {
		p.Sizes = []catalog.SizeStock{}
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]catalog.Product, error) {
	items, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	if items == nil {
		items = []catalog.Product{}
	}
	return items, nil
}

func collectOne(rows pgx.Rows, op, id string) (catalog.Product, error) {
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, fmt.Errorf("%s %q: %w", op, id, apperrors.ErrNotFound)
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to read product: %w", err)
	}
	return p, nil
}
