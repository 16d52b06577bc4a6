package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, price, img, category, tag, is_active
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Tag, &p.Active); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.attachVariants(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, description, price, img, category, tag, is_active
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Tag, &p.Active)
	})
	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}

	list := []Product{p}
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.attachVariants(ctx, list)
	})
	if err != nil {
		return Product{}, false, err
	}
	return list[0], true, nil
}

// attachVariants fills sizes and tags for every product in ps, preserving
// the per-product row order from the child tables.
func (s *PostgresStore) attachVariants(ctx context.Context, ps []Product) error {
	if len(ps) == 0 {
		return nil
	}

	idx := make(map[string]int, len(ps))
	for i := range ps {
		idx[ps[i].ID] = i
		ps[i].Sizes = nil
		ps[i].Tags = nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, size, stock_quantity
		FROM product_sizes
		ORDER BY product_id, size
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pid string
			ss  SizeStock
		)
		if err := rows.Scan(&pid, &ss.Size, &ss.Stock); err != nil {
			return err
		}
		if i, ok := idx[pid]; ok {
			ps[i].Sizes = append(ps[i].Sizes, ss)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT product_id, tag
		FROM product_tags
		ORDER BY product_id, tag
	`)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var pid, tag string
		if err := tagRows.Scan(&pid, &tag); err != nil {
			return err
		}
		if i, ok := idx[pid]; ok {
			ps[i].Tags = append(ps[i].Tags, tag)
		}
	}
	return tagRows.Err()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
