package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG implements Store on a single Postgres table of (collection, id, fields)
// rows with a JSONB fields column.
type PG struct {
	pool *pgxpool.Pool
}

func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) Create(ctx context.Context, collection, id string, fields interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO docstore (collection, id, fields) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields`,
		collection, id, data,
	)
	if err != nil {
		return backendErr(fmt.Sprintf("create %s/%s", collection, id), err)
	}
	return nil
}

func (s *PG) Get(ctx context.Context, collection, id string, dest interface{}) error {
	var data []byte
	err := s.pool.QueryRow(ctx,
		"SELECT fields FROM docstore WHERE collection = $1 AND id = $2",
		collection, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return backendErr(fmt.Sprintf("get %s/%s", collection, id), err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PG) Update(ctx context.Context, collection, id string, fields interface{}) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE docstore SET fields = $3 WHERE collection = $1 AND id = $2",
		collection, id, data,
	)
	if err != nil {
		return backendErr(fmt.Sprintf("update %s/%s", collection, id), err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PG) Delete(ctx context.Context, collection, id string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM docstore WHERE collection = $1 AND id = $2",
		collection, id,
	)
	if err != nil {
		return backendErr(fmt.Sprintf("delete %s/%s", collection, id), err)
	}
	return nil
}

func (s *PG) Scan(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter.Field == "" {
		rows, err = s.pool.Query(ctx,
			"SELECT id, fields FROM docstore WHERE collection = $1",
			collection,
		)
	} else {
		value, merr := json.Marshal(filter.Equals)
		if merr != nil {
			return nil, fmt.Errorf("marshal filter value: %w", merr)
		}
		rows, err = s.pool.Query(ctx,
			"SELECT id, fields FROM docstore WHERE collection = $1 AND fields -> $2 = $3::jsonb",
			collection, filter.Field, value,
		)
	}
	if err != nil {
		return nil, backendErr(fmt.Sprintf("scan %s", collection), err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Fields); err != nil {
			return nil, backendErr(fmt.Sprintf("scan %s row", collection), err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr(fmt.Sprintf("scan %s", collection), err)
	}
	return records, nil
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
