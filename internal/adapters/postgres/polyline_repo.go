package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

const polylineColumns = `id, data, data_bounds, geodesic, stroke_color, stroke_opacity, stroke_weight, version, created_at, updated_at`

// PolylineRepo implements ports.PolylineRepository.
type PolylineRepo struct {
	db *DB
}

func NewPolylineRepo(db *DB) *PolylineRepo { return &PolylineRepo{db: db} }

func (r *PolylineRepo) Create(ctx context.Context, p *domain.Polyline) error {
	data, bounds, err := encodeGeometry(p)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO polylines (`+polylineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, data, bounds, p.Geodesic, p.StrokeColor, p.StrokeOpacity, p.StrokeWeight,
		p.Version, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PolylineRepo) Update(ctx context.Context, p *domain.Polyline, prevVersion int64) error {
	data, bounds, err := encodeGeometry(p)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE polylines
		SET data = $2, data_bounds = $3, geodesic = $4, stroke_color = $5,
		    stroke_opacity = $6, stroke_weight = $7, version = $8, updated_at = $9
		WHERE id = $1 AND version = $10
	`, p.ID, data, bounds, p.Geodesic, p.StrokeColor, p.StrokeOpacity, p.StrokeWeight,
		p.Version, p.UpdatedAt, prevVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or another writer bumped the version.
		var exists bool
		if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM polylines WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *PolylineRepo) GetByID(ctx context.Context, id string) (*domain.Polyline, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+polylineColumns+` FROM polylines WHERE id = $1`, id)
	p, err := scanPolyline(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PolylineRepo) List(ctx context.Context, offset, limit int) ([]domain.Polyline, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+polylineColumns+` FROM polylines
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Polyline
	for rows.Next() {
		p, err := scanPolyline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PolylineRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM polylines`).Scan(&n)
	return n, err
}

func (r *PolylineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM polylines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeGeometry(p *domain.Polyline) (data, bounds []byte, err error) {
	if data, err = json.Marshal(p.Data); err != nil {
		return nil, nil, fmt.Errorf("encode data: %w", err)
	}
	if bounds, err = json.Marshal(p.Bounds); err != nil {
		return nil, nil, fmt.Errorf("encode bounds: %w", err)
	}
	return data, bounds, nil
}

func scanPolyline(row pgx.Row) (*domain.Polyline, error) {
	var (
		p            domain.Polyline
		data, bounds []byte
	)
	if err := row.Scan(&p.ID, &data, &bounds, &p.Geodesic, &p.StrokeColor, &p.StrokeOpacity,
		&p.StrokeWeight, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &p.Data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if err := json.Unmarshal(bounds, &p.Bounds); err != nil {
		return nil, fmt.Errorf("decode bounds: %w", err)
	}
	return &p, nil
}
