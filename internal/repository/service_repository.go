package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// ServiceRepo persists the bookable catalog: services plus their
// options, extras and per-key extra prices.  Image URLs are stored as
// a JSON array column on the service row.
type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

func scanService(row *sql.Row) (model.Service, error) {
	var (
		s      model.Service
		images []byte
	)
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.DurationMinutes,
		&s.Price, &images, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Service{}, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &s.Images); err != nil {
			return model.Service{}, err
		}
	}
	return s, nil
}

// ServiceByID loads a service together with all of its options and
// extras, regardless of their active flags.  Missing services yield
// booking.ErrServiceNotFound so the admission engine can map it
// straight to a 404.
func (r *ServiceRepo) ServiceByID(ctx context.Context, id uint64) (*model.Service, error) {
	s, err := scanService(q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, name, category, description, duration_minutes, price, images, is_active, created_at, updated_at
		 FROM services WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.Options, err = r.optionsFor(ctx, id); err != nil {
		return nil, err
	}
	if s.Extras, err = r.extrasFor(ctx, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) optionsFor(ctx context.Context, serviceID uint64) ([]model.ServiceOption, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, service_id, code, name, duration_hours, start_time_label,
			base_price, included_pax, excess_pax_fee, notes, is_active
		 FROM service_options WHERE service_id=? ORDER BY id`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []model.ServiceOption
	for rows.Next() {
		var o model.ServiceOption
		if err := rows.Scan(&o.ID, &o.ServiceID, &o.Code, &o.Name, &o.DurationHours,
			&o.StartTimeLabel, &o.BasePrice, &o.IncludedPax, &o.ExcessPaxFee, &o.Notes, &o.IsActive); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *ServiceRepo) extrasFor(ctx context.Context, serviceID uint64) ([]model.ServiceExtra, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT e.id, e.service_id, e.code, e.name, e.notes, e.is_active, p.pricing_key, p.price
		 FROM service_extras e
		 JOIN service_extra_prices p ON p.extra_id = e.id
		 WHERE e.service_id=? ORDER BY e.id, p.id`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extras []model.ServiceExtra
	for rows.Next() {
		var (
			head model.ServiceExtra
			ep   model.ExtraPrice
		)
		if err := rows.Scan(&head.ID, &head.ServiceID, &head.Code, &head.Name,
			&head.Notes, &head.IsActive, &ep.Key, &ep.Price); err != nil {
			return nil, err
		}
		if n := len(extras); n == 0 || extras[n-1].ID != head.ID {
			extras = append(extras, head)
		}
		last := &extras[len(extras)-1]
		last.Pricing = append(last.Pricing, ep)
	}
	return extras, rows.Err()
}

// ListActive returns every active service, options and extras
// included, optionally filtered by category.
func (r *ServiceRepo) ListActive(ctx context.Context, category string) ([]model.Service, error) {
	query := `SELECT id, name, category, description, duration_minutes, price, images, is_active, created_at, updated_at
		 FROM services WHERE is_active=1`
	args := []any{}
	if category != "" {
		query += ` AND category=?`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Service
	for rows.Next() {
		var (
			s      model.Service
			images []byte
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.DurationMinutes,
			&s.Price, &images, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &s.Images); err != nil {
				return nil, err
			}
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Options, err = r.optionsFor(ctx, list[i].ID); err != nil {
			return nil, err
		}
		if list[i].Extras, err = r.extrasFor(ctx, list[i].ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Create inserts a service row.  A duplicate (name, category) pair
// yields ErrDuplicate.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) (uint64, error) {
	images, err := json.Marshal(s.Images)
	if err != nil {
		return 0, err
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO services (name, category, description, duration_minutes, price, images, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		s.Name, s.Category, s.Description, s.DurationMinutes, s.Price, images, s.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

// Update rewrites the mutable service fields.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	images, err := json.Marshal(s.Images)
	if err != nil {
		return err
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE services SET name=?, category=?, description=?, duration_minutes=?, price=?, images=?, is_active=?
		 WHERE id=?`,
		s.Name, s.Category, s.Description, s.DurationMinutes, s.Price, images, s.IsActive, s.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
