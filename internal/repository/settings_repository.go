package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// SettingsRepo persists the singleton site settings row.  The home
// page image sections are stored as one JSON column.
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// GetOrCreate returns the settings row under key "default", creating
// it with booking open when it does not exist yet.
func (r *SettingsRepo) GetOrCreate(ctx context.Context) (model.SiteSettings, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.SiteSettings{}, err
	}

	home, _ := json.Marshal(model.HomeSettings{})
	_, err = q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO site_settings (setting_key, is_booking_open, maintenance_message, logo_text, tagline, home)
		 VALUES (?,1,'','','',?)`, model.SettingsKey, home)
	if err != nil && !isDuplicateKey(err) {
		return model.SiteSettings{}, err
	}
	return r.get(ctx)
}

func (r *SettingsRepo) get(ctx context.Context) (model.SiteSettings, error) {
	var (
		s    model.SiteSettings
		home []byte
	)
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, setting_key, is_booking_open, maintenance_message, logo_text, tagline, home,
			created_at, updated_at
		 FROM site_settings WHERE setting_key=? LIMIT 1`, model.SettingsKey).
		Scan(&s.ID, &s.Key, &s.System.IsBookingOpen, &s.System.MaintenanceMessage,
			&s.Brand.LogoText, &s.Brand.Tagline, &home, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if len(home) > 0 {
		if err := json.Unmarshal(home, &s.Home); err != nil {
			return model.SiteSettings{}, err
		}
	}
	return s, nil
}

// Update rewrites the settings row.
func (r *SettingsRepo) Update(ctx context.Context, s *model.SiteSettings) error {
	home, err := json.Marshal(s.Home)
	if err != nil {
		return err
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE site_settings SET is_booking_open=?, maintenance_message=?, logo_text=?, tagline=?, home=?
		 WHERE setting_key=?`,
		s.System.IsBookingOpen, s.System.MaintenanceMessage,
		s.Brand.LogoText, s.Brand.Tagline, home, model.SettingsKey)
	if err != nil {
		return err
	}
	return affected(res)
}
