package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fee-ledger/internal/domain"
)

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.SchoolSettings, error) {
	query := `
		SELECT school_name, school_address, school_phone, school_email, current_session, updated_at
		FROM school_settings
		WHERE singleton
	`

	var settings domain.SchoolSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *domain.SchoolSettings) error {
	query := `
		INSERT INTO school_settings (singleton, school_name, school_address, school_phone, school_email, current_session, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (singleton) DO UPDATE
		SET school_name = EXCLUDED.school_name,
		    school_address = EXCLUDED.school_address,
		    school_phone = EXCLUDED.school_phone,
		    school_email = EXCLUDED.school_email,
		    current_session = EXCLUDED.current_session,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		settings.SchoolName,
		settings.SchoolAddress,
		settings.SchoolPhone,
		settings.SchoolEmail,
		settings.CurrentSession,
		settings.UpdatedAt,
	)
	return err
}
