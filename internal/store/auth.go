package store

import (
	"database/sql"
	"errors"
	"time"
)

// Provider names used as keys in the auth table
const (
	ProviderStrava = "strava"
	ProviderWhoop  = "whoop"
)

// GetAuth retrieves the stored tokens for a provider
func (db *DB) GetAuth(provider string) (*Auth, error) {
	row := db.QueryRow(`
		SELECT provider, user_id, access_token, refresh_token, expires_at
		FROM auth
		WHERE provider = ?
	`, provider)

	var a Auth
	var expiresAt int64
	err := row.Scan(&a.Provider, &a.UserID, &a.AccessToken, &a.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}

	a.ExpiresAt = time.Unix(expiresAt, 0)
	return &a, nil
}

// SaveAuth stores or replaces the tokens for a provider
func (db *DB) SaveAuth(a *Auth) error {
	_, err := db.Exec(`
		INSERT INTO auth (provider, user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(provider) DO UPDATE SET
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, a.Provider, a.UserID, a.AccessToken, a.RefreshToken, a.ExpiresAt.Unix())
	return err
}

// UpdateTokens updates just the access and refresh tokens for a provider
func (db *DB) UpdateTokens(provider, accessToken, refreshToken string, expiresAt time.Time) error {
	result, err := db.Exec(`
		UPDATE auth
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE provider = ?
	`, accessToken, refreshToken, expiresAt.Unix(), provider)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoAuth
	}
	return nil
}

// DeleteAuth removes the stored tokens for a provider
func (db *DB) DeleteAuth(provider string) error {
	_, err := db.Exec(`DELETE FROM auth WHERE provider = ?`, provider)
	return err
}
