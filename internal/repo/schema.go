package repo

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id SERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	reference_code TEXT NOT NULL,
	allergy TEXT,
	tshirt_size TEXT NOT NULL,
	single BOOLEAN
);

CREATE TABLE IF NOT EXISTS reference_codes (
	code TEXT PRIMARY KEY,
	used BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS teams (
	team_name TEXT PRIMARY KEY,
	member_ids BIGINT[] NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	team_name TEXT PRIMARY KEY,
	project_name TEXT NOT NULL,
	project_url TEXT NOT NULL,
	project_description TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS github (
	user_id BIGINT PRIMARY KEY,
	github_username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vote (
	user_id BIGINT NOT NULL,
	team_name TEXT NOT NULL,
	rating INT NOT NULL,
	PRIMARY KEY (user_id, team_name)
);
`

// EnsureSchema creates all tables if absent. Safe to call on every start.
func (r *repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	r.log.Info().Msg("Database schema ready")
	return nil
}

// ResetRegistrationTables drops and recreates the registrations and
// reference_codes tables. Destructive and irreversible; teams, projects
// and votes are untouched.
func (r *repository) ResetRegistrationTables(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS registrations`); err != nil {
		return fmt.Errorf("failed to drop registrations: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS reference_codes`); err != nil {
		return fmt.Errorf("failed to drop reference_codes: %w", err)
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}
	r.log.Warn().Msg("registration tables were reset")
	return nil
}
