package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"hackbot/internal/model"
)

var (
	ErrCodeNotFound     = errors.New("reference code not found")
	ErrCodeUsed         = errors.New("reference code already used")
	ErrAlreadyInTeam    = errors.New("user already in a team")
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameTaken    = errors.New("team name already taken")
	ErrTeamFull         = errors.New("team is full")
	ErrProjectNameTaken = errors.New("project name already taken")
)

// MaxTeamSize is the inclusive member cap enforced on join.
const MaxTeamSize = 6

type Repository interface {
	EnsureSchema(ctx context.Context) error
	ResetRegistrationTables(ctx context.Context) error
	InsertReferenceCode(ctx context.Context, code string) error
	GetReferenceCode(ctx context.Context, code string) (*model.ReferenceCode, error)
	RegisterTx(ctx context.Context, reg *model.Registration) error
	TeamByMember(ctx context.Context, userID int64) (*model.Team, error)
	GetTeam(ctx context.Context, teamName string) (*model.Team, error)
	CreateTeamTx(ctx context.Context, teamName string, userID int64) error
	JoinTeamTx(ctx context.Context, teamName string, userID int64) error
	LeaveTeamTx(ctx context.Context, userID int64) (string, error)
	UpsertProjectTx(ctx context.Context, p *model.Project) error
	UpsertGithubProfile(ctx context.Context, userID int64, username string) error
	UpsertVote(ctx context.Context, v *model.Vote) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) InsertReferenceCode(ctx context.Context, code string) error {
	query := `
		INSERT INTO reference_codes (code)
		VALUES ($1)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("failed to insert reference code: %w", err)
	}
	return nil
}

func (r *repository) GetReferenceCode(ctx context.Context, code string) (*model.ReferenceCode, error) {
	query := `
		SELECT code, used
		FROM reference_codes
		WHERE code = $1
	`
	var rc model.ReferenceCode
	err := r.db.QueryRowContext(ctx, query, code).Scan(&rc.Code, &rc.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to select reference code: %w", err)
	}
	return &rc, nil
}

// RegisterTx consumes the reference code and records the registration in
// one transaction. The row lock on the code keeps two registrations from
// spending it twice.
func (r *repository) RegisterTx(ctx context.Context, reg *model.Registration) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var used bool
	err = tx.QueryRowContext(ctx, `
		SELECT used
		FROM reference_codes
		WHERE code = $1
		FOR UPDATE
	`, reg.ReferenceCode).Scan(&used)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("failed to select reference code: %w", err)
	}
	if used {
		_ = tx.Rollback()
		return ErrCodeUsed
	}

	var allergy any
	if reg.Allergy != "" {
		allergy = reg.Allergy
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO registrations (user_id, reference_code, allergy, tshirt_size, single)
		VALUES ($1, $2, $3, $4, $5)
	`, reg.UserID, reg.ReferenceCode, allergy, reg.TshirtSize, reg.Single)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE reference_codes SET used = TRUE WHERE code = $1
	`, reg.ReferenceCode); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to mark reference code used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repository) TeamByMember(ctx context.Context, userID int64) (*model.Team, error) {
	query := `
		SELECT team_name, member_ids
		FROM teams
		WHERE $1 = ANY(member_ids)
	`
	var t model.Team
	var members pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.TeamName, &members)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to select team by member: %w", err)
	}
	t.MemberIDs = members
	return &t, nil
}

func (r *repository) GetTeam(ctx context.Context, teamName string) (*model.Team, error) {
	query := `
		SELECT team_name, member_ids
		FROM teams
		WHERE team_name = $1
	`
	var t model.Team
	var members pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, teamName).Scan(&t.TeamName, &members)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to select team: %w", err)
	}
	t.MemberIDs = members
	return &t, nil
}

func (r *repository) CreateTeamTx(ctx context.Context, teamName string, userID int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT team_name FROM teams WHERE $1 = ANY(member_ids)
	`, userID).Scan(&existing)
	if err == nil {
		_ = tx.Rollback()
		return ErrAlreadyInTeam
	}
	if !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check team membership: %w", err)
	}

	var taken string
	err = tx.QueryRowContext(ctx, `
		SELECT team_name FROM teams WHERE team_name = $1
	`, teamName).Scan(&taken)
	if err == nil {
		_ = tx.Rollback()
		return ErrTeamNameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check team name: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO teams (team_name, member_ids) VALUES ($1, $2)
	`, teamName, pq.Int64Array{userID}); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// JoinTeamTx locks the team row before the capacity check so concurrent
// joins cannot push the team past MaxTeamSize.
func (r *repository) JoinTeamTx(ctx context.Context, teamName string, userID int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT team_name FROM teams WHERE $1 = ANY(member_ids)
	`, userID).Scan(&existing)
	if err == nil {
		_ = tx.Rollback()
		return ErrAlreadyInTeam
	}
	if !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check team membership: %w", err)
	}

	var members pq.Int64Array
	err = tx.QueryRowContext(ctx, `
		SELECT member_ids
		FROM teams
		WHERE team_name = $1
		FOR UPDATE
	`, teamName).Scan(&members)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to select team: %w", err)
	}

	members = append(members, userID)
	if len(members) > MaxTeamSize {
		_ = tx.Rollback()
		return ErrTeamFull
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE teams SET member_ids = $1 WHERE team_name = $2
	`, members, teamName); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update team members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LeaveTeamTx removes the caller from their team and returns the team
// name so the role worker can revoke the matching role. An emptied team
// row is deliberately left in place.
func (r *repository) LeaveTeamTx(ctx context.Context, userID int64) (string, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var teamName string
	var members pq.Int64Array
	err = tx.QueryRowContext(ctx, `
		SELECT team_name, member_ids
		FROM teams
		WHERE $1 = ANY(member_ids)
		FOR UPDATE
	`, userID).Scan(&teamName, &members)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTeamNotFound
		}
		return "", fmt.Errorf("failed to select team for leave: %w", err)
	}

	remaining := make(pq.Int64Array, 0, len(members))
	for _, id := range members {
		if id != userID {
			remaining = append(remaining, id)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE teams SET member_ids = $1 WHERE team_name = $2
	`, remaining, teamName); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to update team members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return teamName, nil
}

// UpsertProjectTx rejects a project name already claimed by another team,
// then overwrites the caller team's project row entirely.
func (r *repository) UpsertProjectTx(ctx context.Context, p *model.Project) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var owner string
	err = tx.QueryRowContext(ctx, `
		SELECT team_name FROM projects WHERE project_name = $1 AND team_name != $2
	`, p.ProjectName, p.TeamName).Scan(&owner)
	if err == nil {
		_ = tx.Rollback()
		return ErrProjectNameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check project name: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO projects (team_name, project_name, project_url, project_description, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_name)
		DO UPDATE SET
			project_name = EXCLUDED.project_name,
			project_url = EXCLUDED.project_url,
			project_description = EXCLUDED.project_description,
			thumbnail_url = EXCLUDED.thumbnail_url
	`, p.TeamName, p.ProjectName, p.ProjectURL, p.Description, p.Thumbnail); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repository) UpsertGithubProfile(ctx context.Context, userID int64, username string) error {
	query := `
		INSERT INTO github (user_id, github_username)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET github_username = EXCLUDED.github_username
	`
	if _, err := r.db.ExecContext(ctx, query, userID, username); err != nil {
		return fmt.Errorf("failed to upsert github profile: %w", err)
	}
	return nil
}

func (r *repository) UpsertVote(ctx context.Context, v *model.Vote) error {
	query := `
		INSERT INTO vote (user_id, team_name, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, team_name)
		DO UPDATE SET rating = EXCLUDED.rating
	`
	if _, err := r.db.ExecContext(ctx, query, v.UserID, v.TeamName, v.Rating); err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}
