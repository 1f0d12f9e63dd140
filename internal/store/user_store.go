package store

import (
	"context"

	"banktech/internal/models"
)

type UserStore struct {
	db DB
}

type NewUser struct {
	Username     string
	PasswordHash string
	DisplayName  string
	Role         models.Role
}

const userColumns = `id, username, password_hash, display_name, role, created_at`

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, input NewUser) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (username, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		input.Username, input.PasswordHash, input.DisplayName, input.Role)
	if err != nil {
		return models.User{}, translate(err)
	}
	return row, nil
}

// EnsureExists inserts the user unless the username is taken and reports
// whether a row was written.
func (s *UserStore) EnsureExists(ctx context.Context, input NewUser) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
	`, input.Username, input.PasswordHash, input.DisplayName, input.Role)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return models.User{}, translate(err)
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return models.User{}, translate(err)
	}
	return row, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows := []models.User{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
