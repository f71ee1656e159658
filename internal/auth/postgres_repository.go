package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `
	id, email, first_name, last_name, image_url, role,
	password_hash, oauth_provider, oauth_provider_id,
	created_at, updated_at, last_login_at
`

// FindByEmail looks up a user by normalized email. The password hash is
// selected explicitly so credential verification has something to compare.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// FindByID looks up a user by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// FindByOAuth looks up a user by their OAuth provider identity.
func (r *PostgresRepository) FindByOAuth(ctx context.Context, provider, providerID string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = $1 AND oauth_provider_id = $2`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, provider, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	const query = `
		INSERT INTO users (id, email, first_name, last_name, image_url, role,
			password_hash, oauth_provider, oauth_provider_id,
			created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var hash sql.NullString
	if user.PasswordHash != "" {
		hash = sql.NullString{String: user.PasswordHash, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ImageURL,
		string(user.Role),
		hash,
		user.OAuthProvider,
		user.OAuthProviderID,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastLoginAt,
	)
	if err != nil {
		// Two signups racing past the duplicate check resolve here: the
		// unique constraint turns the loser into the same taken-email error.
		if isEmailConflict(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func isEmailConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == "23505" &&
		pqErr.Constraint == "users_email_key"
}

// UpdateLogin refreshes the login timestamp and profile image. It never
// touches the password hash, so no rehash happens on unrelated updates.
func (r *PostgresRepository) UpdateLogin(ctx context.Context, id uuid.UUID, imageURL string) error {
	const query = `
		UPDATE users
		SET image_url = COALESCE(NULLIF($2, ''), image_url), last_login_at = $3, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, imageURL, time.Now())
	return err
}

// ListUsers returns every user, newest first.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toUser())
	}
	return users, nil
}

// userRow is a database row representation of User.
type userRow struct {
	ID              uuid.UUID      `db:"id"`
	Email           string         `db:"email"`
	FirstName       string         `db:"first_name"`
	LastName        string         `db:"last_name"`
	ImageURL        string         `db:"image_url"`
	Role            string         `db:"role"`
	PasswordHash    sql.NullString `db:"password_hash"`
	OAuthProvider   string         `db:"oauth_provider"`
	OAuthProviderID string         `db:"oauth_provider_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	LastLoginAt     time.Time      `db:"last_login_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:              r.ID,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ImageURL:        r.ImageURL,
		Role:            ParseRole(r.Role),
		PasswordHash:    r.PasswordHash.String,
		OAuthProvider:   r.OAuthProvider,
		OAuthProviderID: r.OAuthProviderID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		LastLoginAt:     r.LastLoginAt,
	}
}
