package directory

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	authlink "github.com/ebbhq/authlink"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    name  TEXT NOT NULL DEFAULT '',
    roles TEXT NOT NULL DEFAULT ''
)`

// Postgres is a durable Directory backed by a single users table. Roles
// are stored in their delimited encoding and never parsed in SQL.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects through the pgx stdlib driver and verifies the
// connection. Callers own the returned directory's lifecycle via Close.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the users table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, postgresSchema)
	return err
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) GetByEmail(ctx context.Context, email string) (*authlink.User, error) {
	var (
		name  string
		roles string
	)

	err := p.db.QueryRowContext(ctx,
		`SELECT name, roles FROM users WHERE email = $1`, email,
	).Scan(&name, &roles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &authlink.User{
		Email: email,
		Name:  name,
		Roles: authlink.DecodeRoles(roles),
	}, nil
}

func (p *Postgres) List(ctx context.Context) ([]authlink.User, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT email, name, roles FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []authlink.User
	for rows.Next() {
		var (
			user  authlink.User
			roles string
		)
		if err := rows.Scan(&user.Email, &user.Name, &roles); err != nil {
			return nil, err
		}
		user.Roles = authlink.DecodeRoles(roles)
		users = append(users, user)
	}

	return users, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, u authlink.User) (*authlink.User, error) {
	roles := authlink.NewRoleSet(u.Roles...)

	res, err := p.db.ExecContext(ctx,
		`INSERT INTO users (email, name, roles) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`,
		u.Email, u.Name, authlink.EncodeRoles(roles),
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, authlink.ErrUserExists
	}

	return &authlink.User{Email: u.Email, Name: u.Name, Roles: roles}, nil
}

func (p *Postgres) Patch(ctx context.Context, email string, patch authlink.UserPatch) (*authlink.User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		name  string
		roles string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, roles FROM users WHERE email = $1 FOR UPDATE`, email,
	).Scan(&name, &roles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authlink.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user := authlink.User{
		Email: email,
		Name:  name,
		Roles: authlink.DecodeRoles(roles),
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Roles != nil {
		user.Roles = authlink.NewRoleSet(*patch.Roles...)
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET email = $1, name = $2, roles = $3 WHERE email = $4`,
		user.Email, user.Name, authlink.EncodeRoles(user.Roles), email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, authlink.ErrUserExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *Postgres) Delete(ctx context.Context, email string) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return authlink.ErrUserNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
