package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

var errDuplicateEmail = errors.New("email is already registered")

// store is what the handlers program against; *storage is the real
// postgres-backed implementation.
type store interface {
	getUserByEmail(email string) (*user, error)
	getUserByID(id int) (*user, error)
	insertUser(u *user) error
	getUsers() ([]user, error)
	insertTask(t *task) error
	getTask(id int) (*task, error)
	updateTask(t *task) error
	deleteTask(id int) error
	queryTasks(ownerID int, f taskFilter) ([]task, error)
}

type storage struct {
	db *sql.DB
}

func newStorage(db *sql.DB) *storage {
	return &storage{
		db: db,
	}
}

func (s *storage) getUserByEmail(email string) (*user, error) {
	query := `SELECT id, created_at, name, email, password_hash, is_admin
			  FROM users
			  WHERE email = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, email)
	var u user
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) getUserByID(id int) (*user, error) {
	query := `SELECT id, created_at, name, email, password_hash, is_admin
			  FROM users
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var u user
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

// insertUser creates the account. The very first account becomes the
// administrator, decided inside the insert so two concurrent
// registrations cannot both claim the role.
func (s *storage) insertUser(u *user) error {
	query := `INSERT INTO users (name, email, password_hash, is_admin)
			  VALUES ($1, $2, $3, NOT EXISTS (SELECT 1 FROM users))
			  RETURNING id, created_at, is_admin`

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.IsAdmin)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return errDuplicateEmail
	}
	return err
}

func (s *storage) getUsers() ([]user, error) {
	query := `SELECT id, created_at, name, email, password_hash, is_admin
			  FROM users
			  ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []user
	for rows.Next() {
		var u user
		err := rows.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *storage) insertTask(t *task) error {
	query := `INSERT INTO tasks (user_id, title, content, due, category, completed, completed_at, is_note)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, t.UserID, t.Title, t.Content, t.Due, t.Category, t.IsCompleted, t.CompletedAt, t.IsNote)
	err := row.Scan(&t.ID, &t.CreatedAt)
	return err
}

func (s *storage) getTask(id int) (*task, error) {
	query := `SELECT id, created_at, user_id, title, content, due, category, completed, completed_at, is_note
			  FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var t task
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.Title, &t.Content, &t.Due, &t.Category, &t.IsCompleted, &t.CompletedAt, &t.IsNote)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &t, nil
}

// updateTask writes every mutable field back. The owner column is left
// alone on purpose: ownership never changes after creation.
func (s *storage) updateTask(t *task) error {
	query := `UPDATE tasks
			  SET title = $1, content = $2, due = $3, category = $4, completed = $5, completed_at = $6, is_note = $7
			  WHERE id = $8`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, query, t.Title, t.Content, t.Due, t.Category, t.IsCompleted, t.CompletedAt, t.IsNote, t.ID)
	return err
}

func (s *storage) deleteTask(id int) error {
	query := `DELETE FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// queryTasks returns the owner's tasks matching f. The store does not
// second-guess the owner scope; callers are responsible for passing the
// authenticated principal's ID.
func (s *storage) queryTasks(ownerID int, f taskFilter) ([]task, error) {
	query, args := buildTaskQuery(ownerID, f)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []task
	for rows.Next() {
		var t task
		err := rows.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.Title, &t.Content, &t.Due, &t.Category, &t.IsCompleted, &t.CompletedAt, &t.IsNote)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
