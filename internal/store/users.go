package store

import (
	"github.com/wildanre/Evently-sub001/internal/models"
)

// CreateUser inserts the user and fills in ID and timestamps
func (s *Store) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleAttendee
	}

	if s.postgres() {
		return s.db.QueryRow(
			`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			user.Name, user.Email, user.Password, user.Role,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	}

	user.ID = newID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	_, err := s.db.Exec(
		"INSERT INTO users (id, name, email, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = ?"
	if s.postgres() {
		query = "SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = $1"
	}

	user := &models.User{}
	err := s.db.QueryRow(query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(id string) (*models.User, error) {
	query := "SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE id = ?"
	if s.postgres() {
		query = "SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE id = $1"
	}

	user := &models.User{}
	err := s.db.QueryRow(query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserRole updates a user's role
func (s *Store) SetUserRole(userID string, role models.UserRole) error {
	query := "UPDATE users SET role = ?, updated_at = ? WHERE id = ?"
	if s.postgres() {
		query = "UPDATE users SET role = $1, updated_at = $2 WHERE id = $3"
	}
	_, err := s.db.Exec(query, role, now(), userID)
	return err
}
