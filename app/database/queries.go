package database

import (
	"database/sql"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// CreateUser inserts a new worker account. The password must already be
// hashed by the caller.
func CreateUser(db *sql.DB, user *models.User) error {
	query := `INSERT INTO users (email, password, first_name, last_name)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, user.Email, user.Password, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserByEmail looks up an active user for login.
func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users
			  WHERE email = $1 AND deleted_at IS NULL`

	user := &models.User{}
	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID fetches a user by primary key.
func GetUserByID(db *sql.DB, id string) (*models.User, error) {
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users
			  WHERE id = $1 AND deleted_at IS NULL`

	user := &models.User{}
	err := db.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserPassword replaces a user's password hash.
func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}
