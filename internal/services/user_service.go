package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nvalmar/postdeck-be/internal/auth"
	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(firstName, lastName, email, gender, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetByID(id string) (models.User, error)
}

// UserService provides registration and credential verification.
type UserService struct {
	db       *sql.DB
	activity ActivityServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, activity ActivityServiceProvider) *UserService {
	return &UserService{db: db, activity: activity}
}

// Register creates a new user account. Email must be unique; the plaintext
// password is never stored.
func (s *UserService) Register(firstName, lastName, email, gender, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Gender:    gender,
		Active:    true,
	}

	stmt, err := s.db.Prepare(`INSERT INTO users (id, first_name, last_name, email, gender, active, password_hash, password_salt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(user.ID, user.FirstName, user.LastName, user.Email, user.Gender, user.Active, hash, salt); err != nil {
		// The unique index is the single enforcement point for duplicate
		// emails, so concurrent registrations cannot race past a pre-check.
		if isUniqueEmailViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	if err := s.activity.Record("user.registered", "info", "New account: "+user.Email, nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record registration event")
	}

	return user, nil
}

// isUniqueEmailViolation reports whether err is the sqlite unique-index
// failure on users.email.
func isUniqueEmailViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password are deliberately indistinguishable.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	row := s.db.QueryRow(`SELECT id, first_name, last_name, email, gender, active, password_hash, password_salt, created_at
		FROM users WHERE email = ?`, email)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Gender, &user.Active,
		&user.PasswordHash, &user.PasswordSalt, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand secret material back to callers
	user.PasswordHash = ""
	user.PasswordSalt = ""
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(`SELECT id, first_name, last_name, email, gender, active, created_at
		FROM users WHERE id = ?`, id)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Gender, &user.Active, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with ID %s not found", id)
		}
		return models.User{}, err
	}
	return user, nil
}
