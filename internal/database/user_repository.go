package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/verdania/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByTelegramID returns a user by their Telegram id, or (nil, nil) when
// the user has not registered yet
func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, `
		SELECT telegram_id, username, first_name, is_admin, notification_enabled,
		       notification_hour, tiles_per_mission, created_at, updated_at
		FROM users WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// Create registers a new user with default preferences
func (r *UserRepository) Create(user *models.User) error {
	_, err := DB.Exec(`
		INSERT INTO users (telegram_id, username, first_name, notification_enabled, notification_hour, tiles_per_mission)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.FirstName,
		user.NotificationEnabled, user.NotificationHour, user.TilesPerMission)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// Update modifies a user's preferences
func (r *UserRepository) Update(user *models.User) error {
	_, err := DB.Exec(`
		UPDATE users SET
			username = $1,
			first_name = $2,
			notification_enabled = $3,
			notification_hour = $4,
			tiles_per_mission = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = $6`,
		user.Username, user.FirstName, user.NotificationEnabled,
		user.NotificationHour, user.TilesPerMission, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	return nil
}

// GetAll returns every registered user
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, `
		SELECT telegram_id, username, first_name, is_admin, notification_enabled,
		       notification_hour, tiles_per_mission, created_at, updated_at
		FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// GetUsersForNotification returns users who want fog reminders at the given hour
func (r *UserRepository) GetUsersForNotification(hour int) ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, `
		SELECT telegram_id, username, first_name, is_admin, notification_enabled,
		       notification_hour, tiles_per_mission, created_at, updated_at
		FROM users
		WHERE notification_enabled = true AND notification_hour = $1`, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %v", err)
	}
	return users, nil
}
