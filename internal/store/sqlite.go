package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pkt.systems/gamelaunch/schema"
)

type sqliteUser struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Email        string
}

func (sqliteUser) TableName() string { return "users" }

type sqliteLogin struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"index"`
	Success  bool   `gorm:"index"`
	Client   string
	At       time.Time
}

func (sqliteLogin) TableName() string { return "logins" }

type sqlitePlaying struct {
	UserID int64 `gorm:"primaryKey;autoIncrement:false"`
	Since  time.Time
}

func (sqlitePlaying) TableName() string { return "playing" }

// SQLite is the gorm-backed store for single-host deployments.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&sqliteUser{}, &sqliteLogin{}, &sqlitePlaying{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &SQLite{db: db}, nil
}

var _ Store = (*SQLite)(nil)

func (s *SQLite) FindUserByUsername(ctx context.Context, username string) (schema.User, error) {
	var row sqliteUser
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.User{}, schema.ErrUserNotFound
		}
		return schema.User{}, err
	}
	return userFromSQLite(row), nil
}

func (s *SQLite) FindUserByID(ctx context.Context, id schema.UserID) (schema.User, error) {
	var row sqliteUser
	err := s.db.WithContext(ctx).First(&row, int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.User{}, schema.ErrUserNotFound
		}
		return schema.User{}, err
	}
	return userFromSQLite(row), nil
}

func (s *SQLite) CreateUser(ctx context.Context, user schema.User) (schema.User, error) {
	row := sqliteUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return schema.User{}, schema.ErrDuplicateUsername
		}
		return schema.User{}, err
	}
	return userFromSQLite(row), nil
}

func (s *SQLite) UpdateUser(ctx context.Context, user schema.User) error {
	result := s.db.WithContext(ctx).Model(&sqliteUser{}).
		Where("id = ?", int64(user.ID)).
		Updates(map[string]any{
			"username":      user.Username,
			"password_hash": user.PasswordHash,
			"email":         user.Email,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return schema.ErrUserNotFound
	}
	return nil
}

func (s *SQLite) DeleteUser(ctx context.Context, username string) error {
	user, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sqlitePlaying{}, "user_id = ?", int64(user.ID)).Error; err != nil {
			return err
		}
		return tx.Delete(&sqliteUser{}, "id = ?", int64(user.ID)).Error
	})
}

func (s *SQLite) ListUsers(ctx context.Context) ([]schema.User, error) {
	var rows []sqliteUser
	if err := s.db.WithContext(ctx).Order("username").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]schema.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromSQLite(row))
	}
	return users, nil
}

func (s *SQLite) AppendLoginAttempt(ctx context.Context, attempt schema.LoginAttempt) error {
	row := sqliteLogin{
		Username: attempt.Username,
		Success:  attempt.Success,
		Client:   attempt.ClientAddr,
		At:       attempt.At,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *SQLite) ClaimPlaying(ctx context.Context, userID schema.UserID, since time.Time) error {
	row := sqlitePlaying{UserID: int64(userID), Since: since}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return schema.ErrAlreadyPlaying
		}
		return err
	}
	return nil
}

func (s *SQLite) ReleasePlaying(ctx context.Context, userID schema.UserID) error {
	result := s.db.WithContext(ctx).Delete(&sqlitePlaying{}, "user_id = ?", int64(userID))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return schema.ErrNotPlaying
	}
	return nil
}

func (s *SQLite) ListPlaying(ctx context.Context) ([]schema.PlayingUser, error) {
	var rows []struct {
		UserID   int64
		Username string
		Since    time.Time
	}
	err := s.db.WithContext(ctx).Table("playing").
		Select("playing.user_id, users.username, playing.since").
		Joins("JOIN users ON users.id = playing.user_id").
		Order("playing.since").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	playing := make([]schema.PlayingUser, 0, len(rows))
	for _, row := range rows {
		playing = append(playing, schema.PlayingUser{
			UserID:    schema.UserID(row.UserID),
			Username:  row.Username,
			StartedAt: row.Since,
		})
	}
	return playing, nil
}

func (s *SQLite) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func userFromSQLite(row sqliteUser) schema.User {
	return schema.User{
		ID:           schema.UserID(row.ID),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Email:        row.Email,
	}
}
