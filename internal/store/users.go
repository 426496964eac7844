package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	return &user, nil
}

// CreateUser stores u with a bcrypt hash of password.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User, password string) error {
	u.FullName = strings.TrimSpace(u.FullName)
	u.Username = strings.TrimSpace(u.Username)
	if u.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalid)
	}
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalid)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, u.Role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &model.User{}, "username = ?", u.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: username %q is taken", ErrConflict, u.Username)
		}
		return tx.Create(u).Error
	})
}

func (s *gormStore) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	updates := map[string]any{}
	if upd.FullName != nil {
		if strings.TrimSpace(*upd.FullName) == "" {
			return nil, fmt.Errorf("%w: full name must not be empty", ErrInvalid)
		}
		updates["full_name"] = strings.TrimSpace(*upd.FullName)
	}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, *upd.Role)
		}
		updates["role"] = *upd.Role
	}
	if upd.Active != nil {
		updates["active"] = *upd.Active
	}

	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.User](tx, id, "user"); err != nil {
			return err
		}
		if username, ok := updates["username"]; ok {
			taken, err := exists(tx, &model.User{}, "username = ? AND id <> ?", username, id)
			if err != nil {
				return fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return fmt.Errorf("%w: username %q is taken", ErrConflict, username)
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.User{ID: id}).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update user %d: %w", id, err)
			}
		}
		var err error
		user, err = first[model.User](tx, id, "user")
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account that never recorded a session or owns a
// vehicle. Its activity log and push subscriptions go with it.
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[model.User](tx, id, "user"); err != nil {
			return err
		}
		used, err := exists(tx, &model.ParkingSession{}, "entry_operator_id = ? OR exit_operator_id = ?", id, id)
		if err != nil {
			return fmt.Errorf("failed to check sessions of user %d: %w", id, err)
		}
		if !used {
			used, err = exists(tx, &model.Vehicle{}, "user_id = ?", id)
			if err != nil {
				return fmt.Errorf("failed to check vehicles of user %d: %w", id, err)
			}
		}
		if used {
			return fmt.Errorf("%w: user %d has recorded sessions or vehicles; deactivate it instead", ErrConflict, id)
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.ActivityLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete activity of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PushSubscription{}).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions of user %d: %w", id, err)
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 64 {
		return fmt.Errorf("%w: username must be 3 to 64 characters", ErrInvalid)
	}
	if strings.ContainsAny(username, " \t\n") {
		return fmt.Errorf("%w: username must not contain spaces", ErrInvalid)
	}
	return nil
}
