package totp

import (
	"context"
	"errors"
	"fmt"

	"github.com/tech-arch1tect/basekit/database"
	"gorm.io/gorm"
)

// Store persists devices. GetDevice returns nil, nil when the user has none.
type Store interface {
	GetDevice(ctx context.Context, userID string) (*Device, error)
	InsertDevice(ctx context.Context, device *Device) (*Device, error)
	UpdateDevice(ctx context.Context, device *Device) (*Device, error)
	DeleteDevice(ctx context.Context, userID string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetDevice(ctx context.Context, userID string) (*Device, error) {
	var device Device
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load totp device: %w", err)
	}
	return &device, nil
}

func (s *GormStore) InsertDevice(ctx context.Context, device *Device) (*Device, error) {
	var stored Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &Device{
			UserID:    device.UserID,
			Secret:    device.Secret,
			Confirmed: device.Confirmed,
		}
		if err := tx.Create(row).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return ErrConflict
			}
			return fmt.Errorf("failed to insert totp device: %w", err)
		}
		return tx.First(&stored, row.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateDevice writes the confirmation flag only; the secret is immutable.
func (s *GormStore) UpdateDevice(ctx context.Context, device *Device) (*Device, error) {
	var stored Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Device{}).
			Where("user_id = ?", device.UserID).
			Update("confirmed", device.Confirmed)
		if result.Error != nil {
			return fmt.Errorf("failed to update totp device: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotConfigured
		}
		return tx.Where("user_id = ?", device.UserID).First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *GormStore) DeleteDevice(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Device{}).Error; err != nil {
		return fmt.Errorf("failed to delete totp device: %w", err)
	}
	return nil
}
