package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/basekit/services/totp"
	"gorm.io/gorm"
)

type User struct {
	ID         string       `json:"id" gorm:"primaryKey;size:36"`
	Email      string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password   string       `json:"-" gorm:"not null"`
	FirstName  string       `json:"first_name" gorm:"size:100"`
	LastName   string       `json:"last_name" gorm:"size:100"`
	IsActive   bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	TOTPDevice *totp.Device `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate user id: %w", err)
	}
	u.ID = id.String()
	return nil
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginRequest struct {
	Email     string
	Password  string
	TOTPCode  string
	IPAddress string
	UserAgent string
}
