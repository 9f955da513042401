package totp

import "time"

// Device is the per-user TOTP credential. The secret is written once at
// provisioning and never serialised.
type Device struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;not null;size:36"`
	Secret    string    `json:"-" gorm:"not null;size:128"`
	Confirmed bool      `json:"confirmed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Device) TableName() string {
	return "totp_devices"
}

type SetupResult struct {
	Device     *Device
	Secret     string
	OTPAuthURL string
	QRCode     string
}
