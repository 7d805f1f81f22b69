package model

import (
	"time"

	"gorm.io/gorm"
)

type TokenData struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Role        string    `json:"role"`
}

type TokenClaim struct {
	UserId   uint   `json:"userId"`
	VendorId uint   `json:"vendorId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// SubjectId is the id of whoever the token was issued to.
func (t TokenClaim) SubjectId() uint {
	if t.VendorId != 0 {
		return t.VendorId
	}
	return t.UserId
}

type DTO struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
