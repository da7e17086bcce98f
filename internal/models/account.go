package models

import "time"

// Account — учётная запись. Пароль хранится только в виде bcrypt-хэша.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	PasswordHash []byte    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Roles []AccountRole `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

// AccountRole — членство учётной записи в роли (many-to-many по смыслу).
type AccountRole struct {
	AccountID string `gorm:"primaryKey;size:36"`
	Role      Role   `gorm:"primaryKey;size:32;index"`
}
