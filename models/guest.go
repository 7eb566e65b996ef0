package models

import "time"

type Guest struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Nama bebas dari form login, tidak unik. Setiap login membuat row baru.
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	TableNumber *uint  `gorm:"index" json:"table_number"`
	Table       *Table `gorm:"foreignKey:TableNumber;references:Number;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	// RefreshToken non-nil berarti sesi guest masih aktif.
	RefreshToken          *string    `gorm:"type:varchar(512)" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updated_at"`
}
