package models

import "time"

// Status meja. Reserved diturunkan dari order aktif oleh reconciler,
// Hidden hanya bisa di-set/clear secara eksplisit oleh staff.
const (
	TableStatusAvailable = "Available"
	TableStatusHidden    = "Hidden"
	TableStatusReserved  = "Reserved"
)

type Table struct {
	Number    uint      `gorm:"primaryKey;autoIncrement:false" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Status    string    `gorm:"type:varchar(50);not null;default:'Available'" json:"status"`
	Token     string    `gorm:"type:varchar(255);not null" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
