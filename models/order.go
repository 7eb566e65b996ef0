package models

import "time"

// Status order berjalan monoton Pending -> Processing -> Delivered -> Paid.
// Rejected bisa dicapai dari status manapun sebelum Paid. Setelah Paid,
// order tidak boleh diubah lagi.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
	OrderStatusPaid       = "Paid"
	OrderStatusRejected   = "Rejected"
)

// ActiveOrderStatuses adalah status yang membuat meja tetap Reserved.
var ActiveOrderStatuses = []string{OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered}

type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	GuestID *uint  `gorm:"index" json:"guest_id"`
	Guest   *Guest `gorm:"foreignKey:GuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"guest,omitempty"`
	// TableNumber disalin dari guest saat order dibuat, tidak mengikuti
	// perpindahan meja guest.
	TableNumber    *uint        `gorm:"index" json:"table_number"`
	DishSnapshotID uint         `gorm:"not null" json:"dish_snapshot_id"`
	DishSnapshot   DishSnapshot `gorm:"foreignKey:DishSnapshotID;references:ID" json:"dish_snapshot"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	OrderHandlerID *uint        `gorm:"index" json:"order_handler_id"`
	OrderHandler   *Account     `gorm:"foreignKey:OrderHandlerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"order_handler,omitempty"`
	Status         string       `gorm:"type:varchar(50);not null;default:'Pending'" json:"status"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}

// IsActive -> order yang belum dibayar dan belum ditolak.
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusPending ||
		o.Status == OrderStatusProcessing ||
		o.Status == OrderStatusDelivered
}
