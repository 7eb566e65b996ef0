package models

import "time"

// DishSnapshot adalah salinan immutable dari Dish pada saat order dibuat.
// Order lama tetap menampilkan nama/harga yang dipesan walaupun dish-nya
// di-edit atau dihapus belakangan. Dibuat sekali, tidak pernah di-update.
type DishSnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:varchar(255)" json:"image"`
	Status      string    `gorm:"type:varchar(50);not null" json:"status"`
	DishID      *uint     `gorm:"index" json:"dish_id"`
	Dish        *Dish     `gorm:"foreignKey:DishID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// SnapshotOf membuat snapshot baru dari dish yang masih hidup.
func SnapshotOf(dish Dish) DishSnapshot {
	dishID := dish.ID
	return DishSnapshot{
		Name:        dish.Name,
		Price:       dish.Price,
		Description: dish.Description,
		Image:       dish.Image,
		Status:      dish.Status,
		DishID:      &dishID,
	}
}
