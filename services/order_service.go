package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
)

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type OrderItemInput struct {
	DishID   uint `json:"dishId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// OrderMutationResult membawa hasil mutasi plus perubahan status meja
// supaya controller bisa broadcast setelah commit.
type OrderMutationResult struct {
	Orders        []models.Order
	TableNumber   *uint
	TableStatus   string
	StatusChanged bool
}

// CreateOrders membuat N order (satu per item) untuk guest dalam satu
// transaksi. Semua validasi jalan sebelum ada tulisan; item pertama yang
// gagal membatalkan seluruh batch. handlerID nil untuk order yang dibuat
// guest sendiri, terisi untuk order yang dibuatkan staff (walk-in/telepon).
func (s *OrderService) CreateOrders(guestID uint, items []OrderItemInput, handlerID *uint) (*OrderMutationResult, error) {
	result := &OrderMutationResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return err
		}
		if guest.TableNumber == nil {
			return domainErrorf("your table has been deleted, please log out and log in to another table")
		}

		var table models.Table
		if err := tx.First(&table, "number = ?", *guest.TableNumber).Error; err != nil {
			return err
		}
		if table.Status == models.TableStatusHidden {
			return domainErrorf("table %d is hidden, please log out and choose another table", table.Number)
		}

		orderIDs := make([]uint, 0, len(items))
		for _, item := range items {
			var dish models.Dish
			if err := tx.First(&dish, item.DishID).Error; err != nil {
				return err
			}
			if dish.Status == models.DishStatusUnavailable {
				return domainErrorf("dish %s is sold out", dish.Name)
			}
			if dish.Status == models.DishStatusHidden {
				return domainErrorf("dish %s cannot be ordered", dish.Name)
			}

			snapshot := models.SnapshotOf(dish)
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}

			order := models.Order{
				GuestID:        &guest.ID,
				TableNumber:    guest.TableNumber,
				DishSnapshotID: snapshot.ID,
				Quantity:       item.Quantity,
				OrderHandlerID: handlerID,
				Status:         models.OrderStatusPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			orderIDs = append(orderIDs, order.ID)
		}

		status, changed, err := ReconcileTableStatus(tx, *guest.TableNumber)
		if err != nil {
			return err
		}
		result.TableNumber = guest.TableNumber
		result.TableStatus = status
		result.StatusChanged = changed

		// Reload dengan relasi untuk payload event dan response
		return tx.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
			Find(&result.Orders, orderIDs).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type UpdateOrderInput struct {
	Status   string `json:"status" binding:"required,oneof=Pending Processing Delivered Paid Rejected"`
	DishID   uint   `json:"dishId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrder mengubah status/dish/quantity satu order oleh staff.
// Order yang sudah Paid tidak boleh diubah lagi. Kalau dish diganti,
// dibuat snapshot baru dari dish tujuan.
func (s *OrderService) UpdateOrder(orderID uint, input UpdateOrderInput, handlerID uint) (*OrderMutationResult, error) {
	result := &OrderMutationResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("DishSnapshot").First(&order, orderID).Error; err != nil {
			return err
		}

		if order.Status == models.OrderStatusPaid {
			return domainErrorf("order %d has been paid and can no longer be changed", order.ID)
		}

		if order.DishSnapshot.DishID == nil || *order.DishSnapshot.DishID != input.DishID {
			var dish models.Dish
			if err := tx.First(&dish, input.DishID).Error; err != nil {
				return err
			}
			snapshot := models.SnapshotOf(dish)
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
			order.DishSnapshotID = snapshot.ID
		}

		order.Status = input.Status
		order.Quantity = input.Quantity
		order.OrderHandlerID = &handlerID
		order.UpdatedAt = time.Now()
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if order.TableNumber != nil {
			status, changed, err := ReconcileTableStatus(tx, *order.TableNumber)
			if err != nil {
				return err
			}
			result.TableNumber = order.TableNumber
			result.TableStatus = status
			result.StatusChanged = changed
		}

		var reloaded models.Order
		if err := tx.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
			First(&reloaded, order.ID).Error; err != nil {
			return err
		}
		result.Orders = []models.Order{reloaded}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayGuestOrders menandai semua order aktif milik satu guest menjadi Paid
// sekaligus, lalu rekonsiliasi meja (biasanya kembali Available).
func (s *OrderService) PayGuestOrders(guestID uint, handlerID uint) (*OrderMutationResult, error) {
	result := &OrderMutationResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return err
		}

		var orders []models.Order
		if err := tx.Where("guest_id = ? AND status IN ?", guestID, models.ActiveOrderStatuses).
			Find(&orders).Error; err != nil {
			return err
		}

		orderIDs := make([]uint, 0, len(orders))
		for i := range orders {
			orders[i].Status = models.OrderStatusPaid
			orders[i].OrderHandlerID = &handlerID
			orders[i].UpdatedAt = time.Now()
			if err := tx.Save(&orders[i]).Error; err != nil {
				return err
			}
			orderIDs = append(orderIDs, orders[i].ID)
		}

		if guest.TableNumber != nil {
			status, changed, err := ReconcileTableStatus(tx, *guest.TableNumber)
			if err != nil {
				return err
			}
			result.TableNumber = guest.TableNumber
			result.TableStatus = status
			result.StatusChanged = changed
		}

		if len(orderIDs) == 0 {
			result.Orders = []models.Order{}
			return nil
		}
		return tx.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
			Find(&result.Orders, orderIDs).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListOrders -> proyeksi untuk dashboard staff, filter tanggal opsional.
func (s *OrderService) ListOrders(fromDate, toDate *time.Time) ([]models.Order, error) {
	query := s.DB.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
		Order("created_at DESC")
	if fromDate != nil {
		query = query.Where("created_at >= ?", *fromDate)
	}
	if toDate != nil {
		query = query.Where("created_at <= ?", *toDate)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrderDetail(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListGuestOrders -> order milik satu guest (untuk tab "pesanan saya").
func (s *OrderService) ListGuestOrders(guestID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Preload("DishSnapshot").Preload("OrderHandler").
		Where("guest_id = ?", guestID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GuestOrderCounts adalah breakdown per guest yang dipakai dashboard staff
// untuk menilai apakah sebuah meja sudah kosong.
type GuestOrderCounts struct {
	GuestID    uint   `json:"guest_id"`
	GuestName  string `json:"guest_name"`
	Pending    int64  `json:"pending"`
	Processing int64  `json:"processing"`
	Delivered  int64  `json:"delivered"`
	Paid       int64  `json:"paid"`
	Rejected   int64  `json:"rejected"`
}

// TableOrderCounts menghitung jumlah order per status per guest di satu meja.
func (s *OrderService) TableOrderCounts(tableNumber uint) ([]GuestOrderCounts, error) {
	var rows []struct {
		GuestID   uint
		GuestName string
		Status    string
		Total     int64
	}
	if err := s.DB.Model(&models.Order{}).
		Select("orders.guest_id AS guest_id, guests.name AS guest_name, orders.status AS status, COUNT(*) AS total").
		Joins("JOIN guests ON guests.id = orders.guest_id").
		Where("orders.table_number = ?", tableNumber).
		Group("orders.guest_id, guests.name, orders.status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byGuest := make(map[uint]*GuestOrderCounts)
	order := make([]uint, 0)
	for _, row := range rows {
		counts, ok := byGuest[row.GuestID]
		if !ok {
			counts = &GuestOrderCounts{GuestID: row.GuestID, GuestName: row.GuestName}
			byGuest[row.GuestID] = counts
			order = append(order, row.GuestID)
		}
		switch row.Status {
		case models.OrderStatusPending:
			counts.Pending = row.Total
		case models.OrderStatusProcessing:
			counts.Processing = row.Total
		case models.OrderStatusDelivered:
			counts.Delivered = row.Total
		case models.OrderStatusPaid:
			counts.Paid = row.Total
		case models.OrderStatusRejected:
			counts.Rejected = row.Total
		}
	}

	result := make([]GuestOrderCounts, 0, len(order))
	for _, id := range order {
		result = append(result, *byGuest[id])
	}
	return result, nil
}

// IsNotFound membantu controller membedakan 404 dari error lain.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
