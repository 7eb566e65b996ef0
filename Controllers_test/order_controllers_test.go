package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/controllers"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type orderFixtures struct {
	Handler models.Account
	Table   models.Table
	Guest   models.Guest
	Dish    models.Dish
}

func setupTestDBForOrders() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:orders_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Account{}, &models.Table{}, &models.Guest{},
		&models.Dish{}, &models.DishSnapshot{}, &models.Order{})
	if err != nil {
		panic(err)
	}
	return db
}

func seedOrderFixtures(t *testing.T, db *gorm.DB, tableNumber uint) orderFixtures {
	handler := models.Account{
		Name: "Kasir", Email: fmt.Sprintf("kasir%d@example.com", tableNumber),
		Password: "x", Role: models.RoleEmployee,
	}
	assert.NoError(t, db.Create(&handler).Error)

	table := models.Table{Number: tableNumber, Capacity: 4, Status: models.TableStatusAvailable, Token: utils.NewTableToken()}
	assert.NoError(t, db.Create(&table).Error)

	guest := models.Guest{Name: "Gita", TableNumber: &table.Number}
	assert.NoError(t, db.Create(&guest).Error)

	dish := models.Dish{Name: "Ayam Bakar", Price: 22000, Status: models.DishStatusAvailable}
	assert.NoError(t, db.Create(&dish).Error)

	return orderFixtures{Handler: handler, Table: table, Guest: guest, Dish: dish}
}

func setupOrderRouter(db *gorm.DB, handlerID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", asUser(handlerID), orderCtrl.CreateOrders)
	router.GET("/orders", orderCtrl.GetAllOrders)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.PUT("/orders/:order_id", asUser(handlerID), orderCtrl.UpdateOrder)
	router.POST("/orders/pay", asUser(handlerID), orderCtrl.PayOrders)
	return router
}

func TestStaffOrderLifecycle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	fx := seedOrderFixtures(t, db, 201)
	router := setupOrderRouter(db, fx.Handler.ID)

	// Staff membuatkan order walk-in untuk guest
	payload := map[string]interface{}{
		"guestId": fx.Guest.ID,
		"orders": []map[string]interface{}{
			{"dishId": fx.Dish.ID, "quantity": 2},
		},
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	orders := createResp["data"].([]interface{})
	assert.Len(t, orders, 1)
	created := orders[0].(map[string]interface{})
	assert.Equal(t, models.OrderStatusPending, created["status"])
	// Order buatan staff langsung tercatat handler-nya
	assert.Equal(t, float64(fx.Handler.ID), created["order_handler_id"])
	orderID := int(created["id"].(float64))

	// Meja ikut Reserved dalam transaksi yang sama
	var table models.Table
	assert.NoError(t, db.First(&table, "number = ?", fx.Table.Number).Error)
	assert.Equal(t, models.TableStatusReserved, table.Status)

	// Dapur mulai masak
	updatePayload := map[string]interface{}{
		"status":   models.OrderStatusProcessing,
		"dishId":   fx.Dish.ID,
		"quantity": 2,
	}
	updateBytes, _ := json.Marshal(updatePayload)
	req, _ = http.NewRequest("PUT", fmt.Sprintf("/orders/%d", orderID), bytes.NewBuffer(updateBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bayar seluruh order aktif guest -> Paid + meja Available lagi
	payBytes, _ := json.Marshal(map[string]interface{}{"guestId": fx.Guest.ID})
	req, _ = http.NewRequest("POST", "/orders/pay", bytes.NewBuffer(payBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var paid models.Order
	assert.NoError(t, db.First(&paid, orderID).Error)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)

	assert.NoError(t, db.First(&table, "number = ?", fx.Table.Number).Error)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
}

func TestUpdatePaidOrderRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	fx := seedOrderFixtures(t, db, 202)
	router := setupOrderRouter(db, fx.Handler.ID)

	snapshot := models.SnapshotOf(fx.Dish)
	assert.NoError(t, db.Create(&snapshot).Error)
	order := models.Order{
		GuestID:        &fx.Guest.ID,
		TableNumber:    &fx.Table.Number,
		DishSnapshotID: snapshot.ID,
		Quantity:       1,
		Status:         models.OrderStatusPaid,
	}
	assert.NoError(t, db.Create(&order).Error)

	payload := map[string]interface{}{
		"status":   models.OrderStatusRejected,
		"dishId":   fx.Dish.ID,
		"quantity": 1,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("PUT", fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Status tersimpan tidak berubah
	var fresh models.Order
	assert.NoError(t, db.First(&fresh, order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, fresh.Status)
}

func TestCreateOrdersAtomicOnInvalidDish(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	fx := seedOrderFixtures(t, db, 203)
	router := setupOrderRouter(db, fx.Handler.ID)

	soldOut := models.Dish{Name: "Gulai Kambing", Price: 35000, Status: models.DishStatusUnavailable}
	assert.NoError(t, db.Create(&soldOut).Error)

	var snapshotsBefore int64
	db.Model(&models.DishSnapshot{}).Count(&snapshotsBefore)

	// Batch berisi satu dish valid dan satu sold out -> seluruh batch batal
	payload := map[string]interface{}{
		"guestId": fx.Guest.ID,
		"orders": []map[string]interface{}{
			{"dishId": fx.Dish.ID, "quantity": 1},
			{"dishId": soldOut.ID, "quantity": 1},
		},
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var orderCount int64
	db.Model(&models.Order{}).Where("guest_id = ?", fx.Guest.ID).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)

	// Rollback juga membatalkan snapshot dari item yang sempat valid
	var snapshotsAfter int64
	db.Model(&models.DishSnapshot{}).Count(&snapshotsAfter)
	assert.Equal(t, snapshotsBefore, snapshotsAfter)

	// Meja tidak ikut ter-Reserved
	var table models.Table
	assert.NoError(t, db.First(&table, "number = ?", fx.Table.Number).Error)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
}

func TestPayOrdersWithoutActiveOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders()
	fx := seedOrderFixtures(t, db, 204)
	router := setupOrderRouter(db, fx.Handler.ID)

	// Tanpa order aktif pembayaran tetap sukses, hanya saja kosong
	payBytes, _ := json.Marshal(map[string]interface{}{"guestId": fx.Guest.ID})
	req, _ := http.NewRequest("POST", "/orders/pay", bytes.NewBuffer(payBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orders, _ := resp["data"].([]interface{})
	assert.Len(t, orders, 0)

	// Guest yang tidak ada -> NotFound
	payBytes, _ = json.Marshal(map[string]interface{}{"guestId": 999999})
	req, _ = http.NewRequest("POST", "/orders/pay", bytes.NewBuffer(payBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
