package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/controllers"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

func setupTestDBForGuests() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:guests_test?mode=memory&cache=shared"), &gorm.Config{})
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

// setupGuestRouter memakai currentGuestID sebagai pengganti token guest:
// test mengisinya setelah login, sama seperti AuthMiddleware mengisi
// user_id dari claims.
func setupGuestRouter(db *gorm.DB, currentGuestID *uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	guestCtrl := controllers.NewGuestController(db)
	injectGuest := func(c *gin.Context) {
		c.Set("user_id", *currentGuestID)
	}
	router.POST("/guest/auth/login", guestCtrl.Login)
	router.POST("/guest/auth/refresh-token", guestCtrl.RefreshToken)
	router.POST("/guest/auth/logout", injectGuest, guestCtrl.Logout)
	router.POST("/guest/orders", injectGuest, guestCtrl.CreateOrders)
	router.GET("/guest/orders", injectGuest, guestCtrl.GetOrders)
	router.GET("/guests", guestCtrl.GetAllGuests)
	router.POST("/guests/:guest_id/force-logout", guestCtrl.ForceLogout)
	return router
}

func seedGuestFixtures(t *testing.T, db *gorm.DB, tableNumber uint, tableStatus string) models.Table {
	table := models.Table{Number: tableNumber, Capacity: 4, Status: tableStatus, Token: utils.NewTableToken()}
	assert.NoError(t, db.Create(&table).Error)
	return table
}

func guestLogin(t *testing.T, router *gin.Engine, name string, table models.Table) map[string]interface{} {
	payload := map[string]interface{}{
		"name":        name,
		"tableNumber": table.Number,
		"token":       table.Token,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/guest/auth/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func TestGuestLoginFlow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForGuests()
	var currentGuestID uint
	router := setupGuestRouter(db, &currentGuestID)
	table := seedGuestFixtures(t, db, 101, models.TableStatusAvailable)

	data := guestLogin(t, router, "Andi", table)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	guest := data["guest"].(map[string]interface{})
	assert.Equal(t, "Andi", guest["name"])
	assert.Equal(t, float64(table.Number), guest["table_number"])

	// Login tidak mengubah status meja: tanpa order, meja tetap Available
	var fresh models.Table
	assert.NoError(t, db.First(&fresh, "number = ?", table.Number).Error)
	assert.Equal(t, models.TableStatusAvailable, fresh.Status)

	// Login kedua dengan nama sama -> identitas guest baru, bukan reuse
	data2 := guestLogin(t, router, "Andi", table)
	guest2 := data2["guest"].(map[string]interface{})
	assert.NotEqual(t, guest["id"], guest2["id"])

	// Token meja salah -> tidak ada guest baru
	var before int64
	db.Model(&models.Guest{}).Count(&before)
	payload := map[string]interface{}{
		"name":        "Penyusup",
		"tableNumber": table.Number,
		"token":       "wrong-token",
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/guest/auth/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var after int64
	db.Model(&models.Guest{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestGuestLoginRejectedOnHiddenTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForGuests()
	var currentGuestID uint
	router := setupGuestRouter(db, &currentGuestID)
	table := seedGuestFixtures(t, db, 102, models.TableStatusHidden)

	payload := map[string]interface{}{
		"name":        "Citra",
		"tableNumber": table.Number,
		"token":       table.Token,
	}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/guest/auth/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tidak boleh ada row guest yang tertinggal
	var count int64
	db.Model(&models.Guest{}).Where("table_number = ?", table.Number).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGuestOrderAndLogout(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForGuests()
	var currentGuestID uint
	router := setupGuestRouter(db, &currentGuestID)
	table := seedGuestFixtures(t, db, 103, models.TableStatusAvailable)

	dish := models.Dish{Name: "Mie Ayam", Price: 18000, Status: models.DishStatusAvailable}
	assert.NoError(t, db.Create(&dish).Error)

	data := guestLogin(t, router, "Dewi", table)
	guest := data["guest"].(map[string]interface{})
	currentGuestID = uint(guest["id"].(float64))

	// Pesan dua item -> meja jadi Reserved
	items := []map[string]interface{}{
		{"dishId": dish.ID, "quantity": 2},
	}
	itemBytes, _ := json.Marshal(items)
	req, _ := http.NewRequest("POST", "/guest/orders", bytes.NewBuffer(itemBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.Table
	assert.NoError(t, db.First(&fresh, "number = ?", table.Number).Error)
	assert.Equal(t, models.TableStatusReserved, fresh.Status)

	// Daftar order milik guest
	req, _ = http.NewRequest("GET", "/guest/orders", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	orders := listResp["data"].([]interface{})
	assert.Len(t, orders, 1)
	order := orders[0].(map[string]interface{})
	assert.Equal(t, models.OrderStatusPending, order["status"])
	snapshot := order["dish_snapshot"].(map[string]interface{})
	assert.Equal(t, "Mie Ayam", snapshot["name"])

	// Logout dengan order belum dibayar -> sesi putus, meja tetap Reserved
	req, _ = http.NewRequest("POST", "/guest/auth/logout", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var loggedOut models.Guest
	assert.NoError(t, db.First(&loggedOut, currentGuestID).Error)
	assert.Nil(t, loggedOut.RefreshToken)

	assert.NoError(t, db.First(&fresh, "number = ?", table.Number).Error)
	assert.Equal(t, models.TableStatusReserved, fresh.Status)
}

func TestGuestLogoutReleasesTableWithoutOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForGuests()
	var currentGuestID uint
	router := setupGuestRouter(db, &currentGuestID)
	table := seedGuestFixtures(t, db, 104, models.TableStatusReserved)

	guest := models.Guest{Name: "Eka", TableNumber: &table.Number}
	assert.NoError(t, db.Create(&guest).Error)
	currentGuestID = guest.ID

	req, _ := http.NewRequest("POST", "/guest/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Tanpa order aktif, logout mengembalikan meja ke Available
	var fresh models.Table
	assert.NoError(t, db.First(&fresh, "number = ?", table.Number).Error)
	assert.Equal(t, models.TableStatusAvailable, fresh.Status)
}

func TestForceLogoutGuest(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForGuests()
	var currentGuestID uint
	router := setupGuestRouter(db, &currentGuestID)
	table := seedGuestFixtures(t, db, 105, models.TableStatusAvailable)

	data := guestLogin(t, router, "Fajar", table)
	guest := data["guest"].(map[string]interface{})
	guestID := int(guest["id"].(float64))

	req, _ := http.NewRequest("POST", "/guests/"+strconv.Itoa(guestID)+"/force-logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var kicked models.Guest
	assert.NoError(t, db.First(&kicked, guestID).Error)
	assert.Nil(t, kicked.RefreshToken)

	// Guest yang tidak ada -> NotFound
	req, _ = http.NewRequest("POST", "/guests/999999/force-logout", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
