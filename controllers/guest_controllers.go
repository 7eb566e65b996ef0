package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/realtime"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type GuestController struct {
	DB           *gorm.DB
	GuestService *services.GuestService
	OrderService *services.OrderService
}

func NewGuestController(db *gorm.DB) *GuestController {
	return &GuestController{
		DB:           db,
		GuestService: services.NewGuestService(db),
		OrderService: services.NewOrderService(db),
	}
}

// Login guest lewat QR meja -> buat identitas baru + pasangan token.
func (gc *GuestController) Login(c *gin.Context) {
	var input services.GuestLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := gc.GuestService.Login(input)
	if err != nil {
		respondServiceError(c, err, "table does not exist or token is invalid")
		return
	}

	utils.InfoLogger.Printf("Guest login: %s at table %d", session.Guest.Name, *session.Guest.TableNumber)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"guest":        session.Guest,
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// Logout -> hapus sesi; kalau meja jadi kosong broadcast Available.
func (gc *GuestController) Logout(c *gin.Context) {
	guestID := c.GetUint("user_id")

	result, err := gc.GuestService.Logout(guestID)
	if err != nil {
		respondServiceError(c, err, "guest not found")
		return
	}

	if token := c.GetString("access_token"); token != "" {
		utils.BlacklistToken(token)
	}

	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// RefreshToken guest -> rotasi refresh token tanpa memperpanjang sesi.
func (gc *GuestController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	pair, err := gc.GuestService.RefreshToken(input.RefreshToken)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", pair)
}

// CreateOrders -> guest memesan beberapa dish sekaligus. Body berupa
// array item; satu item tidak valid membatalkan seluruh batch.
func (gc *GuestController) CreateOrders(c *gin.Context) {
	guestID := c.GetUint("user_id")

	var items []services.OrderItemInput
	if err := c.ShouldBindJSON(&items); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order must contain at least one item"))
		return
	}

	result, err := gc.OrderService.CreateOrders(guestID, items, nil)
	if err != nil {
		respondServiceError(c, err, "guest or dish not found")
		return
	}

	realtime.BroadcastNewOrder(result.Orders, &guestID)
	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("Created %d orders successfully", len(result.Orders)), result.Orders)
}

// GetOrders -> daftar order milik guest yang sedang login.
func (gc *GuestController) GetOrders(c *gin.Context) {
	guestID := c.GetUint("user_id")

	orders, err := gc.OrderService.ListGuestOrders(guestID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetAllGuests -> daftar guest untuk dashboard staff (pilih guest saat
// buat order walk-in atau bayar).
func (gc *GuestController) GetAllGuests(c *gin.Context) {
	var guests []models.Guest
	query := gc.DB.Order("created_at DESC")
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if tableNumber := c.Query("tableNumber"); tableNumber != "" {
		query = query.Where("table_number = ?", tableNumber)
	}
	if err := query.Find(&guests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of guests", guests)
}

// ForceLogout -> staff memutus sesi guest secara administratif. Sesi
// dihapus seperti logout biasa, lalu koneksi live guest dikirimi event
// force-logout supaya client-nya keluar.
func (gc *GuestController) ForceLogout(c *gin.Context) {
	guestID, _ := strconv.Atoi(c.Param("guest_id"))

	result, err := gc.GuestService.Logout(uint(guestID))
	if err != nil {
		respondServiceError(c, err, "guest not found")
		return
	}

	realtime.ForceLogoutGuest(uint(guestID), "your session has been terminated by staff")
	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.InfoLogger.Printf("Guest %d force-logged out by staff", guestID)
	utils.RespondJSON(c, http.StatusOK, "Guest session terminated", nil)
}
