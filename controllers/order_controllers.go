package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/realtime"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type OrderController struct {
	DB           *gorm.DB
	OrderService *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, OrderService: services.NewOrderService(db)}
}

// CreateOrders -> staff membuatkan order untuk guest (walk-in/telepon).
// Validasi dish dan snapshot sama persis dengan order yang dibuat guest;
// bedanya orderHandlerId langsung terisi staff pembuat.
func (oc *OrderController) CreateOrders(c *gin.Context) {
	handlerID := c.GetUint("user_id")

	var req struct {
		GuestID uint                      `json:"guestId" binding:"required"`
		Orders  []services.OrderItemInput `json:"orders" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.OrderService.CreateOrders(req.GuestID, req.Orders, &handlerID)
	if err != nil {
		respondServiceError(c, err, "guest or dish not found")
		return
	}

	realtime.BroadcastNewOrder(result.Orders, &req.GuestID)
	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("Created %d orders for guest", len(result.Orders)), result.Orders)
}

// GetAllOrders -> list order dengan filter tanggal opsional
// (fromDate/toDate, format RFC3339 atau YYYY-MM-DD).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	fromDate, err := parseDateQuery(c.Query("fromDate"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	toDate, err := parseDateQuery(c.Query("toDate"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.OrderService.ListOrders(fromDate, toDate)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail satu order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.OrderService.GetOrderDetail(uint(orderID))
	if err != nil {
		respondServiceError(c, err, "order not found")
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder -> staff mengubah status/dish/quantity. Order Paid ditolak.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	handlerID := c.GetUint("user_id")
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.OrderService.UpdateOrder(uint(orderID), input, handlerID)
	if err != nil {
		respondServiceError(c, err, "order not found")
		return
	}

	order := result.Orders[0]
	realtime.BroadcastOrderUpdate(order, order.GuestID)
	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// PayOrders -> staff menyelesaikan pembayaran seluruh order aktif guest.
func (oc *OrderController) PayOrders(c *gin.Context) {
	handlerID := c.GetUint("user_id")

	var req struct {
		GuestID uint `json:"guestId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.OrderService.PayGuestOrders(req.GuestID, handlerID)
	if err != nil {
		respondServiceError(c, err, "guest not found")
		return
	}

	realtime.BroadcastPayment(result.Orders, &req.GuestID)
	if result.StatusChanged && result.TableNumber != nil {
		realtime.BroadcastTableStatus(*result.TableNumber, result.TableStatus)
	}

	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("Paid %d orders successfully", len(result.Orders)), result.Orders)
}

// parseDateQuery menerima RFC3339 penuh atau tanggal saja.
func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want RFC3339 or YYYY-MM-DD", value)
	}
	return &t, nil
}
