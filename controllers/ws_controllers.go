package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/realtime"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin dibatasi oleh CORS middleware
	},
}

// WSHandler -> endpoint WebSocket. Staff masuk ke staff room bersama,
// guest terdaftar individual dengan nomor mejanya supaya event
// table-status-updated bisa diarahkan ke penghuni meja itu saja.
func WSHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)
	userID := c.GetUint("user_id")

	if role != models.RoleOwner && role != models.RoleEmployee && role != models.RoleGuest {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var tableNumber *uint
	if role == models.RoleGuest {
		var guest models.Guest
		if err := utils.GetDB().First(&guest, userID).Error; err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tableNumber = guest.TableNumber
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	if role == models.RoleGuest {
		realtime.RegisterGuest(ws, userID, tableNumber)
	} else {
		realtime.RegisterStaff(ws, userID, role)
	}

	utils.InfoLogger.Printf("WebSocket connected: user=%d role=%s", userID, role)

	// Read loop hanya untuk mendeteksi disconnect; event dari client
	// tidak dipakai, semua mutasi lewat HTTP.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
	utils.InfoLogger.Printf("WebSocket disconnected: user=%d role=%s", userID, role)
}
