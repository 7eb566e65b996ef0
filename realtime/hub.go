package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// Nama event sesuai kontrak dengan frontend.
const (
	EventNewOrder    = "new-order"
	EventUpdateOrder = "update-order"
	EventPayment     = "payment"
	EventTableStatus = "table-status-updated"
	EventForceLogout = "force-logout"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Payload per event. Satu tipe per nama event supaya handler di client
// tidak perlu menebak bentuk data.
type TableStatusPayload struct {
	TableNumber uint   `json:"tableNumber"`
	Status      string `json:"status"`
}

type ForceLogoutPayload struct {
	Message string `json:"message"`
}

// client menyimpan identitas satu koneksi: staff bergabung ke room
// bersama, guest bisa ditarget per guest id atau per nomor meja.
type client struct {
	role        string
	userID      uint
	tableNumber *uint
}

// Hub adalah registry koneksi websocket yang sedang terbuka.
// Semua mutasi map dilindungi mutex; pengiriman best-effort, error
// kirim cuma di-log dan koneksi dibiarkan sampai read loop-nya putus.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]client)}
}

var defaultHub = NewHub()

// RegisterStaff memasukkan koneksi Owner/Employee ke staff room.
func RegisterStaff(conn *websocket.Conn, accountID uint, role string) {
	defaultHub.register(conn, client{role: role, userID: accountID})
}

// RegisterGuest mendaftarkan koneksi guest beserta meja tempat dia duduk.
func RegisterGuest(conn *websocket.Conn, guestID uint, tableNumber *uint) {
	defaultHub.register(conn, client{role: models.RoleGuest, userID: guestID, tableNumber: tableNumber})
}

func UnregisterClient(conn *websocket.Conn) {
	defaultHub.unregister(conn)
}

func (h *Hub) register(conn *websocket.Conn, cl client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = cl
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// BroadcastNewOrder -> staff room + koneksi guest pembuat order (jika ada).
func BroadcastNewOrder(orders []models.Order, guestID *uint) {
	defaultHub.send(Message{Event: EventNewOrder, Data: orders}, staffAndGuest(guestID))
}

// BroadcastOrderUpdate -> staff room + guest pemilik order.
func BroadcastOrderUpdate(order models.Order, guestID *uint) {
	defaultHub.send(Message{Event: EventUpdateOrder, Data: order}, staffAndGuest(guestID))
}

// BroadcastPayment -> staff room + guest yang dibayarkan.
func BroadcastPayment(orders []models.Order, guestID *uint) {
	defaultHub.send(Message{Event: EventPayment, Data: orders}, staffAndGuest(guestID))
}

// BroadcastTableStatus -> staff room selalu, plus semua guest yang duduk
// di meja tersebut. Client guest menangani status Hidden dengan memaksa
// kembali ke landing page.
func BroadcastTableStatus(tableNumber uint, status string) {
	payload := TableStatusPayload{TableNumber: tableNumber, Status: status}
	defaultHub.send(Message{Event: EventTableStatus, Data: payload}, func(cl client) bool {
		if isStaff(cl.role) {
			return true
		}
		return cl.tableNumber != nil && *cl.tableNumber == tableNumber
	})
}

// ForceLogoutGuest menarget satu koneksi guest untuk terminasi sesi
// administratif.
func ForceLogoutGuest(guestID uint, message string) {
	payload := ForceLogoutPayload{Message: message}
	defaultHub.send(Message{Event: EventForceLogout, Data: payload}, func(cl client) bool {
		return cl.role == models.RoleGuest && cl.userID == guestID
	})
}

func isStaff(role string) bool {
	return role == models.RoleOwner || role == models.RoleEmployee
}

func staffAndGuest(guestID *uint) func(client) bool {
	return func(cl client) bool {
		if isStaff(cl.role) {
			return true
		}
		return guestID != nil && cl.role == models.RoleGuest && cl.userID == *guestID
	}
}

// send melakukan marshal sekali lalu menulis ke setiap koneksi yang lolos
// filter. Tidak ada persistence/replay: client yang disconnect tinggal
// re-fetch state lewat endpoint biasa saat reconnect.
func (h *Hub) send(msg Message, match func(client) bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("realtime: error marshaling %s event: %v", msg.Event, err)
		}
		return
	}

	for conn, cl := range h.clients {
		if !match(cl) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("realtime: error sending %s to client (role=%s): %v", msg.Event, cl.role, err)
			}
			continue
		}
	}
}
