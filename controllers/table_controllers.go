package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/realtime"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type TableController struct {
	DB           *gorm.DB
	OrderService *services.OrderService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db, OrderService: services.NewOrderService(db)}
}

// CreateTable -> menambahkan meja baru. Nomor meja dipilih staff, bukan
// auto-increment, jadi duplikat harus ditolak Conflict.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   uint `json:"number" binding:"required"`
		Capacity int  `json:"capacity" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	tc.DB.Model(&models.Table{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, services.ErrTableNumberTaken)
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   models.TableStatusAvailable,
		Token:    utils.NewTableToken(),
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %d (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> daftar meja untuk dashboard staff (termasuk token QR).
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByNumber -> detail satu meja.
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	var table models.Table
	if err := tc.DB.First(&table, "number = ?", number).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetPublicTable -> versi publik tanpa token (halaman landing meja).
func (tc *TableController) GetPublicTable(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	var table models.Table
	if err := tc.DB.First(&table, "number = ?", number).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"number":   table.Number,
		"capacity": table.Capacity,
		"status":   table.Status,
	})
}

// UpdateTable -> ubah kapasitas/status, atau rotasi token QR.
// Perubahan status di sini adalah override eksplisit oleh staff: selalu
// ditulis apa adanya dan selalu di-broadcast. Hidden hanya bisa masuk dan
// keluar lewat jalur ini, reconciler tidak pernah menyentuhnya.
func (tc *TableController) UpdateTable(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	var req struct {
		Capacity    int    `json:"capacity" binding:"required,gt=0"`
		Status      string `json:"status" binding:"required,oneof=Available Hidden Reserved"`
		ChangeToken bool   `json:"changeToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "number = ?", number).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	statusChanged := table.Status != req.Status

	table.Capacity = req.Capacity
	table.Status = req.Status
	if req.ChangeToken {
		// Rotasi token: QR code dan link login lama langsung mati.
		table.Token = utils.NewTableToken()
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if statusChanged {
		realtime.BroadcastTableStatus(table.Number, table.Status)
		utils.InfoLogger.Printf("Table %d status changed to %s (explicit)", table.Number, table.Status)
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja. Guest dan order lama tetap ada dengan
// table_number menjadi NULL.
func (tc *TableController) DeleteTable(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	var table models.Table
	if err := tc.DB.First(&table, "number = ?", number).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.Number)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"number": table.Number})
}

// GetOrdersSummary -> breakdown order per guest untuk satu meja,
// dipakai staff menilai apakah meja sudah bisa ditutup.
func (tc *TableController) GetOrdersSummary(c *gin.Context) {
	number, _ := strconv.Atoi(c.Param("number"))

	var table models.Table
	if err := tc.DB.First(&table, "number = ?", number).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	counts, err := tc.OrderService.TableOrderCounts(table.Number)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table order summary", gin.H{
		"table":  table,
		"guests": counts,
	})
}
