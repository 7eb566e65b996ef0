package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type ReceiptController struct {
	DB *gorm.DB
}

func NewReceiptController(db *gorm.DB) *ReceiptController {
	return &ReceiptController{DB: db}
}

// GenerateGuestReceipt membuat struk PDF untuk order yang sudah dibayar
// milik satu guest. Harga diambil dari snapshot, jadi struk tetap benar
// walaupun menu sudah berubah.
func (rc *ReceiptController) GenerateGuestReceipt(c *gin.Context) {
	guestID, _ := strconv.Atoi(c.Param("guest_id"))

	var guest models.Guest
	if err := rc.DB.First(&guest, guestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orders []models.Order
	if err := rc.DB.Preload("DishSnapshot").
		Where("guest_id = ? AND status = ?", guest.ID, models.OrderStatusPaid).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if len(orders) == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("guest %d has no paid orders", guest.ID))
		return
	}

	receiptNumber := fmt.Sprintf("RCP/%s/%06d", time.Now().Format("20060102"), guest.ID)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Receipt: "+receiptNumber)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Guest: "+guest.Name)
	pdf.Ln(6)
	if guest.TableNumber != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Table: %d", *guest.TableNumber))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Date: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	// Header tabel
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Dish", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, order := range orders {
		subtotal := order.DishSnapshot.Price * float64(order.Quantity)
		total += subtotal

		pdf.CellFormat(90, 7, order.DishSnapshot.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(order.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, utils.FormatCurrency(order.DishSnapshot.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, utils.FormatCurrency(subtotal), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(145, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatCurrency(total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", guest.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
