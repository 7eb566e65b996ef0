package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetIndicators mengambil angka-angka dashboard manajemen dalam rentang
// tanggal: revenue dari order Paid, jumlah guest, breakdown status order,
// dan kondisi meja saat ini.
func (dc *DashboardController) GetIndicators(c *gin.Context) {
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

	var stats struct {
		Revenue    float64 `json:"revenue"`
		GuestCount int64   `json:"guest_count"`
		OrderStats struct {
			Pending    int64 `json:"pending"`
			Processing int64 `json:"processing"`
			Delivered  int64 `json:"delivered"`
			Paid       int64 `json:"paid"`
			Rejected   int64 `json:"rejected"`
		} `json:"order_stats"`
		TableStats struct {
			Available int64 `json:"available"`
			Reserved  int64 `json:"reserved"`
			Hidden    int64 `json:"hidden"`
		} `json:"table_stats"`
	}

	ordersInRange := func() *gorm.DB {
		q := dc.DB.Model(&models.Order{})
		if fromDate != nil {
			q = q.Where("orders.created_at >= ?", *fromDate)
		}
		if toDate != nil {
			q = q.Where("orders.created_at <= ?", *toDate)
		}
		return q
	}

	// Revenue = harga snapshot x quantity untuk order Paid
	ordersInRange().
		Joins("JOIN dish_snapshots ON dish_snapshots.id = orders.dish_snapshot_id").
		Where("orders.status = ?", models.OrderStatusPaid).
		Select("COALESCE(SUM(dish_snapshots.price * orders.quantity), 0)").
		Row().Scan(&stats.Revenue)

	guestQuery := dc.DB.Model(&models.Guest{})
	if fromDate != nil {
		guestQuery = guestQuery.Where("created_at >= ?", *fromDate)
	}
	if toDate != nil {
		guestQuery = guestQuery.Where("created_at <= ?", *toDate)
	}
	guestQuery.Count(&stats.GuestCount)

	ordersInRange().Where("orders.status = ?", models.OrderStatusPending).Count(&stats.OrderStats.Pending)
	ordersInRange().Where("orders.status = ?", models.OrderStatusProcessing).Count(&stats.OrderStats.Processing)
	ordersInRange().Where("orders.status = ?", models.OrderStatusDelivered).Count(&stats.OrderStats.Delivered)
	ordersInRange().Where("orders.status = ?", models.OrderStatusPaid).Count(&stats.OrderStats.Paid)
	ordersInRange().Where("orders.status = ?", models.OrderStatusRejected).Count(&stats.OrderStats.Rejected)

	dc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusAvailable).Count(&stats.TableStats.Available)
	dc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusReserved).Count(&stats.TableStats.Reserved)
	dc.DB.Model(&models.Table{}).Where("status = ?", models.TableStatusHidden).Count(&stats.TableStats.Hidden)

	utils.RespondJSON(c, http.StatusOK, "Dashboard indicators retrieved successfully", stats)
}

// GetRevenueChart merender grafik revenue harian sebagai PNG untuk
// di-embed / diunduh dari dashboard.
func (dc *DashboardController) GetRevenueChart(c *gin.Context) {
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

	// Default: 30 hari terakhir
	end := time.Now()
	if toDate != nil {
		end = *toDate
	}
	start := end.AddDate(0, 0, -30)
	if fromDate != nil {
		start = *fromDate
	}

	var rows []struct {
		Day     string
		Revenue float64
	}
	if err := dc.DB.Model(&models.Order{}).
		Joins("JOIN dish_snapshots ON dish_snapshots.id = orders.dish_snapshot_id").
		Where("orders.status = ? AND orders.created_at BETWEEN ? AND ?", models.OrderStatusPaid, start, end).
		Select("DATE(orders.created_at) AS day, SUM(dish_snapshots.price * orders.quantity) AS revenue").
		Group("DATE(orders.created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	xValues := make([]time.Time, 0, len(rows))
	yValues := make([]float64, 0, len(rows))
	for _, row := range rows {
		day, err := time.Parse("2006-01-02", row.Day)
		if err != nil {
			continue
		}
		xValues = append(xValues, day)
		yValues = append(yValues, row.Revenue)
	}

	// go-chart butuh minimal 2 titik untuk time series
	if len(xValues) < 2 {
		utils.RespondJSON(c, http.StatusOK, "Not enough data to render chart", gin.H{
			"points": len(xValues),
		})
		return
	}

	graph := chart.Chart{
		Title:  "Daily revenue",
		Width:  900,
		Height: 420,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Revenue",
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
