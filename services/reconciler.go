package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-ordering/models"
)

// ReconcileTableStatus menghitung ulang status meja dari order aktifnya.
// Ini satu-satunya jalur yang boleh menulis Table.Status secara implisit;
// perubahan eksplisit oleh staff lewat UpdateTable di controller.
//
// Harus dipanggil di dalam transaksi yang sama dengan mutasi order yang
// mendahuluinya. Row meja dikunci FOR UPDATE supaya urutan
// "baca jumlah order aktif lalu tulis status" tidak balapan dengan
// pembuatan order di request lain (lost update).
//
// Aturan:
//   - Hidden tidak pernah keluar/masuk otomatis.
//   - Ada order aktif  -> Reserved.
//   - Tidak ada        -> Available (hanya jika sekarang Reserved).
//
// Idempotent: dipanggil dua kali berturut-turut tanpa mutasi di antaranya
// menghasilkan status sama dan changed=false pada panggilan kedua.
func ReconcileTableStatus(tx *gorm.DB, tableNumber uint) (string, bool, error) {
	// SQLite tidak mengenal FOR UPDATE; di sana transaksi sudah
	// mengunci seluruh database jadi row lock tidak diperlukan.
	query := tx
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var table models.Table
	if err := query.First(&table, "number = ?", tableNumber).Error; err != nil {
		return "", false, err
	}

	if table.Status == models.TableStatusHidden {
		return table.Status, false, nil
	}

	var activeCount int64
	if err := tx.Model(&models.Order{}).
		Where("table_number = ? AND status IN ?", tableNumber, models.ActiveOrderStatuses).
		Count(&activeCount).Error; err != nil {
		return "", false, err
	}

	newStatus := table.Status
	if activeCount > 0 {
		newStatus = models.TableStatusReserved
	} else if table.Status == models.TableStatusReserved {
		newStatus = models.TableStatusAvailable
	}

	if newStatus == table.Status {
		return table.Status, false, nil
	}

	if err := tx.Model(&models.Table{}).
		Where("number = ?", tableNumber).
		Update("status", newStatus).Error; err != nil {
		return "", false, err
	}

	return newStatus, true, nil
}
