package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

type GuestLoginInput struct {
	Name        string `json:"name" binding:"required"`
	TableNumber uint   `json:"tableNumber" binding:"required"`
	Token       string `json:"token" binding:"required"`
}

type GuestSession struct {
	Guest        models.Guest
	AccessToken  string
	RefreshToken string
}

// Login membuat guest baru untuk meja dengan token yang cocok. Login
// tidak dideduplikasi per nama: guest yang kembali mendapat identitas
// baru. Token lama yang sudah dirotasi staff tidak lolos lookup.
func (s *GuestService) Login(input GuestLoginInput) (*GuestSession, error) {
	var table models.Table
	if err := s.DB.First(&table, "number = ? AND token = ?", input.TableNumber, input.Token).Error; err != nil {
		return nil, err
	}

	if table.Status == models.TableStatusHidden {
		return nil, domainErrorf("table %d is hidden, please choose another table to log in", table.Number)
	}

	guest := models.Guest{
		Name:        input.Name,
		TableNumber: &table.Number,
	}
	if err := s.DB.Create(&guest).Error; err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(utils.GuestRefreshTokenTTL)
	refreshToken, err := utils.GenerateRefreshToken(guest.ID, models.RoleGuest, expiresAt)
	if err != nil {
		return nil, err
	}
	accessToken, err := utils.GenerateAccessToken(guest.ID, models.RoleGuest)
	if err != nil {
		return nil, err
	}

	guest.RefreshToken = &refreshToken
	guest.RefreshTokenExpiresAt = &expiresAt
	if err := s.DB.Save(&guest).Error; err != nil {
		return nil, err
	}

	return &GuestSession{
		Guest:        guest,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// LogoutResult membawa hasil rekonsiliasi meja untuk broadcast.
type LogoutResult struct {
	TableNumber   *uint
	TableStatus   string
	StatusChanged bool
}

// Logout menghapus kredensial sesi guest. Pengecekan "masih ada order
// aktif di meja ini?" dan update status meja berjalan dalam satu
// transaksi supaya tidak balapan dengan pembuatan order yang bersamaan.
func (s *GuestService) Logout(guestID uint) (*LogoutResult, error) {
	result := &LogoutResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return err
		}

		if err := tx.Model(&guest).Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		}).Error; err != nil {
			return err
		}

		if guest.TableNumber != nil {
			status, changed, err := ReconcileTableStatus(tx, *guest.TableNumber)
			if err != nil {
				return err
			}
			result.TableNumber = guest.TableNumber
			result.TableStatus = status
			result.StatusChanged = changed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken merotasi refresh token guest. Expiry lama dipertahankan
// supaya umur sesi tidak memanjang setiap refresh.
func (s *GuestService) RefreshToken(oldToken string) (*TokenPair, error) {
	claims, err := utils.ParseRefreshToken(oldToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	expiresAt := claims.ExpiresAt.Time
	newRefreshToken, err := utils.GenerateRefreshToken(claims.UserID, models.RoleGuest, expiresAt)
	if err != nil {
		return nil, err
	}
	accessToken, err := utils.GenerateAccessToken(claims.UserID, models.RoleGuest)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Guest{}).
		Where("id = ?", claims.UserID).
		Updates(map[string]interface{}{
			"refresh_token":            newRefreshToken,
			"refresh_token_expires_at": expiresAt,
		}).Error; err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}
