package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type AccountController struct {
	DB *gorm.DB
}

func NewAccountController(db *gorm.DB) *AccountController {
	return &AccountController{DB: db}
}

// Login staff -> return pasangan access + refresh token.
func (ac *AccountController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var account models.Account
	if err := ac.DB.Where("email = ?", input.Email).First(&account).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	accessToken, err := utils.GenerateAccessToken(account.ID, account.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(account.ID, account.Role, time.Now().Add(utils.StaffRefreshTokenTTL))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff login: %s (role=%s)", account.Email, account.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"account":      account,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout -> blacklist access token yang sedang dipakai.
func (ac *AccountController) Logout(c *gin.Context) {
	if token := c.GetString("access_token"); token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// RefreshToken -> rotasi token staff. Expiry lama dipertahankan.
func (ac *AccountController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claims, err := utils.ParseRefreshToken(input.RefreshToken)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired refresh token"))
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(claims.UserID, claims.Role, claims.ExpiresAt.Time)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Me -> profil akun dari token.
func (ac *AccountController) Me(c *gin.Context) {
	accountID := c.GetUint("user_id")

	var account models.Account
	if err := ac.DB.First(&account, accountID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", account)
}

// ChangePassword untuk akun sendiri.
func (ac *AccountController) ChangePassword(c *gin.Context) {
	accountID := c.GetUint("user_id")

	var input struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		Password    string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var account models.Account
	if err := ac.DB.First(&account, accountID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(input.OldPassword)); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("old password does not match"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	account.Password = string(hashed)
	if err := ac.DB.Save(&account).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password updated", nil)
}

// CreateEmployee -> Owner menambahkan akun karyawan.
func (ac *AccountController) CreateEmployee(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	account := models.Account{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Avatar:   input.Avatar,
		Role:     models.RoleEmployee,
	}

	if err := ac.DB.Create(&account).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New employee account: %s", account.Email)
	utils.RespondJSON(c, http.StatusCreated, "Employee account created", account)
}

// GetAccounts -> daftar semua akun staff (Owner only).
func (ac *AccountController) GetAccounts(c *gin.Context) {
	var accounts []models.Account
	if err := ac.DB.Find(&accounts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of accounts", accounts)
}

// GetAccountByID -> detail satu akun.
func (ac *AccountController) GetAccountByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("account_id"))

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Account detail", account)
}

// UpdateEmployee -> Owner mengubah nama/email/avatar/password karyawan.
func (ac *AccountController) UpdateEmployee(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("account_id"))

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var input struct {
		Name     string  `json:"name" binding:"required"`
		Email    string  `json:"email" binding:"required,email"`
		Avatar   string  `json:"avatar"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	account.Name = input.Name
	account.Email = input.Email
	account.Avatar = input.Avatar
	if input.Password != nil && *input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		account.Password = string(hashed)
	}

	if err := ac.DB.Save(&account).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Account updated", account)
}

// DeleteEmployee -> Owner menghapus akun karyawan.
func (ac *AccountController) DeleteEmployee(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("account_id"))

	var account models.Account
	if err := ac.DB.First(&account, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := ac.DB.Delete(&account).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Account deleted", gin.H{"account_id": account.ID})
}
