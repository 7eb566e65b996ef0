package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

// GetPublicDishes -> daftar menu untuk guest. Dish Hidden tidak muncul;
// Unavailable tetap tampil supaya client bisa menandai "habis".
func (dc *DishController) GetPublicDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := dc.DB.Where("status <> ?", models.DishStatusHidden).
		Order("created_at DESC").
		Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

// GetAllDishes -> daftar lengkap untuk dashboard staff.
func (dc *DishController) GetAllDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := dc.DB.Order("created_at DESC").Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (dc *DishController) GetDishByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("dish_id"))

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

type dishInput struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Status      string  `json:"status" binding:"omitempty,oneof=Available Unavailable Hidden"`
}

func (dc *DishController) CreateDish(c *gin.Context) {
	var req dishInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish := models.Dish{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Status:      models.DishStatusAvailable,
	}
	if req.Status != "" {
		dish.Status = req.Status
	}

	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New dish created: %s (status=%s)", dish.Name, dish.Status)
	utils.RespondJSON(c, http.StatusCreated, "Dish created successfully", dish)
}

// UpdateDish -> order lama tidak terpengaruh karena memegang snapshot.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("dish_id"))

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req dishInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dish.Name = req.Name
	dish.Price = req.Price
	dish.Description = req.Description
	dish.Image = req.Image
	if req.Status != "" {
		dish.Status = req.Status
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dish updated", dish)
}

func (dc *DishController) DeleteDish(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("dish_id"))

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := dc.DB.Delete(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"dish_id": dish.ID})
}
