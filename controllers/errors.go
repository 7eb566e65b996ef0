package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// respondServiceError memetakan error dari layer service ke status code:
// record tidak ada -> 404, penolakan aturan bisnis -> 400 dengan pesan
// apa adanya (client guest branching berdasarkan isi pesan), refresh
// token tidak valid -> 401, sisanya 500.
func respondServiceError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case services.IsNotFound(err):
		utils.RespondError(c, http.StatusNotFound, errors.New(notFoundMsg))
	case services.IsDomainError(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidRefreshToken):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
