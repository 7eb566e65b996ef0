package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

// RequireRoles menolak request kalau role di context tidak termasuk salah
// satu yang diminta. Dipasang setelah AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("access requires one of roles: %v", roles))
		c.Abort()
	}
}

// RequireStaff -> Owner atau Employee.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.RoleOwner, models.RoleEmployee)
}

// RequireOwner -> khusus Owner (manajemen akun karyawan).
func RequireOwner() gin.HandlerFunc {
	return RequireRoles(models.RoleOwner)
}

// RequireGuest -> endpoint khusus sesi guest.
func RequireGuest() gin.HandlerFunc {
	return RequireRoles(models.RoleGuest)
}
