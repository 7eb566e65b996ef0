package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ordering/controllers"
	"github.com/yeremiapane/restaurant-ordering/middlewares"
	"github.com/yeremiapane/restaurant-ordering/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	accountCtrl := controllers.NewAccountController(db)
	tableCtrl := controllers.NewTableController(db)
	dishCtrl := controllers.NewDishController(db)
	guestCtrl := controllers.NewGuestController(db)
	orderCtrl := controllers.NewOrderController(db)
	dashboardCtrl := controllers.NewDashboardController(db)
	receiptCtrl := controllers.NewReceiptController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Menu dan info meja untuk landing page (tanpa auth)
	r.GET("/dishes", dishCtrl.GetPublicDishes)
	r.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	r.GET("/tables/:number", tableCtrl.GetPublicTable)

	// Login staff & guest dengan rate limiter ketat
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", accountCtrl.Login)
		public.POST("/guest/auth/login", guestCtrl.Login)
	}

	r.POST("/refresh-token", accountCtrl.RefreshToken)
	r.POST("/guest/auth/refresh-token", guestCtrl.RefreshToken)

	// ----------------------------------------------------------------
	//                      GUEST ROUTES (role Guest)
	// ----------------------------------------------------------------
	guest := r.Group("/guest")
	guest.Use(middlewares.AuthMiddleware(), middlewares.RequireGuest())
	{
		guest.POST("/auth/logout", guestCtrl.Logout)
		guest.POST("/orders", guestCtrl.CreateOrders)
		guest.GET("/orders", guestCtrl.GetOrders)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES (Owner/Employee)
	// ----------------------------------------------------------------
	manage := r.Group("/manage")
	manage.Use(middlewares.AuthMiddleware(), middlewares.RequireStaff())
	{
		manage.POST("/logout", accountCtrl.Logout)
		manage.GET("/accounts/me", accountCtrl.Me)
		manage.PUT("/accounts/change-password", accountCtrl.ChangePassword)

		// TABLES
		manage.GET("/tables", tableCtrl.GetAllTables)
		manage.POST("/tables", tableCtrl.CreateTable)
		manage.GET("/tables/:number", tableCtrl.GetTableByNumber)
		manage.PUT("/tables/:number", tableCtrl.UpdateTable)
		manage.DELETE("/tables/:number", tableCtrl.DeleteTable)
		manage.GET("/tables/:number/orders-summary", tableCtrl.GetOrdersSummary)

		// DISHES
		manage.GET("/dishes", dishCtrl.GetAllDishes)
		manage.POST("/dishes", dishCtrl.CreateDish)
		manage.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
		manage.PUT("/dishes/:dish_id", dishCtrl.UpdateDish)
		manage.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)

		// GUESTS
		manage.GET("/guests", guestCtrl.GetAllGuests)
		manage.POST("/guests/:guest_id/force-logout", guestCtrl.ForceLogout)
		manage.GET("/guests/:guest_id/receipt", receiptCtrl.GenerateGuestReceipt)

		// ORDERS
		manage.POST("/orders", orderCtrl.CreateOrders)
		manage.GET("/orders", orderCtrl.GetAllOrders)
		manage.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		manage.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
		manage.POST("/orders/pay", orderCtrl.PayOrders)

		// DASHBOARD
		manage.GET("/dashboard/indicators", dashboardCtrl.GetIndicators)
		manage.GET("/dashboard/revenue-chart", dashboardCtrl.GetRevenueChart)
	}

	// ----------------------------------------------------------------
	//                  OWNER-ONLY (manajemen akun karyawan)
	// ----------------------------------------------------------------
	owner := r.Group("/manage/accounts")
	owner.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleOwner))
	{
		owner.GET("", accountCtrl.GetAccounts)
		owner.POST("", accountCtrl.CreateEmployee)
		owner.GET("/:account_id", accountCtrl.GetAccountByID)
		owner.PUT("/:account_id", accountCtrl.UpdateEmployee)
		owner.DELETE("/:account_id", accountCtrl.DeleteEmployee)
	}

	// WebSocket: staff masuk room bersama, guest terdaftar per koneksi
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", controllers.WSHandler)
	}

	return r
}
