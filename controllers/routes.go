package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-admin/auth"
	"storefront-admin/middlewares"
	"storefront-admin/services"
	"storefront-admin/workspace"
)

type RouterOptions struct {
	Sessions          *workspace.Registry
	Verifier          auth.Verifier
	Secret            string
	SessionTTL        time.Duration
	History           HistoryReader
	Checkout          *services.CheckoutService
	LowStockThreshold int
}

func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.PrometheusMiddleware())

	// Prometheus 指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": opts.Sessions.Len()})
	})

	admin := Admin{Sessions: opts.Sessions}
	authCtl := &AuthController{Admin: admin, Verifier: opts.Verifier, Secret: opts.Secret, SessionTTL: opts.SessionTTL}
	orderCtl := &OrderController{Admin: admin, History: opts.History}
	dashboardCtl := &DashboardController{Admin: admin}
	customerCtl := &CustomerController{Admin: admin}
	productCtl := &ProductController{Admin: admin, LowStockThreshold: opts.LowStockThreshold}
	settingsCtl := &SettingsController{Admin: admin}
	chatCtl := &ChatController{Admin: admin}

	r.POST("/api/auth/login", authCtl.Login)

	// 快速下单，无需登录
	if opts.Checkout != nil {
		checkoutCtl := &CheckoutController{Checkout: opts.Checkout}
		checkout := r.Group("/api/checkout")
		checkout.GET("/products", checkoutCtl.ListProducts)
		checkout.POST("/orders", checkoutCtl.PlaceOrder)
		checkout.POST("/orders/:id/receipt", checkoutCtl.UploadReceipt)
	}

	// 需要认证的路由组
	authGroup := r.Group("/api")
	authGroup.Use(middlewares.AuthMiddleware(opts.Secret, opts.Sessions))
	{
		authGroup.POST("/auth/logout", authCtl.Logout)
		authGroup.GET("/auth/me", authCtl.Me)

		authGroup.GET("/dashboard", dashboardCtl.GetDashboard)

		authGroup.GET("/orders", orderCtl.ListOrders)
		authGroup.POST("/orders/refresh", orderCtl.RefreshOrders)
		authGroup.DELETE("/orders/detail", orderCtl.CloseOrderDetails)
		authGroup.GET("/orders/:id", orderCtl.GetOrderDetails)
		authGroup.PUT("/orders/:id/status", orderCtl.UpdateOrderStatus)
		authGroup.GET("/orders/:id/history", orderCtl.GetOrderHistory)

		authGroup.GET("/customers", customerCtl.ListCustomers)

		authGroup.GET("/products", productCtl.ListProducts)
		authGroup.POST("/products", productCtl.CreateProduct)
		authGroup.POST("/products/upload", productCtl.UploadImage)
		authGroup.PUT("/products/:id", productCtl.UpdateProduct)
		authGroup.DELETE("/products/:id", productCtl.DeleteProduct)
		authGroup.GET("/categories", productCtl.ListCategories)

		authGroup.GET("/settings", settingsCtl.GetSettings)
		authGroup.PUT("/settings", settingsCtl.UpdateSettings)
		authGroup.GET("/business/details", settingsCtl.ListBusinessDetails)
		authGroup.POST("/business/details", settingsCtl.CreateBusinessDetail)
		authGroup.PUT("/business/details/:id", settingsCtl.UpdateBusinessDetail)
		authGroup.DELETE("/business/details/:id", settingsCtl.DeleteBusinessDetail)

		authGroup.GET("/chats", chatCtl.ListChats)
		authGroup.POST("/chats/watch", chatCtl.WatchChats)
		authGroup.DELETE("/chats/watch", chatCtl.UnwatchChats)
		authGroup.GET("/chats/:phone", chatCtl.GetChatHistory)
		authGroup.POST("/chats/:phone/send", chatCtl.SendMessage)
	}

	return r
}
