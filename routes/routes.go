package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"casri/controllers"
	"casri/middleware"
)

// Handlers bundles the controllers mounted under /api.
type Handlers struct {
	Auth        *controllers.AuthController
	Products    *controllers.ProductController
	Financial   *controllers.FinancialController
	Liabilities *controllers.LiabilityController
	History     *controllers.HistoryController
}

// Options configures the unauthenticated operational endpoints.
type Options struct {
	Gatherer     prometheus.Gatherer
	MetricsAllow []string
}

func InitializeRoutes(router *gin.Engine, auth middleware.Authenticator, h Handlers, opts Options) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", middleware.MetricsHandler(opts.Gatherer, opts.MetricsAllow))
	}

	signedIn := middleware.AuthMiddleware(auth, middleware.Authenticated)
	admin := middleware.AuthMiddleware(auth, middleware.AdminOnly)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", signedIn, h.Auth.Me)
		authGroup.GET("/sessions", signedIn, h.Auth.Sessions)
	}

	user := api.Group("/user")
	user.Use(admin)
	{
		user.POST("/create", h.Auth.CreateUser)
		user.GET("/all", h.Auth.ListUsers)
	}

	products := api.Group("/products")
	{
		products.POST("/addProduct", signedIn, h.Products.AddProduct)
		products.POST("/addProductByDate/:date", admin, h.Products.AddProductByDate)
		products.GET("/getAlldaily", admin, h.Products.GetAllDaily)
		products.GET("/getMydaily", signedIn, h.Products.GetMyDaily)
		products.GET("/date/:date", admin, h.Products.GetByDate)
		products.PUT("/update/:id", signedIn, h.Products.Update)
		products.DELETE("/delete/:id", signedIn, h.Products.Delete)
		products.GET("/getAllUserProducts", admin, h.Products.GetAllUserProducts)
		products.GET("/getAllUsersByDate/:date", admin, h.Products.GetAllUsersByDate)
	}

	financial := api.Group("/financial")
	financial.Use(admin)
	{
		financial.POST("/create", h.Financial.Create)
		financial.GET("/get/:date", h.Financial.GetByDate)
		financial.PUT("/update/:id", h.Financial.Update)
		financial.POST("/recompute/:id", h.Financial.Recompute)
		financial.GET("/reconcile/:date", h.Financial.Reconcile)
	}

	liability := api.Group("/liability")
	{
		liability.POST("/addLiability", signedIn, h.Liabilities.Create)
		liability.GET("/getAll", signedIn, h.Liabilities.GetAll)
		liability.GET("/daily", signedIn, h.Liabilities.GetDaily)
		liability.PUT("/paid/:id", admin, h.Liabilities.Paid)
		liability.PUT("/reverse/:id", admin, h.Liabilities.Reverse)
		liability.DELETE("/delete/:id", admin, h.Liabilities.Delete)
	}

	history := api.Group("/history")
	history.Use(signedIn)
	{
		history.GET("/MyDailySales", h.History.MyDailySales)
		history.GET("/myHistory", h.History.MyHistory)
		history.GET("/product-date/:date", h.History.ByDate)
	}
}
