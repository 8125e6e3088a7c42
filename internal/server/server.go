package server

import (
	"rustic-lights-backend/internal/auth"
	"rustic-lights-backend/internal/handler"
	"rustic-lights-backend/internal/httputil"
	appmiddleware "rustic-lights-backend/internal/middleware"
	"rustic-lights-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo           *echo.Echo
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
	authMiddleware echo.MiddlewareFunc
}

func NewServer(
	log *zap.Logger,
	tokenMaker *auth.Maker,
	blacklist *auth.Blacklist,
	userService service.UserService,
	productService service.ProductService,
	cartService service.CartService,
	orderService service.OrderService,
	paymentService service.PaymentService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = httputil.NewValidator()
	e.HTTPErrorHandler = httputil.ErrorHandler(log)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		userHandler:    handler.NewUserHandler(userService),
		productHandler: handler.NewProductHandler(productService),
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(orderService),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		authMiddleware: appmiddleware.Auth(tokenMaker, blacklist),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- users / auth --------
	api.POST("/users", s.userHandler.Register)
	api.POST("/users/login", s.userHandler.Login)
	api.POST("/users/refresh", s.userHandler.Refresh)
	api.POST("/users/logout", s.userHandler.Logout, s.authMiddleware)
	api.GET("/users/me", s.userHandler.Me, s.authMiddleware)
	api.PUT("/users/me", s.userHandler.UpdateMe, s.authMiddleware)
	api.DELETE("/users/me", s.userHandler.DeleteMe, s.authMiddleware)

	// -------- catalog --------
	api.POST("/categories", s.productHandler.CreateCategory, s.authMiddleware)
	api.GET("/categories", s.productHandler.ListCategories)
	api.GET("/categories/:id", s.productHandler.GetCategory)
	api.DELETE("/categories/:id", s.productHandler.DeleteCategory, s.authMiddleware)

	api.POST("/products", s.productHandler.CreateProduct, s.authMiddleware)
	api.GET("/products/favourite", s.productHandler.ListFavourites, s.authMiddleware)
	api.PATCH("/products/favourite/:id", s.productHandler.SetFavourite, s.authMiddleware)
	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:id", s.productHandler.GetProduct)
	api.PUT("/products/:id", s.productHandler.UpdateProduct, s.authMiddleware)
	api.DELETE("/products/:id", s.productHandler.DeleteProduct, s.authMiddleware)

	// -------- addresses --------
	api.POST("/address", s.userHandler.CreateAddress, s.authMiddleware)
	api.GET("/address", s.userHandler.ListAddresses, s.authMiddleware)

	// -------- cart --------
	cart := api.Group("/cart", s.authMiddleware)
	cart.POST("", s.cartHandler.AddItem)
	cart.GET("", s.cartHandler.GetCart)
	cart.PATCH("/:productId", s.cartHandler.SetItemQuantity)
	cart.DELETE("", s.cartHandler.RemoveItem)

	// -------- orders --------
	orders := api.Group("/orders", s.authMiddleware)
	orders.POST("", s.orderHandler.Checkout)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.PATCH("/:id", s.orderHandler.UpdateStatus)
	orders.DELETE("/:id", s.orderHandler.DeleteOrder)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/stk-push", s.paymentHandler.STKPush, s.authMiddleware)
	// the gateway calls back unauthenticated
	payments.POST("/stk-callback", s.paymentHandler.STKCallback)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
