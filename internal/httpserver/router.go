package httpserver

import (
	"context"
	"errors"
	"time"

	"capibara-storefront/internal/domain"
	checkoutsvc "capibara-storefront/internal/service/checkout"
	productsvc "capibara-storefront/internal/service/product"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type productService interface {
	List(ctx context.Context, f productsvc.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, quantity int) error
}

type categoryService interface {
	List(ctx context.Context) ([]string, error)
}

type cartStore interface {
	AddItem(ctx context.Context, product domain.Product, quantity int)
	RemoveItem(ctx context.Context, id int64)
	SetQuantity(ctx context.Context, id int64, quantity int)
	Clear(ctx context.Context)
	Snapshot() domain.CartState
	Line(id int64) (domain.CartLine, bool)
}

type checkoutWorkflow interface {
	View() checkoutsvc.View
	SetField(name, value string) error
	SetForm(form domain.CheckoutFormData) error
	Submit(ctx context.Context) checkoutsvc.Outcome
	Reset()
}

type sessionService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Logout(ctx context.Context)
	Current() *domain.User
	IsAuthenticated() bool
	IsAdmin() bool
}

type orderService interface {
	Mine(ctx context.Context) ([]domain.Order, error)
	All(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Deps carries the services the router dispatches to.
type Deps struct {
	Slots       pinger
	ProductSvc  productService
	CategorySvc categoryService
	Cart        cartStore
	Checkout    checkoutWorkflow
	SessionSvc  sessionService
	OrderSvc    orderService
	CORSOrigins []string
}

// buildRouter wires routes for the storefront.
func buildRouter(logger zerolog.Logger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.Cart == nil || deps.Checkout == nil || deps.SessionSvc == nil || deps.OrderSvc == nil {
		return nil, errors.New("httpserver: product, cart, checkout, session and order dependencies are required")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestIDMiddleware(), requestLogger(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Slots))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	if deps.CategorySvc != nil {
		router.GET("/categories", listCategoriesHandler(deps.CategorySvc))
	}

	router.GET("/cart", getCartHandler(deps.Cart))
	router.DELETE("/cart", clearCartHandler(deps.Cart))
	router.POST("/cart/items", addCartItemHandler(deps.Cart, deps.ProductSvc))
	router.PATCH("/cart/items/:id", setCartItemQuantityHandler(deps.Cart, deps.ProductSvc))
	router.DELETE("/cart/items/:id", removeCartItemHandler(deps.Cart))

	router.GET("/checkout", getCheckoutHandler(deps.Checkout))
	router.PUT("/checkout/form", setCheckoutFieldHandler(deps.Checkout))
	router.POST("/checkout/submit", submitCheckoutHandler(deps.Checkout))
	router.POST("/checkout/reset", resetCheckoutHandler(deps.Checkout))

	router.GET("/session", getSessionHandler(deps.SessionSvc))
	router.POST("/session/login", loginHandler(deps.SessionSvc))
	router.POST("/session/register", registerHandler(deps.SessionSvc))
	router.DELETE("/session", logoutHandler(deps.SessionSvc))

	orders := router.Group("/orders", requireAuth(deps.SessionSvc))
	orders.GET("/mine", listMyOrdersHandler(deps.OrderSvc))
	orders.GET("/:id", getOrderHandler(deps.OrderSvc))
	orders.POST("/:id/cancel", cancelOrderHandler(deps.OrderSvc))

	admin := router.Group("/admin", requireAuth(deps.SessionSvc), requireAdmin(deps.SessionSvc))
	admin.GET("/orders", listAllOrdersHandler(deps.OrderSvc))
	admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
	admin.DELETE("/orders/:id", deleteOrderHandler(deps.OrderSvc))
	admin.POST("/products", createProductHandler(deps.ProductSvc))
	admin.PUT("/products/:id", updateProductHandler(deps.ProductSvc))
	admin.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))
	admin.PATCH("/products/:id/deactivate", deactivateProductHandler(deps.ProductSvc))
	admin.PATCH("/products/:id/stock", updateStockHandler(deps.ProductSvc))

	return router, nil
}
