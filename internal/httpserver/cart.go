package httpserver

import (
	"fmt"
	"net/http"

	"capibara-storefront/internal/domain"
	productsvc "capibara-storefront/internal/service/product"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cartLineView struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items      []cartLineView  `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func toCartView(state domain.CartState) cartView {
	items := make([]cartLineView, 0, len(state.Items))
	for _, l := range state.Items {
		items = append(items, cartLineView{
			ID:        l.ID,
			Title:     l.Title,
			UnitPrice: l.UnitPrice,
			Image:     l.Image,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	return cartView{
		Items:      items,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(cart cartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toCartView(cart.Snapshot()))
	}
}

func clearCartHandler(cart cartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart.Clear(c.Request.Context())
		c.JSON(http.StatusOK, toCartView(cart.Snapshot()))
	}
}

// addCartItemHandler checks stock against what the cart already holds before
// adding; the store itself enforces no upper bound.
func addCartItemHandler(cart cartStore, products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId is required"})
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}
		if !quantityInRange(c, req.Quantity) {
			return
		}
		ctx := c.Request.Context()
		p, err := products.Get(ctx, req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}
		inCart := 0
		if line, ok := cart.Line(p.ID); ok {
			inCart = line.Quantity
		}
		if err := productsvc.CheckStock(*p, inCart, req.Quantity); err != nil {
			writeError(c, err)
			return
		}
		cart.AddItem(ctx, *p, req.Quantity)
		c.JSON(http.StatusOK, toCartView(cart.Snapshot()))
	}
}

// setCartItemQuantityHandler only consults stock when the quantity grows.
// Unknown ids leave the cart unchanged.
func setCartItemQuantityHandler(cart cartStore, products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}
		if !quantityInRange(c, req.Quantity) {
			return
		}
		ctx := c.Request.Context()
		if line, ok := cart.Line(id); ok && req.Quantity > line.Quantity {
			p, err := products.Get(ctx, id)
			if err != nil {
				writeError(c, err)
				return
			}
			if err := productsvc.CheckStock(*p, 0, req.Quantity); err != nil {
				writeError(c, err)
				return
			}
		}
		cart.SetQuantity(ctx, id, req.Quantity)
		c.JSON(http.StatusOK, toCartView(cart.Snapshot()))
	}
}

func removeCartItemHandler(cart cartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		cart.RemoveItem(c.Request.Context(), id)
		c.JSON(http.StatusOK, toCartView(cart.Snapshot()))
	}
}

func quantityInRange(c *gin.Context, quantity int) bool {
	if quantity > domain.MaxLineQuantity {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("quantity must not exceed %d", domain.MaxLineQuantity)})
		return false
	}
	return true
}
