package httpserver

import (
	"net/http"
	"strconv"

	"capibara-storefront/internal/domain"
	productsvc "capibara-storefront/internal/service/product"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		available, _ := strconv.ParseBool(c.Query("available"))
		active, _ := strconv.ParseBool(c.Query("active"))
		products, err := svc.List(c.Request.Context(), productsvc.Filter{
			Query:     c.Query("q"),
			Category:  c.Query("category"),
			Available: available,
			Active:    active,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listCategoriesHandler(svc categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock" binding:"required"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Active      *bool           `json:"active"`
}

// input defaults Active to true, as the backend does for new products.
func (r productRequest) input() domain.ProductInput {
	in := domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       *r.Stock,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Active:      true,
	}
	if r.Active != nil {
		in.Active = *r.Active
	}
	return in
}

type stockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func createProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product"})
			return
		}
		p, err := svc.Create(c.Request.Context(), req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product"})
			return
		}
		p, err := svc.Update(c.Request.Context(), id, req.input())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deactivateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := svc.Deactivate(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateStockHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req stockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity is required"})
			return
		}
		if err := svc.UpdateStock(c.Request.Context(), id, *req.Quantity); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
