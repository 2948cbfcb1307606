package httpserver

import (
	"net/http"

	"capibara-storefront/internal/domain"
	checkoutsvc "capibara-storefront/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

var outcomeStatus = map[checkoutsvc.OutcomeKind]int{
	checkoutsvc.OutcomeConfirmed:     http.StatusCreated,
	checkoutsvc.OutcomeInvalid:       http.StatusUnprocessableEntity,
	checkoutsvc.OutcomeLoginRequired: http.StatusUnauthorized,
	checkoutsvc.OutcomeEmptyCart:     http.StatusConflict,
	checkoutsvc.OutcomeBusy:          http.StatusConflict,
	checkoutsvc.OutcomeFailed:        http.StatusUnprocessableEntity,
}

func getCheckoutHandler(w checkoutWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, w.View())
	}
}

func setCheckoutFieldHandler(w checkoutWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "field is required"})
			return
		}
		if err := w.SetField(req.Field, req.Value); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, w.View())
	}
}

// submitCheckoutHandler accepts an optional full form body, applied before
// submitting.
func submitCheckoutHandler(w checkoutWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength != 0 {
			var form domain.CheckoutFormData
			if err := c.ShouldBindJSON(&form); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid checkout form"})
				return
			}
			if err := w.SetForm(form); err != nil {
				writeError(c, err)
				return
			}
		}
		out := w.Submit(c.Request.Context())
		status, ok := outcomeStatus[out.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"outcome": out, "checkout": w.View()})
	}
}

func resetCheckoutHandler(w checkoutWorkflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		w.Reset()
		c.JSON(http.StatusOK, w.View())
	}
}
