package httpserver

import (
	"net/http"

	"capibara-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	Admin         bool         `json:"admin"`
	User          *domain.User `json:"user,omitempty"`
}

func currentSession(svc sessionService) sessionView {
	u := svc.Current()
	return sessionView{
		Authenticated: u != nil,
		Admin:         u != nil && u.IsAdmin(),
		User:          u,
	}
}

func getSessionHandler(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentSession(svc))
	}
}

func loginHandler(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
			return
		}
		if _, err := svc.Login(c.Request.Context(), req.Email, req.Password); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, currentSession(svc))
	}
}

func registerHandler(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
			return
		}
		if _, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, currentSession(svc))
	}
}

func logoutHandler(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc.Logout(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}
