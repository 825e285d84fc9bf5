package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quickdesk/quickdesk/internal/common"
	"github.com/quickdesk/quickdesk/internal/httpapi/middleware"
	"golang.org/x/crypto/bcrypt"
)

type adminLoginReq struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/admin/login, exchanging the shared admin
// password for a bearer token that unlocks FAQ uploads.
func (h *Handler) AdminLogin(c *gin.Context) {
	if h.Cfg.AdminPasswordHash == "" {
		common.Fail(c, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}

	var req adminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "password is required")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.Cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		common.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": middleware.AdminSubject,
		"iat": now.Unix(),
		"exp": now.Add(12 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}
