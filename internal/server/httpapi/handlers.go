package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tickpulse/tickpulse/internal/common"
	"github.com/tickpulse/tickpulse/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

func userJSON(id *services.Identity) gin.H {
	return gin.H{"id": id.ID, "email": id.Email}
}

// failJSON renders the uniform error envelope. Internal error detail never
// crosses this boundary.
func failJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "email and password are required")
		return
	}

	identity, err := s.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			failJSON(c, http.StatusBadRequest, "email already registered")
			return
		}
		failJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": userJSON(identity)})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "email and password are required")
		return
	}

	identity, pair, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			failJSON(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		failJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         userJSON(identity),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *HTTPServer) refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	pair, err := s.auth.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoToken):
			failJSON(c, http.StatusUnauthorized, "refresh token is missing")
		case errors.Is(err, common.ErrTokenRevoked):
			failJSON(c, http.StatusForbidden, "invalid or revoked token")
		default:
			failJSON(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// logout revokes whatever session artifacts the client presents. It always
// succeeds, even when the tokens are already invalid.
func (s *HTTPServer) logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	s.auth.Logout(c.Request.Context(), bearerToken(c), req.Token)

	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) verifyToken(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		failJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userJSON(identity)})
}

func (s *HTTPServer) homeData(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		failJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       userJSON(identity),
		"serverTime": time.Now().UnixMilli(),
	})
}

func (s *HTTPServer) protectedData(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		failJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userJSON(identity),
		"data":    gin.H{"message": "authenticated as " + identity.Email},
	})
}

// healthz pings the database so load balancers can tell a wedged instance
// from a live one.
func (s *HTTPServer) healthz(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
