package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/services"
)

const (
	// SessionCookieName is the HTTP-only cookie carrying the session token.
	SessionCookieName = "user-token"
	sessionCookieAge  = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, sessionCookieAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	user, token, err := ah.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	setSessionCookie(c, token)
	respondMessage(c, gin.H{"user": user}, "Login successful")
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	user, token, err := ah.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"user": user}, "message": "Account created successfully"})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c)
	respondMessage(c, nil, "Logout successful")
}

func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	message, _, err := ah.authService.ForgotPassword(req.Email)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	respondMessage(c, nil, message)
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := ah.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondError(c, ah.log, err)
		return
	}
	respondMessage(c, nil, "Password has been reset successfully")
}
