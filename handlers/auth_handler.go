package handlers

import (
	"net/http"

	"trainsurvey/middleware"
	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

const sessionCookieMaxAge = 30 * 60 // seconds, matches token expiry

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SendVerification(c *gin.Context) {
	var req services.SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.SendVerification(&req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Verification email sent"})
}

func (h *AuthHandler) VerifyLink(c *gin.Context) {
	token := c.Query("token")

	user, sessionToken, err := h.authService.VerifyLink(token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req services.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, sessionToken, err := h.authService.VerifyCode(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
}
