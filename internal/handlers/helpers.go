package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"premiumblog/internal/services"
)

// Единый конверт ответа: { success, message, data? }.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// respondError переводит ошибки бизнес-уровня в HTTP-статусы.
// Всё неопознанное — 500 с общим текстом, детали только в лог.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		respondFail(c, http.StatusBadRequest, "Identifier already in use. Please try changing your username, phone number or email.")
	case errors.Is(err, services.ErrInvalidOTP):
		respondFail(c, http.StatusBadRequest, "Invalid or expired OTP")
	case errors.Is(err, services.ErrExpiredToken):
		respondFail(c, http.StatusBadRequest, "Token has expired")
	case errors.Is(err, services.ErrInvalidToken):
		respondFail(c, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondFail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUnverifiedAccount):
		respondFail(c, http.StatusUnauthorized, "Please verify your account before logging in")
	case errors.Is(err, services.ErrInactiveAccount):
		respondFail(c, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, services.ErrForbidden):
		respondFail(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotFound):
		respondFail(c, http.StatusNotFound, "Not found")
	default:
		log.Printf("[http] internal error: %v", err)
		respondFail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func currentUser(c *gin.Context) (userID int, role string) {
	if v, ok := c.Get("user_id"); ok {
		switch t := v.(type) {
		case int:
			userID = t
		case int64:
			userID = int(t)
		case float64:
			userID = int(t)
		}
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return
}
