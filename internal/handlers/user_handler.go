package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"premiumblog/internal/models"
	"premiumblog/internal/pdf"
	"premiumblog/internal/services"
)

type UserHandler struct {
	users      services.UserService
	statements pdf.Generator
}

func NewUserHandler(users services.UserService, statements pdf.Generator) *UserHandler {
	return &UserHandler{users: users, statements: statements}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := currentUser(c)
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := currentUser(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _ := currentUser(c)

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, _ := currentUser(c)

	var req models.DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Deactivate(userID, req.Password); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Account deactivated successfully", nil)
}

func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	profile, err := h.users.GetPublicProfile(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Public profile", profile)
}

func (h *UserHandler) GetSubscription(c *gin.Context) {
	userID, _ := currentUser(c)
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Subscription", gin.H{"subscription": user.Subscription})
}

func (h *UserHandler) GetBillingHistory(c *gin.Context) {
	userID, _ := currentUser(c)
	history, err := h.users.GetBillingHistory(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Billing history", history)
}

// GetBillingStatement отдаёт PDF-выписку по аккаунту.
func (h *UserHandler) GetBillingStatement(c *gin.Context) {
	userID, _ := currentUser(c)

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := h.users.GetBillingHistory(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	path, err := h.statements.GenerateStatement(pdf.StatementData{
		UserID:       user.ID,
		Name:         user.FirstName + " " + user.LastName,
		Username:     user.Username,
		Subscription: user.Subscription,
		Entries:      history,
		GeneratedAt:  time.Now(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "statement.pdf")
}
