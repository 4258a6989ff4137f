package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"premiumblog/internal/models"
	"premiumblog/internal/services"
)

// AdminHandler — управление аккаунтами; маршруты закрыты RequireRoles(admin).
type AdminHandler struct {
	users services.UserService
}

func NewAdminHandler(users services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Users", users)
}

func (h *AdminHandler) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	user, err := h.users.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User", user)
}

// UpdateUserRole — единственный путь сменить роль существующего аккаунта.
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.UpdateRole(id, req.Role); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Role updated successfully", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.users.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.users.DashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard stats", stats)
}
