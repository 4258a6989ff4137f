package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"premiumblog/internal/authz"
	"premiumblog/internal/models"
	"premiumblog/internal/services"
)

// AuthHandler обслуживает и пользовательский, и админский флоу:
// различие только в поле role, переданном при создании.
type AuthHandler struct {
	accounts services.AccountService
	resets   services.PasswordResetService
	role     string
}

func NewAuthHandler(accounts services.AccountService, resets services.PasswordResetService, role string) *AuthHandler {
	return &AuthHandler{accounts: accounts, resets: resets, role: role}
}

func (h *AuthHandler) accountWord() string {
	if h.role == authz.RoleAdmin {
		return "Admin"
	}
	return "User"
}

// @Summary      Регистрация аккаунта
// @Description  Создаёт аккаунт и отправляет одноразовый код подтверждения
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accounts.Register(&req, h.role)
	if err != nil {
		respondError(c, err)
		return
	}

	// наружу только контакты, никаких внутренних id и хэшей
	respondOK(c, http.StatusCreated,
		h.accountWord()+" registered successfully. Please verify your account.",
		gin.H{
			"email":             user.Email,
			"phone":             user.Phone,
			"verification_hint": "Use your email or phone number to verify your account",
		})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	ident := models.NewIdentifier(req.Email, req.Phone)
	if err := h.accounts.VerifyOTP(ident, req.OTP, h.role); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Account verified successfully", nil)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req models.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	ident := models.NewIdentifier(req.Email, req.Phone)
	if err := h.accounts.ResendOTP(ident, h.role); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "New OTP sent successfully", nil)
}

// @Summary      Вход в систему
// @Description  Аутентифицирует аккаунт и возвращает bearer-токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	ident := models.NewIdentifier(req.Email, req.Phone)
	user, token, err := h.accounts.Login(ident, req.Password, h.role)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user, // PasswordHash помечен json:"-", наружу не уйдёт
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	ident := models.NewIdentifier(req.Email, req.Phone)
	token, emailed, err := h.resets.RequestReset(ident, h.role)
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{}
	if !emailed {
		// аккаунт без email: токен отдаём напрямую
		data["reset_token"] = token
	}
	respondOK(c, http.StatusOK, "Password reset instructions sent to your email", data)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.resets.ResetPassword(req.Token, req.NewPassword, h.role); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, h.accountWord()+" password reset successfully", nil)
}
