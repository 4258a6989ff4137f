package routes

import (
	"github.com/gin-gonic/gin"

	"premiumblog/internal/authz"
	"premiumblog/internal/handlers"
	"premiumblog/internal/middleware"
	"premiumblog/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminAuthHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	tokens services.TokenService,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/resend-otp", authHandler.ResendOTP)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// тот же флоу, но только для role=admin
	adminAuth := r.Group("/admin/auth")
	{
		adminAuth.POST("/register", adminAuthHandler.Register)
		adminAuth.POST("/verify-otp", adminAuthHandler.VerifyOTP)
		adminAuth.POST("/resend-otp", adminAuthHandler.ResendOTP)
		adminAuth.POST("/login", adminAuthHandler.Login)
		adminAuth.POST("/forgot-password", adminAuthHandler.ForgotPassword)
		adminAuth.POST("/reset-password", adminAuthHandler.ResetPassword)
	}

	r.GET("/users/public/:id", userHandler.GetPublicProfile)

	// ---- protected
	users := r.Group("/users", middleware.AuthMiddleware(tokens))
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PUT("/change-password", userHandler.ChangePassword)
		users.PUT("/deactivate", userHandler.Deactivate)
		users.GET("/subscription", userHandler.GetSubscription)
		users.GET("/billing", userHandler.GetBillingHistory)
		users.GET("/billing/statement", userHandler.GetBillingStatement)
	}

	admin := r.Group("/admin",
		middleware.AuthMiddleware(tokens),
		middleware.RequireRoles(authz.RoleAdmin),
	)
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUserByID)
		admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/dashboard/stats", adminHandler.DashboardStats)
	}

	return r
}
