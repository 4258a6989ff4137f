package app

import (
	"database/sql"
	"fmt"
	"log"

	"premiumblog/internal/config"
	"premiumblog/internal/handlers"
	"premiumblog/internal/pdf"
	"premiumblog/internal/repositories"
	"premiumblog/internal/routes"
	"premiumblog/internal/services"
	"premiumblog/internal/utils"

	"premiumblog/internal/authz"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "premiumblog/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	verifRepo := repositories.NewUserVerificationRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	tokenService := services.NewTokenService(
		[]byte(cfg.Auth.JWTSecret),
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.ResetTokenTTL,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// SMS провайдер (Mobizon) из конфига
	mobizonClient := utils.NewClientWithOptions(
		cfg.Mobizon.APIKey,
		cfg.Mobizon.SenderID,
		cfg.Mobizon.DryRun,
	)

	// Telegram-оповещения дежурным (опционально)
	alertService := services.NewAlertService(
		cfg.Alerts.TelegramBotToken,
		cfg.Alerts.TelegramChatID,
	)

	accountService := services.NewAccountService(
		userRepo,
		verifRepo,
		authService,
		tokenService,
		emailService,
		mobizonClient,
		alertService,
		cfg.Auth.OTPTTL,
	)
	resetService := services.NewPasswordResetService(
		userRepo,
		tokenService,
		authService,
		emailService,
		alertService,
	)
	userService := services.NewUserService(userRepo, authService)

	statementGen := pdf.NewStatementGenerator(cfg.Files.RootDir)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService, resetService, authz.RoleUser)
	adminAuthHandler := handlers.NewAuthHandler(accountService, resetService, authz.RoleAdmin)
	userHandler := handlers.NewUserHandler(userService, statementGen)
	adminHandler := handlers.NewAdminHandler(userService)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	routes.SetupRoutes(
		router,
		authHandler,
		adminAuthHandler,
		userHandler,
		adminHandler,
		tokenService,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

