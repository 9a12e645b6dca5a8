package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transport_backend/database"
	"transport_backend/internal/auth"
	"transport_backend/internal/config"
	"transport_backend/internal/email"
	"transport_backend/internal/handlers"
	"transport_backend/internal/logger"
	"transport_backend/internal/middleware"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/routes"
	"transport_backend/internal/services"
	"transport_backend/internal/sms"
	"transport_backend/internal/storage"
	"transport_backend/internal/telemetry"
	"transport_backend/internal/validator"
	"transport_backend/internal/workers"
	"transport_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	emailQueueSize  = 100
)

// Deps - инфраструктура, из которой собирается роутер.
// Тесты подставляют сюда sqlite, временное хранилище и фейки.
type Deps struct {
	Config        *config.Config
	DB            *gorm.DB
	Storage       storage.Storage
	EmailProvider email.Provider
	Dispatcher    *email.Dispatcher
	Templates     email.TemplateRenderer
	SMS           sms.Sender
	Push          services.PushSender
}

// Repositories - все репозитории приложения
type Repositories struct {
	Users         repositories.UserRepository
	OneTimeCodes  repositories.OneTimeCodeRepository
	UsedTokens    repositories.UsedTokenRepository
	Media         repositories.MediaRepository
	Posts         repositories.PostRepository
	Vehicles      repositories.VehicleRepository
	Bookings      repositories.BookingRepository
	Notifications repositories.NotificationRepository
}

// Application - собранный роутер вместе с сервисами
type Application struct {
	Engine   *gin.Engine
	Services *services.ServiceContainer
	Repos    *Repositories
	Tokens   *auth.TokenService
}

func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return err
	}
	logger.Init(cfg.App.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Logger initialized", "env", cfg.App.Env)

	shutdownTracer, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(ctx, cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	logger.Info("Database connected")

	if err := seedFirstAdmin(ctx, gormDB, cfg); err != nil {
		return fmt.Errorf("failed to seed first admin user: %w", err)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	templates, err := email.NewTemplateManager()
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}

	var provider email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP_HOST is not set, emails will only be logged")
		provider = email.NewLogProvider()
	} else {
		provider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.From,
			UseTLS:   cfg.Email.UseTLS,
			Timeout:  30 * time.Second,
		})
	}
	dispatcher := email.NewDispatcher(provider, cfg.Email.Workers, emailQueueSize, email.DefaultRetryPolicy())
	dispatcher.Start()

	application := SetupRouter(&Deps{
		Config:        cfg,
		DB:            gormDB,
		Storage:       storageInstance,
		EmailProvider: provider,
		Dispatcher:    dispatcher,
		Templates:     templates,
		SMS: sms.NewSender(sms.Config{
			AccountSID: cfg.SMS.AccountSID,
			AuthToken:  cfg.SMS.AuthToken,
			FromNumber: cfg.SMS.FromNumber,
		}),
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	cleanup := workers.NewCleanupWorker(
		gormDB,
		application.Repos.OneTimeCodes,
		application.Repos.UsedTokens,
		application.Repos.Notifications,
		workers.DefaultCleanupConfig(),
	)
	cleanup.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           telemetry.WrapHandler(application.Engine, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server startup error: %w", err)
		}
	}

	// ====== Graceful shutdown ======
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("Email dispatcher shutdown failed", "error", err)
	}
	stopWorker()
	cleanup.Wait()
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed", "error", err)
	}

	logger.Info("Server stopped")
	return runErr
}

// SetupRouter собирает репозитории, сервисы, хэндлеры и маршруты.
func SetupRouter(deps *Deps) *Application {
	cfg := deps.Config

	repos := initializeRepositories()
	tokens := auth.NewTokenService(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTL)*time.Minute,
		time.Duration(cfg.JWT.ResetTTL)*time.Minute,
	)

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, deps, repos, tokens)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, deps.DB)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, routes.Middlewares{
		Auth:         middleware.AuthMiddleware(tokens, repos.Users),
		OptionalAuth: middleware.OptionalAuthMiddleware(tokens, repos.Users),
		Admin:        middleware.AdminMiddleware(),
		RateLimit:    middleware.RateLimitMiddleware(cfg.Auth.RateLimitPerMinute),
	})

	return &Application{
		Engine:   ginRouter,
		Services: serviceContainer,
		Repos:    repos,
		Tokens:   tokens,
	}
}

func initializeRepositories() *Repositories {
	return &Repositories{
		Users:         repositories.NewUserRepository(),
		OneTimeCodes:  repositories.NewOneTimeCodeRepository(),
		UsedTokens:    repositories.NewUsedTokenRepository(),
		Media:         repositories.NewMediaRepository(),
		Posts:         repositories.NewPostRepository(),
		Vehicles:      repositories.NewVehicleRepository(),
		Bookings:      repositories.NewBookingRepository(),
		Notifications: repositories.NewNotificationRepository(),
	}
}

func initializeServices(cfg *config.Config, deps *Deps, repos *Repositories, tokens *auth.TokenService) *services.ServiceContainer {
	reclaimAge := time.Duration(cfg.Auth.UnverifiedReclaimHours) * time.Hour

	uploadService := services.NewUploadService(repos.Media, deps.Storage, &services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
		ImageQuality: cfg.Upload.ImageQuality,
	})
	otpService := services.NewOTPService(repos.OneTimeCodes, time.Duration(cfg.Auth.OTPTTL)*time.Minute)
	emailService := services.NewEmailService(deps.EmailProvider, deps.Dispatcher, deps.Templates, cfg.App.Name, cfg.App.ClientOrigin)
	authService := services.NewAuthService(repos.Users, repos.UsedTokens, otpService, emailService, deps.SMS, tokens, reclaimAge)
	userService := services.NewUserService(repos.Users, reclaimAge)
	notificationService := services.NewNotificationService(repos.Notifications, repos.Users, deps.Push)
	postService := services.NewPostService(repos.Posts, uploadService)
	vehicleService := services.NewVehicleService(repos.Vehicles, uploadService)
	bookingService := services.NewBookingService(repos.Bookings, notificationService)

	return &services.ServiceContainer{
		AuthService:         authService,
		OTPService:          otpService,
		UserService:         userService,
		PostService:         postService,
		VehicleService:      vehicleService,
		BookingService:      bookingService,
		NotificationService: notificationService,
		UploadService:       uploadService,
		EmailService:        emailService,
	}
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService, cfg.ShouldExposeOTP()),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService),
		PostHandler:         handlers.NewPostHandler(baseHandler, svc.PostService, svc.UploadService),
		VehicleHandler:      handlers.NewVehicleHandler(baseHandler, svc.VehicleService),
		BookingHandler:      handlers.NewBookingHandler(baseHandler, svc.BookingService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, svc.UploadService, cfg.Upload.MaxSize),
		SystemHandler:       handlers.NewSystemHandler(baseHandler, svc.UploadService, cfg.App.Name, cfg.App.StaticDir),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.App.ClientOrigin))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	_, err := userRepo.FindByEmail(tx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:             "Administrator",
		Email:            adminEmail,
		Mobile:           cfg.Admin.Mobile,
		PasswordHash:     hashedPassword,
		Type:             models.UserTypeAdmin,
		IsVerified:       true,
		IsEmailVerified:  true,
		IsMobileVerified: true,
	}
	if err := userRepo.Create(tx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
