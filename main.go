package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"stars-referral-system/handlers"
	"stars-referral-system/middleware"
	"stars-referral-system/models"
	"stars-referral-system/services"
	"stars-referral-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐 GLOBAL: only gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID, X-Service-Token",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Withdrawal{},
		&models.Settings{},
		&models.RequiredChannel{},
		&models.SubscriptionReward{},
		&models.Exchange{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	exchangeRate := 0.013 // external currency per star
	if raw := os.Getenv("EXCHANGE_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			log.Fatalf("EXCHANGE_RATE must be a positive number, got %q", raw)
		}
		exchangeRate = rate
	}

	ledgerService := services.NewLedgerService(db)
	settingsService := services.NewSettingsService(db)
	userService := services.NewUserService(db)
	taskService := services.NewTaskService(db)
	referralService := services.NewReferralService(db, settingsService)
	gameService := services.NewGameService(db, ledgerService, settingsService)
	withdrawalService := services.NewWithdrawalService(db, ledgerService, settingsService)
	channelService := services.NewChannelService(db, ledgerService)
	exchangeService := services.NewExchangeService(db, ledgerService, exchangeRate)
	sponsorClient := services.NewSponsorClient()
	broadcaster := workers.NewBroadcastWorker(db)

	// Warm the settings singleton so the defaults row exists before traffic.
	if _, err := settingsService.Get(); err != nil {
		log.Fatal("failed to initialize economy settings:", err)
	}

	services.StartMaintenanceScheduler(db)

	handlers.SetupUserRoutes(app, userService, referralService, settingsService,
		channelService, exchangeService, withdrawalService, sponsorClient)
	handlers.SetupTaskRoutes(app, taskService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupWithdrawalRoutes(app, withdrawalService)
	handlers.SetupAdminRoutes(app, userService, ledgerService, taskService,
		withdrawalService, settingsService, channelService, exchangeService, broadcaster)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Stars referral service running on http://localhost:%s", port)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from the gateway")
	log.Println("✅ Daily maintenance scheduler running")

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
