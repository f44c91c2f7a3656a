package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/madxrebel/MStock/internal/handler"
	"github.com/madxrebel/MStock/internal/middleware"
	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/service"
	"github.com/madxrebel/MStock/internal/ws"
	"github.com/madxrebel/MStock/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{}, &model.Party{}, &model.Transaction{}, &model.LineItem{})

	seedAdminUser(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Wiring
	productRepo := repository.NewProductRepo(db)
	partyRepo := repository.NewPartyRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	workflowService := service.NewWorkflowService(productRepo, partyRepo, txRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	partyService := service.NewPartyService(partyRepo)
	dashService := service.NewDashboardService(txRepo)
	authService := service.NewAuthService(userRepo)

	txHandler := handler.NewTransactionHandler(workflowService)
	productHandler := handler.NewProductHandler(catalogService)
	partyHandler := handler.NewPartyHandler(partyService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName: "MStock API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Everything below requires an authenticated admin
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/revenue-movement", dashHandler.GetRevenueMovement)
	protected.Get("/dashboard/recent-transactions", dashHandler.GetRecentTransactions)

	// Product catalog + stock
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", productHandler.AdjustStock)
	protected.Post("/products/:id/pack", productHandler.PackStock)

	// Supplier / shopkeeper registries
	protected.Get("/parties", partyHandler.GetParties)
	protected.Post("/parties", partyHandler.CreateParty)
	protected.Get("/parties/:id", partyHandler.GetParty)
	protected.Delete("/parties/:id", partyHandler.DeleteParty)
	protected.Get("/parties/:id/transactions", txHandler.GetPartyTransactions)

	// Transaction workflow
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Post("/transactions", txHandler.Issue)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Put("/transactions/:id/reconcile", txHandler.Reconcile)

	// WebSocket stream of stock/transaction events
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdminUser creates the default admin account on first boot.
func seedAdminUser(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", email)
}
