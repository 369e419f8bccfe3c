package main

import (
	"log"
	"strings"

	"agritrade-backend/internal/audit"
	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/buyers"
	"agritrade-backend/internal/config"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/documents"
	"agritrade-backend/internal/farmers"
	"agritrade-backend/internal/listings"
	"agritrade-backend/internal/logger"
	"agritrade-backend/internal/matching"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/negotiations"
	"agritrade-backend/internal/payments"
	"agritrade-backend/internal/reporting"
	"agritrade-backend/internal/suppliers"
	"agritrade-backend/internal/transactions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer zapLogger.Sync()

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zapLogger.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	reasonClient := matching.NewReasonClient(cfg, zapLogger)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Farmer profiles
	protected.Post("/farmers", auth.RequireRole(models.RoleFarmer), farmers.CreateFarmerHandler())
	protected.Get("/farmers", farmers.ListFarmersHandler())
	protected.Get("/farmers/:id", farmers.GetFarmerHandler())
	protected.Put("/farmers/:id", auth.RequireRole(models.RoleFarmer, models.RoleAdmin), farmers.UpdateFarmerHandler())

	// Buyer profiles
	protected.Post("/buyers", auth.RequireRole(models.RoleBuyer), buyers.CreateBuyerHandler())
	protected.Get("/buyers", buyers.ListBuyersHandler())
	protected.Get("/buyers/:id", buyers.GetBuyerHandler())
	protected.Put("/buyers/:id", auth.RequireRole(models.RoleBuyer, models.RoleAdmin), buyers.UpdateBuyerHandler())

	// Listings
	protected.Post("/listings", auth.RequireRole(models.RoleFarmer), listings.CreateListingHandler())
	protected.Get("/listings", listings.ListListingsHandler())
	protected.Get("/listings/:id", listings.GetListingHandler())
	protected.Put("/listings/:id", auth.RequireRole(models.RoleFarmer, models.RoleAdmin), listings.UpdateListingHandler())
	protected.Patch("/listings/:id/status", auth.RequireRole(models.RoleFarmer, models.RoleAdmin), listings.UpdateListingStatusHandler())
	protected.Delete("/listings/:id", auth.RequireRole(models.RoleFarmer, models.RoleAdmin), listings.DeleteListingHandler())

	// Matching
	protected.Post("/matches/suggest", auth.RequireRole(models.RoleBuyer, models.RoleAdmin), matching.SuggestMatchesHandler(reasonClient, cfg.HomeCountry))
	protected.Get("/matches", matching.ListMatchesHandler())
	protected.Get("/matches/:id", matching.GetMatchHandler())
	protected.Patch("/matches/:id/status", matching.UpdateMatchStatusHandler())

	// Negotiations and offers
	protected.Post("/negotiations", auth.RequireRole(models.RoleBuyer, models.RoleFarmer), negotiations.CreateNegotiationHandler())
	protected.Get("/negotiations", negotiations.ListNegotiationsHandler())
	protected.Get("/negotiations/:id", negotiations.GetNegotiationHandler())
	protected.Post("/negotiations/:id/offers", auth.RequireRole(models.RoleBuyer, models.RoleFarmer), negotiations.CreateOfferHandler())
	protected.Patch("/negotiations/offers/:offerId/respond", auth.RequireRole(models.RoleBuyer, models.RoleFarmer), negotiations.RespondToOfferHandler())
	protected.Post("/negotiations/:id/accept", auth.RequireRole(models.RoleBuyer, models.RoleFarmer), negotiations.AcceptNegotiationHandler())
	protected.Post("/negotiations/:id/reject", auth.RequireRole(models.RoleBuyer, models.RoleFarmer), negotiations.RejectNegotiationHandler())

	// Transactions and payments
	protected.Get("/transactions", transactions.ListTransactionsHandler())
	protected.Get("/transactions/:id", transactions.GetTransactionHandler())
	protected.Patch("/transactions/:id/status", transactions.UpdateTransactionStatusHandler())
	protected.Post("/payments", payments.InitiatePaymentHandler())
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Post("/payments/:id/confirm", payments.ConfirmPaymentHandler())
	protected.Post("/payments/:id/fail", payments.FailPaymentHandler())

	// Documents
	protected.Post("/documents", documents.CreateDocumentHandler())
	protected.Get("/documents", documents.ListDocumentsHandler())

	// Supplier networks
	protected.Post("/export-companies", auth.RequireRole(models.RoleExporter), suppliers.CreateExportCompanyHandler())
	protected.Get("/export-companies/me", auth.RequireRole(models.RoleExporter), suppliers.GetOwnCompanyHandler())
	protected.Post("/suppliers", auth.RequireRole(models.RoleExporter), suppliers.AddSupplierHandler())
	protected.Get("/suppliers", auth.RequireRole(models.RoleExporter), suppliers.ListSuppliersHandler())
	protected.Delete("/suppliers/:id", auth.RequireRole(models.RoleExporter), suppliers.RemoveSupplierHandler())

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Patch("/farmers/:id/verify", farmers.VerifyFarmerHandler())
	adminRoutes.Patch("/documents/:id/review", documents.ReviewDocumentHandler())
	adminRoutes.Post("/reports", reporting.GenerateReportHandler())
	adminRoutes.Get("/reports", reporting.ListReportsHandler())
	adminRoutes.Post("/reports/:id/submit", reporting.SubmitReportHandler())
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	zapLogger.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
