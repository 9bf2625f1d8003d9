package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/auth"
	"github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/application/usecase"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CompanyUC *usecase.CompanyUseCase
	BranchUC  *usecase.BranchUseCase
	ClientUC  *usecase.ClientUseCase
	UserUC    *usecase.UserUseCase
	EmitUC    *billing.EmitDocumentUseCase
	FilesUC   *billing.FilesUseCase
	SummaryUC *billing.SummaryUseCase
	JWTSecret string
}

// Router registra las rutas de la API. RequireAbility a nivel de ruta es el
// gate grueso; los casos de uso repiten la verificación junto al dato.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthUC)

	// Público: bootstrap (una sola vez) y login.
	api.Post("/system/init", authHandler.InitSystem)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token).
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", RequireAbility(entity.AbilityCompanyRead), companyHandler.List)
	companies.Get("/:id", RequireAbility(entity.AbilityCompanyRead), companyHandler.GetByID)
	companies.Put("/:id", RequireAbility(entity.AbilityCompanyManage), companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	branches := protected.Group("/branches", RequireAbility(entity.AbilityBranchesManage))
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	clients := protected.Group("/clients", RequireAbility(entity.AbilityClientsManage))
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	users := protected.Group("/users", RequireAbility(entity.AbilityUsersManage))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.EmitUC, deps.FilesUC)
	documents.Post("/", RequireAbility(entity.AbilityDocumentsEmit), documentHandler.Emit)
	documents.Get("/", RequireAbility(entity.AbilityDocumentsRead), documentHandler.List)
	documents.Get("/:id", RequireAbility(entity.AbilityDocumentsRead), documentHandler.GetByID)
	documents.Post("/:id/send", RequireAbility(entity.AbilityDocumentsEmit), documentHandler.Resend)
	documents.Get("/:id/xml", RequireAbility(entity.AbilityDocumentsRead), documentHandler.DownloadXML)
	documents.Get("/:id/cdr", RequireAbility(entity.AbilityDocumentsRead), documentHandler.DownloadCDR)
	documents.Get("/:id/pdf", RequireAbility(entity.AbilityDocumentsRead), documentHandler.DownloadPDF)

	summaries := protected.Group("/summaries")
	summaryHandler := NewSummaryHandler(deps.SummaryUC)
	summaries.Post("/", RequireAbility(entity.AbilitySummariesManage), summaryHandler.Create)
	summaries.Get("/", RequireAbility(entity.AbilityDocumentsRead), summaryHandler.List)
	summaries.Get("/:id/status", RequireAbility(entity.AbilitySummariesManage), summaryHandler.CheckStatus)
}
