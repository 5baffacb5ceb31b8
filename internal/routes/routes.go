package routes

import (
	"net/http"

	"github.com/templui/imagefolders/internal/app"
	"github.com/templui/imagefolders/internal/handler"
	"github.com/templui/imagefolders/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	folder := handler.NewFolderHandler(app.FolderService)
	image := handler.NewImageHandler(app.ImageService, app.FileService, app.Cfg.MaxUploadSize)
	upload := handler.NewUploadHandler(app.FileService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Stored payloads, addressed by their unguessable storage key
	mux.HandleFunc("GET /uploads/images/{key}", upload.Serve)

	// ============================================================================
	// API ROUTES (authenticated)
	// ============================================================================

	// Folders
	mux.HandleFunc("GET /api/folders", middleware.RequireAuth(folder.List))
	mux.HandleFunc("POST /api/folders", middleware.RequireAuth(folder.Create))
	mux.HandleFunc("GET /api/folders/{id}", middleware.RequireAuth(folder.Get))
	mux.HandleFunc("DELETE /api/folders/{id}", middleware.RequireAuth(folder.Delete))

	// Images (uploads rate limited per owner)
	uploadLimiter := middleware.RateLimitUploads(app.Cfg.UploadRatePerMinute)
	mux.HandleFunc("POST /api/images/upload", middleware.RequireAuth(uploadLimiter(image.Upload)))
	mux.HandleFunc("GET /api/images", middleware.RequireAuth(image.List))
	mux.HandleFunc("GET /api/images/{id}", middleware.RequireAuth(image.Get))
	mux.HandleFunc("DELETE /api/images/{id}", middleware.RequireAuth(image.Delete))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigins), // Answers preflights before anything else runs
		middleware.RequestLogging,
		middleware.Auth(app.AuthService),
	)

	return handler
}
