package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/pookie-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Privacy-first auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Post("/api/auth/check-username", handlers.CheckUsernameAvailability)

	// Journal entry routes
	r.Post("/api/entries", handlers.CreateEntry)
	r.Get("/api/entries", handlers.GetEntries)
	r.Delete("/api/entries", handlers.DeleteEntry)
	r.Get("/api/entries/export", handlers.ExportEntries)

	// Media upload routes
	r.Post("/api/upload", handlers.UploadFile)
}
