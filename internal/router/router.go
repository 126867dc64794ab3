package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studyhall-backend/internal/handlers"
	"studyhall-backend/internal/middleware"
)

func New(
	sessionAuth *middleware.SessionAuth,
	sessionHandler *handlers.SessionHandler,
	noteHandler *handlers.NoteHandler,
	flashcardHandler *handlers.FlashcardHandler,
	quizHandler *handlers.QuizHandler,
	progressHandler *handlers.ProgressHandler,
	reportHandler *handlers.ReportHandler,
	transferHandler *handlers.TransferHandler,
	contentHandler *handlers.ContentHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session creation limiter (10 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)
	// Generation endpoints hit the AI collaborator (20 req/min per IP)
	generateLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes (public) ────
		r.Group(func(r chi.Router) {
			r.Use(sessionLimiter.Middleware)
			r.Post("/sessions", sessionHandler.Create)
		})

		// ──── Content Routes ────
		r.Route("/content", func(r chi.Router) {
			r.Get("/supported-formats", contentHandler.SupportedFormats) // Public

			r.Group(func(r chi.Router) {
				r.Use(sessionAuth.Middleware)
				r.Post("/extract", contentHandler.Extract)
			})
		})

		// ──── Note Routes ────
		r.Route("/notes", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.With(generateLimiter.Middleware).Post("/generate", noteHandler.Generate)
			r.Get("/", noteHandler.List)
			r.Get("/export", noteHandler.Export)
			r.Get("/{id}", noteHandler.Get)
			r.Delete("/{id}", noteHandler.Delete)
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.With(generateLimiter.Middleware).Post("/generate", flashcardHandler.Generate)
			r.Get("/", flashcardHandler.List)
			r.Get("/due", flashcardHandler.Due)
			r.Get("/export", flashcardHandler.Export)
			r.Post("/import", flashcardHandler.Import)
			r.Get("/{id}", flashcardHandler.Get)
			r.Delete("/{id}", flashcardHandler.Delete)
			r.Post("/{id}/review", flashcardHandler.Review)
		})

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.With(generateLimiter.Middleware).Post("/generate", quizHandler.Generate)
			r.Get("/", quizHandler.List)
			r.Get("/{id}", quizHandler.Get)
			r.Delete("/{id}", quizHandler.Delete)
			r.Post("/{id}/attempts", quizHandler.SubmitAttempt)
			r.Get("/{id}/attempts", quizHandler.ListAttempts)
			r.Get("/{id}/attempts/{attemptID}", quizHandler.GetAttempt)
		})

		// ──── Progress Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Get("/overview", progressHandler.Overview)
			r.Get("/subjects", progressHandler.Subjects)
			r.Get("/trend", progressHandler.Trend)
			r.Get("/weak-subjects", progressHandler.WeakSubjects)
		})

		// ──── Report Routes ────
		r.Route("/reports", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Get("/progress", reportHandler.Progress)
			r.Get("/study-guide", reportHandler.StudyGuide)
		})

		// ──── Transfer Routes ────
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Get("/export", transferHandler.Export)
			r.Post("/import", transferHandler.Import)
			r.Delete("/data", transferHandler.ClearData)
		})
	})

	return r
}
