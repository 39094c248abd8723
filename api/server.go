/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logger:     Structured request logging (zerolog)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/accounts/*            Account management and balance adjustments
  /api/categories/*          Category management
  /api/transactions/*        Transaction CRUD with filters
  /api/debts/*               Debt CRUD
  /api/income/entries/*      Monthly income entries
  /api/income/fixed/*        Recurring income definitions
  /api/investments/*         Investments, monthly entries, applications

SECURITY NOTE:
  Ownership comes from the X-Owner-ID header with no authentication in
  front of it. Run behind a gateway that sets the header from a verified
  session.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Owner-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Post("/{id}/adjust", h.AdjustBalance)
			r.Delete("/{id}", h.ArchiveAccount)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", h.ListDebts)
			r.Post("/", h.CreateDebt)
			r.Get("/{id}", h.GetDebt)
			r.Put("/{id}", h.UpdateDebt)
			r.Delete("/{id}", h.DeleteDebt)
		})

		r.Route("/income", func(r chi.Router) {
			r.Route("/entries", func(r chi.Router) {
				r.Get("/", h.ListIncomeEntries)
				r.Post("/", h.CreateIncomeEntry)
				r.Put("/{id}", h.UpdateIncomeEntry)
				r.Delete("/{id}", h.DeleteIncomeEntry)
			})
			r.Route("/fixed", func(r chi.Router) {
				r.Get("/", h.ListFixedIncomes)
				r.Post("/", h.CreateFixedIncome)
				r.Put("/{id}", h.UpdateFixedIncome)
				r.Delete("/{id}", h.DeleteFixedIncome)
			})
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", h.ListInvestments)
			r.Post("/", h.CreateInvestment)
			r.Post("/apply", h.ApplyInvestment)
			r.Route("/entries", func(r chi.Router) {
				r.Get("/", h.ListInvestmentEntries)
				r.Put("/{id}", h.UpdateInvestmentEntry)
				r.Delete("/{id}", h.DeleteInvestmentEntry)
			})
			r.Get("/{id}", h.GetInvestment)
			r.Put("/{id}", h.UpdateInvestment)
			r.Delete("/{id}", h.DeleteInvestment)
			r.Post("/{id}/entries", h.UpsertInvestmentEntry)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
