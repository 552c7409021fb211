package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/billfold/billfold/internal/http/auth"
	"github.com/billfold/billfold/internal/http/banksync"
	"github.com/billfold/billfold/internal/http/expense"
	"github.com/billfold/billfold/internal/http/importstmt"
	"github.com/billfold/billfold/internal/http/matching"
	"github.com/billfold/billfold/internal/http/recurring"
)

func New(
	jwtSecret string,
	allowedOrigins []string,
	expensesV1 *expense.Handler,
	recurringV1 *recurring.Handler,
	importV1 *importstmt.Handler,
	matchingV1 *matching.Handler,
	bankV1 *banksync.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))

		r.Route("/expenses", func(r chi.Router) {
			expensesV1.Routes(r)
		})

		r.Route("/recurring", func(r chi.Router) {
			recurringV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			matchingV1.Routes(r)
		})

		r.Route("/bank", func(r chi.Router) {
			bankV1.Routes(r)
		})
	})

	return router
}
