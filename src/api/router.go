package api

import (
	"net/http"
	"strings"

	"horizon-server/src/actions"
	"horizon-server/src/handlers"
	"horizon-server/src/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(svc *actions.Service, jwtSecret []byte, allowedOrigins string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/sign-up", handlers.SignUp(svc, jwtSecret))
		r.Post("/sign-in", handlers.SignIn(svc, jwtSecret))

		// Protected routes
		r.With(middleware.SessionAuth(jwtSecret, svc)).Group(func(r chi.Router) {
			r.Post("/sign-out", handlers.SignOut(svc))
			r.Get("/me", handlers.Me())

			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(svc))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(svc))

			r.Get("/accounts", handlers.GetAccounts(svc))
			r.Get("/banks", handlers.GetBanks(svc))
			r.Get("/banks/{bank_id}", handlers.GetBank(svc))
			r.Get("/banks/{bank_id}/transactions", handlers.GetBankTransactions(svc))

			r.Post("/transfers", handlers.CreateTransfer(svc))
		})
	})

	return r
}
