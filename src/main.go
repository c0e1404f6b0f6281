package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"horizon-server/src/actions"
	"horizon-server/src/api"
	"horizon-server/src/config"
	"horizon-server/src/crypt"
	"horizon-server/src/db"
	store "horizon-server/src/db/sql"
	"horizon-server/src/dwolla"
	"horizon-server/src/plaid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	st := store.NewStore(pool)
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	plaidClient, err := plaid.NewClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)
	if err != nil {
		log.Fatalf("Plaid client setup failed: %v", err)
	}

	dwollaClient, err := dwolla.NewClient(cfg.DwollaKey, cfg.DwollaSecret, cfg.DwollaEnv)
	if err != nil {
		log.Fatalf("Dwolla client setup failed: %v", err)
	}

	cipher, err := crypt.NewCipher(cfg.ShareableIDKey)
	if err != nil {
		log.Fatalf("Shareable id cipher setup failed: %v", err)
	}

	svc := actions.NewService(
		st,
		plaidClient,
		dwollaClient,
		cipher,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
	)

	// Router
	router := api.NewRouter(svc, []byte(cfg.JWTSecret), cfg.AllowedOrigins)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
