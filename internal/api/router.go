package api

import (
	"net/http"

	"github.com/sorobankit/ttlkeeper/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter() (http.Handler, error) {
	stellarHandler, err := handler.NewStellarHandler()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/generate", stellarHandler.Generate)
	mux.HandleFunc("/wallet/balance", stellarHandler.GetBalance)
	mux.HandleFunc("/wallet/transactions", stellarHandler.TransactionHistory)

	// Contract TTL endpoints
	mux.HandleFunc("/contract/ttl", stellarHandler.TTLStatus)
	mux.HandleFunc("/contract/extend", stellarHandler.ExtendTTL)
	mux.HandleFunc("/contract/restore", stellarHandler.Restore)

	return mux, nil
}
