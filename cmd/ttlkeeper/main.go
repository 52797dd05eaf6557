package main

import (
	"net/http"

	"github.com/sorobankit/ttlkeeper/internal/api"
	"github.com/sorobankit/ttlkeeper/internal/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := config.Init(); err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if err := config.PromptForPassword(); err != nil {
		log.WithError(err).Fatal("failed to read keyfile password")
	}

	router, err := api.SetupRouter()
	if err != nil {
		log.WithError(err).Fatal("failed to set up router")
	}

	addr := ":" + config.GetPort()
	log.WithFields(log.Fields{
		"addr":    addr,
		"horizon": config.GetHorizonURL(),
		"rpc":     config.GetSorobanRPCURL(),
	}).Info("ttlkeeper listening")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
