package main

import (
	"log"
	"net/http"

	"dailgraph/internal/api"
	"dailgraph/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	srv := api.NewServer(cfg)
	log.Printf("dailgraph api listening on %s temporal=%s providers=%q", cfg.APIAddr, cfg.TemporalAddress, cfg.LLMProviders)
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		log.Fatal(err)
	}
}
