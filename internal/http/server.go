// Package http exposes the ledger engine as a JSON API. It owns nothing but
// request decoding, error-to-status mapping and response shaping; every rule
// lives in the engine.
package http

import (
	"net/http"
	"time"

	"kamela/internal/log"
	"kamela/internal/services"
)

type Server struct {
	*http.Server
	engine *services.Engine
	logger *log.Logger
}

func NewServer(addr string, engine *services.Engine) *Server {
	s := &Server{
		engine: engine,
		logger: log.New(log.Config{Component: log.ComponentHTTP}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /obligations", s.handleOpenObligation)
	mux.HandleFunc("GET /obligations", s.handleListObligations)
	mux.HandleFunc("GET /obligations/{id}", s.handleGetObligation)
	mux.HandleFunc("GET /obligations/{id}/repayments", s.handleListRepayments)
	mux.HandleFunc("POST /obligations/{id}/repayments", s.handleApplyRepayment)

	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /deadlines", s.handleDeadlines)
	mux.HandleFunc("GET /alerts", s.handleAlerts)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        s.withRequestLogging(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}
