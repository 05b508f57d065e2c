package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Dashboard
	mux.HandleFunc("/api/dashboard/refresh", s.handleDashboardRefresh)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)

	// History
	mux.HandleFunc("/api/history/", s.routeHistory)
	mux.HandleFunc("/api/history", s.handleHistory)

	// Settings and account data
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/accounts", s.handleAccounts)
	mux.HandleFunc("/api/events", s.handleEvents)
}

// routeHistory dispatches /api/history/{action} to the appropriate handler.
func (s *Server) routeHistory(w http.ResponseWriter, r *http.Request) {
	switch strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/") {
	case "":
		s.handleHistory(w, r)
	case "timeframe":
		s.handleHistoryTimeFrame(w, r)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
