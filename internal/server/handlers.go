package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// dashboardResponse carries the snapshot together with the service state.
type dashboardResponse struct {
	Degraded  bool              `json:"degraded"`
	Dashboard *models.Dashboard `json:"dashboard"`
}

// handleDashboard handles GET /api/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d, loaded := s.app.Dashboard.Dashboard()
	if !loaded {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, models.ErrNotLoaded.Error(), codeNotLoaded)
		return
	}
	WriteJSON(w, http.StatusOK, dashboardResponse{
		Degraded:  s.app.Dashboard.Degraded(),
		Dashboard: d,
	})
}

// handleDashboardRefresh handles POST /api/dashboard/refresh.
func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	d, err := s.app.Dashboard.Recompute(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, dashboardResponse{Dashboard: d})
}

// handleHistory handles GET /api/history?timeframe= and POST /api/history.
// An empty timeframe uses the configured one.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodPost {
		var entry models.HistoryEntry
		if !DecodeJSON(w, r, &entry) {
			return
		}
		if entry.TotalValue < 0 {
			WriteErrorWithCode(w, http.StatusBadRequest, "history entry value must not be negative", codeInvalidRequest)
			return
		}
		series, err := s.app.Dashboard.AddHistoryEntry(ctx, entry)
		if errors.Is(err, models.ErrInvalidHistoryEntry) {
			WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidRequest)
			return
		}
		if err != nil {
			WriteErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), codeHistoryUnavailable)
			return
		}
		WriteJSON(w, http.StatusCreated, series)
		return
	}

	raw := r.URL.Query().Get("timeframe")
	var tf models.TimeFrame
	if raw == "" {
		cfg, err := s.app.Dashboard.Config(ctx)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		tf = cfg.TimeFrame
	} else {
		parsed, err := models.ParseTimeFrame(raw)
		if err != nil {
			WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidRequest)
			return
		}
		tf = parsed
	}

	series, err := s.app.Dashboard.History(ctx, tf)
	if err != nil {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), codeHistoryUnavailable)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleHistoryTimeFrame handles PUT /api/history/timeframe.
func (s *Server) handleHistoryTimeFrame(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req struct {
		TimeFrame string `json:"time_frame"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	tf, err := models.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidRequest)
		return
	}

	series, err := s.app.Dashboard.SetTimeFrame(r.Context(), tf)
	if err != nil {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), codeHistoryUnavailable)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleConfig handles GET and PUT /api/config.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodPut {
		var cfg models.PortfolioConfig
		if !DecodeJSON(w, r, &cfg) {
			return
		}
		if err := s.app.Dashboard.SaveConfig(ctx, &cfg); err != nil {
			WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidRequest)
			return
		}
		s.logger.Info().
			Str("base_currency", cfg.BaseCurrency).
			Int("goals", len(cfg.Goals)).
			Int("targets", len(cfg.TargetAllocations)).
			Msg("Portfolio config updated")
	}

	cfg, err := s.app.Dashboard.Config(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, cfg)
}

// accountsPayload is the {"accounts":[...]} request and response shape.
type accountsPayload struct {
	Accounts []models.Account `json:"accounts"`
}

// handleAccounts handles GET and PUT /api/accounts. A PUT replaces all
// accounts and schedules a recompute.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	ctx := r.Context()
	repo := s.app.Storage.AccountRepository()

	if r.Method == http.MethodGet {
		accounts, err := repo.GetAccounts(ctx)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, accountsPayload{Accounts: accounts})
		return
	}

	var req accountsPayload
	if !DecodeJSON(w, r, &req) {
		return
	}
	for _, acc := range req.Accounts {
		if acc.ID == "" {
			WriteErrorWithCode(w, http.StatusBadRequest, "every account needs an id", codeInvalidRequest)
			return
		}
	}

	if err := repo.SaveAccounts(ctx, req.Accounts); err != nil {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), codeRepositoryUnavailable)
		return
	}
	scheduled := s.app.Notify(models.EventAccountUpdated)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts":            len(req.Accounts),
		"recompute_scheduled": scheduled,
	})
}

// handleEvents handles POST /api/events from an external account data source.
// Events that do not change holdings are accepted and ignored.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Event models.ChangeEvent `json:"event"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Event == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "event is required", codeInvalidRequest)
		return
	}

	scheduled := s.app.Notify(req.Event)
	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"event":               req.Event,
		"recompute_scheduled": scheduled,
	})
}
