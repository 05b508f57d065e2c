package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Folio Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGetDashboard implements the get_dashboard tool
func handleGetDashboard(svc interfaces.DashboardService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d, loaded := svc.Dashboard()
		if !loaded {
			return errorResult("Dashboard not loaded yet. Call refresh_dashboard to compute it."), nil
		}
		if d == nil {
			if svc.Degraded() {
				return errorResult("Dashboard unavailable: account data could not be read."), nil
			}
			return errorResult("Dashboard not loaded yet. Call refresh_dashboard to compute it."), nil
		}

		if request.GetString("format", "markdown") == "json" {
			return jsonResult(d, logger), nil
		}
		return textResult(formatDashboard(d, svc.Degraded())), nil
	}
}

// handleGetPortfolioHistory implements the get_portfolio_history tool
func handleGetPortfolioHistory(svc interfaces.DashboardService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tf, err := models.ParseTimeFrame(request.GetString("time_frame", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		series, err := svc.History(ctx, tf)
		if err != nil {
			logger.Error().Err(err).Str("time_frame", string(tf)).Msg("History projection failed")
			return errorResult(fmt.Sprintf("History error: %v", err)), nil
		}

		if request.GetString("format", "markdown") == "json" {
			return jsonResult(series, logger), nil
		}
		return textResult(formatHistory(series)), nil
	}
}

// handleAddHistoryEntry implements the add_history_entry tool
func handleAddHistoryEntry(svc interfaces.DashboardService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dateStr, err := request.RequireString("date")
		if err != nil || dateStr == "" {
			return errorResult("Error: date parameter is required"), nil
		}
		date, err := models.ParseDay(dateStr)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		value, err := request.RequireFloat("value")
		if err != nil {
			return errorResult("Error: value parameter is required"), nil
		}

		assets, err := parseAssetValues(request.GetArguments()["assets"])
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		series, err := svc.AddHistoryEntry(ctx, models.HistoryEntry{
			Date:       date,
			TotalValue: value,
			Assets:     assets,
		})
		if err != nil {
			logger.Warn().Err(err).Str("date", dateStr).Msg("Manual history entry rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(fmt.Sprintf("History entry for %s stored.\n\n%s",
			date.Format(models.DayLayout), formatHistory(series))), nil
	}
}

// handleRefreshDashboard implements the refresh_dashboard tool
func handleRefreshDashboard(svc interfaces.DashboardService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		d, err := svc.Recompute(ctx)
		if err != nil {
			var mre *models.MissingRateError
			var re *models.RepositoryError
			switch {
			case errors.As(err, &mre):
				return errorResult(fmt.Sprintf("Refresh failed: no exchange rate for %s. The previous dashboard is unchanged.", mre.Currency)), nil
			case errors.As(err, &re):
				return errorResult(fmt.Sprintf("Refresh failed: %v", re)), nil
			}
			logger.Error().Err(err).Msg("Dashboard refresh failed")
			return errorResult(fmt.Sprintf("Refresh error: %v", err)), nil
		}
		return textResult(formatDashboard(d, false)), nil
	}
}

// parseAssetValues reads the optional assets object. Keys are type names or
// integer codes; the result is ordered by type.
func parseAssetValues(raw any) ([]models.AssetValue, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("assets must be an object of type to value")
	}

	out := make([]models.AssetValue, 0, len(obj))
	for name, v := range obj {
		t, err := models.ParseAssetType(name)
		if err != nil {
			return nil, err
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("asset value for %s must be a number", name)
		}
		if f < 0 {
			return nil, fmt.Errorf("asset value for %s must not be negative", name)
		}
		out = append(out, models.AssetValue{Type: t, Value: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func jsonResult(v any, logger *common.Logger) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal tool result")
		return errorResult(fmt.Sprintf("Encoding error: %v", err))
	}
	return textResult(string(data))
}
