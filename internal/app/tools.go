package app

import "github.com/mark3labs/mcp-go/mcp"

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Folio server version and status. Use this to verify connectivity."),
	)
}

// createGetDashboardTool returns the get_dashboard tool definition
func createGetDashboardTool() mcp.Tool {
	return mcp.NewTool("get_dashboard",
		mcp.WithDescription("Get the latest portfolio dashboard: total value in the base currency, allocation by asset type and currency, per-type currency, region and holding breakdowns, rebalancing steps, goal progress and the monthly spend limit."),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// createGetPortfolioHistoryTool returns the get_portfolio_history tool definition
func createGetPortfolioHistoryTool() mcp.Tool {
	return mcp.NewTool("get_portfolio_history",
		mcp.WithDescription("Get the daily portfolio value history windowed to a time frame, with one series per broad asset type."),
		mcp.WithString("time_frame",
			mcp.Description("Lookback window: All (default), YTD, 1Y, 5Y, 10Y. Max is accepted as All."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// createAddHistoryEntryTool returns the add_history_entry tool definition
func createAddHistoryEntryTool() mcp.Tool {
	return mcp.NewTool("add_history_entry",
		mcp.WithDescription("Backfill or correct one day of portfolio history. An existing entry for the same day is replaced."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Calendar day in YYYY-MM-DD format"),
		),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("Total portfolio value on that day, in the base currency"),
		),
		mcp.WithObject("assets",
			mcp.Description("Optional value per asset type, e.g. {\"Stock\": 60000, \"Bond\": 40000}"),
		),
	)
}

// createRefreshDashboardTool returns the refresh_dashboard tool definition
func createRefreshDashboardTool() mcp.Tool {
	return mcp.NewTool("refresh_dashboard",
		mcp.WithDescription("Recompute the dashboard now from current accounts and exchange rates, and record today's history snapshot."),
	)
}
