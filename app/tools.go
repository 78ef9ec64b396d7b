// Package app wires the Tibber API into MCP tools. Each tool is a
// declarative triple of name, input schema and handler; handlers
// validate arguments, call the API client, and return typed result
// payloads. Empty results (no realtime capability, unpublished
// tomorrow prices) are normal payloads, distinct from errors.
package app

import (
	"log/slog"
	"time"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

// Defaults applied when a tool call omits the optional arguments.
const (
	defaultResolution = tibber.ResolutionHourly
	defaultCount      = 24
)

// Tools returns the full tool set backed by the given API.
func Tools(api tibber.API, logger *slog.Logger) []tools.Tool {
	if logger == nil {
		logger = slog.Default()
	}
	return []tools.Tool{
		NewListHomesTool(api, logger),
		NewConsumptionTool(api, logger),
		NewProductionTool(api, logger),
		NewPriceInfoTool(api, logger),
		NewRealtimeTool(api, logger),
		NewHistoricTool(api, logger),
		NewPriceForecastTool(api, logger),
	}
}

// seriesQuery builds an upstream series query from tool arguments,
// applying defaults and rejecting invalid values before any network
// call is made.
func seriesQuery(homeID, resolution string, count int, startDate string) (tibber.SeriesQuery, error) {
	if homeID == "" {
		return tibber.SeriesQuery{}, tools.NewInvalidParamsError("home_id is required")
	}

	res := defaultResolution
	if resolution != "" {
		parsed, err := tibber.ParseResolution(resolution)
		if err != nil {
			return tibber.SeriesQuery{}, tools.NewInvalidParamsError(err.Error())
		}
		res = parsed
	}

	if count < 0 {
		return tibber.SeriesQuery{}, tools.NewInvalidParamsError("count must not be negative")
	}
	if count == 0 {
		count = defaultCount
	}

	q := tibber.SeriesQuery{HomeID: homeID, Resolution: res, Count: count}

	if startDate != "" {
		start, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return tibber.SeriesQuery{}, tools.NewInvalidParamsError(
				"invalid start_date " + startDate + ", expected YYYY-MM-DD")
		}
		q.StartAt = start
	}

	return q, nil
}
