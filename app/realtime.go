package app

import (
	"context"
	"log/slog"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

// RealtimeParams selects the home to read from.
type RealtimeParams struct {
	HomeID string `json:"home_id" jsonschema:"The Tibber home ID"`
}

// RealtimeResult is the get-realtime payload. A home without live
// metering yields Available=false with a reason; that is a normal
// result, not an error.
type RealtimeResult struct {
	HomeID      string                  `json:"home_id"`
	Available   bool                    `json:"available"`
	Reason      string                  `json:"reason,omitempty"`
	Measurement *tibber.LiveMeasurement `json:"measurement,omitempty"`
}

// NewRealtimeTool reads the latest real-time power measurement from a
// live-metering-capable home.
func NewRealtimeTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params RealtimeParams) (RealtimeResult, error) {
		if params.HomeID == "" {
			return RealtimeResult{}, tools.NewInvalidParamsError("home_id is required")
		}

		home, err := api.Home(ctx, params.HomeID)
		if err != nil {
			return RealtimeResult{}, err
		}
		if !home.HasRealTime() {
			return RealtimeResult{
				HomeID: params.HomeID,
				Reason: "this home does not have real-time monitoring capability",
			}, nil
		}

		measurement, err := api.LiveMeasurement(ctx, params.HomeID)
		if err != nil {
			logger.Error("live measurement failed", "home_id", params.HomeID, "error", err)
			return RealtimeResult{}, err
		}

		logger.Info("fetched live measurement", "home_id", params.HomeID, "power", measurement.Power)
		return RealtimeResult{HomeID: params.HomeID, Available: true, Measurement: measurement}, nil
	}

	return tools.NewTool(
		"get-realtime",
		"Get the latest real-time power reading from a home with live metering",
		handler,
	)
}
