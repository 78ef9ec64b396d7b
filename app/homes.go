package app

import (
	"context"
	"log/slog"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

// ListHomesParams takes no arguments; the tool enumerates everything
// the token can see.
type ListHomesParams struct{}

// HomeSummary is one home in a list-homes result, the upstream record
// plus the derived capability flags.
type HomeSummary struct {
	tibber.Home
	HasRealTimeConsumption bool `json:"hasRealTimeConsumption"`
	HasProduction          bool `json:"hasProduction"`
}

// ListHomesResult is the list-homes payload.
type ListHomesResult struct {
	Homes []HomeSummary `json:"homes"`
}

// NewListHomesTool lists all Tibber homes and their basic information.
func NewListHomesTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, _ ListHomesParams) (ListHomesResult, error) {
		homes, err := api.Homes(ctx)
		if err != nil {
			logger.Error("listing homes failed", "error", err)
			return ListHomesResult{}, err
		}

		result := ListHomesResult{Homes: make([]HomeSummary, 0, len(homes))}
		for i := range homes {
			result.Homes = append(result.Homes, HomeSummary{
				Home:                   homes[i],
				HasRealTimeConsumption: homes[i].HasRealTime(),
				HasProduction:          homes[i].HasProduction(),
			})
		}

		logger.Info("listed homes", "count", len(result.Homes))
		return result, nil
	}

	return tools.NewTool(
		"list-homes",
		"List all Tibber homes and their basic information, including address, metering point data and capabilities",
		handler,
	)
}
