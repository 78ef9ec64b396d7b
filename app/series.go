package app

import (
	"context"
	"log/slog"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

// ConsumptionParams selects a consumption series.
type ConsumptionParams struct {
	HomeID     string `json:"home_id" jsonschema:"The Tibber home ID"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Time resolution: HOURLY, DAILY, WEEKLY, MONTHLY or ANNUAL (default HOURLY)"`
	Count      int    `json:"count,omitempty" jsonschema:"Number of most recent buckets to retrieve (default 24)"`
}

// ConsumptionResult carries consumption buckets in upstream
// (time-ascending) order.
type ConsumptionResult struct {
	HomeID     string                     `json:"home_id"`
	Resolution tibber.Resolution          `json:"resolution"`
	Records    []tibber.ConsumptionRecord `json:"records"`
}

// NewConsumptionTool fetches energy consumption data for a home.
func NewConsumptionTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params ConsumptionParams) (ConsumptionResult, error) {
		q, err := seriesQuery(params.HomeID, params.Resolution, params.Count, "")
		if err != nil {
			return ConsumptionResult{}, err
		}

		records, err := api.Consumption(ctx, q)
		if err != nil {
			logger.Error("consumption query failed", "home_id", q.HomeID, "error", err)
			return ConsumptionResult{}, err
		}
		if records == nil {
			records = []tibber.ConsumptionRecord{}
		}

		logger.Info("fetched consumption", "home_id", q.HomeID, "resolution", q.Resolution, "records", len(records))
		return ConsumptionResult{HomeID: q.HomeID, Resolution: q.Resolution, Records: records}, nil
	}

	return tools.NewTool(
		"get-consumption",
		"Get energy consumption data for a specific home",
		handler,
	)
}

// ProductionParams selects a production series.
type ProductionParams struct {
	HomeID     string `json:"home_id" jsonschema:"The Tibber home ID"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Time resolution: HOURLY, DAILY, WEEKLY, MONTHLY or ANNUAL (default HOURLY)"`
	Count      int    `json:"count,omitempty" jsonschema:"Number of most recent buckets to retrieve (default 24)"`
}

// ProductionResult carries production buckets, or Available=false for
// a home without production capability (a normal result, not an error).
type ProductionResult struct {
	HomeID     string                    `json:"home_id"`
	Resolution tibber.Resolution         `json:"resolution,omitempty"`
	Available  bool                      `json:"available"`
	Reason     string                    `json:"reason,omitempty"`
	Records    []tibber.ProductionRecord `json:"records,omitempty"`
}

// NewProductionTool fetches energy production data for a home.
func NewProductionTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params ProductionParams) (ProductionResult, error) {
		q, err := seriesQuery(params.HomeID, params.Resolution, params.Count, "")
		if err != nil {
			return ProductionResult{}, err
		}

		home, err := api.Home(ctx, q.HomeID)
		if err != nil {
			return ProductionResult{}, err
		}
		if !home.HasProduction() {
			return ProductionResult{
				HomeID: q.HomeID,
				Reason: "this home does not have production capability",
			}, nil
		}

		records, err := api.Production(ctx, q)
		if err != nil {
			logger.Error("production query failed", "home_id", q.HomeID, "error", err)
			return ProductionResult{}, err
		}
		if records == nil {
			records = []tibber.ProductionRecord{}
		}

		logger.Info("fetched production", "home_id", q.HomeID, "resolution", q.Resolution, "records", len(records))
		return ProductionResult{HomeID: q.HomeID, Resolution: q.Resolution, Available: true, Records: records}, nil
	}

	return tools.NewTool(
		"get-production",
		"Get energy production data for a specific home",
		handler,
	)
}

// HistoricParams is the general-purpose historic query.
type HistoricParams struct {
	HomeID     string `json:"home_id" jsonschema:"The Tibber home ID"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Time resolution: HOURLY, DAILY, WEEKLY, MONTHLY or ANNUAL (default HOURLY)"`
	Count      int    `json:"count,omitempty" jsonschema:"Number of buckets to retrieve (default 24)"`
	Production bool   `json:"production,omitempty" jsonschema:"Get production instead of consumption data"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"Optional start date in YYYY-MM-DD format; buckets are fetched forward from this date"`
}

// HistoricResult carries either consumption or production records,
// depending on the requested series.
type HistoricResult struct {
	HomeID      string                     `json:"home_id"`
	Resolution  tibber.Resolution          `json:"resolution,omitempty"`
	Series      string                     `json:"series"`
	Available   bool                       `json:"available"`
	Reason      string                     `json:"reason,omitempty"`
	Consumption []tibber.ConsumptionRecord `json:"consumption,omitempty"`
	Production  []tibber.ProductionRecord  `json:"production,omitempty"`
}

// NewHistoricTool fetches historic data with custom resolution and an
// optional start date.
func NewHistoricTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params HistoricParams) (HistoricResult, error) {
		q, err := seriesQuery(params.HomeID, params.Resolution, params.Count, params.StartDate)
		if err != nil {
			return HistoricResult{}, err
		}

		if params.Production {
			home, err := api.Home(ctx, q.HomeID)
			if err != nil {
				return HistoricResult{}, err
			}
			if !home.HasProduction() {
				return HistoricResult{
					HomeID: q.HomeID,
					Series: "production",
					Reason: "this home does not have production capability",
				}, nil
			}

			records, err := api.Production(ctx, q)
			if err != nil {
				logger.Error("historic production query failed", "home_id", q.HomeID, "error", err)
				return HistoricResult{}, err
			}
			if records == nil {
				records = []tibber.ProductionRecord{}
			}
			return HistoricResult{
				HomeID:     q.HomeID,
				Resolution: q.Resolution,
				Series:     "production",
				Available:  true,
				Production: records,
			}, nil
		}

		records, err := api.Consumption(ctx, q)
		if err != nil {
			logger.Error("historic consumption query failed", "home_id", q.HomeID, "error", err)
			return HistoricResult{}, err
		}
		if records == nil {
			records = []tibber.ConsumptionRecord{}
		}
		return HistoricResult{
			HomeID:      q.HomeID,
			Resolution:  q.Resolution,
			Series:      "consumption",
			Available:   true,
			Consumption: records,
		}, nil
	}

	return tools.NewTool(
		"get-historic",
		"Get historical consumption or production data with custom resolution and an optional start date",
		handler,
	)
}
