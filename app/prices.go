package app

import (
	"context"
	"log/slog"
	"sort"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

// PriceInfoParams selects the price snapshot of one home.
type PriceInfoParams struct {
	HomeID string `json:"home_id" jsonschema:"The Tibber home ID"`
}

// PriceStats summarizes one day's published prices: extremes, mean and
// period averages for night (00-08), day (08-20) and evening (20-24).
type PriceStats struct {
	Min     float64 `json:"min"`
	Avg     float64 `json:"avg"`
	Max     float64 `json:"max"`
	Night   float64 `json:"night"`
	Day     float64 `json:"day"`
	Evening float64 `json:"evening"`
}

// PriceInfoResult is the get-price-info payload: the current price with
// its rank among today's hours, today's statistics, and the known
// upcoming points.
type PriceInfoResult struct {
	HomeID    string              `json:"home_id"`
	Current   *tibber.PricePoint  `json:"current,omitempty"`
	RankToday int                 `json:"rank_today,omitempty"`
	Stats     *PriceStats         `json:"today_stats,omitempty"`
	Today     []tibber.PricePoint `json:"today"`
	Tomorrow  []tibber.PricePoint `json:"tomorrow"`
}

// NewPriceInfoTool fetches current and upcoming electricity prices.
func NewPriceInfoTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params PriceInfoParams) (PriceInfoResult, error) {
		if params.HomeID == "" {
			return PriceInfoResult{}, tools.NewInvalidParamsError("home_id is required")
		}

		info, err := api.PriceInfo(ctx, params.HomeID)
		if err != nil {
			logger.Error("price info query failed", "home_id", params.HomeID, "error", err)
			return PriceInfoResult{}, err
		}

		result := PriceInfoResult{
			HomeID:   params.HomeID,
			Current:  info.Current,
			Stats:    priceStats(info.Today),
			Today:    info.Today,
			Tomorrow: info.Tomorrow,
		}
		if info.Current != nil {
			result.RankToday = priceRank(*info.Current, info.Today)
		}

		logger.Info("fetched price info",
			"home_id", params.HomeID,
			"today", len(info.Today),
			"tomorrow", len(info.Tomorrow))
		return result, nil
	}

	return tools.NewTool(
		"get-price-info",
		"Get current and upcoming electricity prices for a specific home",
		handler,
	)
}

// PriceForecastParams selects the price forecast of one home.
type PriceForecastParams struct {
	HomeID string `json:"home_id" jsonschema:"The Tibber home ID"`
}

// PriceForecastResult is the get-price-forecast payload. Tomorrow
// stays empty until next-day prices are published, which is a normal
// condition rather than an error.
type PriceForecastResult struct {
	HomeID   string              `json:"home_id"`
	Today    []tibber.PricePoint `json:"today"`
	Tomorrow []tibber.PricePoint `json:"tomorrow"`
	Stats    *PriceStats         `json:"today_stats,omitempty"`
}

// NewPriceForecastTool fetches detailed price forecasts for today and
// tomorrow.
func NewPriceForecastTool(api tibber.API, logger *slog.Logger) tools.Tool {
	handler := func(ctx context.Context, params PriceForecastParams) (PriceForecastResult, error) {
		if params.HomeID == "" {
			return PriceForecastResult{}, tools.NewInvalidParamsError("home_id is required")
		}

		info, err := api.PriceInfo(ctx, params.HomeID)
		if err != nil {
			logger.Error("price forecast query failed", "home_id", params.HomeID, "error", err)
			return PriceForecastResult{}, err
		}

		logger.Info("fetched price forecast",
			"home_id", params.HomeID,
			"today", len(info.Today),
			"tomorrow", len(info.Tomorrow))
		return PriceForecastResult{
			HomeID:   params.HomeID,
			Today:    info.Today,
			Tomorrow: info.Tomorrow,
			Stats:    priceStats(info.Today),
		}, nil
	}

	return tools.NewTool(
		"get-price-forecast",
		"Get detailed price forecasts for today and tomorrow; tomorrow's prices may be empty before publication",
		handler,
	)
}

// priceStats computes day statistics from the published points. The
// period buckets follow the hour in the point's own timezone offset.
func priceStats(points []tibber.PricePoint) *PriceStats {
	if len(points) == 0 {
		return nil
	}

	stats := PriceStats{Min: points[0].Total, Max: points[0].Total}
	var sum float64
	var night, day, evening []float64

	for _, p := range points {
		if p.Total < stats.Min {
			stats.Min = p.Total
		}
		if p.Total > stats.Max {
			stats.Max = p.Total
		}
		sum += p.Total

		switch hour := p.StartsAt.Hour(); {
		case hour < 8:
			night = append(night, p.Total)
		case hour < 20:
			day = append(day, p.Total)
		default:
			evening = append(evening, p.Total)
		}
	}

	stats.Avg = sum / float64(len(points))
	stats.Night = mean(night)
	stats.Day = mean(day)
	stats.Evening = mean(evening)
	return &stats
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// priceRank returns the 1-based position of the current price among
// today's prices sorted ascending, so 1 means the cheapest hour.
func priceRank(current tibber.PricePoint, today []tibber.PricePoint) int {
	if len(today) == 0 {
		return 0
	}
	totals := make([]float64, len(today))
	for i, p := range today {
		totals[i] = p.Total
	}
	sort.Float64s(totals)
	for i, total := range totals {
		if total >= current.Total {
			return i + 1
		}
	}
	return len(totals)
}
