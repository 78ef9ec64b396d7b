package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corroleaus/tibber-mcp/tibber"
	"github.com/corroleaus/tibber-mcp/tools"
)

func execute(t *testing.T, tool tools.Tool, args string) (*tools.Result, error) {
	t.Helper()
	var raw json.RawMessage
	if args != "" {
		raw = json.RawMessage(args)
	}
	return tool.Execute(context.Background(), raw)
}

func requireInvalidParams(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var toolErr *tools.Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, tools.CodeInvalidParams, toolErr.Code)
}

func homeFixture(id string, realtime, production bool) *tibber.Home {
	home := &tibber.Home{
		ID:       id,
		Address:  tibber.Address{Address1: "Fjellveien 1", City: "Oslo", Country: "NO"},
		Features: &tibber.Features{RealTimeConsumptionEnabled: realtime},
	}
	if production {
		home.MeteringPointData.ProductionEAN = "7054321"
	}
	return home
}

func f(v float64) *float64 { return &v }

func TestToolsRegistersAllSeven(t *testing.T) {
	all := Tools(&tibber.Mock{}, slog.Default())
	require.Len(t, all, 7)

	names := make(map[string]bool)
	for _, tool := range all {
		require.NoError(t, tools.Validate(tool))
		names[tool.Spec().Name] = true
	}
	for _, want := range []string{
		"list-homes", "get-consumption", "get-production", "get-price-info",
		"get-realtime", "get-historic", "get-price-forecast",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
}

func TestListHomes(t *testing.T) {
	api := &tibber.Mock{
		HomesFunc: func(ctx context.Context) ([]tibber.Home, error) {
			return []tibber.Home{*homeFixture("h1", true, false), *homeFixture("h2", false, true)}, nil
		},
	}

	result, err := execute(t, NewListHomesTool(api, slog.Default()), "")
	require.NoError(t, err)

	output := result.Output.(ListHomesResult)
	require.Len(t, output.Homes, 2)
	assert.Equal(t, "h1", output.Homes[0].ID)
	assert.True(t, output.Homes[0].HasRealTimeConsumption)
	assert.False(t, output.Homes[0].HasProduction)
	assert.True(t, output.Homes[1].HasProduction)
}

func TestGetConsumptionPassThrough(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fixture := make([]tibber.ConsumptionRecord, 0, 24)
	for i := 0; i < 24; i++ {
		fixture = append(fixture, tibber.ConsumptionRecord{
			From:        base.Add(time.Duration(i) * time.Hour),
			To:          base.Add(time.Duration(i+1) * time.Hour),
			Consumption: f(0.5 + float64(i)*0.1),
			Cost:        f(0.2),
			Currency:    "NOK",
		})
	}

	var gotQuery tibber.SeriesQuery
	api := &tibber.Mock{
		ConsumptionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ConsumptionRecord, error) {
			gotQuery = q
			return fixture, nil
		},
	}

	result, err := execute(t, NewConsumptionTool(api, slog.Default()),
		`{"home_id":"h1","resolution":"hourly","count":24}`)
	require.NoError(t, err)

	assert.Equal(t, tibber.SeriesQuery{HomeID: "h1", Resolution: tibber.ResolutionHourly, Count: 24}, gotQuery)

	output := result.Output.(ConsumptionResult)
	require.Len(t, output.Records, 24)
	for i, rec := range output.Records {
		assert.True(t, rec.From.Equal(fixture[i].From), "record %d out of order", i)
		assert.Equal(t, *fixture[i].Consumption, *rec.Consumption)
	}
}

func TestGetConsumptionDefaults(t *testing.T) {
	var gotQuery tibber.SeriesQuery
	api := &tibber.Mock{
		ConsumptionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ConsumptionRecord, error) {
			gotQuery = q
			return nil, nil
		},
	}

	result, err := execute(t, NewConsumptionTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)
	assert.Equal(t, tibber.ResolutionHourly, gotQuery.Resolution)
	assert.Equal(t, defaultCount, gotQuery.Count)

	// No data is an empty result, not an error.
	output := result.Output.(ConsumptionResult)
	require.NotNil(t, output.Records)
	assert.Empty(t, output.Records)
}

func TestGetConsumptionValidation(t *testing.T) {
	api := &tibber.Mock{
		ConsumptionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ConsumptionRecord, error) {
			t.Fatal("no upstream call expected for invalid arguments")
			return nil, nil
		},
	}
	tool := NewConsumptionTool(api, slog.Default())

	_, err := execute(t, tool, `{}`)
	requireInvalidParams(t, err)

	_, err = execute(t, tool, `{"home_id":"h1","resolution":"fortnightly"}`)
	requireInvalidParams(t, err)

	_, err = execute(t, tool, `{"home_id":"h1","count":-3}`)
	requireInvalidParams(t, err)

	_, err = execute(t, tool, `{"home_id":123}`)
	requireInvalidParams(t, err)
}

func TestGetConsumptionUpstreamError(t *testing.T) {
	api := &tibber.Mock{
		ConsumptionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ConsumptionRecord, error) {
			return nil, tibber.ErrUnauthorized
		},
	}

	_, err := execute(t, NewConsumptionTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.ErrorIs(t, err, tibber.ErrUnauthorized)
}

func TestGetProductionWithoutCapability(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return homeFixture(id, false, false), nil
		},
		ProductionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ProductionRecord, error) {
			t.Fatal("no production query expected for an incapable home")
			return nil, nil
		},
	}

	result, err := execute(t, NewProductionTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(ProductionResult)
	assert.False(t, output.Available)
	assert.NotEmpty(t, output.Reason)
}

func TestGetProduction(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return homeFixture(id, false, true), nil
		},
		ProductionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ProductionRecord, error) {
			return []tibber.ProductionRecord{{
				From:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				Production: f(1.2),
				Profit:     f(0.8),
			}}, nil
		},
	}

	result, err := execute(t, NewProductionTool(api, slog.Default()), `{"home_id":"h2"}`)
	require.NoError(t, err)

	output := result.Output.(ProductionResult)
	assert.True(t, output.Available)
	require.Len(t, output.Records, 1)
	assert.Equal(t, 1.2, *output.Records[0].Production)
}

func TestGetProductionUnknownHome(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return nil, tibber.ErrNotFound
		},
	}

	_, err := execute(t, NewProductionTool(api, slog.Default()), `{"home_id":"nope"}`)
	require.ErrorIs(t, err, tibber.ErrNotFound)
}

func TestGetRealtimeUnavailable(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return homeFixture(id, false, false), nil
		},
		LiveMeasurementFunc: func(ctx context.Context, homeID string) (*tibber.LiveMeasurement, error) {
			t.Fatal("no subscription expected for an incapable home")
			return nil, nil
		},
	}

	result, err := execute(t, NewRealtimeTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(RealtimeResult)
	assert.False(t, output.Available)
	assert.Contains(t, output.Reason, "real-time")
	assert.Nil(t, output.Measurement)
}

func TestGetRealtime(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return homeFixture(id, true, false), nil
		},
		LiveMeasurementFunc: func(ctx context.Context, homeID string) (*tibber.LiveMeasurement, error) {
			return &tibber.LiveMeasurement{
				Timestamp: time.Date(2024, 3, 1, 10, 15, 3, 0, time.UTC),
				Power:     1320,
			}, nil
		},
	}

	result, err := execute(t, NewRealtimeTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(RealtimeResult)
	assert.True(t, output.Available)
	require.NotNil(t, output.Measurement)
	assert.Equal(t, 1320.0, output.Measurement.Power)
}

func TestGetHistoricStartDate(t *testing.T) {
	var gotQuery tibber.SeriesQuery
	api := &tibber.Mock{
		ConsumptionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ConsumptionRecord, error) {
			gotQuery = q
			return nil, nil
		},
	}
	tool := NewHistoricTool(api, slog.Default())

	result, err := execute(t, tool, `{"home_id":"h1","resolution":"DAILY","count":7,"start_date":"2024-02-01"}`)
	require.NoError(t, err)

	assert.Equal(t, tibber.ResolutionDaily, gotQuery.Resolution)
	assert.Equal(t, 7, gotQuery.Count)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), gotQuery.StartAt)

	output := result.Output.(HistoricResult)
	assert.Equal(t, "consumption", output.Series)
	assert.True(t, output.Available)

	_, err = execute(t, tool, `{"home_id":"h1","start_date":"02/01/2024"}`)
	requireInvalidParams(t, err)
}

func TestGetHistoricProduction(t *testing.T) {
	api := &tibber.Mock{
		HomeFunc: func(ctx context.Context, id string) (*tibber.Home, error) {
			return homeFixture(id, false, true), nil
		},
		ProductionFunc: func(ctx context.Context, q tibber.SeriesQuery) ([]tibber.ProductionRecord, error) {
			return []tibber.ProductionRecord{{Production: f(2.5)}}, nil
		},
	}

	result, err := execute(t, NewHistoricTool(api, slog.Default()), `{"home_id":"h2","production":true}`)
	require.NoError(t, err)

	output := result.Output.(HistoricResult)
	assert.Equal(t, "production", output.Series)
	assert.True(t, output.Available)
	require.Len(t, output.Production, 1)
	assert.Empty(t, output.Consumption)
}

func TestGetPriceInfo(t *testing.T) {
	today := []tibber.PricePoint{
		{Total: 0.40, StartsAt: time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC), Level: "CHEAP"},
		{Total: 0.90, StartsAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Level: "NORMAL"},
		{Total: 1.40, StartsAt: time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC), Level: "EXPENSIVE"},
	}
	api := &tibber.Mock{
		PriceInfoFunc: func(ctx context.Context, homeID string) (*tibber.PriceInfo, error) {
			return &tibber.PriceInfo{
				Current:  &today[1],
				Today:    today,
				Tomorrow: []tibber.PricePoint{},
			}, nil
		},
	}

	result, err := execute(t, NewPriceInfoTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(PriceInfoResult)
	require.NotNil(t, output.Current)
	assert.Equal(t, 0.90, output.Current.Total)
	assert.Equal(t, 2, output.RankToday)

	require.NotNil(t, output.Stats)
	assert.Equal(t, 0.40, output.Stats.Min)
	assert.Equal(t, 1.40, output.Stats.Max)
	assert.InDelta(t, 0.90, output.Stats.Avg, 1e-9)
	assert.InDelta(t, 0.40, output.Stats.Night, 1e-9)
	assert.InDelta(t, 0.90, output.Stats.Day, 1e-9)
	assert.InDelta(t, 1.40, output.Stats.Evening, 1e-9)
}

func TestGetPriceForecastTomorrowUnpublished(t *testing.T) {
	api := &tibber.Mock{
		PriceInfoFunc: func(ctx context.Context, homeID string) (*tibber.PriceInfo, error) {
			return &tibber.PriceInfo{
				Today:    []tibber.PricePoint{{Total: 0.95, StartsAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}},
				Tomorrow: []tibber.PricePoint{},
			}, nil
		},
	}

	result, err := execute(t, NewPriceForecastTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(PriceForecastResult)
	assert.Len(t, output.Today, 1)
	require.NotNil(t, output.Tomorrow)
	assert.Empty(t, output.Tomorrow)
}

func TestGetPriceForecastBothDays(t *testing.T) {
	today := []tibber.PricePoint{{Total: 0.95, StartsAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}}
	tomorrow := []tibber.PricePoint{
		{Total: 0.80, StartsAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Total: 0.85, StartsAt: time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)},
	}
	api := &tibber.Mock{
		PriceInfoFunc: func(ctx context.Context, homeID string) (*tibber.PriceInfo, error) {
			return &tibber.PriceInfo{Today: today, Tomorrow: tomorrow}, nil
		},
	}

	result, err := execute(t, NewPriceForecastTool(api, slog.Default()), `{"home_id":"h1"}`)
	require.NoError(t, err)

	output := result.Output.(PriceForecastResult)
	require.Len(t, output.Tomorrow, 2)
	assert.True(t, output.Tomorrow[0].StartsAt.Before(output.Tomorrow[1].StartsAt))
}

func TestPriceRank(t *testing.T) {
	today := []tibber.PricePoint{{Total: 0.5}, {Total: 0.3}, {Total: 0.9}, {Total: 0.7}}

	assert.Equal(t, 1, priceRank(tibber.PricePoint{Total: 0.3}, today))
	assert.Equal(t, 4, priceRank(tibber.PricePoint{Total: 0.9}, today))
	assert.Equal(t, 3, priceRank(tibber.PricePoint{Total: 0.7}, today))
	assert.Equal(t, 0, priceRank(tibber.PricePoint{Total: 0.7}, nil))
}

func TestHandlerErrorWrapping(t *testing.T) {
	wantErr := errors.New("connection refused")
	api := &tibber.Mock{
		HomesFunc: func(ctx context.Context) ([]tibber.Home, error) {
			return nil, wantErr
		},
	}

	_, err := execute(t, NewListHomesTool(api, slog.Default()), "")
	require.ErrorIs(t, err, wantErr)
}
