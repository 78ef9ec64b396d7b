package tibber

import "context"

// Mock implements API with overridable functions, for handler tests.
// Calls without a configured function return zero values.
type Mock struct {
	HomesFunc           func(ctx context.Context) ([]Home, error)
	HomeFunc            func(ctx context.Context, id string) (*Home, error)
	ConsumptionFunc     func(ctx context.Context, q SeriesQuery) ([]ConsumptionRecord, error)
	ProductionFunc      func(ctx context.Context, q SeriesQuery) ([]ProductionRecord, error)
	PriceInfoFunc       func(ctx context.Context, homeID string) (*PriceInfo, error)
	LiveMeasurementFunc func(ctx context.Context, homeID string) (*LiveMeasurement, error)
}

var _ API = (*Mock)(nil)

func (m *Mock) Homes(ctx context.Context) ([]Home, error) {
	if m.HomesFunc == nil {
		return nil, nil
	}
	return m.HomesFunc(ctx)
}

func (m *Mock) Home(ctx context.Context, id string) (*Home, error) {
	if m.HomeFunc == nil {
		return nil, nil
	}
	return m.HomeFunc(ctx, id)
}

func (m *Mock) Consumption(ctx context.Context, q SeriesQuery) ([]ConsumptionRecord, error) {
	if m.ConsumptionFunc == nil {
		return nil, nil
	}
	return m.ConsumptionFunc(ctx, q)
}

func (m *Mock) Production(ctx context.Context, q SeriesQuery) ([]ProductionRecord, error) {
	if m.ProductionFunc == nil {
		return nil, nil
	}
	return m.ProductionFunc(ctx, q)
}

func (m *Mock) PriceInfo(ctx context.Context, homeID string) (*PriceInfo, error) {
	if m.PriceInfoFunc == nil {
		return nil, nil
	}
	return m.PriceInfoFunc(ctx, homeID)
}

func (m *Mock) LiveMeasurement(ctx context.Context, homeID string) (*LiveMeasurement, error) {
	if m.LiveMeasurementFunc == nil {
		return nil, nil
	}
	return m.LiveMeasurementFunc(ctx, homeID)
}
