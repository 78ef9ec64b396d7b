package tibber

import (
	"fmt"
	"strings"
	"time"
)

// Resolution is the time-bucket granularity for aggregated energy data.
type Resolution string

const (
	ResolutionHourly  Resolution = "HOURLY"
	ResolutionDaily   Resolution = "DAILY"
	ResolutionWeekly  Resolution = "WEEKLY"
	ResolutionMonthly Resolution = "MONTHLY"
	ResolutionAnnual  Resolution = "ANNUAL"
)

// ParseResolution maps a case-insensitive resolution name to the value
// the upstream API accepts.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(strings.ToUpper(s)) {
	case ResolutionHourly, ResolutionDaily, ResolutionWeekly, ResolutionMonthly, ResolutionAnnual:
		return Resolution(strings.ToUpper(s)), nil
	}
	return "", fmt.Errorf("invalid resolution %q (expected HOURLY, DAILY, WEEKLY, MONTHLY or ANNUAL)", s)
}

// Address is a home's street address as registered with Tibber.
type Address struct {
	Address1   string `json:"address1"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// MeteringPointData describes the grid registration of a home's meter.
type MeteringPointData struct {
	ConsumptionEAN             string   `json:"consumptionEan,omitempty"`
	ProductionEAN              string   `json:"productionEan,omitempty"`
	GridCompany                string   `json:"gridCompany,omitempty"`
	EstimatedAnnualConsumption *float64 `json:"estimatedAnnualConsumption,omitempty"`
	EnergyTaxType              string   `json:"energyTaxType,omitempty"`
	VATType                    string   `json:"vatType,omitempty"`
}

// Features lists the capabilities enabled for a home.
type Features struct {
	RealTimeConsumptionEnabled bool `json:"realTimeConsumptionEnabled"`
}

// Subscription is the home's current Tibber subscription, if any.
type Subscription struct {
	Status string `json:"status,omitempty"`
}

// Home is a metering location registered under the account the access
// token belongs to. Fields mirror the upstream response and are passed
// through to tool results unmodified.
type Home struct {
	ID                  string            `json:"id"`
	AppNickname         string            `json:"appNickname,omitempty"`
	Address             Address           `json:"address"`
	MeteringPointData   MeteringPointData `json:"meteringPointData"`
	Features            *Features         `json:"features,omitempty"`
	CurrentSubscription *Subscription     `json:"currentSubscription,omitempty"`
}

// HasRealTime reports whether the home can deliver live measurements.
func (h *Home) HasRealTime() bool {
	return h.Features != nil && h.Features.RealTimeConsumptionEnabled
}

// HasProduction reports whether the home has a registered production
// metering point (solar or other feed-in).
func (h *Home) HasProduction() bool {
	return h.MeteringPointData.ProductionEAN != ""
}

// ConsumptionRecord is one time bucket of consumed energy. Quantity and
// cost are pointers because the upstream reports null for buckets that
// are not yet settled.
type ConsumptionRecord struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Consumption     *float64  `json:"consumption"`
	ConsumptionUnit string    `json:"consumptionUnit,omitempty"`
	Cost            *float64  `json:"cost"`
	UnitPrice       *float64  `json:"unitPrice,omitempty"`
	UnitPriceVAT    *float64  `json:"unitPriceVAT,omitempty"`
	Currency        string    `json:"currency,omitempty"`
}

// ProductionRecord is one time bucket of produced energy.
type ProductionRecord struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Production     *float64  `json:"production"`
	ProductionUnit string    `json:"productionUnit,omitempty"`
	Profit         *float64  `json:"profit"`
	Currency       string    `json:"currency,omitempty"`
}

// PricePoint is one published electricity price for a given hour.
type PricePoint struct {
	Total    float64   `json:"total"`
	Energy   float64   `json:"energy"`
	Tax      float64   `json:"tax"`
	StartsAt time.Time `json:"startsAt"`
	Level    string    `json:"level,omitempty"`
	Currency string    `json:"currency,omitempty"`
}

// PriceInfo is the snapshot of currently known prices for a home:
// the current hour plus today's and (when published) tomorrow's points,
// in upstream (ascending) order. Tomorrow is empty until the exchange
// publishes next-day prices, which is a normal condition.
type PriceInfo struct {
	Current  *PricePoint  `json:"current,omitempty"`
	Today    []PricePoint `json:"today"`
	Tomorrow []PricePoint `json:"tomorrow"`
}

// LiveMeasurement is a single instantaneous reading from a home with
// live metering. Optional phases and factors are pointers; meters
// report only what their hardware supports.
type LiveMeasurement struct {
	Timestamp              time.Time `json:"timestamp"`
	Power                  float64   `json:"power"`
	AveragePower           *float64  `json:"averagePower,omitempty"`
	MinPower               *float64  `json:"minPower,omitempty"`
	MaxPower               *float64  `json:"maxPower,omitempty"`
	AccumulatedConsumption *float64  `json:"accumulatedConsumption,omitempty"`
	AccumulatedCost        *float64  `json:"accumulatedCost,omitempty"`
	Currency               string    `json:"currency,omitempty"`
	VoltagePhase1          *float64  `json:"voltagePhase1,omitempty"`
	VoltagePhase2          *float64  `json:"voltagePhase2,omitempty"`
	VoltagePhase3          *float64  `json:"voltagePhase3,omitempty"`
	CurrentL1              *float64  `json:"currentL1,omitempty"`
	CurrentL2              *float64  `json:"currentL2,omitempty"`
	CurrentL3              *float64  `json:"currentL3,omitempty"`
	PowerFactor            *float64  `json:"powerFactor,omitempty"`
	SignalStrength         *int      `json:"signalStrength,omitempty"`
}
