package tibber

import (
	"encoding/base64"
	"time"
)

// GraphQL documents sent to the upstream query endpoint. Field
// selections mirror the record types in models.go so responses decode
// directly into them.

const homesQuery = `query {
  viewer {
    homes {
      id
      appNickname
      address { address1 postalCode city country }
      meteringPointData { consumptionEan productionEan gridCompany estimatedAnnualConsumption energyTaxType vatType }
      features { realTimeConsumptionEnabled }
      currentSubscription { status }
    }
  }
}`

const homeQuery = `query ($homeId: ID!) {
  viewer {
    home(id: $homeId) {
      id
      appNickname
      address { address1 postalCode city country }
      meteringPointData { consumptionEan productionEan gridCompany estimatedAnnualConsumption energyTaxType vatType }
      features { realTimeConsumptionEnabled }
      currentSubscription { status }
    }
  }
}`

const consumptionQuery = `query ($homeId: ID!, $resolution: EnergyResolution!, $last: Int!) {
  viewer {
    home(id: $homeId) {
      consumption(resolution: $resolution, last: $last) {
        nodes { from to consumption consumptionUnit cost unitPrice unitPriceVAT currency }
      }
    }
  }
}`

const consumptionAfterQuery = `query ($homeId: ID!, $resolution: EnergyResolution!, $first: Int!, $after: String!) {
  viewer {
    home(id: $homeId) {
      consumption(resolution: $resolution, first: $first, after: $after) {
        nodes { from to consumption consumptionUnit cost unitPrice unitPriceVAT currency }
      }
    }
  }
}`

const productionQuery = `query ($homeId: ID!, $resolution: EnergyResolution!, $last: Int!) {
  viewer {
    home(id: $homeId) {
      production(resolution: $resolution, last: $last) {
        nodes { from to production productionUnit profit currency }
      }
    }
  }
}`

const productionAfterQuery = `query ($homeId: ID!, $resolution: EnergyResolution!, $first: Int!, $after: String!) {
  viewer {
    home(id: $homeId) {
      production(resolution: $resolution, first: $first, after: $after) {
        nodes { from to production productionUnit profit currency }
      }
    }
  }
}`

const priceInfoQuery = `query ($homeId: ID!) {
  viewer {
    home(id: $homeId) {
      currentSubscription {
        priceInfo {
          current { total energy tax startsAt level currency }
          today { total energy tax startsAt level currency }
          tomorrow { total energy tax startsAt level currency }
        }
      }
    }
  }
}`

const liveMeasurementSubscription = `subscription ($homeId: ID!) {
  liveMeasurement(homeId: $homeId) {
    timestamp
    power
    averagePower
    minPower
    maxPower
    accumulatedConsumption
    accumulatedCost
    currency
    voltagePhase1
    voltagePhase2
    voltagePhase3
    currentL1
    currentL2
    currentL3
    powerFactor
    signalStrength
  }
}`

// historyCursor encodes the pagination cursor the upstream expects: the
// base64 of an RFC3339 timestamp naming the bucket to start after.
func historyCursor(t time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(t.Format(time.RFC3339)))
}
