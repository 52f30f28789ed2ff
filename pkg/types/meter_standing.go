package types

import "time"

// MeterStanding holds the cumulative registers of a single smart meter telegram.
type MeterStanding struct {
	Timestamp time.Time `json:"timestamp"`

	// Electricity registers
	ConsumptionDayKWH   float64 `json:"consumption_day_kwh"`
	ConsumptionNightKWH float64 `json:"consumption_night_kwh"`
	ProductionDayKWH    float64 `json:"production_day_kwh"`
	ProductionNightKWH  float64 `json:"production_night_kwh"`

	// Gas
	GasM3 float64 `json:"gas_m3"`
}

// Feed names under which the registers of a standing are stored.
const (
	FeedConsumptionDay   = "consumption_day"
	FeedConsumptionNight = "consumption_night"
	FeedProductionDay    = "production_day"
	FeedProductionNight  = "production_night"
	FeedGas              = "gas"
)

// Registers maps every electricity register to its feed name.
func (m MeterStanding) Registers() map[string]float64 {
	return map[string]float64{
		FeedConsumptionDay:   m.ConsumptionDayKWH,
		FeedConsumptionNight: m.ConsumptionNightKWH,
		FeedProductionDay:    m.ProductionDayKWH,
		FeedProductionNight:  m.ProductionNightKWH,
	}
}
