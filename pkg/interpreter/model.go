package interpreter

import (
	"encoding/json"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
)

// RawMeterReading is the JSON message broadcast by the interpreter API on /ws.
// Only the cumulative registers are decoded; live kW values are ignored.
type RawMeterReading struct {
	Timestamp string `json:"timestamp"`

	// Totals
	TotalConsumptionDayKWH   float64 `json:"total_consumption_day_kwh"`
	TotalConsumptionNightKWH float64 `json:"total_consumption_night_kwh"`
	TotalProductionDayKWH    float64 `json:"total_production_day_kwh"`
	TotalProductionNightKWH  float64 `json:"total_production_night_kwh"`

	// Gas
	GasConsumptionM3 float64 `json:"gas_consumption_m3"`
}

func (r *RawMeterReading) ToJsonBytes() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}

// Returns nil when the message is not a meter reading.
func MeterReadingFromJsonBytes(data []byte) *RawMeterReading {
	var reading RawMeterReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil
	}
	if reading.Timestamp == "" {
		return nil
	}
	return &reading
}

// Standing converts the reading into meter standings. The timestamp must be RFC 3339.
func (r *RawMeterReading) Standing() (*types.MeterStanding, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return nil, err
	}
	return &types.MeterStanding{
		Timestamp:           ts,
		ConsumptionDayKWH:   r.TotalConsumptionDayKWH,
		ConsumptionNightKWH: r.TotalConsumptionNightKWH,
		ProductionDayKWH:    r.TotalProductionDayKWH,
		ProductionNightKWH:  r.TotalProductionNightKWH,
		GasM3:               r.GasConsumptionM3,
	}, nil
}
