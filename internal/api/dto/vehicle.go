package dto

type VehicleResponse struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	BatteryKWh          float64 `json:"battery_kwh"`
	ConsumptionKmPerSOC float64 `json:"consumption_km_per_soc"`
	ChargeRateSOCPerMin float64 `json:"charge_rate_soc_per_min"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
