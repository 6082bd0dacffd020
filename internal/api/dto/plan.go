package dto

// Vehicle parameters supplied inline with a planning request.
type VehicleParams struct {
	BatteryKWh          float64 `json:"battery_kwh"`
	ConsumptionKmPerSOC float64 `json:"consumption_km_per_soc"`
	ChargeRateSOCPerMin float64 `json:"charge_rate_soc_per_min"`
}

// PlanRequest accepts either an inline vehicle or a stored vehicle_id.
type PlanRequest struct {
	Start      []float64      `json:"start"`
	End        []float64      `json:"end"`
	StartSOC   *float64       `json:"start_soc"`
	ArrivalSOC *float64       `json:"arrival_soc"`
	Vehicle    *VehicleParams `json:"vehicle"`
	VehicleID  *int           `json:"vehicle_id"`
}

type PlanSummary struct {
	DriveMin     float64 `json:"drive_min"`
	ChargeMin    float64 `json:"charge_min"`
	TotalTimeMin float64 `json:"total_time_min"`
}

type PlanVariantResponse struct {
	Summary *PlanSummary      `json:"summary,omitempty"`
	Route   *LineString       `json:"route,omitempty"`
	Stops   []StationResponse `json:"stops,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type PlanResponse struct {
	Fastest        PlanVariantResponse `json:"fastest"`
	Cheapest       PlanVariantResponse `json:"cheapest"`
	Decision       string              `json:"decision,omitempty"`
	StationsStatus string              `json:"stations_status,omitempty"`
	QueryID        int64               `json:"query_id,omitempty"`
}
