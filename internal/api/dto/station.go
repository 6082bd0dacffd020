package dto

type StationResponse struct {
	ID      int     `json:"ocm_id"`
	Name    string  `json:"name"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	PowerKW float64 `json:"power_kw"`
	Network string  `json:"network,omitempty"`
}

type ListStationsResponse struct {
	Count int               `json:"count"`
	Items []StationResponse `json:"items"`
}
