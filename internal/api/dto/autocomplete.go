package dto

type PlaceResponse struct {
	Label string    `json:"label"`
	Coord []float64 `json:"coord"`
}
