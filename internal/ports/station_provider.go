package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Raw station record as delivered by a station provider.
// Fields are optional; provider data is frequently partial.
type RawStation struct {
	ID           int
	AddressInfo  *RawAddress
	Connections  []RawConnection
	OperatorInfo *RawOperator
}

type RawAddress struct {
	Title     string
	Latitude  *float64
	Longitude *float64
}

type RawConnection struct {
	PowerKW *float64
}

type RawOperator struct {
	Title string
}

// Contract for looking up charging stations inside a bounding box.
type StationProvider interface {
	// Return up to maxResults raw records inside bbox, in provider order.
	StationsInBoundingBox(ctx context.Context, bbox domain.BoundingBox, maxResults int) ([]RawStation, error)
}
