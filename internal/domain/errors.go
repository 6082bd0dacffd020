package domain

import "errors"

// Planning failure signals. Callers match them with errors.Is.
var (
	ErrNoRoute             = errors.New("no route between start and end")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNoChargingStation   = errors.New("no charging station available for required stop")
	ErrInvalidVehicle      = errors.New("invalid vehicle parameters")
	ErrInvalidSOC          = errors.New("state of charge must be within [0, 100]")
	ErrVehicleNotFound     = errors.New("vehicle not found")
)

// ErrorCode returns the wire name of a planning failure, or "" for unknown errors.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNoRoute):
		return "NoRoute"
	case errors.Is(err, ErrNoChargingStation):
		return "NoChargingStation"
	case errors.Is(err, ErrInvalidVehicle):
		return "InvalidVehicle"
	case errors.Is(err, ErrInvalidSOC):
		return "InvalidSOC"
	case errors.Is(err, ErrVehicleNotFound):
		return "VehicleNotFound"
	case errors.Is(err, ErrProviderUnavailable):
		return "ProviderUnavailable"
	}
	return ""
}
