package vehicle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type represents the type of a simulated vehicle.
// The set of types is closed; rules match against exact members.
type Type string

const (
	// TypePassenger is a regular passenger car.
	TypePassenger Type = "passenger"

	// TypeTruck is a heavy goods vehicle.
	TypeTruck Type = "truck"

	// TypeUndefined is the zero value for vehicles whose type is unknown.
	TypeUndefined Type = "undefined"
)

// ParseType converts a case-insensitive string into a Type.
// It returns an error if the string names no known vehicle type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case TypePassenger:
		return TypePassenger, nil
	case TypeTruck:
		return TypeTruck, nil
	case TypeUndefined:
		return TypeUndefined, nil
	default:
		return TypeUndefined, fmt.Errorf("unknown vehicle type: %q", s)
	}
}

// Position is a two-component coordinate on the simulated road.
// X is the longitudinal position along the road, Y the lane index.
type Position struct {
	X float64
	Y float64
}

// String returns the position formatted as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Snapshot is the per-timestep view of a vehicle the rule engine consumes.
// Implementations expose read access to the attributes rules test against
// and exactly one mutator, SetClassification.
type Snapshot interface {
	// VehicleType returns the vehicle's type.
	VehicleType() Type

	// SpeedMax returns the vehicle's maximum speed in m/s. Non-negative.
	SpeedMax() float64

	// Position returns the vehicle's current position.
	Position() Position

	// SetClassification sets the vehicle-class tag that gates access to
	// the overtaking lane. The tag is one of the two opaque strings
	// produced by the rule engine's Behaviour mapping.
	SetClassification(tag string)
}

// Vehicle is the concrete vehicle record maintained by the simulation loop.
// It implements Snapshot. The loop refreshes its attributes from simulator
// telemetry before each dispatcher application and forwards the resulting
// classification back to the simulator afterwards.
type Vehicle struct {
	id             uuid.UUID
	vehicleType    Type
	speedMax       float64
	position       Position
	classification string
}

// New creates a vehicle with a fresh unique identifier.
// A negative speedMax is clamped to zero.
func New(vehicleType Type, speedMax float64) *Vehicle {
	if speedMax < 0 {
		speedMax = 0
	}
	return &Vehicle{
		id:          uuid.New(),
		vehicleType: vehicleType,
		speedMax:    speedMax,
	}
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() uuid.UUID {
	return v.id
}

// VehicleType returns the vehicle's type.
func (v *Vehicle) VehicleType() Type {
	return v.vehicleType
}

// SpeedMax returns the vehicle's maximum speed in m/s.
func (v *Vehicle) SpeedMax() float64 {
	return v.speedMax
}

// Position returns the vehicle's current position.
func (v *Vehicle) Position() Position {
	return v.position
}

// SetPosition updates the vehicle's position from simulator telemetry.
func (v *Vehicle) SetPosition(p Position) {
	v.position = p
}

// SetClassification sets the vehicle-class tag.
func (v *Vehicle) SetClassification(tag string) {
	v.classification = tag
}

// Classification returns the vehicle-class tag set by the last rule that
// applied to this vehicle, or the empty string if none has.
func (v *Vehicle) Classification() string {
	return v.classification
}

// String returns a compact description for logging.
func (v *Vehicle) String() string {
	return fmt.Sprintf("vehicle %s type=%s speed_max=%g position=%s class=%q",
		v.id, v.vehicleType, v.speedMax, v.position, v.classification)
}
