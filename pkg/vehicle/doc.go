// Package vehicle defines the vehicle snapshot contract consumed by the rule
// engine and the concrete vehicle record maintained by the simulation loop.
//
// A snapshot exposes read access to the attributes rules test against
// (vehicle type, maximum speed, position) and a single mutator for the
// overtaking-lane classification tag. Rules never modify anything else.
//
// # Core Types
//
// Snapshot: the read/write view the rule engine operates on
//
// Vehicle: the concrete record owned by the simulation loop
//
// Type: closed enumeration of vehicle types (passenger, truck, undefined)
//
// Position: two-component coordinate on the simulated road
package vehicle
