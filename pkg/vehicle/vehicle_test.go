package vehicle

import "testing"

// TestParseType tests vehicle type parsing from config strings.
func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Type
		wantErr bool
	}{
		{name: "passenger", input: "passenger", want: TypePassenger},
		{name: "truck", input: "truck", want: TypeTruck},
		{name: "undefined", input: "undefined", want: TypeUndefined},
		{name: "case insensitive", input: "Truck", want: TypeTruck},
		{name: "unknown", input: "bicycle", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestVehicle_Defaults tests a freshly created vehicle.
func TestVehicle_Defaults(t *testing.T) {
	v := New(TypePassenger, 27.77)

	if v.ID().String() == "" {
		t.Error("expected non-empty vehicle ID")
	}
	if v.VehicleType() != TypePassenger {
		t.Errorf("VehicleType() = %v, want %v", v.VehicleType(), TypePassenger)
	}
	if v.SpeedMax() != 27.77 {
		t.Errorf("SpeedMax() = %v, want 27.77", v.SpeedMax())
	}
	if got := v.Position(); got.X != 0 || got.Y != 0 {
		t.Errorf("Position() = %v, want origin", got)
	}
	if v.Classification() != "" {
		t.Errorf("Classification() = %q, want empty", v.Classification())
	}
}

// TestVehicle_NegativeSpeedClamped tests that a negative max speed is clamped.
func TestVehicle_NegativeSpeedClamped(t *testing.T) {
	v := New(TypeTruck, -5)
	if v.SpeedMax() != 0 {
		t.Errorf("SpeedMax() = %v, want 0", v.SpeedMax())
	}
}

// TestVehicle_SetClassification tests the single mutator rules are allowed to use.
func TestVehicle_SetClassification(t *testing.T) {
	v := New(TypeTruck, 22.2)

	v.SetClassification("custom2")
	if v.Classification() != "custom2" {
		t.Errorf("Classification() = %q, want custom2", v.Classification())
	}

	// Later writes win.
	v.SetClassification("custom1")
	if v.Classification() != "custom1" {
		t.Errorf("Classification() = %q, want custom1", v.Classification())
	}
}

// TestVehicle_SetPosition tests telemetry refresh of the position.
func TestVehicle_SetPosition(t *testing.T) {
	v := New(TypePassenger, 30)
	v.SetPosition(Position{X: 42, Y: 1})

	if got := v.Position(); got.X != 42 || got.Y != 1 {
		t.Errorf("Position() = %v, want (42, 1)", got)
	}
}

// TestVehicle_UniqueIDs tests that spawned vehicles get distinct identifiers.
func TestVehicle_UniqueIDs(t *testing.T) {
	a := New(TypePassenger, 30)
	b := New(TypePassenger, 30)
	if a.ID() == b.ID() {
		t.Error("expected distinct vehicle IDs")
	}
}
