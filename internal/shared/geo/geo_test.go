package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Wellington CBD to Petone foreshore, roughly 10-12 km
	d := HaversineKm(-41.2865, 174.7762, -41.2276, 174.8705)
	if d < 8 || d > 14 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestPathLengthKm(t *testing.T) {
	if PathLengthKm(nil) != 0 {
		t.Fatalf("expected zero for empty path")
	}
	if PathLengthKm([]Point{Wellington}) != 0 {
		t.Fatalf("expected zero for single point")
	}
	path := []Point{{Lat: -41.2865, Lng: 174.7762}, {Lat: -41.2276, Lng: 174.8705}, {Lat: -41.2865, Lng: 174.7762}}
	leg := HaversineKm(path[0].Lat, path[0].Lng, path[1].Lat, path[1].Lng)
	got := PathLengthKm(path)
	if got < 2*leg-0.001 || got > 2*leg+0.001 {
		t.Fatalf("expected out-and-back length, got %v", got)
	}
}

func TestPointValid(t *testing.T) {
	if !Wellington.Valid() {
		t.Fatalf("expected wellington valid")
	}
	if (Point{Lat: 91}).Valid() || (Point{Lng: -181}).Valid() {
		t.Fatalf("expected out of range")
	}
}
