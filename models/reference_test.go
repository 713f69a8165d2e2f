package models

import "testing"

func TestComplexCoordinates(t *testing.T) {
	cx := &Complex{Details: map[string]any{
		"map.lat": 43.2389,
		"map.lon": 76.9454,
	}}

	if lat := cx.Lat(); lat == nil || *lat != 43.2389 {
		t.Fatalf("unexpected lat %v", lat)
	}
	if lon := cx.Lon(); lon == nil || *lon != 76.9454 {
		t.Fatalf("unexpected lon %v", lon)
	}
}

func TestComplexCoordinates_IntValues(t *testing.T) {
	cx := &Complex{Details: map[string]any{"map.lat": 43, "map.lon": 76}}

	if lat := cx.Lat(); lat == nil || *lat != 43 {
		t.Fatalf("unexpected lat %v", lat)
	}
}

func TestComplexCoordinates_Missing(t *testing.T) {
	cx := &Complex{}
	if cx.Lat() != nil || cx.Lon() != nil {
		t.Fatal("expected nil coordinates without details")
	}

	cx = &Complex{Details: map[string]any{"map.lat": "broken"}}
	if cx.Lat() != nil {
		t.Fatal("expected nil for non-numeric value")
	}
}
