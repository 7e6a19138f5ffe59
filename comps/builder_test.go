package comps

import (
	"testing"

	"github.com/ttpr0/go-raptor/structs"
)

// buildSingleRoute assembles the S1-shaped fixture: three stop-points
// A, B, C on one route, one vehicle journey 08:00 -> 08:10 -> 08:20.
func buildSingleRoute(t *testing.T) (*TransitData, structs.RouteID, []structs.RoutePointID) {
	t.Helper()
	b := NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	spC := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)
	route, rps := b.AddRoute(0, 0, "L1", []structs.StopPointID{spA, spB, spC})
	b.AddVehicleJourney(route, vp, []StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 10*60, Departure: 8*3600 + 10*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 20*60, Departure: 8*3600 + 20*60, PickUp: true, DropOff: true},
	})
	return b.Build(), route, rps
}

func TestEarliestTripFindsBoardableJourney(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	after := structs.NewDateTime(1, 7*3600+30*60)
	vj, ok := data.EarliestTrip(data.GetRoute(route), 0, after)
	if !ok {
		t.Fatalf("expected a trip")
	}
	st := data.StopTimeAt(vj, 0)
	if st.DepartureTime != 8*3600 {
		t.Fatalf("expected 08:00 departure, got %d", st.DepartureTime)
	}
}

// TestEarliestTripRejectsTooLate queries just after the only trip has
// left on day 2, the last day the fixture's pattern runs; EarliestTrip
// also looks at the next day, so an earlier day would still catch the
// following morning's trip.
func TestEarliestTripRejectsTooLate(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	after := structs.NewDateTime(2, 8*3600+1)
	if _, ok := data.EarliestTrip(data.GetRoute(route), 0, after); ok {
		t.Fatalf("expected no boardable trip after departure")
	}
}

func TestTardiestTripFindsBoardableJourney(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	before := structs.NewDateTime(1, 9*3600)
	vj, ok := data.TardiestTrip(data.GetRoute(route), 2, before)
	if !ok {
		t.Fatalf("expected a trip")
	}
	st := data.StopTimeAt(vj, 2)
	if st.ArrivalTime != 8*3600+20*60 {
		t.Fatalf("expected 08:20 arrival, got %d", st.ArrivalTime)
	}
}

func TestRoutesValidRespectsValidityPattern(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	valid := data.RoutesValid(structs.NewDateTime(1, 7*3600), nil)
	if !valid.Get(int32(route)) {
		t.Fatalf("route should be valid on day 1")
	}
	invalid := data.RoutesValid(structs.NewDateTime(10, 7*3600), nil)
	if invalid.Get(int32(route)) {
		t.Fatalf("route should not be valid far outside its pattern")
	}
}

func TestRoutesValidRespectsForbiddenFilter(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	forbidden := NewForbiddenFilter([]structs.ForbiddenEntry{
		{Kind: structs.ForbiddenRoute, Code: "L1"},
	})
	valid := data.RoutesValid(structs.NewDateTime(1, 7*3600), forbidden)
	if valid.Get(int32(route)) {
		t.Fatalf("forbidden route must be excluded")
	}
}

func TestForbiddenFilterLineResolver(t *testing.T) {
	filter := NewForbiddenFilter([]structs.ForbiddenEntry{
		{Kind: structs.ForbiddenLine, Code: "red"},
	})
	filter.LineOf = func(r *structs.Route) string { return "red" }
	route := &structs.Route{ExternalCode: "L1"}
	if !filter.RouteForbidden(route) {
		t.Fatalf("expected route on forbidden line to be excluded")
	}
}

func TestLineCodeAndModeCodeResolveRegisteredIndices(t *testing.T) {
	b := NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	lineL1 := b.AddLine("L1")
	modeBus := b.AddMode("bus")
	b.AddRoute(lineL1, modeBus, "L1", []structs.StopPointID{spA, spB})
	data := b.Build()

	if code := data.LineCode(lineL1); code != "L1" {
		t.Fatalf("expected line code L1, got %q", code)
	}
	if code := data.ModeCode(modeBus); code != "bus" {
		t.Fatalf("expected mode code bus, got %q", code)
	}
}

func TestLineCodeUnregisteredIndexIsEmpty(t *testing.T) {
	data, route, _ := buildSingleRoute(t)
	if code := data.LineCode(data.GetRoute(route).LineIdx); code != "" {
		t.Fatalf("expected empty line code for unregistered index, got %q", code)
	}
}
