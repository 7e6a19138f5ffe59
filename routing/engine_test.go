package routing

import (
	"testing"

	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// buildS1 is the distilled spec's scenario S1: 3 stop-points A, B, C on
// one route with one VJ departing A at 08:00, reaching B at 08:10, C at
// 08:20.
func buildS1(t *testing.T) (*comps.TransitData, structs.StopPointID, structs.StopPointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	spC := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)
	lineL1 := b.AddLine("L1")
	modeBus := b.AddMode("bus")
	route, _ := b.AddRoute(lineL1, modeBus, "L1", []structs.StopPointID{spA, spB, spC})
	b.AddVehicleJourney(route, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 10*60, Departure: 8*3600 + 10*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 20*60, Departure: 8*3600 + 20*60, PickUp: true, DropOff: true},
	})
	return b.Build(), spA, spC
}

func TestComputeAllSingleRouteNoTransfer(t *testing.T) {
	data, spA, spC := buildS1(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	dt := structs.NewDateTime(1, 7*3600+30*60)

	paths := engine.ComputeAll(departs, destinations, dt, nil)
	if len(paths) != 1 {
		t.Fatalf("expected exactly one path, got %d", len(paths))
	}
	path := paths[0]
	if len(path.Items) != 1 {
		t.Fatalf("expected one public_transport item, got %d", len(path.Items))
	}
	item := path.Items[0]
	if item.Type != structs.PublicTransport {
		t.Fatalf("expected a public_transport item, got %v", item.Type)
	}
	if path.NbChanges != 0 {
		t.Fatalf("expected zero changes, got %d", path.NbChanges)
	}
	if path.Duration != 50*60 {
		t.Fatalf("expected 50 minute duration, got %d seconds", path.Duration)
	}
}

// buildS2 is the distilled spec's scenario S2: two routes meeting at
// stop P via a 2-minute footpath.
func buildS2(t *testing.T) (*comps.TransitData, structs.StopPointID, structs.StopPointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spP := b.AddStopPoint()
	spP2 := b.AddStopPoint()
	spD := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)

	routeIn, _ := b.AddRoute(0, 0, "L1", []structs.StopPointID{spA, spP})
	b.AddVehicleJourney(routeIn, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 15*60, Departure: 8*3600 + 15*60, PickUp: true, DropOff: true},
	})

	routeOut, _ := b.AddRoute(1, 0, "L2", []structs.StopPointID{spP2, spD})
	b.AddVehicleJourney(routeOut, vp, []comps.StopTimeSpec{
		{Arrival: 8*3600 + 17*60, Departure: 8*3600 + 17*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 40*60, Departure: 8*3600 + 40*60, PickUp: true, DropOff: true},
	})

	b.AddFootpath(spP, spP2, 2*60)

	return b.Build(), spA, spD
}

func TestComputeAllFootpathTransfer(t *testing.T) {
	data, spA, spD := buildS2(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spD, Distance: 0}}
	dt := structs.NewDateTime(1, 7*3600+30*60)

	paths := engine.ComputeAll(departs, destinations, dt, nil)
	if len(paths) == 0 {
		t.Fatalf("expected at least one path")
	}
	path := paths[0]

	var ptCount, walkCount int
	for _, item := range path.Items {
		switch item.Type {
		case structs.PublicTransport:
			ptCount++
		case structs.Walking:
			walkCount++
		}
	}
	if ptCount != 2 {
		t.Fatalf("expected 2 public_transport items, got %d", ptCount)
	}
	if walkCount != 1 {
		t.Fatalf("expected 1 walking item, got %d", walkCount)
	}
}

func TestComputeReverseAllBoundsArrival(t *testing.T) {
	data, spA, spC := buildS1(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	arrivalBound := structs.NewDateTime(1, 9*3600)

	paths := engine.ComputeReverseAll(departs, destinations, arrivalBound, nil)
	if len(paths) == 0 {
		t.Fatalf("expected at least one path")
	}
	last := paths[0].Items[len(paths[0].Items)-1]
	if last.Arrival.After(arrivalBound) {
		t.Fatalf("arrival %v exceeds bound %v", last.Arrival, arrivalBound)
	}
}

func TestComputeForbiddingExcludesRoute(t *testing.T) {
	data, spA, spC := buildS1(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	dt := structs.NewDateTime(1, 7*3600+30*60)

	forbidden := []structs.ForbiddenEntry{{Kind: structs.ForbiddenRoute, Code: "L1"}}
	paths := engine.ComputeAll(departs, destinations, dt, forbidden)
	if len(paths) != 0 {
		t.Fatalf("expected no path once the only route is forbidden, got %d", len(paths))
	}
}

// buildS3 is spec section 8's S3: a direct route A->C and a two-leg
// route A->B->C (same-stop transfer at B, no footpath needed) that
// both arrive at C at the same instant, the two-leg journey boarding
// exactly DefaultConfig's boarding slack after it lands at B.
func buildS3(t *testing.T) (*comps.TransitData, structs.StopPointID, structs.StopPointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	spC := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)

	direct, _ := b.AddRoute(0, 0, "DIRECT", []structs.StopPointID{spA, spC})
	b.AddVehicleJourney(direct, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 20*60, Departure: 8*3600 + 20*60, PickUp: true, DropOff: true},
	})

	feeder, _ := b.AddRoute(0, 0, "FEEDER", []structs.StopPointID{spA, spB})
	b.AddVehicleJourney(feeder, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 10*60, Departure: 8*3600 + 10*60, PickUp: true, DropOff: true},
	})

	onward, _ := b.AddRoute(0, 0, "ONWARD", []structs.StopPointID{spB, spC})
	slack := DefaultConfig().BoardingSlack
	b.AddVehicleJourney(onward, vp, []comps.StopTimeSpec{
		{Arrival: 8*3600 + 10*60 + slack, Departure: 8*3600 + 10*60 + slack, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 20*60, Departure: 8*3600 + 20*60, PickUp: true, DropOff: true},
	})

	return b.Build(), spA, spC
}

func TestComputeAllTiedArrivalKeepsOnlyFewerChangesPath(t *testing.T) {
	data, spA, spC := buildS3(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	dt := structs.NewDateTime(1, 7*3600+30*60)

	paths := engine.ComputeAll(departs, destinations, dt, nil)
	if len(paths) != 1 {
		t.Fatalf("expected exactly one path once both routes tie at C, got %d", len(paths))
	}
	if paths[0].NbChanges != 0 {
		t.Fatalf("expected the zero-change direct route to win the tie, got %d changes", paths[0].NbChanges)
	}
}

// TestComputeForbiddingExcludesLine is spec section 8's S4: forbidding
// a line, not a route external code, must still exclude every route on
// it via Engine's wired LineOf resolver (comps.TransitData.LineCode).
func TestComputeForbiddingExcludesLine(t *testing.T) {
	data, spA, spC := buildS1(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	dt := structs.NewDateTime(1, 7*3600+30*60)

	forbidden := []structs.ForbiddenEntry{{Kind: structs.ForbiddenLine, Code: "L1"}}
	paths := engine.ComputeAll(departs, destinations, dt, forbidden)
	if len(paths) != 0 {
		t.Fatalf("expected no path once the route's line is forbidden, got %d", len(paths))
	}
}

// buildS6 is spec section 8's S6: one route running three trips 20
// minutes apart, so seeds at 08:00, 08:15, and 08:30 each board a
// distinct trip.
func buildS6(t *testing.T) (*comps.TransitData, structs.StopPointID, structs.StopPointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spC := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)
	route, _ := b.AddRoute(0, 0, "L1", []structs.StopPointID{spA, spC})
	for _, depart := range []int32{8 * 3600, 8*3600 + 20*60, 8*3600 + 40*60} {
		b.AddVehicleJourney(route, vp, []comps.StopTimeSpec{
			{Arrival: depart, Departure: depart, PickUp: true, DropOff: true},
			{Arrival: depart + 15*60, Departure: depart + 15*60, PickUp: true, DropOff: true},
		})
	}
	return b.Build(), spA, spC
}

func TestComputeAllMultiDatetimeMatchesIndependentCalls(t *testing.T) {
	data, spA, spC := buildS6(t)
	engine := NewEngine(data, DefaultConfig())

	departs := []StopAccess{{StopPoint: spA, Distance: 0}}
	destinations := []StopAccess{{StopPoint: spC, Distance: 0}}
	seeds := []structs.DateTime{
		structs.NewDateTime(1, 8*3600),
		structs.NewDateTime(1, 8*3600+15*60),
		structs.NewDateTime(1, 8*3600+30*60),
	}

	got := engine.ComputeAllMultiDatetime(departs, destinations, seeds, nil)
	if len(got) != len(seeds) {
		t.Fatalf("expected %d result slices, got %d", len(seeds), len(got))
	}

	for i, dt := range seeds {
		want := engine.ComputeAll(departs, destinations, dt, nil)
		if len(got[i]) != len(want) {
			t.Fatalf("seed %d: expected %d paths, got %d", i, len(want), len(got[i]))
		}
		for j := range want {
			if got[i][j].Items[0].Departure != want[j].Items[0].Departure {
				t.Fatalf("seed %d path %d: departure mismatch, got %v want %v", i, j, got[i][j].Items[0].Departure, want[j].Items[0].Departure)
			}
			if got[i][j].Items[len(got[i][j].Items)-1].Arrival != want[j].Items[len(want[j].Items)-1].Arrival {
				t.Fatalf("seed %d path %d: arrival mismatch", i, j)
			}
		}
	}
}
