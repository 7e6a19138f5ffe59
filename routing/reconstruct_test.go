package routing

import (
	"testing"

	"github.com/ttpr0/go-raptor/algorithm"
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// buildReconstructFixture assembles one 3-stop route A->B->C, a
// second single-stop route at D past C, and a footpath C->D -- a
// vehicle-journey leg followed by a walking leg for reconstruct to
// unwind.
func buildReconstructFixture(t *testing.T) (*comps.TransitData, []structs.RoutePointID, structs.VehicleJourneyID, structs.StopPointID, structs.RoutePointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	spC := b.AddStopPoint()
	spD := b.AddStopPoint()
	vp := b.AddValidityPattern(0, 3, 0, 1, 2)
	route, rps := b.AddRoute(0, 0, "L1", []structs.StopPointID{spA, spB, spC})
	vj := b.AddVehicleJourney(route, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 10*60, Departure: 8*3600 + 10*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 20*60, Departure: 8*3600 + 20*60, PickUp: true, DropOff: true},
	})
	_, dRPs := b.AddRoute(0, 0, "L2", []structs.StopPointID{spD})
	b.AddFootpath(spC, spD, 5*60)
	return b.Build(), rps, vj, spD, dRPs[0]
}

func TestReconstructUnwindsSingleVehicleJourneyLeg(t *testing.T) {
	data, rps, vj, _, _ := buildReconstructFixture(t)
	v := algorithm.NewForwardVisitor()
	labels := algorithm.NewLabelStore(int32(data.RoutePointCount()), structs.UninitializedRetour())

	origin := structs.NewDateTime(1, 7*3600+30*60)
	departure := structs.Retour{Type: structs.Departure, BoardingRP: structs.NoRoutePoint}
	v.SetField(&departure, origin)
	v.SetOtherField(&departure, origin)
	labels.Set(0, rps[0], departure)

	arrival := structs.NewDateTime(1, 8*3600+20*60)
	boarded := structs.Retour{
		Type:          structs.VehicleJourneyLabel,
		StopTimeIdx:   data.StopTimeAt(vj, 2).Idx,
		BoardingRP:    rps[0],
		BoardingRound: 0,
	}
	v.SetField(&boarded, arrival)
	v.SetOtherField(&boarded, arrival)
	labels.OneMoreStep(int32(data.RoutePointCount()))
	labels.Set(1, rps[2], boarded)

	items := reconstruct(data, v, labels, rps[2], 1)
	if len(items) != 1 {
		t.Fatalf("expected exactly one leg, got %d", len(items))
	}
	item := items[0]
	if item.Type != structs.PublicTransport {
		t.Fatalf("expected a public_transport item, got %v", item.Type)
	}
	if item.VJIdx != vj {
		t.Fatalf("expected vj %v, got %v", vj, item.VJIdx)
	}
	wantStops := []structs.StopPointID{data.GetRoutePoint(rps[0]).StopPointIdx, data.GetRoutePoint(rps[1]).StopPointIdx, data.GetRoutePoint(rps[2]).StopPointIdx}
	if len(item.StopPoints) != len(wantStops) {
		t.Fatalf("expected %d stops, got %d", len(wantStops), len(item.StopPoints))
	}
	for i, sp := range wantStops {
		if item.StopPoints[i] != sp {
			t.Fatalf("stop %d: expected %v, got %v", i, sp, item.StopPoints[i])
		}
	}
	if !item.Departure.Equal(structs.NewDateTime(1, 8*3600)) {
		t.Fatalf("expected departure 08:00, got %v", item.Departure)
	}
	if !item.Arrival.Equal(arrival) {
		t.Fatalf("expected arrival %v, got %v", arrival, item.Arrival)
	}
}

func TestReconstructUnwindsWalkingLegAfterVehicleJourney(t *testing.T) {
	data, rps, vj, spD, destRP := buildReconstructFixture(t)
	v := algorithm.NewForwardVisitor()
	labels := algorithm.NewLabelStore(int32(data.RoutePointCount()), structs.UninitializedRetour())

	origin := structs.NewDateTime(1, 7*3600+30*60)
	departure := structs.Retour{Type: structs.Departure, BoardingRP: structs.NoRoutePoint}
	v.SetField(&departure, origin)
	v.SetOtherField(&departure, origin)
	labels.Set(0, rps[0], departure)

	rideArrival := structs.NewDateTime(1, 8*3600+20*60)
	boarded := structs.Retour{
		Type:          structs.VehicleJourneyLabel,
		StopTimeIdx:   data.StopTimeAt(vj, 2).Idx,
		BoardingRP:    rps[0],
		BoardingRound: 0,
	}
	v.SetField(&boarded, rideArrival)
	v.SetOtherField(&boarded, rideArrival)
	labels.OneMoreStep(int32(data.RoutePointCount()))
	labels.Set(1, rps[2], boarded)

	walkArrival := v.Combine(rideArrival, 5*60)
	walked := structs.Retour{
		Type:          structs.Connection,
		BoardingRP:    rps[2],
		BoardingRound: 1,
	}
	v.SetField(&walked, walkArrival)
	v.SetOtherField(&walked, walkArrival)
	labels.OneMoreStep(int32(data.RoutePointCount()))
	labels.Set(2, destRP, walked)

	items := reconstruct(data, v, labels, destRP, 2)
	if len(items) != 2 {
		t.Fatalf("expected two legs, got %d", len(items))
	}

	ride := items[0]
	if ride.Type != structs.PublicTransport {
		t.Fatalf("expected the first (chronological) item to be public_transport, got %v", ride.Type)
	}
	walk := items[1]
	if walk.Type != structs.Walking {
		t.Fatalf("expected the second item to be walking, got %v", walk.Type)
	}
	if len(walk.StopPoints) != 2 || walk.StopPoints[0] != data.GetRoutePoint(rps[2]).StopPointIdx || walk.StopPoints[1] != spD {
		t.Fatalf("expected walk stops [C, D] in chronological order, got %v", walk.StopPoints)
	}
	if !walk.Arrival.Equal(walkArrival) {
		t.Fatalf("expected walk arrival %v, got %v", walkArrival, walk.Arrival)
	}
}
