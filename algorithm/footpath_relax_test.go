package algorithm

import (
	"testing"

	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// buildSharedStopFixture assembles two single-stop routes sharing stop
// point A, a third single-stop route at stop point B, and a footpath
// from A to B -- enough surface to exercise both offerAtStopPoint call
// sites.
func buildSharedStopFixture(t *testing.T) (*comps.TransitData, structs.StopPointID, structs.RoutePointID, structs.RoutePointID, structs.StopPointID) {
	t.Helper()
	b := comps.NewBuilder()
	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	_, rpsX := b.AddRoute(0, 0, "X", []structs.StopPointID{spA})
	_, rpsY := b.AddRoute(0, 0, "Y", []structs.StopPointID{spA})
	b.AddRoute(0, 0, "Z", []structs.StopPointID{spB})
	b.AddFootpath(spA, spB, 5*60)
	return b.Build(), spA, rpsX[0], rpsY[0], spB
}

func TestFootpathRelaxDoesNotOverwriteSelfAtZeroSlack(t *testing.T) {
	data, spA, rpX, rpY, _ := buildSharedStopFixture(t)
	v := NewForwardVisitor()

	labels := NewLabelStore(int32(data.RoutePointCount()), structs.UninitializedRetour())
	marking := NewMarking(int32(data.RoutePointCount()), int32(data.StopPointCount()))
	queue := NewQueue(int32(data.RouteCount()))
	queue.Reset(v.QueueSentinel())
	dest := NewBestDestination(v)

	origin := structs.NewDateTime(0, 8*3600)
	seed := structs.Retour{Type: structs.Departure, BoardingRP: structs.NoRoutePoint}
	v.SetField(&seed, origin)
	v.SetOtherField(&seed, origin)
	labels.Set(0, rpX, seed)
	labels.SetBest(rpX, seed)
	marking.MarkStopPoint(spA)

	FootpathRelax(data, v, labels, marking, queue, dest, 0, 0)

	self := labels.Get(0, rpX)
	if self.Type != structs.Departure {
		t.Fatalf("expected rpX's own label to stay a Departure label, got type %v", self.Type)
	}
	if self.BoardingRP == rpX {
		t.Fatalf("rpX's label must never reference itself as boarding rp")
	}

	sibling := labels.Get(0, rpY)
	if sibling.Type != structs.Connection {
		t.Fatalf("expected sibling route-point to receive a Connection label, got %v", sibling.Type)
	}
	if sibling.BoardingRP != rpX {
		t.Fatalf("expected sibling's boarding rp to be rpX, got %v", sibling.BoardingRP)
	}
	if !v.Field(&sibling).Equal(origin) {
		t.Fatalf("expected sibling's field to equal origin at zero slack, got %v", v.Field(&sibling))
	}
}

// TestBestAtStopPointSkipsConnectionLabels seeds a Connection label at
// rpX with a strictly better (earlier) time than a VehicleJourneyLabel
// seeded at rpY, both in the same round at stop A. If bestAtStopPoint
// let Connection labels compete as pivots it would pick rpX; the type
// filter must make it pick rpY instead.
func TestBestAtStopPointSkipsConnectionLabels(t *testing.T) {
	data, spA, rpX, rpY, _ := buildSharedStopFixture(t)
	v := NewForwardVisitor()

	labels := NewLabelStore(int32(data.RoutePointCount()), structs.UninitializedRetour())

	earlier := structs.NewDateTime(0, 8*3600)
	walked := structs.Retour{Type: structs.Connection, BoardingRP: structs.NoRoutePoint}
	v.SetField(&walked, earlier)
	v.SetOtherField(&walked, earlier)
	labels.Set(0, rpX, walked)

	later := structs.NewDateTime(0, 8*3600+10*60)
	boarded := structs.Retour{Type: structs.VehicleJourneyLabel, BoardingRP: structs.NoRoutePoint}
	v.SetField(&boarded, later)
	v.SetOtherField(&boarded, later)
	labels.Set(0, rpY, boarded)

	stopPoint := data.GetStopPoint(spA)
	bestRP, best := bestAtStopPoint(data, labels, v, stopPoint, 0)
	if bestRP != rpY {
		t.Fatalf("expected the vehicle-journey label at rpY to win the pivot, got %v", bestRP)
	}
	if best.Type != structs.VehicleJourneyLabel {
		t.Fatalf("expected the pivot label to be a vehicle-journey label, got %v", best.Type)
	}
}

func TestFootpathRelaxInstallsAcrossFootpath(t *testing.T) {
	data, spA, rpX, _, spB := buildSharedStopFixture(t)
	v := NewForwardVisitor()

	labels := NewLabelStore(int32(data.RoutePointCount()), structs.UninitializedRetour())
	marking := NewMarking(int32(data.RoutePointCount()), int32(data.StopPointCount()))
	queue := NewQueue(int32(data.RouteCount()))
	queue.Reset(v.QueueSentinel())
	dest := NewBestDestination(v)

	origin := structs.NewDateTime(0, 8*3600)
	seed := structs.Retour{Type: structs.Departure, BoardingRP: structs.NoRoutePoint}
	v.SetField(&seed, origin)
	v.SetOtherField(&seed, origin)
	labels.Set(0, rpX, seed)
	labels.SetBest(rpX, seed)
	marking.MarkStopPoint(spA)

	notDone := FootpathRelax(data, v, labels, marking, queue, dest, 0, 60)
	if !notDone {
		t.Fatalf("expected the round to still be active after reaching spB")
	}

	spBInfo := data.GetStopPoint(spB)
	if len(spBInfo.RoutePointList) != 1 {
		t.Fatalf("expected fixture stop B to have exactly one route point")
	}
	if !marking.StopPoints.Get(int32(spB)) {
		t.Fatalf("expected stop B to be marked reachable via footpath")
	}
	label := labels.Get(0, spBInfo.RoutePointList[0])
	if label.Type != structs.Connection {
		t.Fatalf("expected a Connection label at stop B's route point, got %v", label.Type)
	}
	want := v.Combine(origin, 60+5*60)
	if !v.Field(&label).Equal(want) {
		t.Fatalf("expected arrival %v at stop B, got %v", want, v.Field(&label))
	}
}
