package algorithm

import (
	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// Marking holds the two bitsets written by the route scan and the
// relaxation phases, cleared at the start of every round by
// MakeQueue. Iteration must stay ascending -- the footpath relaxer's
// shared iterator relies on it.
type Marking struct {
	RoutePoints Bitset
	StopPoints  Bitset
}

func NewMarking(routePointCount, stopPointCount int32) *Marking {
	return &Marking{
		RoutePoints: NewBitset(routePointCount),
		StopPoints:  NewBitset(stopPointCount),
	}
}

func (m *Marking) Clear() {
	m.RoutePoints.Reset()
	m.StopPoints.Reset()
}

func (m *Marking) MarkRoutePoint(rp structs.RoutePointID) {
	m.RoutePoints.Set(int32(rp))
}

func (m *Marking) MarkStopPoint(sp structs.StopPointID) {
	m.StopPoints.Set(int32(sp))
}

func (m *Marking) IsRoutePointMarked(rp structs.RoutePointID) bool {
	return m.RoutePoints.Get(int32(rp))
}
