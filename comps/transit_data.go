package comps

import (
	"sort"

	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// TransitData is the read-only, pre-built timetable view the engine
// runs against. It is assembled once by an external ingestion pipeline
// (out of scope here) and is safe to share across concurrently running
// engine instances -- nothing in this package mutates it after Build.
type TransitData struct {
	StopPoints       Array[structs.StopPoint]
	StopAreas        Array[structs.StopArea]
	Routes           Array[structs.Route]
	RoutePoints      Array[structs.RoutePoint]
	VehicleJourneys  Array[structs.VehicleJourney]
	StopTimes        Array[structs.StopTime]
	ValidityPatterns Array[structs.ValidityPattern]

	Footpaths     Array[structs.Footpath]
	FootpathIndex Array[structs.FootpathIndex] // indexed by StopPointID

	FootpathRPForward  Array[List[structs.RoutePointConnection]] // indexed by RoutePointID
	FootpathRPBackward Array[List[structs.RoutePointConnection]] // indexed by RoutePointID

	LineCodes Array[string] // indexed by Route.LineIdx
	ModeCodes Array[string] // indexed by Route.ModeTypeIdx
}

func (d *TransitData) StopPointCount() int  { return d.StopPoints.Length() }
func (d *TransitData) StopAreaCount() int   { return d.StopAreas.Length() }
func (d *TransitData) RouteCount() int      { return d.Routes.Length() }
func (d *TransitData) RoutePointCount() int { return d.RoutePoints.Length() }

func (d *TransitData) GetStopPoint(sp structs.StopPointID) structs.StopPoint {
	return d.StopPoints[sp]
}
func (d *TransitData) GetStopArea(sa structs.StopAreaID) structs.StopArea {
	return d.StopAreas[sa]
}
func (d *TransitData) GetRoute(r structs.RouteID) *structs.Route {
	return &d.Routes[r]
}
func (d *TransitData) GetRoutePoint(rp structs.RoutePointID) structs.RoutePoint {
	return d.RoutePoints[rp]
}
func (d *TransitData) GetVehicleJourney(vj structs.VehicleJourneyID) *structs.VehicleJourney {
	return &d.VehicleJourneys[vj]
}
func (d *TransitData) GetStopTime(st structs.StopTimeID) structs.StopTime {
	return d.StopTimes[st]
}
func (d *TransitData) GetValidityPattern(vp structs.ValidityPatternID) *structs.ValidityPattern {
	return &d.ValidityPatterns[vp]
}

// LineCode resolves a route's line external code, or "" if idx has no
// registered line -- routes built without ever calling Builder.AddLine
// carry a bare numeric LineIdx that matches nothing in the filter.
func (d *TransitData) LineCode(idx int32) string {
	if idx < 0 || int(idx) >= d.LineCodes.Length() {
		return ""
	}
	return d.LineCodes[idx]
}

// ModeCode is LineCode's counterpart for Route.ModeTypeIdx.
func (d *TransitData) ModeCode(idx int32) string {
	if idx < 0 || int(idx) >= d.ModeCodes.Length() {
		return ""
	}
	return d.ModeCodes[idx]
}

// StopTimeAt returns the stop-time of vj at the given order within its
// route -- vehicle journeys carry exactly one stop-time per route-point
// of the route they run on, in route order.
func (d *TransitData) StopTimeAt(vj structs.VehicleJourneyID, order int32) structs.StopTime {
	id := d.VehicleJourneys[vj].StopTimeList[order]
	return d.StopTimes[id]
}

// FootpathsFrom returns the outgoing footpath slice of sp, in the
// source-then-duration sorted order the footpath relaxer relies on.
func (d *TransitData) FootpathsFrom(sp structs.StopPointID) []structs.Footpath {
	idx := d.FootpathIndex[sp]
	if idx.Count == 0 {
		return nil
	}
	return d.Footpaths[idx.Offset : idx.Offset+idx.Count]
}

func (d *TransitData) ConnectionsForward(rp structs.RoutePointID) List[structs.RoutePointConnection] {
	return d.FootpathRPForward[rp]
}
func (d *TransitData) ConnectionsBackward(rp structs.RoutePointID) List[structs.RoutePointConnection] {
	return d.FootpathRPBackward[rp]
}

// EarliestTrip binary-searches route's vehicle journeys (assumed sorted
// by their schedule offset, the standard RAPTOR precondition that
// trips on one route never overtake one another) for the earliest one
// valid at or around after.Date() whose stop-time at order departs no
// earlier than after and allows pick-up.
func (d *TransitData) EarliestTrip(route *structs.Route, order int32, after structs.DateTime) (structs.VehicleJourneyID, bool) {
	best := structs.NoVehicleJourney
	bestTime := structs.InfDateTime
	for _, day := range candidateDays(after.Date()) {
		vjs := route.VehicleJourneyList
		i := sort.Search(len(vjs), func(i int) bool {
			st := d.StopTimeAt(vjs[i], order)
			cand := structs.NewDateTime(day, st.DepartureTime)
			return !cand.Before(after)
		})
		for ; i < len(vjs); i++ {
			vj := vjs[i]
			st := d.StopTimeAt(vj, order)
			if !st.PickUpAllowed {
				continue
			}
			vp := d.GetValidityPattern(d.VehicleJourneys[vj].ValidityPatternIdx)
			if !vp.Check(day) {
				continue
			}
			cand := structs.NewDateTime(day, st.DepartureTime)
			if cand.Before(bestTime) {
				best = vj
				bestTime = cand
			}
			break
		}
	}
	return best, best != structs.NoVehicleJourney
}

// TardiestTrip is the reverse-direction dual of EarliestTrip: the
// latest vehicle journey arriving at order no later than before,
// allowing drop-off.
func (d *TransitData) TardiestTrip(route *structs.Route, order int32, before structs.DateTime) (structs.VehicleJourneyID, bool) {
	best := structs.NoVehicleJourney
	bestTime := structs.MinDateTime
	for _, day := range candidateDays(before.Date()) {
		vjs := route.VehicleJourneyList
		i := sort.Search(len(vjs), func(i int) bool {
			st := d.StopTimeAt(vjs[i], order)
			cand := structs.NewDateTime(day, st.ArrivalTime)
			return cand.After(before)
		}) - 1
		for ; i >= 0; i-- {
			vj := vjs[i]
			st := d.StopTimeAt(vj, order)
			if !st.DropOffAllowed {
				continue
			}
			vp := d.GetValidityPattern(d.VehicleJourneys[vj].ValidityPatternIdx)
			if !vp.Check(day) {
				continue
			}
			cand := structs.NewDateTime(day, st.ArrivalTime)
			if cand.After(bestTime) {
				best = vj
				bestTime = cand
			}
			break
		}
	}
	return best, best != structs.NoVehicleJourney
}

func candidateDays(day int32) []int32 {
	return []int32{day - 1, day, day + 1}
}

// RoutesValid computes the bitset of routes worth scanning for a query
// on dt: at least one vehicle journey fires within ±1 day, and the
// route is not excluded by forbidden.
func (d *TransitData) RoutesValid(dt structs.DateTime, forbidden *ForbiddenFilter) Bitset {
	valid := NewBitset(int32(d.RouteCount()))
	day := dt.Date()
	for i := 0; i < d.RouteCount(); i++ {
		route := &d.Routes[i]
		if forbidden != nil && forbidden.RouteForbidden(route) {
			continue
		}
		for _, vj := range route.VehicleJourneyList {
			vp := d.GetValidityPattern(d.VehicleJourneys[vj].ValidityPatternIdx)
			if vp.Check2(day) {
				valid.Set(int32(i))
				break
			}
		}
	}
	return valid
}
