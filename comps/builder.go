package comps

import (
	"sort"

	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// Builder assembles a TransitData view imperatively. Real deployments
// get this from a timetable ingestion pipeline (out of scope for this
// module); Builder exists so the engine and its tests can construct
// small, precise fixtures without one.
type Builder struct {
	stopPoints       []structs.StopPoint
	stopAreas        []structs.StopArea
	routes           []structs.Route
	routePoints      []structs.RoutePoint
	vehicleJourneys  []structs.VehicleJourney
	stopTimes        []structs.StopTime
	validityPatterns []structs.ValidityPattern

	footpaths   []rawFootpath
	connForward map[structs.RoutePointID][]structs.RoutePointConnection
	connBackward map[structs.RoutePointID][]structs.RoutePointConnection

	lineCodes []string
	modeCodes []string
}

type rawFootpath struct {
	from, to structs.StopPointID
	duration int32
}

func NewBuilder() *Builder {
	return &Builder{
		connForward:  map[structs.RoutePointID][]structs.RoutePointConnection{},
		connBackward: map[structs.RoutePointID][]structs.RoutePointConnection{},
	}
}

func (b *Builder) AddStopPoint() structs.StopPointID {
	id := structs.StopPointID(len(b.stopPoints))
	b.stopPoints = append(b.stopPoints, structs.StopPoint{})
	return id
}

func (b *Builder) AddStopArea(members []structs.StopPointID) structs.StopAreaID {
	id := structs.StopAreaID(len(b.stopAreas))
	b.stopAreas = append(b.stopAreas, structs.StopArea{StopPointList: members})
	return id
}

// AddValidityPattern creates a pattern spanning [pivot, pivot+days) and
// marks activeDays (absolute day indices) as operating days.
func (b *Builder) AddValidityPattern(pivot int32, days int, activeDays ...int32) structs.ValidityPatternID {
	vp := structs.NewValidityPattern(pivot, days)
	for _, d := range activeDays {
		vp.Set(d)
	}
	id := structs.ValidityPatternID(len(b.validityPatterns))
	b.validityPatterns = append(b.validityPatterns, vp)
	return id
}

// AddLine registers a line's external code (the identifier a forbidden
// filter's ForbiddenLine entries match against) and returns the index
// to pass as AddRoute's lineIdx.
func (b *Builder) AddLine(code string) int32 {
	idx := int32(len(b.lineCodes))
	b.lineCodes = append(b.lineCodes, code)
	return idx
}

// AddMode is AddLine's counterpart for ForbiddenMode entries.
func (b *Builder) AddMode(code string) int32 {
	idx := int32(len(b.modeCodes))
	b.modeCodes = append(b.modeCodes, code)
	return idx
}

func (b *Builder) AddRoute(lineIdx, modeIdx int32, externalCode string, stops []structs.StopPointID) (structs.RouteID, []structs.RoutePointID) {
	routeID := structs.RouteID(len(b.routes))
	rps := make([]structs.RoutePointID, len(stops))
	for i, sp := range stops {
		rpID := structs.RoutePointID(len(b.routePoints))
		b.routePoints = append(b.routePoints, structs.RoutePoint{
			RouteIdx:     routeID,
			Order:        int32(i),
			StopPointIdx: sp,
		})
		b.stopPoints[sp].RoutePointList = append(b.stopPoints[sp].RoutePointList, rpID)
		rps[i] = rpID
	}
	b.routes = append(b.routes, structs.Route{
		LineIdx:        lineIdx,
		ModeTypeIdx:    modeIdx,
		ExternalCode:   externalCode,
		RoutePointList: rps,
	})
	return routeID, rps
}

// StopTimeSpec is one row of a vehicle journey's schedule, in route
// order.
type StopTimeSpec struct {
	Arrival, Departure int32
	PickUp, DropOff    bool
	Zone               int16
}

func (b *Builder) AddVehicleJourney(route structs.RouteID, vp structs.ValidityPatternID, times []StopTimeSpec) structs.VehicleJourneyID {
	vjID := structs.VehicleJourneyID(len(b.vehicleJourneys))
	rps := b.routes[route].RoutePointList
	stIDs := make([]structs.StopTimeID, len(times))
	for i, t := range times {
		stID := structs.StopTimeID(len(b.stopTimes))
		b.stopTimes = append(b.stopTimes, structs.StopTime{
			Idx:               stID,
			ArrivalTime:       t.Arrival,
			DepartureTime:     t.Departure,
			VehicleJourneyIdx: vjID,
			RoutePointIdx:     rps[i],
			LocalTrafficZone:  t.Zone,
			PickUpAllowed:     t.PickUp,
			DropOffAllowed:    t.DropOff,
		})
		stIDs[i] = stID
	}
	b.vehicleJourneys = append(b.vehicleJourneys, structs.VehicleJourney{
		ValidityPatternIdx: vp,
		StopTimeList:       stIDs,
	})
	b.routes[route].VehicleJourneyList = append(b.routes[route].VehicleJourneyList, vjID)
	return vjID
}

func (b *Builder) AddFootpath(from, to structs.StopPointID, duration int32) {
	b.footpaths = append(b.footpaths, rawFootpath{from, to, duration})
}

// AddConnection records a guaranteed/extension route-path connection
// from -> to, populating both the forward and backward multimaps.
func (b *Builder) AddConnection(from, to structs.RoutePointID, length int32, kind structs.ConnectionKind) {
	b.connForward[from] = append(b.connForward[from], structs.RoutePointConnection{
		DestinationRoutePointIdx: to,
		Length:                   length,
		Kind:                     kind,
	})
	b.connBackward[to] = append(b.connBackward[to], structs.RoutePointConnection{
		DestinationRoutePointIdx: from,
		Length:                   length,
		Kind:                     kind,
	})
}

func (b *Builder) Build() *TransitData {
	sort.Slice(b.footpaths, func(i, j int) bool {
		if b.footpaths[i].from != b.footpaths[j].from {
			return b.footpaths[i].from < b.footpaths[j].from
		}
		return b.footpaths[i].duration < b.footpaths[j].duration
	})

	flat := make([]structs.Footpath, len(b.footpaths))
	index := make([]structs.FootpathIndex, len(b.stopPoints))
	i := 0
	for i < len(b.footpaths) {
		sp := b.footpaths[i].from
		start := i
		for i < len(b.footpaths) && b.footpaths[i].from == sp {
			flat[i] = structs.Footpath{DestinationStopPointIdx: b.footpaths[i].to, Duration: b.footpaths[i].duration}
			i++
		}
		index[sp] = structs.FootpathIndex{Offset: int32(start), Count: int32(i - start)}
	}

	fwd := make([]List[structs.RoutePointConnection], len(b.routePoints))
	bwd := make([]List[structs.RoutePointConnection], len(b.routePoints))
	for rp, conns := range b.connForward {
		fwd[rp] = List[structs.RoutePointConnection](conns)
	}
	for rp, conns := range b.connBackward {
		bwd[rp] = List[structs.RoutePointConnection](conns)
	}

	return &TransitData{
		StopPoints:         Array[structs.StopPoint](b.stopPoints),
		StopAreas:          Array[structs.StopArea](b.stopAreas),
		Routes:             Array[structs.Route](b.routes),
		RoutePoints:        Array[structs.RoutePoint](b.routePoints),
		VehicleJourneys:    Array[structs.VehicleJourney](b.vehicleJourneys),
		StopTimes:          Array[structs.StopTime](b.stopTimes),
		ValidityPatterns:   Array[structs.ValidityPattern](b.validityPatterns),
		Footpaths:          Array[structs.Footpath](flat),
		FootpathIndex:      Array[structs.FootpathIndex](index),
		FootpathRPForward:  Array[List[structs.RoutePointConnection]](fwd),
		FootpathRPBackward: Array[List[structs.RoutePointConnection]](bwd),
		LineCodes:          Array[string](b.lineCodes),
		ModeCodes:          Array[string](b.modeCodes),
	}
}
