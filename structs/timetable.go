package structs

// StopPoint is a physical place a vehicle can stop at. It groups every
// route-point (one per route serving it) that shares the location.
type StopPoint struct {
	RoutePointList []RoutePointID
}

// StopArea groups stop points that a caller treats as one destination
// or origin, e.g. the platforms of a single station.
type StopArea struct {
	StopPointList []StopPointID
}

// Route is a fixed sequence of route-points shared by a family of
// vehicle journeys running the same journey pattern.
type Route struct {
	LineIdx           int32
	ModeTypeIdx       int32
	ExternalCode      string
	VehicleJourneyList []VehicleJourneyID
	RoutePointList    []RoutePointID
}

func (r *Route) Size() int {
	return len(r.RoutePointList)
}

// RoutePoint is one position within one route: a stop point plus its
// order along the route.
type RoutePoint struct {
	RouteIdx     RouteID
	Order        int32
	StopPointIdx StopPointID
}

// VehicleJourney is one concrete trip along a route, operating on the
// days its validity pattern fires.
type VehicleJourney struct {
	ValidityPatternIdx ValidityPatternID
	StopTimeList       []StopTimeID
}

// StopTime is one row of a vehicle journey's schedule: the times it is
// at a given route-point, and whether passengers may board or alight
// there.
type StopTime struct {
	Idx              StopTimeID
	ArrivalTime      int32 // seconds after midnight of the vehicle journey's reference day
	DepartureTime    int32
	VehicleJourneyIdx VehicleJourneyID
	RoutePointIdx    RoutePointID
	LocalTrafficZone int16
	PickUpAllowed    bool
	DropOffAllowed   bool
}

// HasLocalTrafficZone reports whether a fare zone is attached; a route
// scan only bothers checking the zone boundary when one is set.
func (s StopTime) HasLocalTrafficZone() bool {
	return s.LocalTrafficZone != 0
}

// ValidityPattern is a per-day bitmap of a vehicle journey's operating
// days, anchored at a fixed pivot date so that day indices used
// elsewhere in the engine (DateTime.Date()) index directly into it.
type ValidityPattern struct {
	PivotDate int32 // day index of bit 0
	Bits      []uint64
}

func NewValidityPattern(pivotDate int32, days int) ValidityPattern {
	return ValidityPattern{
		PivotDate: pivotDate,
		Bits:      make([]uint64, (days+63)/64),
	}
}

func (v *ValidityPattern) Set(day int32) {
	i := day - v.PivotDate
	if i < 0 || int(i) >= len(v.Bits)*64 {
		return
	}
	v.Bits[i/64] |= 1 << uint(i%64)
}

func (v *ValidityPattern) Check(day int32) bool {
	i := day - v.PivotDate
	if i < 0 || int(i) >= len(v.Bits)*64 {
		return false
	}
	return v.Bits[i/64]&(1<<uint(i%64)) != 0
}

// Check2 fires if the pattern is active on day, the day before, or the
// day after -- the ±1 day slack used to filter candidate routes before
// a query, since a trip departing late on day-1 can still be caught
// after midnight on day.
func (v *ValidityPattern) Check2(day int32) bool {
	return v.Check(day-1) || v.Check(day) || v.Check(day+1)
}

// ConnectionKind distinguishes route-path connections that bypass the
// generic footpath walk from ordinary pedestrian transfers.
type ConnectionKind byte

const (
	ConnectionExtension ConnectionKind = iota
	ConnectionGuarantee
)

// RoutePointConnection is a guaranteed or same-vehicle-extension edge
// between two route-points, taken from footpath_rp_forward/backward.
type RoutePointConnection struct {
	DestinationRoutePointIdx RoutePointID
	Length                   int32 // seconds
	Kind                     ConnectionKind
}

// Footpath is a pedestrian edge between two stop points with a fixed
// walking duration.
type Footpath struct {
	DestinationStopPointIdx StopPointID
	Duration                int32 // seconds
}

// FootpathIndex locates the slice of Footpath entries starting at a
// given stop point within a flat, source-then-duration sorted array.
type FootpathIndex struct {
	Offset int32
	Count  int32
}

// ForbiddenKind enumerates the recognized keys of the forbidden filter.
type ForbiddenKind byte

const (
	ForbiddenLine ForbiddenKind = iota
	ForbiddenRoute
	ForbiddenMode
)

type ForbiddenEntry struct {
	Kind ForbiddenKind
	Code string
}
