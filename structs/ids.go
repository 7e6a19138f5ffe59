package structs

// Identifiers are dense small integers into the read-only arrays of a
// TransitData view. They are distinct types so a route-point index can
// never be passed where a stop-point index is expected by mistake.

type StopPointID int32
type StopAreaID int32
type RouteID int32
type RoutePointID int32
type VehicleJourneyID int32
type StopTimeID int32
type ValidityPatternID int32

const NoStopPoint StopPointID = -1
const NoRoute RouteID = -1
const NoRoutePoint RoutePointID = -1
const NoVehicleJourney VehicleJourneyID = -1
const NoStopTime StopTimeID = -1
