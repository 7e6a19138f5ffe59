package main

// RoutingRequestParams is the query-string contract of GET
// /v0/routing: a stop-area to stop-area journey query at a given
// local day/hour/minute, in either search direction.
type RoutingRequestParams struct {
	DepartureArea   int32  `json:"departure_area" validate:"gte=0"`
	DestinationArea int32  `json:"destination_area" validate:"gte=0"`
	Day             int32  `json:"day" validate:"gte=0"`
	Hour            int32  `json:"hour" validate:"gte=0,lte=23"`
	Minute          int32  `json:"minute" validate:"gte=0,lte=59"`
	Clockwise       bool   `json:"clockwise"`
	ForbiddenLines  string `json:"forbidden_lines"`
}
