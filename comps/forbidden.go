package comps

import "github.com/ttpr0/go-raptor/structs"

// ForbiddenFilter is a multimap of (kind, code) pairs excluded from a
// query, matched against a route's external code, line code or mode code.
type ForbiddenFilter struct {
	lines  map[string]bool
	routes map[string]bool
	modes  map[string]bool

	// LineOf and ModeOf resolve a route to the external codes the
	// filter matches against; both are provided by the caller since
	// line/mode identity lives outside the route table proper.
	LineOf func(*structs.Route) string
	ModeOf func(*structs.Route) string
}

func NewForbiddenFilter(entries []structs.ForbiddenEntry) *ForbiddenFilter {
	f := &ForbiddenFilter{
		lines:  map[string]bool{},
		routes: map[string]bool{},
		modes:  map[string]bool{},
	}
	for _, e := range entries {
		switch e.Kind {
		case structs.ForbiddenLine:
			f.lines[e.Code] = true
		case structs.ForbiddenRoute:
			f.routes[e.Code] = true
		case structs.ForbiddenMode:
			f.modes[e.Code] = true
		}
	}
	return f
}

func (f *ForbiddenFilter) RouteForbidden(route *structs.Route) bool {
	if f.routes[route.ExternalCode] {
		return true
	}
	if f.LineOf != nil && f.lines[f.LineOf(route)] {
		return true
	}
	if f.ModeOf != nil && f.modes[f.ModeOf(route)] {
		return true
	}
	return false
}
