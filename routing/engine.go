package routing

import (
	"github.com/ttpr0/go-raptor/algorithm"
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/metrics"
	"github.com/ttpr0/go-raptor/structs"
)

// Engine owns the read-only TransitData view and a Config; it is safe
// to share across concurrently running queries -- each Compute* call
// allocates its own label tensor, marking bitsets, queue, and
// destination tracker, per the single-threaded-per-query model. The
// core round loop itself (algorithm package) stays free of any
// instrumentation import; Engine is the boundary where a query gets
// timed and counted.
type Engine struct {
	data    *comps.TransitData
	cfg     Config
	metrics *metrics.Collector
}

func NewEngine(data *comps.TransitData, cfg Config) *Engine {
	return &Engine{data: data, cfg: cfg}
}

// SetMetrics attaches a Collector; nil disables instrumentation.
func (e *Engine) SetMetrics(c *metrics.Collector) {
	e.metrics = c
}

// Compute is the stop-area convenience entry point: it fans access out
// to every stop-point of the origin and destination stop-areas with
// zero walking distance, and runs ComputeAll/ComputeReverseAll
// depending on clockwise.
func (e *Engine) Compute(departureArea, destinationArea structs.StopAreaID, hour, minute int32, day int32, clockwise bool) []structs.Path {
	return e.ComputeForbidding(departureArea, destinationArea, hour, minute, day, clockwise, nil)
}

// ComputeForbidding is Compute plus a set of lines/routes/modes excluded
// from the search, per section 4.7's forbidden-entry filter.
func (e *Engine) ComputeForbidding(departureArea, destinationArea structs.StopAreaID, hour, minute int32, day int32, clockwise bool, forbidden []structs.ForbiddenEntry) []structs.Path {
	dt := structs.NewDateTime(day, hour*3600+minute*60)
	departs := e.stopAreaAccess(departureArea)
	destinations := e.stopAreaAccess(destinationArea)
	if clockwise {
		return e.ComputeAll(departs, destinations, dt, forbidden)
	}
	return e.ComputeReverseAll(departs, destinations, dt, forbidden)
}

// wireForbiddenResolvers attaches the line/mode code lookups a
// ForbiddenFilter needs to match ForbiddenLine/ForbiddenMode entries;
// without these both kinds silently match nothing.
func (e *Engine) wireForbiddenResolvers(filter *comps.ForbiddenFilter) {
	filter.LineOf = func(r *structs.Route) string { return e.data.LineCode(r.LineIdx) }
	filter.ModeOf = func(r *structs.Route) string { return e.data.ModeCode(r.ModeTypeIdx) }
}

func (e *Engine) stopAreaAccess(sa structs.StopAreaID) []StopAccess {
	area := e.data.GetStopArea(sa)
	out := make([]StopAccess, len(area.StopPointList))
	for i, sp := range area.StopPointList {
		out[i] = StopAccess{StopPoint: sp, Distance: 0}
	}
	return out
}

// ComputeAll runs the forward (arrival-minimizing) pass from departs
// toward destinations at dtDepart, then a reverse pass per frontier
// point of the forward search to enumerate Pareto-optimal journeys,
// per section 4.7.
func (e *Engine) ComputeAll(departs, destinations []StopAccess, dtDepart structs.DateTime, forbidden []structs.ForbiddenEntry) []structs.Path {
	var done func(rounds, paths int)
	if e.metrics != nil {
		done = e.metrics.Track("forward")
	}

	fv := algorithm.NewForwardVisitor()
	filter := comps.NewForbiddenFilter(forbidden)
	e.wireForbiddenResolvers(filter)
	routesValid := e.data.RoutesValid(dtDepart, filter)

	labels, marking, queue, dest := e.newRoundState(fv)
	e.seedDestinations(dest, fv, destinations)
	e.seedOrigins(labels, marking, fv, departs, dtDepart, 0)

	algorithm.FootpathRelax(e.data, fv, labels, marking, queue, dest, 0, e.cfg.BoardingSlack)
	rounds := algorithm.RunRounds(e.data, fv, labels, marking, queue, dest, &routesValid, e.cfg.Pruning, e.cfg.MaxRounds, e.cfg.BoardingSlack)

	if !dest.Found() {
		if done != nil {
			done(rounds, 0)
		}
		return nil
	}

	paths := e.reverseRefine(fv, dest, departs, dtDepart, filter)
	if done != nil {
		done(rounds, len(paths))
	}
	return paths
}

// ComputeReverseAll is the dual entry point: a departure-maximizing
// pass seeded from destinations working backward to departs, bounded
// by an arrival deadline, with a forward reverse-refinement pass.
func (e *Engine) ComputeReverseAll(departs, destinations []StopAccess, dtArrival structs.DateTime, forbidden []structs.ForbiddenEntry) []structs.Path {
	var done func(rounds, paths int)
	if e.metrics != nil {
		done = e.metrics.Track("reverse")
	}

	rv := algorithm.NewReverseVisitor()
	filter := comps.NewForbiddenFilter(forbidden)
	e.wireForbiddenResolvers(filter)
	routesValid := e.data.RoutesValid(dtArrival, filter)

	labels, marking, queue, dest := e.newRoundState(rv)
	e.seedDestinations(dest, rv, departs)
	e.seedOrigins(labels, marking, rv, destinations, dtArrival, 0)

	algorithm.FootpathRelax(e.data, rv, labels, marking, queue, dest, 0, e.cfg.BoardingSlack)
	rounds := algorithm.RunRounds(e.data, rv, labels, marking, queue, dest, &routesValid, e.cfg.Pruning, e.cfg.MaxRounds, e.cfg.BoardingSlack)

	if !dest.Found() {
		if done != nil {
			done(rounds, 0)
		}
		return nil
	}

	paths := e.reverseRefine(rv, dest, destinations, dtArrival, filter)
	if done != nil {
		done(rounds, len(paths))
	}
	return paths
}

// ComputeAllMultiDatetime runs one independent forward+reverse query
// per departure time in dts, returning one (possibly empty) result
// slice per seed. Each seed's ComputeAll call allocates its own label
// tensor, marking bitsets, and queue through newRoundState; nothing is
// reused between seeds -- see DESIGN.md for why the literal "do not
// reset between passes" reading was not adopted.
func (e *Engine) ComputeAllMultiDatetime(departs, destinations []StopAccess, dts []structs.DateTime, forbidden []structs.ForbiddenEntry) [][]structs.Path {
	out := make([][]structs.Path, len(dts))
	for i, dt := range dts {
		out[i] = e.ComputeAll(departs, destinations, dt, forbidden)
	}
	return out
}

func (e *Engine) newRoundState(v algorithm.Visitor) (*algorithm.LabelStore, *algorithm.Marking, *algorithm.Queue, *algorithm.BestDestination) {
	sentinel := structs.UninitializedRetour()
	if !v.Clockwise() {
		sentinel = structs.UninitializedRetourReverse()
	}
	labels := algorithm.NewLabelStore(int32(e.data.RoutePointCount()), sentinel)
	marking := algorithm.NewMarking(int32(e.data.RoutePointCount()), int32(e.data.StopPointCount()))
	queue := algorithm.NewQueue(int32(e.data.RouteCount()))
	queue.Reset(v.QueueSentinel())
	dest := algorithm.NewBestDestination(v)
	return labels, marking, queue, dest
}

func (e *Engine) seedDestinations(dest *algorithm.BestDestination, v algorithm.Visitor, destinations []StopAccess) {
	for _, d := range destinations {
		sp := e.data.GetStopPoint(d.StopPoint)
		egress := secondsFromMeters(d.Distance, e.cfg.WalkingSpeed)
		for _, rp := range sp.RoutePointList {
			dest.AddDestination(rp, egress)
		}
	}
}

func (e *Engine) seedOrigins(labels *algorithm.LabelStore, marking *algorithm.Marking, v algorithm.Visitor, origins []StopAccess, dt structs.DateTime, round int) {
	for _, o := range origins {
		access := secondsFromMeters(o.Distance, e.cfg.WalkingSpeed)
		instant := v.Combine(dt, access)
		sp := e.data.GetStopPoint(o.StopPoint)
		for _, rp := range sp.RoutePointList {
			label := structs.Retour{
				Type:       structs.Departure,
				BoardingRP: structs.NoRoutePoint,
			}
			v.SetField(&label, instant)
			v.SetOtherField(&label, instant)

			current := labels.Best(rp)
			if current.IsInitialized() && !v.Comp(instant, v.Field(&current)) {
				continue
			}

			labels.Set(round, rp, label)
			labels.SetBest(rp, label)
			marking.MarkRoutePoint(rp)
			marking.MarkStopPoint(o.StopPoint)
		}
	}
}

// reverseRefine runs one opposite-direction round loop per frontier
// point the forward pass recorded, seeded at the destination
// route-point with its own known label as the reverse-pass bound, and
// reconstructs one Path per point.
func (e *Engine) reverseRefine(fwd algorithm.Visitor, dest *algorithm.BestDestination, origins []StopAccess, requestTime structs.DateTime, filter *comps.ForbiddenFilter) []structs.Path {
	var rev algorithm.Visitor
	if fwd.Clockwise() {
		rev = algorithm.NewReverseVisitor()
	} else {
		rev = algorithm.NewForwardVisitor()
	}

	paths := make([]structs.Path, 0, len(dest.Frontier()))
	for _, fp := range dest.Frontier() {
		labels, marking, queue, dest2 := e.newRoundState(rev)
		e.seedDestinations(dest2, rev, origins)

		bound := fwd.Field(&fp.Label)
		seed := structs.Retour{Type: structs.Departure, BoardingRP: structs.NoRoutePoint}
		rev.SetField(&seed, bound)
		rev.SetOtherField(&seed, bound)
		labels.Set(0, fp.RP, seed)
		labels.SetBest(fp.RP, seed)
		marking.MarkRoutePoint(fp.RP)
		marking.MarkStopPoint(e.data.GetRoutePoint(fp.RP).StopPointIdx)

		routesValid := e.data.RoutesValid(bound, filter)
		algorithm.FootpathRelax(e.data, rev, labels, marking, queue, dest2, 0, e.cfg.BoardingSlack)
		algorithm.RunRounds(e.data, rev, labels, marking, queue, dest2, &routesValid, e.cfg.Pruning, fp.Round+1, e.cfg.BoardingSlack)

		if !dest2.Found() {
			continue
		}
		winnerRP, winnerRound := dest2.Winner()
		items := reconstruct(e.data, rev, labels, winnerRP, winnerRound)

		path := structs.Path{
			Items:          items,
			PercentVisited: 100 * float64(labels.BestInitializedCount()) / float64(e.data.StopPointCount()),
			RequestTime:    requestTime,
		}
		path.Recompute()
		paths = append(paths, path)
		if e.metrics != nil {
			e.metrics.PercentVisited.Observe(path.PercentVisited)
		}
	}
	return paths
}
