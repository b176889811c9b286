package streetnet

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// CarState is the renderable position of a single simulated car
type CarState struct {
	ID  string  `json:"id"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Snapshot is an immutable view of the simulation at one tick. Snapshots are
// handed off whole: readers never observe a partially advanced tick.
type Snapshot struct {
	Tick int        `json:"tick"`
	Cars []CarState `json:"cars"`
}

type simCar struct {
	id        string
	edge      *Edge
	travelled float64
}

// Simulation advances cars along graph edges in discrete ticks and maintains
// the per-edge occupant registries. It is single-writer: Tick must be called
// from one goroutine (Run does exactly that), readers consume snapshots.
type Simulation struct {
	graph *Graph
	cars  []*simCar
	tick  int
	step  time.Duration
	rng   *rand.Rand
}

// NewSimulation seeds numCars cars onto random edges of the graph. step is
// the simulated time advanced per tick.
func NewSimulation(graph *Graph, numCars int, step time.Duration, seed int64) (*Simulation, error) {
	if len(graph.Edges) == 0 {
		return nil, errors.New("Graph has no edges to place cars on")
	}
	sim := &Simulation{
		graph: graph,
		step:  step,
		rng:   rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < numCars; i++ {
		edge := graph.Edges[sim.rng.Intn(len(graph.Edges))]
		car := &simCar{
			id:        fmt.Sprintf("car-%d", i),
			edge:      edge,
			travelled: sim.rng.Float64() * edge.LengthMeters,
		}
		edge.Cars[car.id] = car.travelled
		sim.cars = append(sim.cars, car)
	}
	return sim, nil
}

// Tick advances every car by its edge speed limit over one step and returns
// the resulting snapshot. A car reaching the end of its edge hops onto a
// random outgoing edge of the target point; with nowhere to go it parks at
// the edge end.
func (sim *Simulation) Tick() Snapshot {
	dt := sim.step.Seconds()
	for _, car := range sim.cars {
		car.travelled += car.edge.MaxSpeed * dt
		// Bounded hop count keeps a tick finite on degenerate zero-length
		// edges
		for hops := 0; car.travelled >= car.edge.LengthMeters && hops < 8; hops++ {
			next := sim.nextEdge(car.edge)
			if next == nil {
				car.travelled = car.edge.LengthMeters
				break
			}
			leftover := car.travelled - car.edge.LengthMeters
			delete(car.edge.Cars, car.id)
			car.edge = next
			car.travelled = leftover
		}
		if car.travelled > car.edge.LengthMeters {
			car.travelled = car.edge.LengthMeters
		}
		car.edge.Cars[car.id] = car.travelled
	}
	sim.tick++

	cars := make([]CarState, 0, len(sim.cars))
	for _, car := range sim.cars {
		position := sim.carPosition(car)
		cars = append(cars, CarState{
			ID:  car.id,
			Lon: position.Lon,
			Lat: position.Lat,
		})
	}
	return Snapshot{Tick: sim.tick, Cars: cars}
}

// nextEdge picks a random edge leaving the end of the current one, avoiding
// an immediate U-turn when any alternative exists
func (sim *Simulation) nextEdge(current *Edge) *Edge {
	outgoing := sim.graph.Outgoing(current.To)
	if len(outgoing) == 0 {
		return nil
	}
	forward := make([]*Edge, 0, len(outgoing))
	for _, edge := range outgoing {
		if edge.To != current.From {
			forward = append(forward, edge)
		}
	}
	if len(forward) == 0 {
		forward = outgoing
	}
	return forward[sim.rng.Intn(len(forward))]
}

// carPosition interpolates the car between its edge endpoints
func (sim *Simulation) carPosition(car *simCar) GeoPoint {
	source := sim.graph.Points[car.edge.From].GeoPoint()
	target := sim.graph.Points[car.edge.To].GeoPoint()
	if car.edge.LengthMeters <= 0 {
		return source
	}
	fraction := car.travelled / car.edge.LengthMeters
	if fraction > 1 {
		fraction = 1
	}
	return pointOnSegmentByFraction(source, target, fraction)
}

// Run drives the simulation until the context is cancelled, delivering one
// snapshot per interval. The channel is closed on cancellation. When the
// reader falls behind, the stale snapshot is dropped in favor of the fresh
// one.
func (sim *Simulation) Run(ctx context.Context, interval time.Duration) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snapshot := sim.Tick()
				select {
				case out <- snapshot:
				default:
					select {
					case <-out:
					default:
					}
					out <- snapshot
				}
			}
		}
	}()
	return out
}
