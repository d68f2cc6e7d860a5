// Package bounds tracks the extents of the loaded toolpath geometry and derives
// the boxes the viewer frames and draws.
package bounds

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-toolpath/common"
)

const (
	// DefaultHalfExtent is the half size of the synthetic model box used when nothing is loaded.
	DefaultHalfExtent float32 = 10
	// DefaultChunkSize is the number of points scanned by one pool task.
	DefaultChunkSize = 16384
)

// Provider is the bounding-box source for the viewer. Geometry arrays are flat
// xyz triples; their extents are computed when they are set.
type Provider interface {
	// SetPath replaces the toolpath points.
	//
	// Parameters:
	//   - points: flat x, y, z triples
	SetPath(points []float32)

	// SetSurface replaces the surface mesh vertices.
	//
	// Parameters:
	//   - vertices: flat x, y, z triples
	SetSurface(vertices []float32)

	// SetWorkpiece replaces the workpiece box. An empty box clears it.
	SetWorkpiece(box common.Box3)

	// SetEnvelope replaces the machine envelope box. An empty box clears it.
	SetEnvelope(box common.Box3)

	// SetEnvelopeVisible selects whether ModelBounds includes the envelope.
	SetEnvelopeVisible(visible bool)

	// RealBounds returns the union of path, surface and workpiece extents.
	// The result is empty when nothing is loaded.
	RealBounds() common.Box3

	// ModelBounds returns RealBounds, unioned with the envelope when it is visible.
	// When that is empty a default cube centered at the origin is returned instead.
	ModelBounds() common.Box3

	// ShowTool reports whether there is real geometry to place a tool in.
	ShowTool() bool

	// Revision increases every time any input changes.
	Revision() uint64
}

type provider struct {
	mu *sync.Mutex

	pool      worker.DynamicWorkerPool
	workers   int
	chunkSize int

	defaultHalfExtent float32

	path            common.Box3
	surface         common.Box3
	workpiece       common.Box3
	envelope        common.Box3
	envelopeVisible bool

	revision uint64
}

var _ Provider = &provider{}

// NewProvider creates a Provider with nothing loaded.
//
// Parameters:
//   - options: functional options to configure the provider
//
// Returns:
//   - Provider: the newly created provider
func NewProvider(options ...ProviderOption) Provider {
	p := &provider{
		mu:                &sync.Mutex{},
		workers:           max(runtime.NumCPU()-1, 1),
		chunkSize:         DefaultChunkSize,
		defaultHalfExtent: DefaultHalfExtent,
		path:              common.EmptyBox(),
		surface:           common.EmptyBox(),
		workpiece:         common.EmptyBox(),
		envelope:          common.EmptyBox(),
	}
	for _, option := range options {
		option(p)
	}

	// Workers idle out after a second, so a static toolpath costs nothing.
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	return p
}

func (p *provider) SetPath(points []float32) {
	box := p.extent("path", points)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = box
	p.revision++
}

func (p *provider) SetSurface(vertices []float32) {
	box := p.extent("surface", vertices)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = box
	p.revision++
}

func (p *provider) SetWorkpiece(box common.Box3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workpiece = sanitize(box)
	p.revision++
}

func (p *provider) SetEnvelope(box common.Box3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelope = sanitize(box)
	p.revision++
}

func (p *provider) SetEnvelopeVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.envelopeVisible != visible {
		p.envelopeVisible = visible
		p.revision++
	}
}

func (p *provider) RealBounds() common.Box3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realBounds()
}

func (p *provider) ModelBounds() common.Box3 {
	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.realBounds()
	if p.envelopeVisible {
		b = b.Union(p.envelope)
	}
	if b.IsEmpty() {
		return common.CubeBox(mgl32.Vec3{}, p.defaultHalfExtent)
	}
	return b
}

func (p *provider) ShowTool() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.realBounds().IsEmpty()
}

func (p *provider) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

// realBounds unions the loaded geometry.
// Caller must hold the mutex.
func (p *provider) realBounds() common.Box3 {
	return p.path.Union(p.surface).Union(p.workpiece)
}

// extent scans a flat xyz array. Arrays larger than one chunk are split across
// the worker pool and joined with a WaitGroup barrier.
func (p *provider) extent(name string, xyz []float32) common.Box3 {
	if rem := len(xyz) % 3; rem != 0 {
		log.Printf("[Bounds] %s has %d trailing values, ignoring them", name, rem)
		xyz = xyz[:len(xyz)-rem]
	}
	n := len(xyz) / 3
	if n <= p.chunkSize {
		return scan(xyz)
	}

	chunks := (n + p.chunkSize - 1) / p.chunkSize
	results := make([]common.Box3, chunks)

	var wg sync.WaitGroup
	for i := range chunks {
		lo := i * p.chunkSize * 3
		hi := min(lo+p.chunkSize*3, len(xyz))
		part := xyz[lo:hi]
		idx := i

		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx] = scan(part)
				return nil, nil
			},
		})
	}
	wg.Wait()

	box := common.EmptyBox()
	for _, r := range results {
		box = box.Union(r)
	}
	return box
}

// scan returns the extent of a flat xyz array that holds whole triples.
func scan(xyz []float32) common.Box3 {
	box := common.EmptyBox()
	for i := 0; i+2 < len(xyz); i += 3 {
		box = box.ExpandByPoint(mgl32.Vec3{xyz[i], xyz[i+1], xyz[i+2]})
	}
	return box
}

// sanitize drops boxes that are empty or carry non-finite coordinates.
func sanitize(b common.Box3) common.Box3 {
	if b.IsEmpty() || !b.IsFinite() {
		return common.EmptyBox()
	}
	return b
}
