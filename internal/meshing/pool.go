package meshing

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"voxel-lod/internal/octree"
	"voxel-lod/internal/voxel"
)

// ErrNilGrid is reported for jobs submitted without a grid.
var ErrNilGrid = errors.New("mesh job has no grid")

// MeshJob represents a polygonization request for one chunk
type MeshJob struct {
	Key      octree.Key
	Grid     *voxel.Grid
	IsoLevel float32
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the lattice-space surface of one chunk
type MeshResult struct {
	Key       octree.Key
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Error     error
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJobBlocking submits a job and blocks until it's queued.
// Returns false if the pool has been shut down.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := Build(job)

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Build runs one job on the calling goroutine.
func Build(job MeshJob) MeshResult {
	if job.Grid == nil {
		return MeshResult{Key: job.Key, Error: errors.Wrapf(ErrNilGrid, "chunk %s", job.Key)}
	}
	positions := PolygonizeGrid(job.Grid, job.IsoLevel)
	return MeshResult{
		Key:       job.Key,
		Positions: positions,
		Normals:   ComputeNormals(positions),
	}
}

// Shutdown stops the workers. Jobs still queued are dropped; no job may be
// submitted afterwards.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
