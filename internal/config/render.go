package config

import "sync"

const (
	minViewRadius = 0
	maxViewRadius = 8
)

// RenderSettings holds the LOD settings that may change while the terrain runs.
// Every change bumps a version so the terrain can force an update.
type RenderSettings struct {
	mu         sync.RWMutex
	viewRadius int // in base-level nodes
	maxDepth   uint8
	depthLimit uint8
	version    uint64
}

// NewRenderSettings creates settings from the terrain config. depthLimit caps MaxDepth.
func NewRenderSettings(t TerrainConfig, depthLimit uint8) *RenderSettings {
	rs := &RenderSettings{depthLimit: depthLimit}
	rs.viewRadius = clampRadius(t.ViewRadius)
	rs.maxDepth = min(t.MaxDepth, depthLimit)
	return rs
}

// ViewRadius returns the candidate neighbourhood radius.
func (rs *RenderSettings) ViewRadius() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.viewRadius
}

// SetViewRadius sets the neighbourhood radius.
func (rs *RenderSettings) SetViewRadius(radius int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	radius = clampRadius(radius)
	if radius != rs.viewRadius {
		rs.viewRadius = radius
		rs.version++
	}
}

// MaxDepth returns the refinement depth below the base level.
func (rs *RenderSettings) MaxDepth() uint8 {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.maxDepth
}

// SetMaxDepth sets the refinement depth, clamped to the tree.
func (rs *RenderSettings) SetMaxDepth(depth int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if depth < 0 {
		depth = 0
	}
	d := uint8(min(depth, int(rs.depthLimit)))
	if d != rs.maxDepth {
		rs.maxDepth = d
		rs.version++
	}
}

// Snapshot returns radius, depth and version under one lock.
func (rs *RenderSettings) Snapshot() (radius int, depth uint8, version uint64) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.viewRadius, rs.maxDepth, rs.version
}

func clampRadius(r int) int {
	if r < minViewRadius {
		return minViewRadius
	}
	if r > maxViewRadius {
		return maxViewRadius
	}
	return r
}
