package config

import (
	"runtime"
	"sync"
)

// RenderSettings holds process-wide render configuration. Renderers fall
// back to these values when their own fields are zero.
type RenderSettings struct {
	mu        sync.RWMutex
	workers   int
	tileSize  int // in pixels
	earlyExit bool
}

var globalRenderSettings = &RenderSettings{
	workers:   runtime.NumCPU(),
	tileSize:  64,
	earlyExit: true,
}

// GetWorkers returns the number of render workers
func GetWorkers() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.workers
}

// SetWorkers sets the number of render workers
func SetWorkers(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}

	globalRenderSettings.workers = n
}

// GetTileSize returns the side length of a raster tile in pixels
func GetTileSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.tileSize
}

// SetTileSize sets the raster tile side length in pixels
func SetTileSize(size int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if size < 8 {
		size = 8
	}
	if size > 512 {
		size = 512
	}

	globalRenderSettings.tileSize = size
}

// GetEarlyExit returns whether cloud marches stop once transmittance saturates
func GetEarlyExit() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.earlyExit
}

// SetEarlyExit toggles the transmittance saturation early exit
func SetEarlyExit(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.earlyExit = enabled
}
