package config

import "time"

// Paging ranges, in pixels of a node's footprint on screen
const (
	// GZDRange is the screen size at which a zone outline gives way to its 100 km squares
	GZDRange = 640.0

	// SQIDGridRange is the screen size at which the 100 km line work loads 10 km grids
	SQIDGridRange = 3200.0

	// GridRange is the screen size at which a square grid loads the next finer grids
	GridRange = 1600.0

	// TextRange is the screen size at which zone labels give way to 100 km labels
	TextRange = 880.0

	// MaxViewPixels caps the diagonal of a requested view in screen pixels
	MaxViewPixels = 8192.0
)

// Geometry constants
const (
	// EdgeTessellation is the number of segments per zone edge
	EdgeTessellation = 20

	// GZDTextSize and SQIDTextSize are default label sizes when a style omits them
	GZDTextSize  = 32.0
	SQIDTextSize = 24.0
)

// Worker intervals
const (
	// DatasetWatchInterval defines how often the SQID dataset file is checked for changes
	DatasetWatchInterval = 30 * time.Second

	// MemoryStatsInterval defines how often runtime memory usage is logged
	MemoryStatsInterval = 30 * time.Second
)
