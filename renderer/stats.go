package renderer

import "time"

type WorkerStat struct {
	// The worker index.
	Id int

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration
}

type FrameStats struct {
	// Unique id of the rendered frame.
	Id string

	// The tracer used for the frame.
	Tracer string

	// Individual worker stats.
	Workers []WorkerStat

	// Number of traced rays and the number of them that hit a voxel.
	Rays uint64
	Hits uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}
