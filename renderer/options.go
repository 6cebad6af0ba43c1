package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of goroutines tracing row blocks in parallel. Defaults to the
	// number of CPUs if not positive.
	Workers int

	// Hits farther than this (in ray parameter units) fade into the
	// background color.
	MaxDistance float32

	// Trace Supersample x Supersample rays per pixel and downscale the
	// result. Values below 2 disable supersampling.
	Supersample uint32

	// Draw frame statistics on top of the rendered frame.
	Overlay bool
}
