package tracer

import (
	"math"
	"time"
)

// Statistics for a block of rows traced by a single worker.
type BlockStats struct {
	// The traced block height
	BlockH uint32

	// The time for tracing this block
	BlockTime time.Duration
}

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign them to a
	// pool of workers, optionally using the block statistics collected
	// while rendering the previous frame (nil for the first frame).
	//
	// This function returns the block height assignment for each worker.
	// Assignments always add up to frameH.
	Schedule(workers int, frameH uint32, last []BlockStats) []uint32
}

type naiveScheduler struct{}

// Create a scheduler that splits the frame into blocks of equal height.
// Leftover rows go to the first workers.
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(workers int, frameH uint32, _ []BlockStats) []uint32 {
	return evenSplit(workers, frameH)
}

func evenSplit(workers int, frameH uint32) []uint32 {
	if workers <= 0 {
		return nil
	}

	assignment := make([]uint32, workers)
	rows := frameH / uint32(workers)
	rem := frameH % uint32(workers)
	for idx := range assignment {
		assignment[idx] = rows
		if uint32(idx) < rem {
			assignment[idx]++
		}
	}
	return assignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct{}

// Create a scheduler that balances blocks using the previous frame timings.
func PerfectScheduler() BlockScheduler {
	return perfectScheduler{}
}

// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for worker w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (perfectScheduler) Schedule(workers int, frameH uint32, last []BlockStats) []uint32 {
	if workers <= 0 || len(last) != workers || frameH < uint32(workers) {
		return evenSplit(workers, frameH)
	}

	var total float64
	for _, stats := range last {
		if stats.BlockTime <= 0 || stats.BlockH == 0 {
			return evenSplit(workers, frameH)
		}
		total += float64(stats.BlockH) / float64(stats.BlockTime)
	}

	scaler := float64(frameH) / total
	assignment := make([]uint32, workers)
	var scheduledRows uint32
	for idx, stats := range last {
		rate := float64(stats.BlockH) / float64(stats.BlockTime)
		assignment[idx] = uint32(math.Max(1.0, math.Floor(rate*scaler)))
		scheduledRows += assignment[idx]
	}

	// Trim rows from the largest blocks if the one row minimum pushed us
	// over the frame height.
	for scheduledRows > frameH {
		largest := 0
		for idx := range assignment {
			if assignment[idx] > assignment[largest] {
				largest = idx
			}
		}
		assignment[largest]--
		scheduledRows--
	}

	// In case rows don't add up to the frame height append the missing ones to the first worker
	assignment[0] += frameH - scheduledRows

	return assignment
}
