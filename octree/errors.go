package octree

import "errors"

var (
	ErrSizeNotPowerOfTwo = errors.New("octree: size must be a power of two")
)
