package calculation

import (
	"math/rand/v2"
	"time"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc picks the base seed when the parameters leave it at zero.
var seedFunc = func() uint64 { return uint64(time.Now().UnixNano()) }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() uint64) { seedFunc = f }

// newTrajectoryRNG gives trajectory i its own PCG stream. The same
// (seed, index) pair always reproduces the same draws.
func newTrajectoryRNG(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}
