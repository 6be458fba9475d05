package calculation

import "math/rand/v2"

// trialStream is a worker-owned generator that is reseeded for every trial,
// so trial i always sees the same numbers regardless of which worker runs it.
type trialStream struct {
	src *rand.PCG
	rng *rand.Rand
}

func newTrialStream() *trialStream {
	src := rand.NewPCG(0, 0)
	return &trialStream{src: src, rng: rand.New(src)}
}

// For positions the stream at the start of a trial's subsequence.
func (s *trialStream) For(seed, batch uint64, trial int) *rand.Rand {
	s.src.Seed(seed, streamKey(batch, trial))
	return s.rng
}

// streamKey mixes the batch salt and trial index with splitmix64 so that
// neighbouring trials land far apart in the generator's state space.
func streamKey(batch uint64, trial int) uint64 {
	z := batch*0x9e3779b97f4a7c15 ^ uint64(trial)
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
