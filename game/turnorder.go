package game

// NextPlayerIndex resolves which live-player index plays after `offset`
// steps from `start`, walking clockwise or counter-clockwise around the
// table with wraparound. Pure function over the live player list length.
func NextPlayerIndex(start, offset, liveCount int, clockwise bool) int {
	if liveCount <= 0 {
		return 0
	}
	if clockwise {
		return ((start+offset)%liveCount + liveCount) % liveCount
	}
	return ((start-offset)%liveCount + liveCount) % liveCount
}

// TurnSequence returns one full rotation of live-player indices starting at
// `start` in the given direction. The execution phase walks this sequence.
func TurnSequence(start, liveCount int, clockwise bool) []int {
	if liveCount <= 0 {
		return nil
	}
	seq := make([]int, liveCount)
	for i := 0; i < liveCount; i++ {
		seq[i] = NextPlayerIndex(start, i, liveCount, clockwise)
	}
	return seq
}
