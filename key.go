package fsm

// TransitionKey packs from into the low 32 bits and to into the high 32
// bits. State values wider than 32 bits are truncated.
func TransitionKey[S State](from, to S) uint64 {
	return uint64(uint32(to))<<32 | uint64(uint32(from))
}

// SplitTransitionKey reverses TransitionKey for states that fit in 32
// bits. Signed states keep their sign.
func SplitTransitionKey[S State](key uint64) (from, to S) {
	return unpack[S](uint32(key)), unpack[S](uint32(key >> 32))
}

func unpack[S State](half uint32) S {
	var zero S
	if zero-1 < zero {
		return S(int32(half))
	}
	return S(half)
}
