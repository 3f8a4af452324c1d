package kinds

const (
	length   = 64
	idLength = 8
	depthMax = length / idLength
	idMask   = (1 << idLength) - 1
)

// Bases returns the ancestor ids packed above the leading id.
func Bases(kind uint64) [depthMax]uint64 {
	var bases [depthMax]uint64
	for i := 1; i < depthMax; i++ {
		bases[i-1] = (kind >> (idLength * i)) & idMask
	}
	return bases
}

// Kind packs id in the low byte and every distinct id of bases in the
// bytes above it, so a kind carries its whole ancestry.
func Kind(id uint64, bases ...uint64) uint64 {
	id = id & idMask
	seen := make(map[uint64]struct{})
	for _, base := range bases {
		for j := 0; j < depthMax; j++ {
			baseID := (base >> (idLength * j)) & idMask
			if baseID == 0 {
				break
			}
			if _, ok := seen[baseID]; !ok {
				seen[baseID] = struct{}{}
				id |= baseID << (idLength * len(seen))
			}
		}
	}
	return id
}

// IsKind reports whether kind is, or descends from, any of bases.
func IsKind(kind uint64, bases ...uint64) bool {
	for _, base := range bases {
		baseID := base & idMask
		if kind == baseID {
			return true
		}
		for i := 0; i < depthMax; i++ {
			if (kind>>(idLength*i))&idMask == baseID {
				return true
			}
		}
	}
	return false
}

var (
	Null        = Kind(0)
	Transition  = Kind(1)
	Immediate   = Kind(2, Transition)
	Reinvoke    = Kind(3, Immediate)
	Conditional = Kind(4, Immediate)
	Override    = Kind(5, Immediate)
	Restore     = Kind(6, Immediate)
	Timed       = Kind(7, Transition)
	Chained     = Kind(8, Timed)
	Silent      = Kind(9, Transition)
)

var names = map[uint64]string{
	Null:        "null",
	Transition:  "transition",
	Immediate:   "immediate",
	Reinvoke:    "reinvoke",
	Conditional: "conditional",
	Override:    "override",
	Restore:     "restore",
	Timed:       "timed",
	Chained:     "chained",
	Silent:      "silent",
}

// Name returns the label used in logs, spans and metrics. A kind without
// a label of its own takes the label of its nearest labelled base.
func Name(kind uint64) string {
	if name, ok := names[kind]; ok {
		return name
	}
	for _, base := range Bases(kind) {
		if base == 0 {
			break
		}
		for k, name := range names {
			if k&idMask == base {
				return name
			}
		}
	}
	return "unknown"
}
