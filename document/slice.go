package document

// SliceKey is the bounds (and optional 9-slice/pivot metadata) for a
// Slice as of a specific frame.
type SliceKey struct {
	Frame int
	X, Y  int32
	W, H  uint32

	HasCenter    bool
	CX, CY       int32
	CW, CH       uint32

	HasPivot bool
	PX, PY   int32
}

// Slice is a named region with an ordered set of keys, keyed by
// frame. The active key at frame F is the key with the greatest
// frame <= F.
type Slice struct {
	Name     string
	Keys     []SliceKey
	UserData UserData
}

// NewSlice returns an empty, named slice.
func NewSlice(name string) *Slice {
	return &Slice{Name: name}
}

// AddKey inserts key, keeping Keys sorted by Frame ascending. A key
// already present at the same frame is replaced.
func (s *Slice) AddKey(key SliceKey) {
	for i := range s.Keys {
		if s.Keys[i].Frame == key.Frame {
			s.Keys[i] = key
			return
		}
		if s.Keys[i].Frame > key.Frame {
			s.Keys = append(s.Keys, SliceKey{})
			copy(s.Keys[i+1:], s.Keys[i:])
			s.Keys[i] = key
			return
		}
	}
	s.Keys = append(s.Keys, key)
}

// KeyAt returns the key in effect at frame, i.e. the key with the
// greatest Frame <= frame, or nil if none qualifies.
func (s *Slice) KeyAt(frame int) *SliceKey {
	var active *SliceKey
	for i := range s.Keys {
		if s.Keys[i].Frame <= frame {
			active = &s.Keys[i]
		} else {
			break
		}
	}
	return active
}

// Has9Slice reports whether any key uses 9-slice bounds; this is the
// slice-level flag written to the wire (spec §4.2).
func (s *Slice) Has9Slice() bool {
	for _, k := range s.Keys {
		if k.HasCenter {
			return true
		}
	}
	return false
}

// HasPivot reports whether any key uses a pivot; this is the
// slice-level flag written to the wire (spec §4.2).
func (s *Slice) HasPivot() bool {
	for _, k := range s.Keys {
		if k.HasPivot {
			return true
		}
	}
	return false
}
