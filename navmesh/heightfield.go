package navmesh

// span is a contiguous vertical run of solid voxels within one heightfield
// column. Spans within a column are kept sorted ascending with no overlap:
// for consecutive spans, smin(i+1) >= smax(i).
type span struct {
	smin, smax uint16
	area       uint8
	next       *span
}

// spanPool is an arena of spans, allocated SpansPerPool at a time and
// handed out through the heightfield's freelist. This is the one place in
// the pipeline that needs a linked structure instead of a flat array: a
// column's span count is unbounded until compaction, so spans are pooled
// rather than indexed into a pre-sized slice.
type spanPool struct {
	next  *spanPool
	items [SpansPerPool]span
}

// Heightfield is a voxelized column grid of solid spans, the raw output of
// rasterization before any filtering or compaction.
type Heightfield struct {
	Width, Height int32
	BMin, BMax    [3]float32
	Cs, Ch        float32

	spans    []*span
	pools    *spanPool
	freelist *span
}

// NewHeightfield allocates a heightfield of size w x h cells spanning
// bmin..bmax, with cell size cs in xz and ch in y.
func NewHeightfield(w, h int32, bmin, bmax [3]float32, cs, ch float32) *Heightfield {
	return &Heightfield{
		Width: w, Height: h,
		BMin: bmin, BMax: bmax,
		Cs: cs, Ch: ch,
		spans: make([]*span, w*h),
	}
}

func (hf *Heightfield) allocSpan() *span {
	if hf.freelist == nil || hf.freelist.next == nil {
		pool := &spanPool{next: hf.pools}
		hf.pools = pool
		for i := len(pool.items) - 1; i >= 0; i-- {
			pool.items[i].next = hf.freelist
			hf.freelist = &pool.items[i]
		}
	}
	s := hf.freelist
	hf.freelist = hf.freelist.next
	return s
}

func (hf *Heightfield) freeSpan(s *span) {
	if s == nil {
		return
	}
	s.next = hf.freelist
	hf.freelist = s
}

// addSpan inserts [smin,smax) with the given area into column (x,z),
// merging with any existing spans it overlaps. flagMergeThr bounds how far
// apart two merged spans' tops may be before the new span's area replaces
// the old one outright, rather than taking the max of the two: the
// intent is that the top of a span defines its identity, so a
// big difference in where the merged span's ceiling used to sit means the
// old area id shouldn't survive.
func (hf *Heightfield) addSpan(x, z int32, smin, smax uint16, area uint8, flagMergeThr int32) {
	idx := x + z*hf.Width
	s := hf.allocSpan()
	s.smin, s.smax, s.area, s.next = smin, smax, area, nil

	if hf.spans[idx] == nil {
		hf.spans[idx] = s
		return
	}

	var prev *span
	cur := hf.spans[idx]
	for cur != nil {
		if cur.smin > s.smax {
			break
		} else if cur.smax < s.smin {
			prev = cur
			cur = cur.next
		} else {
			if cur.smin < s.smin {
				s.smin = cur.smin
			}
			if cur.smax > s.smax {
				s.smax = cur.smax
			}
			if iAbs(int32(s.smax)-int32(cur.smax)) <= flagMergeThr {
				if cur.area > s.area {
					s.area = cur.area
				}
			}
			next := cur.next
			hf.freeSpan(cur)
			if prev != nil {
				prev.next = next
			} else {
				hf.spans[idx] = next
			}
			cur = next
		}
	}

	if prev != nil {
		s.next = prev.next
		prev.next = s
	} else {
		s.next = hf.spans[idx]
		hf.spans[idx] = s
	}
}

// ColumnSpanCount returns the number of spans stacked in column (x,z).
func (hf *Heightfield) ColumnSpanCount(x, z int32) int32 {
	var n int32
	for s := hf.spans[x+z*hf.Width]; s != nil; s = s.next {
		n++
	}
	return n
}

// CompactCell indexes into CompactHeightfield.Spans: the walkable spans of
// one column occupy Spans[Index : Index+int32(Count)].
type CompactCell struct {
	Index uint32
	Count uint8
}

// CompactSpan is a single walkable air column above a solid floor: the
// floor sits at Y, and there is H cells of clearance above it. Con packs
// four 6-bit neighbor span indices, one per cardinal direction; a 6-bit
// field means at most 63 spans may stack in a single column without
// breaking the encoding (see ErrResourceExhausted in BuildCompactHeightfield).
type CompactSpan struct {
	Y, H uint16
	Reg  uint16
	Con  uint32
}

// SetCon stores the local index of the neighbor span reachable from s in
// direction dir (0..3).
func SetCon(s *CompactSpan, dir, i int32) {
	shift := uint32(dir * 6)
	s.Con = (s.Con &^ (0x3f << shift)) | (uint32(i&0x3f) << shift)
}

// GetCon returns the local index of the neighbor span reachable from s in
// direction dir, or NotConnected if there is none.
func GetCon(s *CompactSpan, dir int32) int32 {
	return int32((s.Con >> uint32(dir*6)) & 0x3f)
}

// CompactHeightfield is the dense, walkable-surface-only representation
// used by every stage downstream of S3: one CompactSpan per walkable
// column position, four-connected to its neighbors.
type CompactHeightfield struct {
	Width, Height  int32
	SpanCount      int32
	WalkableHeight int32
	WalkableClimb  int32
	BorderSize     int32
	MaxDistance    uint16
	MaxRegions     uint16
	BMin, BMax     [3]float32
	Cs, Ch         float32

	Cells []CompactCell
	Spans []CompactSpan
	Dist  []uint16
	Areas []uint8
}
