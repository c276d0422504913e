package navmesh

// BuildCompactHeightfield collapses hf's per-column span lists into a
// dense walkable-surface representation: one CompactSpan per walkable air
// gap of at least walkableHeight above a solid floor, four-connected to
// whichever neighbor span it can step to within walkableClimb. The
// layout here (Cells indexing into a flat Spans slice, Con packing four
// 6-bit neighbor indices) follows the convention region.go and
// polymesh.go already assume of CompactHeightfield.
func BuildCompactHeightfield(ctx *Context, walkableHeight, walkableClimb int32, hf *Heightfield) (*CompactHeightfield, error) {
	ctx.StartTimer(TimerBuildCompactHeightfield)
	defer ctx.StopTimer(TimerBuildCompactHeightfield)

	w, h := hf.Width, hf.Height

	spanCount := int32(0)
	for i := int32(0); i < w*h; i++ {
		for s := hf.spans[i]; s != nil; s = s.next {
			if s.area != NullArea {
				spanCount++
			}
		}
	}

	chf := &CompactHeightfield{
		Width: w, Height: h,
		SpanCount:      spanCount,
		WalkableHeight: walkableHeight,
		WalkableClimb:  walkableClimb,
		BMin:           hf.BMin,
		BMax:           hf.BMax,
		Cs:             hf.Cs,
		Ch:             hf.Ch,
		Cells:          make([]CompactCell, w*h),
		Spans:          make([]CompactSpan, spanCount),
		Areas:          make([]uint8, spanCount),
	}
	chf.BMax[1] += float32(walkableHeight) * hf.Ch

	const maxHeight = int32(0xffff)
	idx := uint32(0)
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			c := x + z*w
			s := hf.spans[c]
			if s == nil {
				continue
			}

			startIdx := idx
			var count uint8
			for ; s != nil; s = s.next {
				if s.area == NullArea {
					continue
				}
				bot := int32(s.smax)
				top := maxHeight
				if s.next != nil {
					top = int32(s.next.smin)
				}
				if top-bot < walkableHeight {
					continue
				}
				clearance := top - bot
				if clearance > maxHeight {
					clearance = maxHeight
				}
				if count == uint8(NotConnected) {
					return nil, newErrorf(ErrResourceExhausted, CodeTooManySpansInColumn,
						"column (%d,%d) has more than %d walkable spans", x, z, NotConnected).
						With("x", x).With("z", z)
				}
				chf.Spans[idx] = CompactSpan{Y: uint16(bot), H: uint16(clearance)}
				chf.Areas[idx] = s.area
				idx++
				count++
			}
			chf.Cells[c] = CompactCell{Index: uint32(startIdx), Count: count}
		}
	}

	// Neighbor connectivity: for each walkable span, find the walkable span
	// in each of the 4 cardinal neighbor columns whose floor is reachable
	// within walkableClimb and whose shared clearance is at least
	// walkableHeight, taking the first (lowest) such span in the column.
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			cell := chf.Cells[x+z*w]
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				s := &chf.Spans[i]
				for dir := int32(0); dir < 4; dir++ {
					SetCon(s, dir, NotConnected)
					nx := x + dirOffsetXDir(dir)
					nz := z + dirOffsetZDir(dir)
					if nx < 0 || nz < 0 || nx >= w || nz >= h {
						continue
					}
					nc := chf.Cells[nx+nz*w]
					for k := nc.Index; k < nc.Index+uint32(nc.Count); k++ {
						ns := &chf.Spans[k]
						bot := iMax(int32(s.Y), int32(ns.Y))
						top := iMin(int32(s.Y)+int32(s.H), int32(ns.Y)+int32(ns.H))
						if top-bot >= walkableHeight && iAbs(int32(ns.Y)-int32(s.Y)) <= walkableClimb {
							SetCon(s, dir, int32(k-nc.Index))
							break
						}
					}
				}
			}
		}
	}

	return chf, nil
}
