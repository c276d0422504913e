package navmesh

import assert "github.com/aurelien-rainone/assertgo"

// FilterLowHangingWalkableObstacles lets walkable regions flow over low
// curbs and up short stairways: a non-walkable span gets relabeled to the
// area of the walkable span directly below it, if the step between them is
// at most walkableClimb. The "walkable below" state is read before any
// relabeling in the same column pass, so a chain of several thin obstacles
// cannot walk its area id upward one hop at a time.
func FilterLowHangingWalkableObstacles(ctx *Context, walkableClimb int32, hf *Heightfield) {
	assert.True(walkableClimb >= 0, "walkableClimb must be >= 0")

	ctx.StartTimer(TimerFilterLowObstacles)
	defer ctx.StopTimer(TimerFilterLowObstacles)

	w, h := hf.Width, hf.Height
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			var ps *span
			previousWalkable := false
			previousArea := NullArea

			for s := hf.spans[x+z*w]; s != nil; s = s.next {
				walkable := s.area != NullArea
				if !walkable && previousWalkable {
					if iAbs(int32(s.smax)-int32(ps.smax)) <= walkableClimb {
						s.area = previousArea
					}
				}
				previousWalkable = walkable
				previousArea = s.area
				ps = s
			}
		}
	}
}

// FilterLedgeSpans strips walkability from any span whose accessible
// neighbor floors differ too much from its own: either a neighbor drops
// more than walkableClimb below it, or the accessible neighbors' floors
// span a range wider than walkableClimb. A neighbor only counts as
// "accessible" if the headroom shared between the two spans is at least
// walkableHeight.
func FilterLedgeSpans(ctx *Context, walkableHeight, walkableClimb int32, hf *Heightfield) {
	ctx.StartTimer(TimerFilterBorder)
	defer ctx.StopTimer(TimerFilterBorder)

	w, h := hf.Width, hf.Height
	const maxHeight = int32(0xffff)

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			for s := hf.spans[x+z*w]; s != nil; s = s.next {
				if s.area == NullArea {
					continue
				}

				bot := int32(s.smax)
				top := maxHeight
				if s.next != nil {
					top = int32(s.next.smin)
				}

				minh := maxHeight
				asmin := int32(s.smax)
				asmax := int32(s.smax)

				for dir := int32(0); dir < 4; dir++ {
					dx := x + dirOffsetXDir(dir)
					dz := z + dirOffsetZDir(dir)
					if dx < 0 || dz < 0 || dx >= w || dz >= h {
						minh = iMin(minh, -walkableClimb-bot)
						continue
					}

					ns := hf.spans[dx+dz*w]
					nbot := -walkableClimb
					ntop := maxHeight
					if ns != nil {
						ntop = int32(ns.smin)
					}
					if iMin(top, ntop)-iMax(bot, nbot) >= walkableHeight {
						minh = iMin(minh, nbot-bot)
					}

					for ; ns != nil; ns = ns.next {
						nbot = int32(ns.smax)
						ntop = maxHeight
						if ns.next != nil {
							ntop = int32(ns.next.smin)
						}
						if iMin(top, ntop)-iMax(bot, nbot) >= walkableHeight {
							minh = iMin(minh, nbot-bot)
							if iAbs(nbot-bot) <= walkableClimb {
								asmin = iMin(asmin, nbot)
								asmax = iMax(asmax, nbot)
							}
						}
					}
				}

				if minh < -walkableClimb {
					s.area = NullArea
				} else if asmax-asmin > walkableClimb {
					s.area = NullArea
				}
			}
		}
	}
}

// FilterWalkableLowHeightSpans removes walkability from any span whose
// clearance to the next span above it is less than walkableHeight.
func FilterWalkableLowHeightSpans(ctx *Context, walkableHeight int32, hf *Heightfield) {
	assert.True(walkableHeight >= 1, "walkableHeight must be >= 1")

	ctx.StartTimer(TimerFilterWalkable)
	defer ctx.StopTimer(TimerFilterWalkable)

	w, h := hf.Width, hf.Height
	const maxHeight = int32(0xffff)

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			for s := hf.spans[x+z*w]; s != nil; s = s.next {
				bot := int32(s.smax)
				top := maxHeight
				if s.next != nil {
					top = int32(s.next.smin)
				}
				if top-bot < walkableHeight {
					s.area = NullArea
				}
			}
		}
	}
}
