package navmesh

// BuildDistanceField computes, for every walkable span in chf, its chamfer
// distance to the nearest span that is either non-walkable, bordering a
// different area id, or off the edge of the heightfield. The result seeds
// watershed partitioning's flood order: spans furthest from any boundary
// are expanded into regions first. BuildRegions assumes chf.Dist is
// already populated by this pass; the distance computation itself is
// grounded on the same two-pass chamfer sweep ErodeWalkableArea performs, widened
// here to uint16 since unlike erosion the values are kept rather than
// thresholded away, and followed by a 3x3 box blur to smooth the field's
// diagonal stair-stepping before it drives flood order.
func BuildDistanceField(ctx *Context, chf *CompactHeightfield) error {
	ctx.StartTimer(TimerBuildDistanceField)
	defer ctx.StopTimer(TimerBuildDistanceField)

	dist, err := computeDistanceField(ctx, chf)
	if err != nil {
		return err
	}

	ctx.StartTimer(TimerBuildDistanceFieldBlur)
	blurred := boxBlurDistanceField(chf, dist, 1)
	ctx.StopTimer(TimerBuildDistanceFieldBlur)

	chf.Dist = blurred
	maxDist := uint16(0)
	for _, d := range blurred {
		if d > maxDist {
			maxDist = d
		}
	}
	chf.MaxDistance = maxDist
	return nil
}

func computeDistanceField(ctx *Context, chf *CompactHeightfield) ([]uint16, error) {
	ctx.StartTimer(TimerBuildDistanceFieldDist)
	defer ctx.StopTimer(TimerBuildDistanceFieldDist)

	w, h := chf.Width, chf.Height
	dist := make([]uint16, chf.SpanCount)
	for i := range dist {
		dist[i] = 0xffff
	}

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			cell := chf.Cells[x+z*w]
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				s := &chf.Spans[i]
				area := chf.Areas[i]
				border := false
				for dir := int32(0); dir < 4; dir++ {
					k := GetCon(s, dir)
					if k == NotConnected {
						border = true
						break
					}
					nx := x + dirOffsetXDir(dir)
					nz := z + dirOffsetZDir(dir)
					ni := chf.Cells[nx+nz*w].Index + uint32(k)
					if chf.Areas[ni] != area {
						border = true
						break
					}
				}
				if border {
					dist[i] = 0
				}
			}
		}
	}

	distChamferPass16(chf, dist, true)
	distChamferPass16(chf, dist, false)
	return dist, nil
}

// distChamferPass16 is BuildDistanceField's widened analogue of
// chamferPass: identical traversal and diagonal-neighbor logic, operating
// on uint16 distances that are carried forward rather than thresholded.
func distChamferPass16(chf *CompactHeightfield, dist []uint16, forward bool) {
	w, h := chf.Width, chf.Height

	dirA, dirB := int32(0), int32(3)
	if !forward {
		dirA, dirB = 2, 1
	}

	zr := makeRange(h, forward)
	for _, z := range zr {
		xr := makeRange(w, forward)
		for _, x := range xr {
			cell := chf.Cells[x+z*w]
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				s := &chf.Spans[i]

				if GetCon(s, dirA) != NotConnected {
					ax := x + dirOffsetXDir(dirA)
					az := z + dirOffsetZDir(dirA)
					ai := chf.Cells[ax+az*w].Index + uint32(GetCon(s, dirA))
					if d := int32(dist[ai]) + 2; d < int32(dist[i]) {
						dist[i] = uint16(d)
					}

					as := &chf.Spans[ai]
					dirA2 := (dirA + 3) & 0x3
					if GetCon(as, dirA2) != NotConnected {
						aax := ax + dirOffsetXDir(dirA2)
						aaz := az + dirOffsetZDir(dirA2)
						aai := chf.Cells[aax+aaz*w].Index + uint32(GetCon(as, dirA2))
						if d := int32(dist[aai]) + 3; d < int32(dist[i]) {
							dist[i] = uint16(d)
						}
					}
				}

				if GetCon(s, dirB) != NotConnected {
					bx := x + dirOffsetXDir(dirB)
					bz := z + dirOffsetZDir(dirB)
					bi := chf.Cells[bx+bz*w].Index + uint32(GetCon(s, dirB))
					if d := int32(dist[bi]) + 2; d < int32(dist[i]) {
						dist[i] = uint16(d)
					}

					bs := &chf.Spans[bi]
					dirB2 := (dirB + 3) & 0x3
					if GetCon(bs, dirB2) != NotConnected {
						bbx := bx + dirOffsetXDir(dirB2)
						bbz := bz + dirOffsetZDir(dirB2)
						bbi := chf.Cells[bbx+bbz*w].Index + uint32(GetCon(bs, dirB2))
						if d := int32(dist[bbi]) + 3; d < int32(dist[i]) {
							dist[i] = uint16(d)
						}
					}
				}
			}
		}
	}
}

// boxBlurDistanceField averages each span's distance with its 4
// cardinal and 4 diagonal connected neighbors (a 3x3 window, nine equally
// weighted samples, rounded). A missing cardinal neighbor contributes the
// span's own distance twice (for itself and its diagonal), a missing
// diagonal once. Spans whose distance is at most thr are copied unblurred
// so the blur doesn't wash out a sharp boundary right at a wall.
func boxBlurDistanceField(chf *CompactHeightfield, dist []uint16, thr int32) []uint16 {
	w, h := chf.Width, chf.Height
	out := make([]uint16, chf.SpanCount)

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			cell := chf.Cells[x+z*w]
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				d0 := int32(dist[i])
				if d0 <= thr {
					out[i] = uint16(d0)
					continue
				}

				sum := d0
				s := &chf.Spans[i]
				for dir := int32(0); dir < 4; dir++ {
					k := GetCon(s, dir)
					if k == NotConnected {
						sum += d0 * 2
						continue
					}
					nx := x + dirOffsetXDir(dir)
					nz := z + dirOffsetZDir(dir)
					ni := chf.Cells[nx+nz*w].Index + uint32(k)
					sum += int32(dist[ni])

					ns := &chf.Spans[ni]
					dir2 := rotateCW(dir)
					k2 := GetCon(ns, dir2)
					if k2 == NotConnected {
						sum += d0
						continue
					}
					nnx := nx + dirOffsetXDir(dir2)
					nnz := nz + dirOffsetZDir(dir2)
					nni := chf.Cells[nnx+nnz*w].Index + uint32(k2)
					sum += int32(dist[nni])
				}
				out[i] = uint16((sum + 5) / 9)
			}
		}
	}
	return out
}
