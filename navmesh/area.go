package navmesh

import (
	assert "github.com/aurelien-rainone/assertgo"
	"github.com/aurelien-rainone/math32"
)

// ErodeWalkableArea nulls out the area id of every walkable span whose
// chamfer distance to the nearest non-walkable cell or border is less
// than radius voxels, shrinking the walkable surface inward so a
// character of that radius never clips through a wall. The distance
// field is computed in-place with a two-pass chamfer sweep (cardinal
// step 2, diagonal step 3) rather than an exact Euclidean transform,
// which is the same tradeoff the region distance field in
// BuildDistanceField makes.
func ErodeWalkableArea(ctx *Context, radius int32, chf *CompactHeightfield) error {
	ctx.StartTimer(TimerErodeArea)
	defer ctx.StopTimer(TimerErodeArea)

	w, h := chf.Width, chf.Height
	dist := make([]uint8, chf.SpanCount)
	for i := range dist {
		dist[i] = 0xff
	}

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			cell := chf.Cells[x+z*w]
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				if chf.Areas[i] == NullArea {
					dist[i] = 0
					continue
				}
				s := &chf.Spans[i]
				nc := int32(0)
				for dir := int32(0); dir < 4; dir++ {
					if GetCon(s, dir) != NotConnected {
						nc++
					}
				}
				if nc != 4 {
					dist[i] = 0
				}
			}
		}
	}

	chamferPass(chf, dist, true)
	chamferPass(chf, dist, false)

	thr := uint8(iMin(radius*2, 255))
	for i := int32(0); i < chf.SpanCount; i++ {
		if dist[i] < thr {
			chf.Areas[i] = NullArea
		}
	}

	return nil
}

// chamferPass runs one directional half of the two-pass chamfer distance
// sweep over dist, reading neighbors via chf's 4-connectivity. forward
// sweeps west-to-east/south-to-north (z ascending) consulting the west
// and south neighbors plus the south-west and south-east diagonals; the
// return sweep consults east and north plus the north-east and
// north-west diagonals instead.
func chamferPass(chf *CompactHeightfield, dist []uint8, forward bool) {
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
						dist[i] = uint8(d)
					}

					as := &chf.Spans[ai]
					dirA2 := (dirA + 3) & 0x3
					if GetCon(as, dirA2) != NotConnected {
						aax := ax + dirOffsetXDir(dirA2)
						aaz := az + dirOffsetZDir(dirA2)
						aai := chf.Cells[aax+aaz*w].Index + uint32(GetCon(as, dirA2))
						if d := int32(dist[aai]) + 3; d < int32(dist[i]) {
							dist[i] = uint8(d)
						}
					}
				}

				if GetCon(s, dirB) != NotConnected {
					bx := x + dirOffsetXDir(dirB)
					bz := z + dirOffsetZDir(dirB)
					bi := chf.Cells[bx+bz*w].Index + uint32(GetCon(s, dirB))
					if d := int32(dist[bi]) + 2; d < int32(dist[i]) {
						dist[i] = uint8(d)
					}

					bs := &chf.Spans[bi]
					dirB2 := (dirB + 3) & 0x3
					if GetCon(bs, dirB2) != NotConnected {
						bbx := bx + dirOffsetXDir(dirB2)
						bbz := bz + dirOffsetZDir(dirB2)
						bbi := chf.Cells[bbx+bbz*w].Index + uint32(GetCon(bs, dirB2))
						if d := int32(dist[bbi]) + 3; d < int32(dist[i]) {
							dist[i] = uint8(d)
						}
					}
				}
			}
		}
	}
}

func makeRange(n int32, forward bool) []int32 {
	r := make([]int32, n)
	if forward {
		for i := int32(0); i < n; i++ {
			r[i] = i
		}
	} else {
		for i := int32(0); i < n; i++ {
			r[i] = n - 1 - i
		}
	}
	return r
}

// ConvexVolume marks every compact span whose (x,z) cell center lies
// inside a 2D convex polygon, and whose floor height falls within
// [ymin,ymax], with AreaID. A convex volume with AreaID of NullArea can
// be used to cut holes out of an otherwise walkable surface (water,
// lava, off-limits zones); any other AreaID overrides the terrain's
// default classification, e.g. marking a stretch of floor as "road" for
// a pathfinder's area-cost table.
type ConvexVolume struct {
	Verts      [][2]float32
	YMin, YMax float32
	AreaID     uint8
}

// MarkConvexPolyArea paints vol's AreaID onto every compact span of chf
// whose cell center falls inside vol's footprint and whose floor height
// lies within vol's y-range, using the same point-in-polygon test
// pointInPoly as the remainder of this package.
func MarkConvexPolyArea(ctx *Context, vol ConvexVolume, chf *CompactHeightfield) {
	assert.True(len(vol.Verts) >= 3, "a convex volume needs at least 3 vertices")

	ctx.StartTimer(TimerMarkConvexPolyArea)
	defer ctx.StopTimer(TimerMarkConvexPolyArea)

	var bmin, bmax [2]float32
	bmin = vol.Verts[0]
	bmax = vol.Verts[0]
	for _, v := range vol.Verts[1:] {
		bmin[0] = math32.Min(bmin[0], v[0])
		bmin[1] = math32.Min(bmin[1], v[1])
		bmax[0] = math32.Max(bmax[0], v[0])
		bmax[1] = math32.Max(bmax[1], v[1])
	}

	w, h := chf.Width, chf.Height
	x0 := iClamp(int32((bmin[0]-chf.BMin[0])/chf.Cs), 0, w-1)
	x1 := iClamp(int32((bmax[0]-chf.BMin[0])/chf.Cs), 0, w-1)
	z0 := iClamp(int32((bmin[1]-chf.BMin[2])/chf.Cs), 0, h-1)
	z1 := iClamp(int32((bmax[1]-chf.BMin[2])/chf.Cs), 0, h-1)

	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			cell := chf.Cells[x+z*w]
			cx := chf.BMin[0] + (float32(x)+0.5)*chf.Cs
			cz := chf.BMin[2] + (float32(z)+0.5)*chf.Cs
			if !pointInPoly(vol.Verts, cx, cz) {
				continue
			}
			for i := cell.Index; i < cell.Index+uint32(cell.Count); i++ {
				if chf.Areas[i] == NullArea {
					continue
				}
				y := chf.BMin[1] + float32(chf.Spans[i].Y)*chf.Ch
				if y >= vol.YMin && y <= vol.YMax {
					chf.Areas[i] = vol.AreaID
				}
			}
		}
	}
}

func pointInPoly(verts [][2]float32, px, pz float32) bool {
	inside := false
	j := len(verts) - 1
	for i := range verts {
		vi, vj := verts[i], verts[j]
		if ((vi[1] > pz) != (vj[1] > pz)) &&
			(px < (vj[0]-vi[0])*(pz-vi[1])/(vj[1]-vi[1])+vi[0]) {
			inside = !inside
		}
		j = i
	}
	return inside
}
