package navmesh

import (
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

func triNormal(v0, v1, v2 []float32) d3.Vec3 {
	var e0, e1 d3.Vec3 = d3.NewVec3(), d3.NewVec3()
	for i := 0; i < 3; i++ {
		e0[i] = v1[i] - v0[i]
		e1[i] = v2[i] - v0[i]
	}
	n := d3.NewVec3()
	d3.Vec3Cross(n, e0, e1)
	n.Normalize()
	return n
}

// MarkWalkableTriangles sets areas[i] to WalkableArea for every triangle
// whose slope is strictly less than walkableSlopeAngle degrees (a slope
// equal to the angle is not marked). It never touches the
// area id of a triangle that fails the slope test, so pre-assigned custom
// area ids on steep triangles survive.
func MarkWalkableTriangles(walkableSlopeAngle float32, verts []float32, tris []int32, areas []uint8) {
	walkableThr := math32.Cos(walkableSlopeAngle / 180.0 * math32.Pi)
	nt := int32(len(tris) / 3)
	for i := int32(0); i < nt; i++ {
		t := tris[i*3:]
		n := triNormal(verts[t[0]*3:], verts[t[1]*3:], verts[t[2]*3:])
		if n[1] > walkableThr {
			areas[i] = WalkableArea
		}
	}
}

// ClearUnwalkableTriangles resets areas[i] to NullArea for every triangle
// whose slope is at least walkableSlopeAngle degrees, leaving walkable
// triangles' area ids untouched. Applying MarkWalkableTriangles then
// ClearUnwalkableTriangles with the same angle is idempotent.
func ClearUnwalkableTriangles(walkableSlopeAngle float32, verts []float32, tris []int32, areas []uint8) {
	walkableThr := math32.Cos(walkableSlopeAngle / 180.0 * math32.Pi)
	nt := int32(len(tris) / 3)
	for i := int32(0); i < nt; i++ {
		t := tris[i*3:]
		n := triNormal(verts[t[0]*3:], verts[t[1]*3:], verts[t[2]*3:])
		if n[1] <= walkableThr {
			areas[i] = NullArea
		}
	}
}

// RasterizeTriangles rasterizes every triangle of an indexed mesh into hf.
// flagMergeThr is forwarded to Heightfield.addSpan's area-merge rule.
// Triangles whose AABB misses hf's bounds are silently skipped, as are
// degenerate (near-zero-area) triangle rows produced by clipping.
func RasterizeTriangles(ctx *Context, verts []float32, tris []int32, areas []uint8, flagMergeThr int32, hf *Heightfield) error {
	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	ics := 1.0 / hf.Cs
	ich := 1.0 / hf.Ch
	nt := int32(len(tris) / 3)
	for i := int32(0); i < nt; i++ {
		v0 := verts[tris[i*3+0]*3:]
		v1 := verts[tris[i*3+1]*3:]
		v2 := verts[tris[i*3+2]*3:]
		rasterizeTri(v0, v1, v2, areas[i], hf, hf.Cs, ics, ich, flagMergeThr)
	}
	return nil
}

func rasterizeTri(v0, v1, v2 []float32, area uint8, hf *Heightfield, cs, ics, ich float32, flagMergeThr int32) {
	w, h := hf.Width, hf.Height
	bmin, bmax := hf.BMin, hf.BMax
	by := bmax[1] - bmin[1]

	var tmin, tmax [3]float32
	for k := 0; k < 3; k++ {
		tmin[k] = math32.Min(v0[k], math32.Min(v1[k], v2[k]))
		tmax[k] = math32.Max(v0[k], math32.Max(v1[k], v2[k]))
	}

	if !overlapBounds(bmin[:], bmax[:], tmin[:], tmax[:]) {
		return
	}

	z0 := iClamp(int32((tmin[2]-bmin[2])*ics), 0, h-1)
	z1 := iClamp(int32((tmax[2]-bmin[2])*ics), 0, h-1)

	var buf [7 * 3 * 4]float32
	in := buf[:21]
	inrow := buf[21:42]
	p1 := buf[42:63]
	p2 := buf[63:84]

	copy(in[0:3], v0)
	copy(in[3:6], v1)
	copy(in[6:9], v2)
	nvIn := int32(3)

	for z := z0; z <= z1; z++ {
		cz := bmin[2] + float32(z)*cs
		var nvrow int32
		dividePoly(in, nvIn, inrow, &nvrow, p1, &nvIn, cz+cs, 2)
		in, p1 = p1, in
		if nvrow < 3 {
			continue
		}

		minX, maxX := inrow[0], inrow[0]
		for i := int32(1); i < nvrow; i++ {
			minX = math32.Min(minX, inrow[i*3])
			maxX = math32.Max(maxX, inrow[i*3])
		}
		x0 := iClamp(int32((minX-bmin[0])*ics), 0, w-1)
		x1 := iClamp(int32((maxX-bmin[0])*ics), 0, w-1)

		nv2 := nvrow
		rowIn, rowOut := inrow, p2
		for x := x0; x <= x1; x++ {
			cx := bmin[0] + float32(x)*cs
			var nv int32
			dividePoly(rowIn, nv2, p1, &nv, rowOut, &nv2, cx+cs, 0)
			rowIn, rowOut = rowOut, rowIn
			if nv < 3 {
				continue
			}

			smin, smax := p1[1], p1[1]
			for i := int32(1); i < nv; i++ {
				smin = math32.Min(smin, p1[i*3+1])
				smax = math32.Max(smax, p1[i*3+1])
			}
			smin -= bmin[1]
			smax -= bmin[1]

			if smax < 0 || smin > by {
				continue
			}
			if smin < 0 {
				smin = 0
			}
			if smax > by {
				smax = by
			}

			ismin := uint16(iClamp(int32(math32.Floor(smin*ich)), 0, SpanMaxHeight))
			ismax := uint16(iClamp(int32(math32.Ceil(smax*ich)), int32(ismin)+1, SpanMaxHeight))
			hf.addSpan(x, z, ismin, ismax, area, flagMergeThr)
		}
	}
}

func overlapBounds(amin, amax, bmin, bmax []float32) bool {
	for k := 0; k < 3; k++ {
		if amin[k] > bmax[k] || amax[k] < bmin[k] {
			return false
		}
	}
	return true
}

// dividePoly splits the convex polygon "in" (nin verts, xyz-packed) into
// the two convex polygons lying on either side of the axis-aligned plane
// coordinate==x (axis in {0,2}). Points exactly on the plane are emitted
// into both halves. This is Sutherland-Hodgman clipping specialized to a
// single axis-aligned plane.
func dividePoly(in []float32, nin int32, out1 []float32, nout1 *int32, out2 []float32, nout2 *int32, x float32, axis int32) {
	var d [12]float32
	for i := int32(0); i < nin; i++ {
		d[i] = x - in[i*3+axis]
	}

	var m, n int32
	j := nin - 1
	for i := int32(0); i < nin; i++ {
		ina := d[j] >= 0
		inb := d[i] >= 0
		if ina != inb {
			s := d[j] / (d[j] - d[i])
			out1[m*3+0] = in[j*3+0] + (in[i*3+0]-in[j*3+0])*s
			out1[m*3+1] = in[j*3+1] + (in[i*3+1]-in[j*3+1])*s
			out1[m*3+2] = in[j*3+2] + (in[i*3+2]-in[j*3+2])*s
			copy(out2[n*3:n*3+3], out1[m*3:m*3+3])
			m++
			n++
			if d[i] > 0 {
				copy(out1[m*3:m*3+3], in[i*3:i*3+3])
				m++
			} else if d[i] < 0 {
				copy(out2[n*3:n*3+3], in[i*3:i*3+3])
				n++
			}
		} else {
			if d[i] >= 0 {
				copy(out1[m*3:m*3+3], in[i*3:i*3+3])
				m++
				if d[i] != 0 {
					j = i
					continue
				}
			}
			copy(out2[n*3:n*3+3], in[i*3:i*3+3])
			n++
		}
		j = i
	}

	*nout1 = m
	*nout2 = n
}
