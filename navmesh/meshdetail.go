package navmesh

import (
	"github.com/aurelien-rainone/gogeo/f32/d3"
	"github.com/aurelien-rainone/math32"
)

// PolyMeshDetail stores per-polygon triangle meshes that sample the
// compact heightfield's actual surface, refining the flat PolyMesh
// polygons into the height detail Detour uses for accurate y lookups.
type PolyMeshDetail struct {
	Meshes  []int32 // sub-mesh descriptors, 4*NMeshes: (baseVert,vertCount,baseTri,triCount)
	Verts   []float32
	Tris    []uint8 // (a,b,c,flags) per triangle
	NMeshes int32
	NVerts  int32
	NTris   int32
}

const unsetHeight uint16 = 0xffff

// heightPatch is a rectangular window of the compact heightfield's Y
// values covering one polygon's footprint, used to sample detail-mesh
// heights without re-walking the whole heightfield per vertex.
type heightPatch struct {
	data                      []uint16
	xmin, ymin, width, height int32
}

func vdot2(a, b []float32) float32 { return a[0]*b[0] + a[2]*b[2] }

func vdistSq2(p, q []float32) float32 {
	dx := q[0] - p[0]
	dz := q[2] - p[2]
	return dx*dx + dz*dz
}

func vdist2(p, q []float32) float32 { return math32.Sqrt(vdistSq2(p, q)) }

func vcross2(p1, p2, p3 []float32) float32 {
	u1 := p2[0] - p1[0]
	v1 := p2[2] - p1[2]
	u2 := p3[0] - p1[0]
	v2 := p3[2] - p1[2]
	return u1*v2 - v1*u2
}

// circumCircle computes the circumcircle of triangle p1,p2,p3 projected
// onto the xz-plane, centered at c. Returns ok=false for a degenerate
// (near-collinear) triangle.
func circumCircle(p1, p2, p3, c []float32) (r float32, ok bool) {
	const eps float32 = 1e-6
	var v1, v2, v3 [3]float32
	d3.Vec3Sub(v2[:], p2, p1)
	d3.Vec3Sub(v3[:], p3, p1)

	cp := vcross2(v1[:], v2[:], v3[:])
	if math32.Abs(cp) > eps {
		v1Sq := vdot2(v1[:], v1[:])
		v2Sq := vdot2(v2[:], v2[:])
		v3Sq := vdot2(v3[:], v3[:])
		c[0] = (v1Sq*(v2[2]-v3[2]) + v2Sq*(v3[2]-v1[2]) + v3Sq*(v1[2]-v2[2])) / (2 * cp)
		c[1] = 0
		c[2] = (v1Sq*(v3[0]-v2[0]) + v2Sq*(v1[0]-v3[0]) + v3Sq*(v2[0]-v1[0])) / (2 * cp)
		r = vdist2(c, v1[:])
		d3.Vec3Add(c, c, p1)
		return r, true
	}
	copy(c, p1[:3])
	return 0, false
}

func distPtTri(p, a, b, c []float32) float32 {
	var v0, v1, v2 [3]float32
	d3.Vec3Sub(v0[:], c, a)
	d3.Vec3Sub(v1[:], b, a)
	d3.Vec3Sub(v2[:], p, a)

	dot00 := vdot2(v0[:], v0[:])
	dot01 := vdot2(v0[:], v1[:])
	dot02 := vdot2(v0[:], v2[:])
	dot11 := vdot2(v1[:], v1[:])
	dot12 := vdot2(v1[:], v2[:])

	invDenom := float32(1.0 / (dot00*dot11 - dot01*dot01))
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	const eps float32 = 1e-4
	if u >= -eps && v >= -eps && (u+v) <= 1+eps {
		y := a[1] + v0[1]*u + v1[1]*v
		return math32.Abs(y - p[1])
	}
	return math32.MaxFloat32
}

func distancePtSeg3(pt, p, q []float32) float32 {
	pqx, pqy, pqz := q[0]-p[0], q[1]-p[1], q[2]-p[2]
	dx, dy, dz := pt[0]-p[0], pt[1]-p[1], pt[2]-p[2]
	d := pqx*pqx + pqy*pqy + pqz*pqz
	t := pqx*dx + pqy*dy + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = p[0] + t*pqx - pt[0]
	dy = p[1] + t*pqy - pt[1]
	dz = p[2] + t*pqz - pt[2]
	return dx*dx + dy*dy + dz*dz
}

func distancePtSeg2d3(pt, p, q []float32) float32 {
	pqx, pqz := q[0]-p[0], q[2]-p[2]
	dx, dz := pt[0]-p[0], pt[2]-p[2]
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = p[0] + t*pqx - pt[0]
	dz = p[2] + t*pqz - pt[2]
	return dx*dx + dz*dz
}

func distToTriMesh(p, verts []float32, tris []int32, ntris int32) float32 {
	dmin := math32.MaxFloat32
	for i := int32(0); i < ntris; i++ {
		va := verts[tris[i*4+0]*3:]
		vb := verts[tris[i*4+1]*3:]
		vc := verts[tris[i*4+2]*3:]
		if d := distPtTri(p, va, vb, vc); d < dmin {
			dmin = d
		}
	}
	if dmin == math32.MaxFloat32 {
		return -1
	}
	return dmin
}

func distToPoly(nvert int32, verts, p []float32) float32 {
	dmin := math32.MaxFloat32
	var c bool
	for i, j := int32(0), nvert-1; i < nvert; j, i = i, i+1 {
		vi := verts[i*3:]
		vj := verts[j*3:]
		if (vi[2] > p[2]) != (vj[2] > p[2]) &&
			p[0] < (vj[0]-vi[0])*(p[2]-vi[2])/(vj[2]-vi[2])+vi[0] {
			c = !c
		}
		if d := distancePtSeg2d3(p, vj, vi); d < dmin {
			dmin = d
		}
	}
	if c {
		return -dmin
	}
	return dmin
}

func push3(queue *[]int32, v1, v2, v3 int32) { *queue = append(*queue, v1, v2, v3) }

// getHeight samples the height patch at (fx,fz), spiraling outward up
// to radius cells when the direct cell has no data, so a bad patch
// cell doesn't pull in height from arbitrarily far away.
func getHeight(fx, fy, fz, cs, ics, ch float32, radius int32, hp *heightPatch) uint16 {
	ix := int32(math32.Floor(fx*ics + 0.01))
	iz := int32(math32.Floor(fz*ics + 0.01))
	ix = iClamp(ix-hp.xmin, 0, hp.width-1)
	iz = iClamp(iz-hp.ymin, 0, hp.height-1)
	h := hp.data[ix+iz*hp.width]
	if h != unsetHeight {
		return h
	}

	x, z := int32(1), int32(0)
	dx, dz := int32(1), int32(0)
	maxSize := radius*2 + 1
	maxIter := maxSize*maxSize - 1

	nextRingIterStart := int32(8)
	nextRingIters := int32(16)

	dmin := math32.MaxFloat32
	for i := int32(0); i < maxIter; i++ {
		nx, nz := ix+x, iz+z
		if nx >= 0 && nz >= 0 && nx < hp.width && nz < hp.height {
			nh := hp.data[nx+nz*hp.width]
			if nh != unsetHeight {
				d := math32.Abs(float32(nh)*ch - fy)
				if d < dmin {
					h = nh
					dmin = d
				}
			}
		}

		if i+1 == nextRingIterStart {
			if h != unsetHeight {
				break
			}
			nextRingIterStart += nextRingIters
			nextRingIters += 8
		}

		if (x == z) || (x < 0 && x == -z) || (x > 0 && x == 1-z) {
			dx, dz = -dz, dx
		}
		x += dx
		z += dz
	}
	return h
}

const (
	evUndef int32 = -1
	evHull  int32 = -2
)

func findEdge(edges []int32, nedges, s, t int32) int32 {
	for i := int32(0); i < nedges; i++ {
		e := edges[i*4:]
		if (e[0] == s && e[1] == t) || (e[0] == t && e[1] == s) {
			return i
		}
	}
	return evUndef
}

func addEdge(ctx *Context, edges []int32, nedges *int32, maxEdges, s, t, l, r int32) {
	if *nedges >= maxEdges {
		ctx.Errorf("addEdge: too many edges (%d/%d)", *nedges, maxEdges)
		return
	}
	if findEdge(edges, *nedges, s, t) == evUndef {
		e := edges[*nedges*4:]
		e[0], e[1], e[2], e[3] = s, t, l, r
		*nedges++
	}
}

func getEdgeFlags(va, vb, vpoly []float32, npoly int32) uint8 {
	thrSqr := float32(0.001 * 0.001)
	for i, j := int32(0), npoly-1; i < npoly; j, i = i, i+1 {
		if distancePtSeg2d3(va, vpoly[j*3:], vpoly[i*3:]) < thrSqr &&
			distancePtSeg2d3(vb, vpoly[j*3:], vpoly[i*3:]) < thrSqr {
			return 1
		}
	}
	return 0
}

func getTriFlags(va, vb, vc, vpoly []float32, npoly int32) uint8 {
	var flags uint8
	flags |= getEdgeFlags(va, vb, vpoly, npoly) << 0
	flags |= getEdgeFlags(vb, vc, vpoly, npoly) << 2
	flags |= getEdgeFlags(vc, va, vpoly, npoly) << 4
	return flags
}

func updateLeftFace(e []int32, s, t, f int32) {
	if e[0] == s && e[1] == t && e[2] == evUndef {
		e[2] = f
	} else if e[1] == s && e[0] == t && e[3] == evUndef {
		e[3] = f
	}
}

func overlapSegSeg2d(a, b, c, d []float32) bool {
	a1 := vcross2(a, b, d)
	a2 := vcross2(a, b, c)
	if a1*a2 < 0 {
		a3 := vcross2(c, d, a)
		a4 := a3 + a2 - a1
		if a3*a4 < 0 {
			return true
		}
	}
	return false
}

func overlapEdges(pts []float32, edges []int32, nedges, s1, t1 int32) bool {
	for i := int32(0); i < nedges; i++ {
		s0, t0 := edges[i*4+0], edges[i*4+1]
		if s0 == s1 || s0 == t1 || t0 == s1 || t0 == t1 {
			continue
		}
		if overlapSegSeg2d(pts[s0*3:], pts[t0*3:], pts[s1*3:], pts[t1*3:]) {
			return true
		}
	}
	return false
}

// completeFacet grows the Delaunay triangulation by attaching the best
// point on the left of edge e's segment, preferring the smallest
// circumcircle and falling back to a non-overlap check when two
// candidates tie within tolerance.
func completeFacet(ctx *Context, pts []float32, npts int32, edges []int32, nedges *int32, maxEdges int32, nfaces *int32, e int32) {
	const eps float32 = 1e-5
	edge := edges[e*4:]

	var s, t int32
	switch {
	case edge[2] == evUndef:
		s, t = edge[0], edge[1]
	case edge[3] == evUndef:
		s, t = edge[1], edge[0]
	default:
		return
	}

	pt := npts
	var c [3]float32
	r := float32(-1)
	for u := int32(0); u < npts; u++ {
		if u == s || u == t {
			continue
		}
		if vcross2(pts[s*3:], pts[t*3:], pts[u*3:]) > eps {
			if r < 0 {
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
				continue
			}
			d := vdist2(c[:], pts[u*3:])
			const tol = 0.001
			switch {
			case d > r*(1+tol):
			case d < r*(1-tol):
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
			default:
				if overlapEdges(pts, edges, *nedges, s, u) || overlapEdges(pts, edges, *nedges, t, u) {
					continue
				}
				pt = u
				r, _ = circumCircle(pts[s*3:], pts[t*3:], pts[u*3:], c[:])
			}
		}
	}

	if pt < npts {
		updateLeftFace(edges[e*4:], s, t, *nfaces)

		if ei := findEdge(edges, *nedges, pt, s); ei == evUndef {
			addEdge(ctx, edges, nedges, maxEdges, pt, s, *nfaces, evUndef)
		} else {
			updateLeftFace(edges[ei*4:], pt, s, *nfaces)
		}
		if ei := findEdge(edges, *nedges, t, pt); ei == evUndef {
			addEdge(ctx, edges, nedges, maxEdges, t, pt, *nfaces, evUndef)
		} else {
			updateLeftFace(edges[ei*4:], t, pt, *nfaces)
		}
		*nfaces++
	} else {
		updateLeftFace(edges[e*4:], s, t, evHull)
	}
}

// delaunayHull triangulates npts starting from the known convex hull,
// incrementally completing every unfinished edge. Faces left with an
// unresolved vertex after the sweep are dropped rather than kept as
// dangling geometry.
func delaunayHull(ctx *Context, npts int32, pts []float32, nhull int32, hull []int32) (tris, edges []int32) {
	var nfaces, nedges int32
	maxEdges := npts * 10
	edges = make([]int32, maxEdges*4)

	for i, j := int32(0), nhull-1; i < nhull; j, i = i, i+1 {
		addEdge(ctx, edges, &nedges, maxEdges, hull[j], hull[i], evHull, evUndef)
	}

	for currentEdge := int32(0); currentEdge < nedges; currentEdge++ {
		if edges[currentEdge*4+2] == evUndef {
			completeFacet(ctx, pts, npts, edges, &nedges, maxEdges, &nfaces, currentEdge)
		}
		if edges[currentEdge*4+3] == evUndef {
			completeFacet(ctx, pts, npts, edges, &nedges, maxEdges, &nfaces, currentEdge)
		}
	}

	tris = make([]int32, nfaces*4)
	for i := range tris {
		tris[i] = -1
	}
	for i := int32(0); i < nedges; i++ {
		e := edges[i*4:]
		if e[3] >= 0 {
			t := tris[e[3]*4:]
			switch {
			case t[0] == -1:
				t[0], t[1] = e[0], e[1]
			case t[0] == e[1]:
				t[2] = e[0]
			case t[1] == e[0]:
				t[2] = e[1]
			}
		}
		if e[2] >= 0 {
			t := tris[e[2]*4:]
			switch {
			case t[0] == -1:
				t[0], t[1] = e[1], e[0]
			case t[0] == e[0]:
				t[2] = e[1]
			case t[1] == e[1]:
				t[2] = e[0]
			}
		}
	}

	for i := 0; i < len(tris)/4; i++ {
		t := tris[i*4:]
		if t[0] == -1 || t[1] == -1 || t[2] == -1 {
			ctx.Warningf("delaunayHull: dropping dangling face %d [%d,%d,%d]", i, t[0], t[1], t[2])
			last := tris[len(tris)-4:]
			copy(t[:4], last[:4])
			tris = tris[:len(tris)-4]
			i--
		}
	}
	return tris, edges
}

func polyMinExtent(verts []float32, nverts int32) float32 {
	minDist := math32.MaxFloat32
	for i := int32(0); i < nverts; i++ {
		ni := (i + 1) % nverts
		p1, p2 := verts[i*3:], verts[ni*3:]
		var maxEdgeDist float32
		for j := int32(0); j < nverts; j++ {
			if j == i || j == ni {
				continue
			}
			if d := distancePtSeg2d3(verts[j*3:], p1, p2); d > maxEdgeDist {
				maxEdgeDist = d
			}
		}
		if maxEdgeDist < minDist {
			minDist = maxEdgeDist
		}
	}
	return math32.Sqrt(minDist)
}

// triangulateHull fans the polygon's convex hull into triangles,
// starting at the shortest-perimeter ear and walking inward by whichever
// side currently has the shorter perimeter, in place of a full Delaunay
// pass for simple hulls.
func triangulateHull(verts []float32, nhull int32, hull []int32) []int32 {
	start, left, right := int32(0), int32(1), nhull-1
	dmin := math32.MaxFloat32
	for i := int32(0); i < nhull; i++ {
		pi := prevIdx(i, nhull)
		ni := nextIdx(i, nhull)
		pv, cv, nv := verts[hull[pi]*3:], verts[hull[i]*3:], verts[hull[ni]*3:]
		d := vdist2(pv, cv) + vdist2(cv, nv) + vdist2(nv, pv)
		if d < dmin {
			start, left, right, dmin = i, ni, pi, d
		}
	}

	tris := []int32{hull[start], hull[left], hull[right], 0}

	for nextIdx(left, nhull) != right {
		nleft := nextIdx(left, nhull)
		nright := prevIdx(right, nhull)

		cvleft, nvleft := verts[hull[left]*3:], verts[hull[nleft]*3:]
		cvright, nvright := verts[hull[right]*3:], verts[hull[nright]*3:]
		dleft := vdist2(cvleft, nvleft) + vdist2(nvleft, cvright)
		dright := vdist2(cvright, nvright) + vdist2(cvleft, nvright)

		if dleft < dright {
			tris = append(tris, hull[left], hull[nleft], hull[right], 0)
			left = nleft
		} else {
			tris = append(tris, hull[left], hull[nright], hull[right], 0)
			right = nright
		}
	}
	return tris
}

func jitterX(i int64) float32 {
	return (float32((i*0x8da6b343)&0xffff)/65535.0)*2.0 - 1.0
}

func jitterY(i int64) float32 {
	return (float32((i*0xd8163841)&0xffff)/65535.0)*2.0 - 1.0
}

const (
	maxDetailVerts        = 127
	maxDetailTris         = 255
	maxDetailVertsPerEdge = 32
)

// buildPolyDetail tessellates one polygon's outline at sampleDist
// spacing, height-samples the outline against hp, then (for polygons
// large enough that internal sampling is worthwhile) adds interior
// sample points one at a time at the position of worst height error
// until the error tolerance is met or maxDetailVerts is reached.
func buildPolyDetail(ctx *Context, in []float32, nin int32, sampleDist, sampleMaxError float32, heightSearchRadius int32, chf *CompactHeightfield, hp *heightPatch) (verts []float32, tris []int32) {
	var edge [(maxDetailVertsPerEdge + 1) * 3]float32
	var hull [maxDetailVerts]int32
	var nhull int32

	verts = make([]float32, maxDetailVerts*3)
	nverts := nin
	for i := int32(0); i < nin; i++ {
		copy(verts[i*3:i*3+3], in[i*3:i*3+3])
	}

	cs := chf.Cs
	ics := float32(1.0) / cs

	minExtent := polyMinExtent(verts, nverts)

	if sampleDist > 0 {
		for i, j := int32(0), nin-1; i < nin; j, i = i, i+1 {
			vj, vi := in[j*3:], in[i*3:]
			swapped := false
			if math32.Abs(vj[0]-vi[0]) < 1e-6 {
				if vj[2] > vi[2] {
					vj, vi = vi, vj
					swapped = true
				}
			} else if vj[0] > vi[0] {
				vj, vi = vi, vj
				swapped = true
			}

			dx, dy, dz := vi[0]-vj[0], vi[1]-vj[1], vi[2]-vj[2]
			d := math32.Sqrt(dx*dx + dz*dz)
			nn := 1 + int32(math32.Floor(d/sampleDist))
			if nn >= maxDetailVertsPerEdge {
				nn = maxDetailVertsPerEdge - 1
			}
			if nverts+nn >= maxDetailVerts {
				nn = maxDetailVerts - 1 - nverts
			}

			for k := int32(0); k <= nn; k++ {
				u := float32(k) / float32(nn)
				pos := edge[k*3:]
				pos[0] = vj[0] + dx*u
				pos[1] = vj[1] + dy*u
				pos[2] = vj[2] + dz*u
				pos[1] = float32(getHeight(pos[0], pos[1], pos[2], cs, ics, chf.Ch, heightSearchRadius, hp)) * chf.Ch
			}

			var idx [maxDetailVertsPerEdge]int32
			idx[0], idx[1] = 0, nn
			nidx := int32(2)
			for k := int32(0); k < nidx-1; {
				a, b := idx[k], idx[k+1]
				va, vb := edge[a*3:], edge[b*3:]
				maxd := float32(0)
				maxi := int32(-1)
				for m := a + 1; m < b; m++ {
					if dev := distancePtSeg3(edge[m*3:], va, vb); dev > maxd {
						maxd, maxi = dev, m
					}
				}
				if maxi != -1 && maxd > math32.Sqr(sampleMaxError) {
					for m := nidx; m > k; m-- {
						idx[m] = idx[m-1]
					}
					idx[k+1] = maxi
					nidx++
				} else {
					k++
				}
			}

			hull[nhull] = j
			nhull++
			if swapped {
				for k := nidx - 2; k > 0; k-- {
					copy(verts[nverts*3:nverts*3+3], edge[idx[k]*3:idx[k]*3+3])
					hull[nhull] = nverts
					nhull++
					nverts++
				}
			} else {
				for k := int32(1); k < nidx-1; k++ {
					copy(verts[nverts*3:nverts*3+3], edge[idx[k]*3:idx[k]*3+3])
					hull[nhull] = nverts
					nhull++
					nverts++
				}
			}
		}
	}

	if minExtent < sampleDist*2 {
		tris = triangulateHull(verts, nhull, hull[:])
		return verts[:nverts*3], tris
	}

	tris = triangulateHull(verts, nhull, hull[:])
	if len(tris) == 0 {
		ctx.Warningf("buildPolyDetail: could not triangulate polygon (%d verts)", nverts)
		return verts[:nverts*3], tris
	}

	if sampleDist > 0 {
		var bmin, bmax [3]float32
		copy(bmin[:], in[:3])
		copy(bmax[:], in[:3])
		for i := int32(1); i < nin; i++ {
			d3.Vec3Min(bmin[:], in[i*3:])
			d3.Vec3Max(bmax[:], in[i*3:])
		}
		x0 := int32(math32.Floor(bmin[0] / sampleDist))
		x1 := int32(math32.Ceil(bmax[0] / sampleDist))
		z0 := int32(math32.Floor(bmin[2] / sampleDist))
		z1 := int32(math32.Ceil(bmax[2] / sampleDist))

		var samples []int32
		for z := z0; z < z1; z++ {
			for x := x0; x < x1; x++ {
				var pt [3]float32
				pt[0] = float32(x) * sampleDist
				pt[1] = (bmax[1] + bmin[1]) * 0.5
				pt[2] = float32(z) * sampleDist
				if distToPoly(nin, in, pt[:]) > -sampleDist/2 {
					continue
				}
				samples = append(samples, x, int32(getHeight(pt[0], pt[1], pt[2], cs, ics, chf.Ch, heightSearchRadius, hp)), z, 0)
			}
		}

		nsamples := int32(len(samples) / 4)
		for iter := int32(0); iter < nsamples; iter++ {
			if nverts >= maxDetailVerts {
				break
			}

			var bestpt [3]float32
			bestd := float32(0)
			besti := int32(-1)
			for i := int32(0); i < nsamples; i++ {
				s := samples[i*4:]
				if s[3] != 0 {
					continue
				}
				var pt [3]float32
				pt[0] = float32(s[0])*sampleDist + jitterX(int64(i))*cs*0.1
				pt[1] = float32(s[1]) * chf.Ch
				pt[2] = float32(s[2])*sampleDist + jitterY(int64(i))*cs*0.1
				d := distToTriMesh(pt[:], verts, tris, int32(len(tris)/4))
				if d < 0 {
					continue
				}
				if d > bestd {
					bestd, besti = d, i
					copy(bestpt[:], pt[:])
				}
			}

			if bestd <= sampleMaxError || besti == -1 {
				break
			}
			samples[besti*4+3] = 1
			copy(verts[nverts*3:nverts*3+3], bestpt[:])
			nverts++

			tris, _ = delaunayHull(ctx, nverts, verts, nhull, hull[:])
		}
	}

	ntris := int32(len(tris) / 4)
	if ntris > maxDetailTris {
		tris = tris[:maxDetailTris*4]
		ctx.Warningf("buildPolyDetail: shrinking triangle count from %d to max %d", ntris, maxDetailTris)
	}

	return verts[:nverts*3], tris
}

var bsOffset = [9 * 2]int32{0, 0, -1, -1, 0, -1, 1, -1, 1, 0, 1, 1, 0, 1, -1, 1, -1, 0}

// seedArrayWithPolyCenter walks the compact heightfield from the span
// closest to one of the polygon's vertices toward the polygon's
// centroid, recording the path as a DFS stack. Used when a polygon's
// footprint contains no span of its own region (a rare contour-
// simplification artifact), so getHeightData still has a seed to flood
// fill height data from.
func seedArrayWithPolyCenter(ctx *Context, chf *CompactHeightfield, poly []uint16, npoly int32, verts []uint16, bs int32, hp *heightPatch) []int32 {
	var startCellX, startCellY int32
	startSpanIndex := int32(-1)
	dmin := int32(unsetHeight)

	for j := int32(0); j < npoly && dmin > 0; j++ {
		for k := int32(0); k < 9 && dmin > 0; k++ {
			ax := int32(verts[poly[j]*3+0]) + bsOffset[k*2+0]
			ay := int32(verts[poly[j]*3+1])
			az := int32(verts[poly[j]*3+2]) + bsOffset[k*2+1]
			if ax < hp.xmin || ax >= hp.xmin+hp.width || az < hp.ymin || az >= hp.ymin+hp.height {
				continue
			}
			c := chf.Cells[(ax+bs)+(az+bs)*chf.Width]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count) && dmin > 0; i++ {
				d := iAbs(ay - int32(chf.Spans[i].Y))
				if d < dmin {
					startCellX, startCellY, startSpanIndex, dmin = ax, az, i, d
				}
			}
		}
	}
	if startSpanIndex == -1 {
		ctx.Warningf("seedArrayWithPolyCenter: found no span near polygon, using poly's first vertex")
		return []int32{startCellX, startCellY, 0}
	}

	var pcx, pcy int32
	for j := int32(0); j < npoly; j++ {
		pcx += int32(verts[poly[j]*3+0])
		pcy += int32(verts[poly[j]*3+2])
	}
	pcx /= npoly
	pcy /= npoly

	array := []int32{startCellX, startCellY, startSpanIndex}
	dirs := [4]int32{0, 1, 2, 3}
	for i := range hp.data {
		hp.data[i] = 0
	}

	var cx, cy, ci int32 = -1, -1, -1
	for {
		if len(array) < 3 {
			ctx.Warningf("seedArrayWithPolyCenter: walk toward polygon center failed to reach center")
			break
		}
		ci, array = array[len(array)-1], array[:len(array)-1]
		cy, array = array[len(array)-1], array[:len(array)-1]
		cx, array = array[len(array)-1], array[:len(array)-1]

		if cx == pcx && cy == pcy {
			break
		}

		var directDir, off int32
		if cx == pcx {
			if pcy > cy {
				off = 1
			} else {
				off = -1
			}
			directDir = dirForOffset(0, off)
		} else {
			if pcx > cx {
				off = 1
			} else {
				off = -1
			}
			directDir = dirForOffset(off, 0)
		}

		dirs[directDir], dirs[3] = dirs[3], dirs[directDir]

		s := &chf.Spans[ci]
		for i := int32(0); i < 4; i++ {
			dir := dirs[i]
			if GetCon(s, dir) == NotConnected {
				continue
			}
			newX := cx + dirOffsetXDir(dir)
			newY := cy + dirOffsetZDir(dir)
			hpx := newX - hp.xmin
			hpy := newY - hp.ymin
			if hpx < 0 || hpx >= hp.width || hpy < 0 || hpy >= hp.height {
				continue
			}
			if hp.data[hpx+hpy*hp.width] != 0 {
				continue
			}
			hp.data[hpx+hpy*hp.width] = 1
			array = append(array, newX, newY, int32(chf.Cells[(newX+bs)+(newY+bs)*chf.Width].Index)+GetCon(s, dir))
		}

		dirs[directDir], dirs[3] = dirs[3], dirs[directDir]
	}

	result := []int32{cx + bs, cy + bs, ci}
	for i := range hp.data {
		hp.data[i] = unsetHeight
	}
	hp.data[cx-hp.xmin+(cy-hp.ymin)*hp.width] = chf.Spans[ci].Y
	return result
}

// getHeightData fills hp with the Y value of every span belonging to
// region, flood-filling outward from the region's border spans, falling
// back to seedArrayWithPolyCenter when the polygon's footprint has no
// span of its own region — the case BuildPolyMesh's multipleRegs
// sentinel exists to flag. Cells of the patch left without a span of
// region are then filled by flood-filling through connected spans, which
// may belong to other regions.
func getHeightData(ctx *Context, chf *CompactHeightfield, poly []uint16, npoly int32, verts []uint16, bs int32, hp *heightPatch, region uint16) {
	for i := range hp.data {
		hp.data[i] = unsetHeight
	}

	var queue []int32
	empty := true

	if region != multipleRegs {
		for hy := int32(0); hy < hp.height; hy++ {
			y := hp.ymin + hy + bs
			for hx := int32(0); hx < hp.width; hx++ {
				x := hp.xmin + hx + bs
				c := chf.Cells[x+y*chf.Width]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					s := &chf.Spans[i]
					if s.Reg != region {
						continue
					}
					hp.data[hx+hy*hp.width] = s.Y
					empty = false

					border := false
					for dir := int32(0); dir < 4; dir++ {
						if GetCon(s, dir) == NotConnected {
							continue
						}
						ax := x + dirOffsetXDir(dir)
						ay := y + dirOffsetZDir(dir)
						ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
						if chf.Spans[ai].Reg != region {
							border = true
							break
						}
					}
					if border {
						push3(&queue, x, y, i)
					}
					break
				}
			}
		}
	}

	if empty {
		queue = seedArrayWithPolyCenter(ctx, chf, poly, npoly, verts, bs, hp)
	}

	const retractSize = 256
	head := 0
	for head*3 < len(queue) {
		cx, cy, ci := queue[head*3+0], queue[head*3+1], queue[head*3+2]
		head++
		if head >= retractSize {
			head = 0
			if len(queue) > retractSize*3 {
				copy(queue, queue[retractSize*3:])
			}
			queue = queue[:len(queue)-retractSize*3]
		}

		s := &chf.Spans[ci]
		for dir := int32(0); dir < 4; dir++ {
			if GetCon(s, dir) == NotConnected {
				continue
			}
			ax := cx + dirOffsetXDir(dir)
			ay := cy + dirOffsetZDir(dir)
			hx := ax - hp.xmin - bs
			hy := ay - hp.ymin - bs
			if hx < 0 || hx >= hp.width || hy < 0 || hy >= hp.height {
				continue
			}
			if hp.data[hx+hy*hp.width] != unsetHeight {
				continue
			}
			ai := int32(chf.Cells[ax+ay*chf.Width].Index) + GetCon(s, dir)
			hp.data[hx+hy*hp.width] = chf.Spans[ai].Y
			push3(&queue, ax, ay, ai)
		}
	}
}

// BuildPolyMeshDetail samples chf's surface within each polygon of mesh
// to produce a height-accurate triangle mesh per polygon: the outline is
// tessellated and height-sampled first, then (for large enough
// polygons) interior sample points are added where the flat hull
// triangulation deviates most from the real surface, until
// sampleMaxError is met.
func BuildPolyMeshDetail(ctx *Context, mesh *PolyMesh, chf *CompactHeightfield, sampleDist, sampleMaxError float32) (*PolyMeshDetail, error) {
	ctx.StartTimer(TimerBuildPolyMeshDetail)
	defer ctx.StopTimer(TimerBuildPolyMeshDetail)

	dmesh := &PolyMeshDetail{}
	if mesh.NVerts == 0 || mesh.NPolys == 0 {
		return dmesh, nil
	}

	nvp := mesh.Nvp
	cs, ch := mesh.Cs, mesh.Ch
	orig := mesh.BMin
	borderSize := mesh.BorderSize
	heightSearchRadius := iMax(1, int32(math32.Ceil(mesh.MaxEdgeError)))

	bounds := make([]int32, mesh.NPolys*4)
	poly := make([]float32, nvp*3)

	var nPolyVerts, maxhw, maxhh int32
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		xmin, xmax := chf.Width, int32(0)
		ymin, ymax := chf.Height, int32(0)
		for j := int32(0); j < nvp; j++ {
			if p[j] == MeshNullIdx {
				break
			}
			v := mesh.Verts[p[j]*3:]
			xmin = iMin(xmin, int32(v[0]))
			xmax = iMax(xmax, int32(v[0]))
			ymin = iMin(ymin, int32(v[2]))
			ymax = iMax(ymax, int32(v[2]))
			nPolyVerts++
		}
		xmin = iMax(0, xmin-1)
		xmax = iMin(chf.Width, xmax+1)
		ymin = iMax(0, ymin-1)
		ymax = iMin(chf.Height, ymax+1)
		bounds[i*4+0], bounds[i*4+1], bounds[i*4+2], bounds[i*4+3] = xmin, xmax, ymin, ymax
		if xmin >= xmax || ymin >= ymax {
			continue
		}
		maxhw = iMax(maxhw, xmax-xmin)
		maxhh = iMax(maxhh, ymax-ymin)
	}

	hp := heightPatch{data: make([]uint16, maxhw*maxhh)}

	vcap := nPolyVerts + nPolyVerts/2
	tcap := vcap * 2
	dmesh.NMeshes = mesh.NPolys
	dmesh.Meshes = make([]int32, dmesh.NMeshes*4)
	dmesh.Verts = make([]float32, vcap*3)
	dmesh.Tris = make([]uint8, tcap*4)

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]

		var npoly int32
		for j := int32(0); j < nvp; j++ {
			if p[j] == MeshNullIdx {
				break
			}
			v := mesh.Verts[p[j]*3:]
			poly[j*3+0] = float32(v[0]) * cs
			poly[j*3+1] = float32(v[1]) * ch
			poly[j*3+2] = float32(v[2]) * cs
			npoly++
		}

		hp.xmin = bounds[i*4+0]
		hp.ymin = bounds[i*4+2]
		hp.width = bounds[i*4+1] - bounds[i*4+0]
		hp.height = bounds[i*4+3] - bounds[i*4+2]
		getHeightData(ctx, chf, p, npoly, mesh.Verts, borderSize, &hp, mesh.Regs[i])

		verts, tris := buildPolyDetail(ctx, poly, npoly, sampleDist, sampleMaxError, heightSearchRadius, chf, &hp)
		nverts := int32(len(verts) / 3)

		for j := int32(0); j < nverts; j++ {
			verts[j*3+0] += orig[0]
			verts[j*3+1] += orig[1] + chf.Ch
			verts[j*3+2] += orig[2]
		}
		for j := int32(0); j < npoly; j++ {
			poly[j*3+0] += orig[0]
			poly[j*3+1] += orig[1]
			poly[j*3+2] += orig[2]
		}

		ntris := int32(len(tris) / 4)

		dmesh.Meshes[i*4+0] = dmesh.NVerts
		dmesh.Meshes[i*4+1] = nverts
		dmesh.Meshes[i*4+2] = dmesh.NTris
		dmesh.Meshes[i*4+3] = ntris

		if dmesh.NVerts+nverts > vcap {
			for dmesh.NVerts+nverts > vcap {
				vcap += 256
			}
			newv := make([]float32, vcap*3)
			copy(newv, dmesh.Verts[:3*dmesh.NVerts])
			dmesh.Verts = newv
		}
		for j := int32(0); j < nverts; j++ {
			dmesh.Verts[dmesh.NVerts*3+0] = verts[j*3+0]
			dmesh.Verts[dmesh.NVerts*3+1] = verts[j*3+1]
			dmesh.Verts[dmesh.NVerts*3+2] = verts[j*3+2]
			dmesh.NVerts++
		}

		if dmesh.NTris+ntris > tcap {
			for dmesh.NTris+ntris > tcap {
				tcap += 256
			}
			newt := make([]uint8, tcap*4)
			copy(newt, dmesh.Tris[:4*dmesh.NTris])
			dmesh.Tris = newt
		}
		for j := int32(0); j < ntris; j++ {
			t := tris[j*4:]
			dmesh.Tris[dmesh.NTris*4+0] = uint8(t[0])
			dmesh.Tris[dmesh.NTris*4+1] = uint8(t[1])
			dmesh.Tris[dmesh.NTris*4+2] = uint8(t[2])
			dmesh.Tris[dmesh.NTris*4+3] = getTriFlags(verts[t[0]*3:], verts[t[1]*3:], verts[t[2]*3:], poly, npoly)
			dmesh.NTris++
		}
	}

	return dmesh, nil
}
