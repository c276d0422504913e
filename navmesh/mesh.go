package navmesh

// polyEdge records one shared boundary edge between two polygons,
// discovered while building adjacency: vert holds the edge's two vertex
// indices (low vertex first), poly the two owning polygon indices
// (equal until a second owner is found), polyEdge each owner's local
// edge index.
type polyEdge struct {
	vert     [2]uint16
	polyEdge [2]uint16
	poly     [2]uint16
}

// buildMeshAdjacency fills the neighbor half of every polygon's Polys
// entry (the second Nvp-length block) with the index of the polygon
// sharing that edge, or MeshNullIdx for a boundary edge. Grounded on Eric
// Lengyel's shared-edge-table technique.
func buildMeshAdjacency(polys []uint16, npolys, nverts, vertsPerPoly int32) {
	maxEdgeCount := npolys * vertsPerPoly
	firstEdge := make([]uint16, nverts+maxEdgeCount)
	nextEdge := firstEdge[nverts:]
	var edgeCount int32

	edges := make([]polyEdge, maxEdgeCount)

	for i := int32(0); i < nverts; i++ {
		firstEdge[i] = MeshNullIdx
	}

	for i := int32(0); i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := int32(0); j < vertsPerPoly; j++ {
			if t[j] == MeshNullIdx {
				break
			}
			v0 := t[j]
			v1 := t[0]
			if j+1 < vertsPerPoly && t[j+1] != MeshNullIdx {
				v1 = t[j+1]
			}
			if v0 < v1 {
				e := &edges[edgeCount]
				e.vert = [2]uint16{v0, v1}
				e.poly = [2]uint16{uint16(i), uint16(i)}
				e.polyEdge = [2]uint16{uint16(j), 0}
				nextEdge[edgeCount] = firstEdge[v0]
				firstEdge[v0] = uint16(edgeCount)
				edgeCount++
			}
		}
	}

	for i := int32(0); i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := int32(0); j < vertsPerPoly; j++ {
			if t[j] == MeshNullIdx {
				break
			}
			v0 := t[j]
			v1 := t[0]
			if j+1 < vertsPerPoly && t[j+1] != MeshNullIdx {
				v1 = t[j+1]
			}
			if v0 > v1 {
				for e := firstEdge[v1]; e != MeshNullIdx; e = nextEdge[e] {
					edge := &edges[e]
					if edge.vert[1] == v0 && edge.poly[0] == edge.poly[1] {
						edge.poly[1] = uint16(i)
						edge.polyEdge[1] = uint16(j)
						break
					}
				}
			}
		}
	}

	for i := int32(0); i < edgeCount; i++ {
		e := &edges[i]
		if e.poly[0] != e.poly[1] {
			p0 := polys[int32(e.poly[0])*vertsPerPoly*2:]
			p1 := polys[int32(e.poly[1])*vertsPerPoly*2:]
			p0[vertsPerPoly+int32(e.polyEdge[0])] = e.poly[1]
			p1[vertsPerPoly+int32(e.polyEdge[1])] = e.poly[0]
		}
	}
}

func computeVertexHash(x, y, z int32) int32 {
	const (
		h1 int64 = 0x8da6b343
		h2       = 0xd8163841
		h3       = 0xcb1ab31f
	)
	n := uint32(h1*int64(x) + h2*int64(y) + h3*int64(z))
	return int32(n & uint32(vertexBucketCount-1))
}

// addVertex welds (x,y,z) against existing mesh vertices hashed into the
// same bucket, tolerating up to 2 units of y jitter, and returns its
// index — appending a new vertex only if no match was found.
func addVertex(x, y, z uint16, verts []uint16, firstVert, nextVert []int32, nv *int32) uint16 {
	bucket := computeVertexHash(int32(x), 0, int32(z))
	i := firstVert[bucket]

	for i != -1 {
		v := verts[i*3:]
		if v[0] == x && iAbs(int32(v[1])-int32(y)) <= 2 && v[2] == z {
			return uint16(i)
		}
		i = nextVert[i]
	}

	i = *nv
	*nv++
	v := verts[i*3:]
	v[0], v[1], v[2] = x, y, z
	nextVert[i] = firstVert[bucket]
	firstVert[bucket] = i
	return uint16(i)
}

func inCone(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[nextIdx(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prevIdx(i, n)]&0x0fffffff)*4:]

	if leftOnPred(pin1, pi, pi1) {
		return leftPred(pi, pj, pin1) && leftPred(pj, pi, pi1)
	}
	return !(leftOnPred(pi, pj, pi1) && leftOnPred(pj, pi, pin1))
}

func inConeLoose(i, j, n int32, verts []int32, indices []int64) bool {
	pi := verts[(indices[i]&0x0fffffff)*4:]
	pj := verts[(indices[j]&0x0fffffff)*4:]
	pi1 := verts[(indices[nextIdx(i, n)]&0x0fffffff)*4:]
	pin1 := verts[(indices[prevIdx(i, n)]&0x0fffffff)*4:]

	if leftOnPred(pin1, pi, pi1) {
		return leftOnPred(pi, pj, pin1) && leftOnPred(pj, pi, pi1)
	}
	return !(leftOnPred(pi, pj, pi1) && leftOnPred(pj, pi, pin1))
}

// diagonalie reports whether segment (v_i, v_j) is free of crossings with
// every other edge of the polygon, ignoring edges incident to i or j.
func diagonalie(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]

	for k := int32(0); k < n; k++ {
		k1 := nextIdx(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0 := verts[(indices[k]&0x0fffffff)*4:]
		p1 := verts[(indices[k1]&0x0fffffff)*4:]
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}
		if segmentsIntersect(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

func diagonalieLoose(i, j, n int32, verts []int32, indices []int64) bool {
	d0 := verts[(indices[i]&0x0fffffff)*4:]
	d1 := verts[(indices[j]&0x0fffffff)*4:]

	for k := int32(0); k < n; k++ {
		k1 := nextIdx(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0 := verts[(indices[k]&0x0fffffff)*4:]
		p1 := verts[(indices[k1]&0x0fffffff)*4:]
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}
		if intersectProp(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

func diagonal(i, j, n int32, verts []int32, indices []int64) bool {
	return inCone(i, j, n, verts, indices) && diagonalie(i, j, n, verts, indices)
}

func diagonalLoose(i, j, n int32, verts []int32, indices []int64) bool {
	return inConeLoose(i, j, n, verts, indices) && diagonalieLoose(i, j, n, verts, indices)
}

// triangulate ear-clips the n-vertex polygon described by verts/indices
// into tris, returning the triangle count, or a negative count if the
// contour was too degenerate to fully clip (the caller still gets
// whatever triangles it managed). indices is consumed: traversed
// in-place as vertices are clipped out, with bit 0x80000000 marking
// candidate ears.
func triangulate(n int32, verts []int32, indices []int64, tris []int32) int32 {
	var ntris int32
	dst := tris

	for i := int32(0); i < n; i++ {
		i1 := nextIdx(i, n)
		i2 := nextIdx(i1, n)
		if diagonal(i, i2, n, verts, indices) {
			indices[i1] |= 0x80000000
		}
	}

	for n > 3 {
		minLen := int32(-1)
		mini := int32(-1)
		for i := int32(0); i < n; i++ {
			i1 := nextIdx(i, n)
			if indices[i1]&0x80000000 != 0 {
				p0 := verts[(indices[i]&0x0fffffff)*4:]
				p2 := verts[(indices[nextIdx(i1, n)]&0x0fffffff)*4:]
				dx := p2[0] - p0[0]
				dz := p2[2] - p0[2]
				length := dx*dx + dz*dz
				if minLen < 0 || length < minLen {
					minLen = length
					mini = i
				}
			}
		}

		if mini == -1 {
			minLen = -1
			mini = -1
			for i := int32(0); i < n; i++ {
				i1 := nextIdx(i, n)
				i2 := nextIdx(i1, n)
				if diagonalLoose(i, i2, n, verts, indices) {
					p0 := verts[(indices[i]&0x0fffffff)*4:]
					p2 := verts[(indices[nextIdx(i2, n)]&0x0fffffff)*4:]
					dx := p2[0] - p0[0]
					dz := p2[2] - p0[2]
					length := dx*dx + dz*dz
					if minLen < 0 || length < minLen {
						minLen = length
						mini = i
					}
				}
			}
			if mini == -1 {
				return -ntris
			}
		}

		i := mini
		i1 := nextIdx(i, n)
		i2 := nextIdx(i1, n)

		dst[0] = int32(indices[i] & 0x0fffffff)
		dst[1] = int32(indices[i1] & 0x0fffffff)
		dst[2] = int32(indices[i2] & 0x0fffffff)
		dst = dst[3:]
		ntris++

		n--
		for k := i1; k < n; k++ {
			indices[k] = indices[k+1]
		}

		if i1 >= n {
			i1 = 0
		}
		i = prevIdx(i1, n)
		if diagonal(prevIdx(i, n), i1, n, verts, indices) {
			indices[i] |= 0x80000000
		} else {
			indices[i] &= 0x0fffffff
		}
		if diagonal(i, nextIdx(i1, n), n, verts, indices) {
			indices[i1] |= 0x80000000
		} else {
			indices[i1] &= 0x0fffffff
		}
	}

	dst[0] = int32(indices[0] & 0x0fffffff)
	dst[1] = int32(indices[1] & 0x0fffffff)
	dst[2] = int32(indices[2] & 0x0fffffff)
	ntris++
	return ntris
}

func countPolyVerts(p []uint16, nvp int32) int32 {
	for i := int32(0); i < nvp; i++ {
		if p[i] == MeshNullIdx {
			return i
		}
	}
	return nvp
}

func uleft(a, b, c []uint16) bool {
	return (int32(b[0])-int32(a[0]))*(int32(c[2])-int32(a[2]))-
		(int32(c[0])-int32(a[0]))*(int32(b[2])-int32(a[2])) < 0
}

// getPolyMergeValue scores merging polys pa and pb across their shared
// edge: -1 if they don't share exactly one edge, would exceed nvp
// vertices, or the merge would be non-convex; otherwise the squared
// length of the shared edge (the caller merges the pair with the
// longest shared edge first).
func getPolyMergeValue(pa, pb []uint16, verts []uint16, nvp int32) (value, ea, eb int32) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	if na+nb-2 > nvp {
		return -1, -1, -1
	}

	ea, eb = -1, -1
	for i := int32(0); i < na; i++ {
		va0, va1 := pa[i], pa[(i+1)%na]
		if va0 > va1 {
			va0, va1 = va1, va0
		}
		for j := int32(0); j < nb; j++ {
			vb0, vb1 := pb[j], pb[(j+1)%nb]
			if vb0 > vb1 {
				vb0, vb1 = vb1, vb0
			}
			if va0 == vb0 && va1 == vb1 {
				ea, eb = i, j
				break
			}
		}
	}
	if ea == -1 || eb == -1 {
		return -1, -1, -1
	}

	va := pa[(ea+na-1)%na]
	vb := pa[ea]
	vc := pb[(eb+2)%nb]
	if !uleft(verts[va*3:], verts[vb*3:], verts[vc*3:]) {
		return -1, -1, -1
	}

	va = pb[(eb+nb-1)%nb]
	vb = pb[eb]
	vc = pa[(ea+2)%na]
	if !uleft(verts[va*3:], verts[vb*3:], verts[vc*3:]) {
		return -1, -1, -1
	}

	va = pa[ea]
	vb = pa[(ea+1)%na]
	dx := int32(verts[va*3+0]) - int32(verts[vb*3+0])
	dz := int32(verts[va*3+2]) - int32(verts[vb*3+2])
	return dx*dx + dz*dz, ea, eb
}

func mergePolyVerts(pa, pb []uint16, ea, eb int32, tmp []uint16, nvp int32) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	for i := int32(0); i < nvp; i++ {
		tmp[i] = MeshNullIdx
	}
	var n int32
	for i := int32(0); i < na-1; i++ {
		tmp[n] = pa[(ea+1+i)%na]
		n++
	}
	for i := int32(0); i < nb-1; i++ {
		tmp[n] = pb[(eb+1+i)%nb]
		n++
	}
	copy(pa, tmp[:nvp])
}

func pushFront(v int32, arr []int32, n *int32) {
	*n++
	for i := *n - 1; i > 0; i-- {
		arr[i] = arr[i-1]
	}
	arr[0] = v
}

func pushBack(v int32, arr []int32, n *int32) {
	arr[*n] = v
	*n++
}

// canRemoveVertex reports whether removing vertex rem from mesh would
// still leave enough boundary edges to re-triangulate the resulting
// hole, and wouldn't silently bridge two polygons that only touch rem
// at a point rather than sharing an edge.
func canRemoveVertex(mesh *PolyMesh, rem uint16) bool {
	nvp := mesh.Nvp

	var numTouchedVerts, numRemainingEdges int32
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		var numRemoved, numVerts int32
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				numTouchedVerts++
				numRemoved++
			}
			numVerts++
		}
		if numRemoved != 0 {
			numRemainingEdges += numVerts - (numRemoved + 1)
		}
	}
	if numRemainingEdges <= 2 {
		return false
	}

	maxEdges := numTouchedVerts * 2
	edges := make([]int32, maxEdges*3)
	var nedges int32

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		j, k := int32(0), nv-1
		for j < nv {
			if p[j] == rem || p[k] == rem {
				a, b := p[j], p[k]
				if b == rem {
					a, b = b, a
				}
				exists := false
				for m := int32(0); m < nedges; m++ {
					e := edges[m*3:]
					if e[1] == int32(b) {
						e[2]++
						exists = true
					}
				}
				if !exists {
					e := edges[nedges*3:]
					e[0], e[1], e[2] = int32(a), int32(b), 1
					nedges++
				}
			}
			k = j
			j++
		}
	}

	var numOpenEdges int32
	for i := int32(0); i < nedges; i++ {
		if edges[i*3+2] < 2 {
			numOpenEdges++
		}
	}
	return numOpenEdges <= 2
}

// removeVertex removes vertex rem from mesh, re-triangulating the hole
// its removal opens and re-merging the hole's triangles into as few
// convex polygons as possible, the same way BuildPolyMesh's border-edge
// cleanup pass uses it.
func removeVertex(ctx *Context, mesh *PolyMesh, rem uint16, maxTris int32) error {
	nvp := mesh.Nvp

	var numRemovedVerts int32
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				numRemovedVerts++
			}
		}
	}

	edges := make([]int32, numRemovedVerts*nvp*4)
	var nedges int32
	hole := make([]int32, numRemovedVerts*nvp)
	var nhole int32
	hreg := make([]int32, numRemovedVerts*nvp)
	var nhreg int32
	harea := make([]int32, numRemovedVerts*nvp)
	var nharea int32

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		hasRem := false
		for j := int32(0); j < nv; j++ {
			if p[j] == rem {
				hasRem = true
			}
		}
		if !hasRem {
			continue
		}

		for j, k := int32(0), nv-1; j < nv; k, j = j, j+1 {
			if p[j] != rem && p[k] != rem {
				e := edges[nedges*4:]
				e[0] = int32(p[k])
				e[1] = int32(p[j])
				e[2] = int32(mesh.Regs[i])
				e[3] = int32(mesh.Areas[i])
				nedges++
			}
		}

		last := mesh.Polys[(mesh.NPolys-1)*nvp*2:]
		if i != mesh.NPolys-1 {
			copy(p[:nvp*2], last[:nvp*2])
		}
		for idx := int32(0); idx < nvp; idx++ {
			p[nvp+idx] = MeshNullIdx
		}

		mesh.Regs[i] = mesh.Regs[mesh.NPolys-1]
		mesh.Areas[i] = mesh.Areas[mesh.NPolys-1]
		mesh.NPolys--
		i--
	}

	for i := int32(rem); i < mesh.NVerts-1; i++ {
		mesh.Verts[i*3+0] = mesh.Verts[(i+1)*3+0]
		mesh.Verts[i*3+1] = mesh.Verts[(i+1)*3+1]
		mesh.Verts[i*3+2] = mesh.Verts[(i+1)*3+2]
	}
	mesh.NVerts--

	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := int32(0); j < nv; j++ {
			if p[j] > rem {
				p[j]--
			}
		}
	}
	for i := int32(0); i < nedges; i++ {
		if edges[i*4+0] > int32(rem) {
			edges[i*4+0]--
		}
		if edges[i*4+1] > int32(rem) {
			edges[i*4+1]--
		}
	}

	if nedges == 0 {
		return nil
	}

	pushBack(edges[0], hole, &nhole)
	pushBack(edges[2], hreg, &nhreg)
	pushBack(edges[3], harea, &nharea)

	for nedges != 0 {
		match := false
		for i := int32(0); i < nedges; i++ {
			ea, eb, r, a := edges[i*4+0], edges[i*4+1], edges[i*4+2], edges[i*4+3]
			add := false
			if hole[0] == eb {
				pushFront(ea, hole, &nhole)
				pushFront(r, hreg, &nhreg)
				pushFront(a, harea, &nharea)
				add = true
			} else if hole[nhole-1] == ea {
				pushBack(eb, hole, &nhole)
				pushBack(r, hreg, &nhreg)
				pushBack(a, harea, &nharea)
				add = true
			}
			if add {
				edges[i*4+0] = edges[(nedges-1)*4+0]
				edges[i*4+1] = edges[(nedges-1)*4+1]
				edges[i*4+2] = edges[(nedges-1)*4+2]
				edges[i*4+3] = edges[(nedges-1)*4+3]
				nedges--
				match = true
				i--
			}
		}
		if !match {
			break
		}
	}

	tris := make([]int32, nhole*3)
	tverts := make([]int32, nhole*4)
	thole := make([]int64, nhole)
	for i := int32(0); i < nhole; i++ {
		pi := hole[i]
		tverts[i*4+0] = int32(mesh.Verts[pi*3+0])
		tverts[i*4+1] = int32(mesh.Verts[pi*3+1])
		tverts[i*4+2] = int32(mesh.Verts[pi*3+2])
		thole[i] = int64(i)
	}

	ntris := triangulate(nhole, tverts, thole, tris)
	if ntris < 0 {
		ntris = -ntris
		ctx.Warningf("removeVertex: triangulate produced a partial result for the hole left by vertex %d", rem)
	}

	polys := make([]uint16, (ntris+1)*nvp)
	pregs := make([]uint16, ntris)
	pareas := make([]uint8, ntris)
	tmpPoly := polys[ntris*nvp:]

	for i := range polys {
		polys[i] = MeshNullIdx
	}

	var npolys int32
	for j := int32(0); j < ntris; j++ {
		t := tris[j*3:]
		if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
			polys[npolys*nvp+0] = uint16(hole[t[0]])
			polys[npolys*nvp+1] = uint16(hole[t[1]])
			polys[npolys*nvp+2] = uint16(hole[t[2]])
			if hreg[t[0]] != hreg[t[1]] || hreg[t[1]] != hreg[t[2]] {
				pregs[npolys] = multipleRegs
			} else {
				pregs[npolys] = uint16(hreg[t[0]])
			}
			pareas[npolys] = uint8(harea[t[0]])
			npolys++
		}
	}
	if npolys == 0 {
		return nil
	}

	if nvp > 3 {
		for {
			bestMergeVal := int32(0)
			var bestPa, bestPb, bestEa, bestEb int32

			for j := int32(0); j < npolys-1; j++ {
				pj := polys[j*nvp:]
				for k := j + 1; k < npolys; k++ {
					pk := polys[k*nvp:]
					v, ea, eb := getPolyMergeValue(pj, pk, mesh.Verts, nvp)
					if v > bestMergeVal {
						bestMergeVal, bestPa, bestPb, bestEa, bestEb = v, j, k, ea, eb
					}
				}
			}

			if bestMergeVal <= 0 {
				break
			}
			pa := polys[bestPa*nvp:]
			pb := polys[bestPb*nvp:]
			mergePolyVerts(pa, pb, bestEa, bestEb, tmpPoly, nvp)
			if pregs[bestPa] != pregs[bestPb] {
				pregs[bestPa] = multipleRegs
			}

			last := polys[(npolys-1)*nvp:]
			if bestPb != npolys-1 {
				copy(pb[:nvp], last[:nvp])
			}
			pregs[bestPb] = pregs[npolys-1]
			pareas[bestPb] = pareas[npolys-1]
			npolys--
		}
	}

	for i := int32(0); i < npolys; i++ {
		if mesh.NPolys >= maxTris {
			break
		}
		p := mesh.Polys[mesh.NPolys*nvp*2:]
		for idx := int32(0); idx < nvp; idx++ {
			p[idx] = MeshNullIdx
		}
		copy(p[:nvp], polys[i*nvp:i*nvp+nvp])
		mesh.Regs[mesh.NPolys] = pregs[i]
		mesh.Areas[mesh.NPolys] = pareas[i]
		mesh.NPolys++
		if mesh.NPolys > maxTris {
			return newErrorf(ErrResourceExhausted, CodeTooManyPolygons, "too many polygons %d (max %d)", mesh.NPolys, maxTris)
		}
	}

	return nil
}
