package navmesh

// PolyMesh is a polygon mesh suitable for Detour navmesh construction:
// convex polygons of up to Nvp vertices each, with per-edge neighbor
// links and tile-border portal encoding.
type PolyMesh struct {
	Verts        []uint16 // mesh vertices, (x,y,z) * NVerts
	Polys        []uint16 // polygon + neighbor data, MaxPolys * 2 * Nvp
	Regs         []uint16 // region id per polygon
	Flags        []uint16 // user flags per polygon, allocated but left zero
	Areas        []uint8  // area id per polygon
	NVerts       int32
	NPolys       int32
	MaxPolys     int32
	Nvp          int32
	BMin, BMax   [3]float32
	Cs, Ch       float32
	BorderSize   int32
	MaxEdgeError float32
}

// BuildPolyMesh triangulates every contour in cset, welds shared
// vertices, greedily re-merges triangles into convex polygons of up to
// nvp vertices, strips the border vertices BuildContours tagged for
// removal, and computes inter-polygon adjacency, returning an error
// rather than a bool and using the triangulate/addVertex/removeVertex
// helpers in mesh.go.
func BuildPolyMesh(ctx *Context, cset *ContourSet, nvp int32) (*PolyMesh, error) {
	ctx.StartTimer(TimerBuildPolyMesh)
	defer ctx.StopTimer(TimerBuildPolyMesh)

	var maxVertices, maxTris, maxVertsPerCont int32
	for i := int32(0); i < cset.NConts; i++ {
		if cset.Conts[i].NVerts < 3 {
			continue
		}
		maxVertices += cset.Conts[i].NVerts
		maxTris += cset.Conts[i].NVerts - 2
		maxVertsPerCont = iMax(maxVertsPerCont, cset.Conts[i].NVerts)
	}
	if maxVertices >= 0xfffe {
		return nil, newErrorf(ErrResourceExhausted, CodeTooManyVertices, "too many vertices %d", maxVertices)
	}

	mesh := &PolyMesh{
		Cs:           cset.Cs,
		Ch:           cset.Ch,
		BorderSize:   cset.BorderSize,
		MaxEdgeError: cset.MaxError,
		Verts:        make([]uint16, maxVertices*3),
		Polys:        make([]uint16, maxTris*nvp*2),
		Regs:         make([]uint16, maxTris),
		Areas:        make([]uint8, maxTris),
		Nvp:          nvp,
		MaxPolys:     maxTris,
		BMin:         cset.BMin,
		BMax:         cset.BMax,
	}
	for i := range mesh.Polys {
		mesh.Polys[i] = MeshNullIdx
	}

	vflags := make([]uint8, maxVertices)
	nextVert := make([]int32, maxVertices)
	firstVert := make([]int32, vertexBucketCount)
	for i := range firstVert {
		firstVert[i] = -1
	}

	indices := make([]int64, maxVertsPerCont)
	tris := make([]int32, maxVertsPerCont*3)
	polys := make([]uint16, (maxVertsPerCont+1)*nvp)
	tmpPoly := polys[maxVertsPerCont*nvp:]

	for ci := int32(0); ci < cset.NConts; ci++ {
		cont := &cset.Conts[ci]
		if cont.NVerts < 3 {
			continue
		}

		for j := int32(0); j < cont.NVerts; j++ {
			indices[j] = int64(j)
		}

		ntris := triangulate(cont.NVerts, cont.Verts, indices, tris)
		if ntris <= 0 {
			ctx.Warningf("BuildPolyMesh: bad triangulation for contour %d", ci)
			ntris = -ntris
		}

		for j := int32(0); j < cont.NVerts; j++ {
			v := cont.Verts[j*4:]
			indices[j] = int64(addVertex(uint16(v[0]), uint16(v[1]), uint16(v[2]),
				mesh.Verts, firstVert, nextVert, &mesh.NVerts))
			if v[3]&BorderVertex != 0 {
				vflags[indices[j]] = 1
			}
		}

		var npolys int32
		for i := range polys[:maxVertsPerCont*nvp] {
			polys[i] = MeshNullIdx
		}

		for j := int32(0); j < ntris; j++ {
			t := tris[j*3:]
			if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
				polys[npolys*nvp+0] = uint16(indices[t[0]])
				polys[npolys*nvp+1] = uint16(indices[t[1]])
				polys[npolys*nvp+2] = uint16(indices[t[2]])
				npolys++
			}
		}
		if npolys == 0 {
			continue
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
				lastPoly := polys[(npolys-1)*nvp:]
				if bestPb != npolys-1 {
					copy(pb[:nvp], lastPoly[:nvp])
				}
				npolys--
			}
		}

		for j := int32(0); j < npolys; j++ {
			p := mesh.Polys[mesh.NPolys*nvp*2:]
			q := polys[j*nvp:]
			copy(p[:nvp], q[:nvp])
			mesh.Regs[mesh.NPolys] = cont.Reg
			mesh.Areas[mesh.NPolys] = cont.Area
			mesh.NPolys++
			if mesh.NPolys > maxTris {
				return nil, newErrorf(ErrResourceExhausted, CodeTooManyPolygons, "too many polygons %d (max %d)", mesh.NPolys, maxTris)
			}
		}
	}

	for i := int32(0); i < mesh.NVerts; i++ {
		if vflags[i] == 0 {
			continue
		}
		if !canRemoveVertex(mesh, uint16(i)) {
			continue
		}
		if err := removeVertex(ctx, mesh, uint16(i), maxTris); err != nil {
			return nil, err
		}
		for j := i; j < mesh.NVerts; j++ {
			vflags[j] = vflags[j+1]
		}
		i--
	}

	buildMeshAdjacency(mesh.Polys, mesh.NPolys, mesh.NVerts, nvp)

	if mesh.BorderSize > 0 {
		w, h := cset.Width, cset.Height
		for i := int32(0); i < mesh.NPolys; i++ {
			p := mesh.Polys[i*2*nvp:]
			for j := int32(0); j < nvp; j++ {
				if p[j] == MeshNullIdx {
					break
				}
				if p[nvp+j] != MeshNullIdx {
					continue
				}
				nj := j + 1
				if nj >= nvp || p[nj] == MeshNullIdx {
					nj = 0
				}
				va := mesh.Verts[p[j]*3:]
				vb := mesh.Verts[p[nj]*3:]

				switch {
				case int32(va[0]) == 0 && int32(vb[0]) == 0:
					p[nvp+j] = 0x8000 | 0
				case int32(va[2]) == h && int32(vb[2]) == h:
					p[nvp+j] = 0x8000 | 1
				case int32(va[0]) == w && int32(vb[0]) == w:
					p[nvp+j] = 0x8000 | 2
				case int32(va[2]) == 0 && int32(vb[2]) == 0:
					p[nvp+j] = 0x8000 | 3
				}
			}
		}
	}

	mesh.Flags = make([]uint16, mesh.NPolys)
	if mesh.NVerts > 0xffff {
		return nil, newErrorf(ErrResourceExhausted, CodeTooManyVertices, "resulting mesh has too many vertices %d (max %d)", mesh.NVerts, 0xffff)
	}
	if mesh.NPolys > 0xffff {
		return nil, newErrorf(ErrResourceExhausted, CodeTooManyPolygons, "resulting mesh has too many polygons %d (max %d)", mesh.NPolys, 0xffff)
	}

	return mesh, nil
}
