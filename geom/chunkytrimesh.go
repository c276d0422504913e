package geom

import "sort"

// chunkNode is one node of a ChunkyTriMesh's AABB tree: a leaf holds
// I..I+N triangle indices, an interior node holds -escapeIndex in I so a
// rejected subtree can be skipped by jumping straight past its children.
type chunkNode struct {
	BMin, BMax [2]float32
	I, N       int32
}

// ChunkyTriMesh is a static AABB tree over a triangle soup's 2D (xz)
// footprint, letting a caller find the triangles overlapping a
// rectangle without scanning every triangle. LoadInputGeom builds one;
// navmesh rasterization does not consult it.
type ChunkyTriMesh struct {
	nodes           []chunkNode
	tris            []int32
	maxTrisPerChunk int32
}

type boundsItem struct {
	bmin, bmax [2]float32
	i          int32
}

func calcExtents(items []boundsItem, imin, imax int32) (bmin, bmax [2]float32) {
	bmin, bmax = items[imin].bmin, items[imin].bmax
	for i := imin + 1; i < imax; i++ {
		it := items[i]
		if it.bmin[0] < bmin[0] {
			bmin[0] = it.bmin[0]
		}
		if it.bmin[1] < bmin[1] {
			bmin[1] = it.bmin[1]
		}
		if it.bmax[0] > bmax[0] {
			bmax[0] = it.bmax[0]
		}
		if it.bmax[1] > bmax[1] {
			bmax[1] = it.bmax[1]
		}
	}
	return
}

func longestAxis(x, y float32) int {
	if y > x {
		return 1
	}
	return 0
}

func subdivideChunks(items []boundsItem, imin, imax, trisPerChunk int32, curNode *int32, nodes []chunkNode, curTri *int32, outTris, inTris []int32) {
	inum := imax - imin
	icur := *curNode

	node := &nodes[*curNode]
	*curNode++

	if inum <= trisPerChunk {
		node.BMin, node.BMax = calcExtents(items, imin, imax)
		node.I = *curTri
		node.N = inum
		for i := imin; i < imax; i++ {
			src := inTris[items[i].i*3:]
			dst := outTris[(*curTri)*3:]
			*curTri++
			copy(dst[:3], src[:3])
		}
		return
	}

	node.BMin, node.BMax = calcExtents(items, imin, imax)
	axis := longestAxis(node.BMax[0]-node.BMin[0], node.BMax[1]-node.BMin[1])

	sub := items[imin : imin+inum]
	if axis == 0 {
		sort.SliceStable(sub, func(i, j int) bool { return sub[i].bmin[0] < sub[j].bmin[0] })
	} else {
		sort.SliceStable(sub, func(i, j int) bool { return sub[i].bmin[1] < sub[j].bmin[1] })
	}

	isplit := imin + inum/2
	subdivideChunks(items, imin, isplit, trisPerChunk, curNode, nodes, curTri, outTris, inTris)
	subdivideChunks(items, isplit, imax, trisPerChunk, curNode, nodes, curTri, outTris, inTris)

	node.I = -(*curNode - icur)
}

// NewChunkyTriMesh partitions tris (indexing into verts) into an AABB
// tree with at most trisPerChunk triangles per leaf.
func NewChunkyTriMesh(verts []float32, tris []int32, trisPerChunk int32) *ChunkyTriMesh {
	ntris := int32(len(tris) / 3)
	nchunks := (ntris + trisPerChunk - 1) / trisPerChunk

	cm := &ChunkyTriMesh{
		nodes: make([]chunkNode, nchunks*4),
		tris:  make([]int32, ntris*3),
	}

	items := make([]boundsItem, ntris)
	for i := int32(0); i < ntris; i++ {
		t := tris[i*3 : i*3+3]
		it := &items[i]
		it.i = i
		it.bmax[0] = verts[t[0]*3+0]
		it.bmin[0] = it.bmax[0]
		it.bmax[1] = verts[t[0]*3+2]
		it.bmin[1] = it.bmax[1]
		for j := 1; j < 3; j++ {
			v := verts[t[j]*3 : t[j]*3+3]
			if v[0] < it.bmin[0] {
				it.bmin[0] = v[0]
			}
			if v[2] < it.bmin[1] {
				it.bmin[1] = v[2]
			}
			if v[0] > it.bmax[0] {
				it.bmax[0] = v[0]
			}
			if v[2] > it.bmax[1] {
				it.bmax[1] = v[2]
			}
		}
	}

	var curTri, curNode int32
	if ntris > 0 {
		subdivideChunks(items, 0, ntris, trisPerChunk, &curNode, cm.nodes, &curTri, cm.tris, tris)
	}
	cm.nodes = cm.nodes[:curNode]

	for i := range cm.nodes {
		n := &cm.nodes[i]
		if n.I >= 0 && n.N > cm.maxTrisPerChunk {
			cm.maxTrisPerChunk = n.N
		}
	}
	return cm
}

func checkOverlapRect(amin, amax, bmin, bmax [2]float32) bool {
	if amin[0] > bmax[0] || amax[0] < bmin[0] {
		return false
	}
	if amin[1] > bmax[1] || amax[1] < bmin[1] {
		return false
	}
	return true
}

// ChunksOverlappingRect returns the triangle index ranges, as (start,
// count) pairs into Tris(), of every leaf whose bounds overlap the
// rectangle bmin..bmax.
func (cm *ChunkyTriMesh) ChunksOverlappingRect(bmin, bmax [2]float32) [][2]int32 {
	var out [][2]int32
	i := int32(0)
	for i < int32(len(cm.nodes)) {
		node := &cm.nodes[i]
		overlap := checkOverlapRect(bmin, bmax, node.BMin, node.BMax)
		isLeaf := node.I >= 0

		if isLeaf && overlap {
			out = append(out, [2]int32{node.I, node.N})
		}
		if overlap || isLeaf {
			i++
		} else {
			i += -node.I
		}
	}
	return out
}

// Tris returns the triangle-index buffer chunk ranges address into.
func (cm *ChunkyTriMesh) Tris() []int32 { return cm.tris }

// MaxTrisPerChunk is the largest leaf's triangle count.
func (cm *ChunkyTriMesh) MaxTrisPerChunk() int32 { return cm.maxTrisPerChunk }
