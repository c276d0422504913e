package navmesh

import "sort"

// Contour is a single region's simplified boundary, plus the raw
// unsimplified trace it was derived from. Each vertex is packed as
// (x, y, z, flags); flags holds the neighboring region id
// (ContourRegMask), or BorderVertex/AreaBorder.
type Contour struct {
	Verts   []int32
	NVerts  int32
	RVerts  []int32
	NRVerts int32
	Reg     uint16
	Area    uint8
}

// ContourSet is the full set of region boundaries traced from one
// compact heightfield, still in voxel space.
type ContourSet struct {
	Conts      []Contour
	NConts     int32
	BMin, BMax [3]float32
	Cs, Ch     float32
	Width      int32
	Height     int32
	BorderSize int32
	MaxError   float32
}

// BuildContours traces the boundary of every region in chf, simplifies
// each boundary to within maxError voxels (splitting any edge
// longer than maxEdgeLen voxels if buildFlags asks for it), and merges
// any hole contours into their enclosing outline. chf.Dist is not
// required for this stage — only chf.Spans[*].Reg.
func BuildContours(ctx *Context, chf *CompactHeightfield, maxError float32, maxEdgeLen int32, buildFlags int32) (*ContourSet, error) {
	ctx.StartTimer(TimerBuildContours)
	defer ctx.StopTimer(TimerBuildContours)

	w, h := chf.Width, chf.Height
	borderSize := chf.BorderSize

	cset := &ContourSet{
		BMin: chf.BMin, BMax: chf.BMax,
		Cs: chf.Cs, Ch: chf.Ch,
		Width: chf.Width - borderSize*2, Height: chf.Height - borderSize*2,
		BorderSize: borderSize,
		MaxError:   maxError,
	}
	if borderSize > 0 {
		pad := float32(borderSize) * chf.Cs
		cset.BMin[0] += pad
		cset.BMin[2] += pad
		cset.BMax[0] -= pad
		cset.BMax[2] -= pad
	}

	flags := make([]uint8, chf.SpanCount)

	ctx.StartTimer(TimerBuildContoursTrace)
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				if s.Reg == 0 || s.Reg&borderReg != 0 {
					flags[i] = 0
					continue
				}
				var res uint8
				for dir := int32(0); dir < 4; dir++ {
					var r uint16
					if GetCon(s, dir) != NotConnected {
						ax := x + dirOffsetXDir(dir)
						az := z + dirOffsetZDir(dir)
						ai := int32(chf.Cells[ax+az*w].Index) + GetCon(s, dir)
						r = chf.Spans[ai].Reg
					}
					if r == s.Reg {
						res |= 1 << uint(dir)
					}
				}
				flags[i] = res ^ 0xf
			}
		}
	}
	ctx.StopTimer(TimerBuildContoursTrace)

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if flags[i] == 0 || flags[i] == 0xf {
					flags[i] = 0
					continue
				}
				reg := chf.Spans[i].Reg
				if reg == 0 || reg&borderReg != 0 {
					continue
				}
				area := chf.Areas[i]

				var verts, simplified []int32

				ctx.StartTimer(TimerBuildContoursTrace)
				walkContourRaw(x, z, i, chf, flags, &verts)
				ctx.StopTimer(TimerBuildContoursTrace)

				ctx.StartTimer(TimerBuildContoursSimplify)
				simplifyContour(verts, &simplified, maxError, maxEdgeLen, buildFlags)
				removeDegenerateSegments(&simplified)
				ctx.StopTimer(TimerBuildContoursSimplify)

				if len(simplified)/4 < 3 {
					continue
				}

				cont := Contour{
					NVerts: int32(len(simplified) / 4),
					Verts:  append([]int32(nil), simplified...),
				}
				cont.NRVerts = int32(len(verts) / 4)
				cont.RVerts = append([]int32(nil), verts...)

				if borderSize > 0 {
					for j := int32(0); j < cont.NVerts; j++ {
						cont.Verts[j*4+0] -= borderSize
						cont.Verts[j*4+2] -= borderSize
					}
					for j := int32(0); j < cont.NRVerts; j++ {
						cont.RVerts[j*4+0] -= borderSize
						cont.RVerts[j*4+2] -= borderSize
					}
				}

				cont.Reg = reg
				cont.Area = area
				cset.Conts = append(cset.Conts, cont)
				cset.NConts++
			}
		}
	}

	if cset.NConts > 0 {
		if err := mergeContourHoles(ctx, chf, cset); err != nil {
			return nil, err
		}
	}

	return cset, nil
}

func cornerHeight(x, z, i, dir int32, chf *CompactHeightfield) (ch int32, isBorderVertex bool) {
	s := &chf.Spans[i]
	ch = int32(s.Y)
	dirp := rotateCW(dir)

	var regs [4]uint32
	regs[0] = uint32(chf.Spans[i].Reg) | uint32(chf.Areas[i])<<16

	if GetCon(s, dir) != NotConnected {
		ax := x + dirOffsetXDir(dir)
		az := z + dirOffsetZDir(dir)
		ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(s, dir)
		as := &chf.Spans[ai]
		ch = iMax(ch, int32(as.Y))
		regs[1] = uint32(chf.Spans[ai].Reg) | uint32(chf.Areas[ai])<<16
		if GetCon(as, dirp) != NotConnected {
			ax2 := ax + dirOffsetXDir(dirp)
			az2 := az + dirOffsetZDir(dirp)
			ai2 := int32(chf.Cells[ax2+az2*chf.Width].Index) + GetCon(as, dirp)
			ch = iMax(ch, int32(chf.Spans[ai2].Y))
			regs[2] = uint32(chf.Spans[ai2].Reg) | uint32(chf.Areas[ai2])<<16
		}
	}
	if GetCon(s, dirp) != NotConnected {
		ax := x + dirOffsetXDir(dirp)
		az := z + dirOffsetZDir(dirp)
		ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(s, dirp)
		as := &chf.Spans[ai]
		ch = iMax(ch, int32(as.Y))
		regs[3] = uint32(chf.Spans[ai].Reg) | uint32(chf.Areas[ai])<<16
		if GetCon(as, dir) != NotConnected {
			ax2 := ax + dirOffsetXDir(dir)
			az2 := az + dirOffsetZDir(dir)
			ai2 := int32(chf.Cells[ax2+az2*chf.Width].Index) + GetCon(as, dir)
			ch = iMax(ch, int32(chf.Spans[ai2].Y))
			regs[2] = uint32(chf.Spans[ai2].Reg) | uint32(chf.Areas[ai2])<<16
		}
	}

	for j := int32(0); j < 4; j++ {
		a, b, c, d := j, (j+1)&0x3, (j+2)&0x3, (j+3)&0x3
		twoSameExts := regs[a]&regs[b]&uint32(borderReg) != 0 && regs[a] == regs[b]
		twoInts := (regs[c]|regs[d])&uint32(borderReg) == 0
		intsSameArea := regs[c]>>16 == regs[d]>>16
		noZeros := regs[a] != 0 && regs[b] != 0 && regs[c] != 0 && regs[d] != 0
		if twoSameExts && twoInts && intsSameArea && noZeros {
			isBorderVertex = true
			break
		}
	}

	return ch, isBorderVertex
}

func walkContourRaw(x, z, i int32, chf *CompactHeightfield, flags []uint8, points *[]int32) {
	var dir uint8
	for flags[i]&(1<<dir) == 0 {
		dir++
	}
	startDir, starti := dir, i
	area := chf.Areas[i]

	for iter := 0; iter+1 < 40000; iter++ {
		if flags[i]&(1<<dir) != 0 {
			py, isBorderVertex := cornerHeight(x, z, i, int32(dir), chf)
			px, pz := x, z
			switch dir {
			case 0:
				pz++
			case 1:
				px++
				pz++
			case 2:
				px++
			}

			r := int32(0)
			isAreaBorder := false
			s := &chf.Spans[i]
			if GetCon(s, int32(dir)) != NotConnected {
				ax := x + dirOffsetXDir(int32(dir))
				az := z + dirOffsetZDir(int32(dir))
				ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(s, int32(dir))
				r = int32(chf.Spans[ai].Reg)
				if area != chf.Areas[ai] {
					isAreaBorder = true
				}
			}
			if isBorderVertex {
				r |= BorderVertex
			}
			if isAreaBorder {
				r |= AreaBorder
			}
			*points = append(*points, px, py, pz, r)

			flags[i] &^= 1 << dir
			dir = uint8(rotateCW(int32(dir)))
		} else {
			nx := x + dirOffsetXDir(int32(dir))
			nz := z + dirOffsetZDir(int32(dir))
			s := &chf.Spans[i]
			ni := int32(-1)
			if GetCon(s, int32(dir)) != NotConnected {
				ni = int32(chf.Cells[nx+nz*chf.Width].Index) + GetCon(s, int32(dir))
			}
			if ni == -1 {
				return
			}
			x, z, i = nx, nz, ni
			dir = uint8(rotateCCW(int32(dir)))
		}

		if starti == i && startDir == dir {
			break
		}
	}
}

func distancePtSeg(x, z, px, pz, qx, qz int32) float32 {
	pqx, pqz := float32(qx-px), float32(qz-pz)
	dx, dz := float32(x-px), float32(z-pz)
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
	dx = float32(px) + t*pqx - float32(x)
	dz = float32(pz) + t*pqz - float32(z)
	return dx*dx + dz*dz
}

// simplifyContour reduces the raw per-voxel boundary trace points to a
// sparse polyline within maxError of the original, always keeping
// vertices where the neighboring region or area changes (those are
// "portal" vertices that later stages rely on for poly mesh adjacency).
func simplifyContour(points []int32, simplified *[]int32, maxError float32, maxEdgeLen, buildFlags int32) {
	hasConnections := false
	for i := 0; i < len(points); i += 4 {
		if points[i+3]&ContourRegMask != 0 {
			hasConnections = true
			break
		}
	}

	if hasConnections {
		n := len(points) / 4
		for i := 0; i < n; i++ {
			ii := (i + 1) % n
			differentRegs := points[i*4+3]&ContourRegMask != points[ii*4+3]&ContourRegMask
			areaBorders := points[i*4+3]&AreaBorder != points[ii*4+3]&AreaBorder
			if differentRegs || areaBorders {
				*simplified = append(*simplified, points[i*4+0], points[i*4+1], points[i*4+2], int32(i))
			}
		}
	}

	if len(*simplified) == 0 {
		llx, lly, llz, lli := points[0], points[1], points[2], int32(0)
		urx, ury, urz, uri := points[0], points[1], points[2], int32(0)
		for i := 0; i < len(points); i += 4 {
			x, y, z := points[i+0], points[i+1], points[i+2]
			if x < llx || (x == llx && z < llz) {
				llx, lly, llz, lli = x, y, z, int32(i/4)
			}
			if x > urx || (x == urx && z > urz) {
				urx, ury, urz, uri = x, y, z, int32(i/4)
			}
		}
		*simplified = append(*simplified, llx, lly, llz, lli, urx, ury, urz, uri)
	}

	pn := int32(len(points) / 4)
	for i := 0; i < len(*simplified)/4; {
		ii := (i + 1) % (len(*simplified) / 4)

		ax, az, ai := (*simplified)[i*4+0], (*simplified)[i*4+2], (*simplified)[i*4+3]
		bx, bz, bi := (*simplified)[ii*4+0], (*simplified)[ii*4+2], (*simplified)[ii*4+3]

		var maxd float32
		maxi := int32(-1)
		var ci, cinc, endi int32

		if bx > ax || (bx == ax && bz > az) {
			cinc = 1
			ci = (ai + cinc) % pn
			endi = bi
		} else {
			cinc = pn - 1
			ci = (bi + cinc) % pn
			endi = ai
			ax, bx = bx, ax
			az, bz = bz, az
		}

		if points[ci*4+3]&ContourRegMask == 0 || points[ci*4+3]&AreaBorder != 0 {
			for ci != endi {
				d := distancePtSeg(points[ci*4+0], points[ci*4+2], ax, az, bx, bz)
				if d > maxd {
					maxd = d
					maxi = ci
				}
				ci = (ci + cinc) % pn
			}
		}

		if maxi != -1 && maxd > maxError*maxError {
			insertSimplifiedVertex(simplified, i, points[maxi*4+0], points[maxi*4+1], points[maxi*4+2], maxi)
		} else {
			i++
		}
	}

	if maxEdgeLen > 0 && buildFlags&(ContourTessWallEdges|ContourTessAreaEdges) != 0 {
		for i := 0; i < len(*simplified)/4; {
			ii := (i + 1) % (len(*simplified) / 4)
			ax, az, ai := (*simplified)[i*4+0], (*simplified)[i*4+2], (*simplified)[i*4+3]
			bx, bz, bi := (*simplified)[ii*4+0], (*simplified)[ii*4+2], (*simplified)[ii*4+3]

			maxi := int32(-1)
			ci := (ai + 1) % pn

			tess := false
			if buildFlags&ContourTessWallEdges != 0 && points[ci*4+3]&ContourRegMask == 0 {
				tess = true
			}
			if buildFlags&ContourTessAreaEdges != 0 && points[ci*4+3]&AreaBorder != 0 {
				tess = true
			}

			if tess {
				dx, dz := bx-ax, bz-az
				if dx*dx+dz*dz > maxEdgeLen*maxEdgeLen {
					var n int32
					if bi < ai {
						n = bi + pn - ai
					} else {
						n = bi - ai
					}
					if n > 1 {
						if bx > ax || (bx == ax && bz > az) {
							maxi = (ai + n/2) % pn
						} else {
							maxi = (ai + (n+1)/2) % pn
						}
					}
				}
			}

			if maxi != -1 {
				insertSimplifiedVertex(simplified, i, points[maxi*4+0], points[maxi*4+1], points[maxi*4+2], maxi)
			} else {
				i++
			}
		}
	}

	for i := 0; i < len(*simplified)/4; i++ {
		ai := ((*simplified)[i*4+3] + 1) % pn
		bi := (*simplified)[i*4+3]
		(*simplified)[i*4+3] = (points[ai*4+3] & (ContourRegMask | AreaBorder)) | (points[bi*4+3] & BorderVertex)
	}
}

func insertSimplifiedVertex(simplified *[]int32, at int, x, y, z, srcIdx int32) {
	*simplified = append(*simplified, make([]int32, 4)...)
	n := len(*simplified) / 4
	for j := n - 1; j > at; j-- {
		copy((*simplified)[j*4:j*4+4], (*simplified)[(j-1)*4:(j-1)*4+4])
	}
	(*simplified)[(at+1)*4+0] = x
	(*simplified)[(at+1)*4+1] = y
	(*simplified)[(at+1)*4+2] = z
	(*simplified)[(at+1)*4+3] = srcIdx
}

func vequal4(a, b []int32) bool { return a[0] == b[0] && a[2] == b[2] }

func removeDegenerateSegments(simplified *[]int32) {
	npts := int32(len(*simplified) / 4)
	for i := int32(0); i < npts; i++ {
		ni := nextIdx(i, npts)
		if vequal4((*simplified)[i*4:], (*simplified)[ni*4:]) {
			for j := i; j < npts-1; j++ {
				copy((*simplified)[j*4:j*4+4], (*simplified)[(j+1)*4:(j+1)*4+4])
			}
			*simplified = (*simplified)[:len(*simplified)-4]
			npts--
		}
	}
}

func calcAreaOfPolygon2D(verts []int32, nverts int32) int32 {
	var area int32
	j := nverts - 1
	for i := int32(0); i < nverts; i++ {
		vi, vj := verts[i*4:], verts[j*4:]
		area += vi[0]*vj[2] - vj[0]*vi[2]
		j = i
	}
	return (area + 1) / 2
}

func prevIdx(i, n int32) int32 {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func nextIdx(i, n int32) int32 {
	if i+1 < n {
		return i + 1
	}
	return 0
}

func area2(a, b, c []int32) int32 {
	return (b[0]-a[0])*(c[2]-a[2]) - (c[0]-a[0])*(b[2]-a[2])
}

func leftPred(a, b, c []int32) bool   { return area2(a, b, c) < 0 }
func leftOnPred(a, b, c []int32) bool { return area2(a, b, c) <= 0 }
func collinear(a, b, c []int32) bool  { return area2(a, b, c) == 0 }

func intersectProp(a, b, c, d []int32) bool {
	if collinear(a, b, c) || collinear(a, b, d) || collinear(c, d, a) || collinear(c, d, b) {
		return false
	}
	return (leftPred(a, b, c) != leftPred(a, b, d)) && (leftPred(c, d, a) != leftPred(c, d, b))
}

func between(a, b, c []int32) bool {
	if !collinear(a, b, c) {
		return false
	}
	if a[0] != b[0] {
		return (a[0] <= c[0] && c[0] <= b[0]) || (a[0] >= c[0] && c[0] >= b[0])
	}
	return (a[2] <= c[2] && c[2] <= b[2]) || (a[2] >= c[2] && c[2] >= b[2])
}

func segmentsIntersect(a, b, c, d []int32) bool {
	if intersectProp(a, b, c, d) {
		return true
	}
	return between(a, b, c) || between(a, b, d) || between(c, d, a) || between(c, d, b)
}

func vequal(a, b []int32) bool { return a[0] == b[0] && a[2] == b[2] }

func findLeftMostVertex(contour *Contour) (minx, minz, leftmost int32) {
	minx, minz = contour.Verts[0], contour.Verts[2]
	for i := int32(1); i < contour.NVerts; i++ {
		x, z := contour.Verts[i*4+0], contour.Verts[i*4+2]
		if x < minx || (x == minx && z < minz) {
			minx, minz, leftmost = x, z, i
		}
	}
	return
}

func mergeTwoContours(ca, cb *Contour, ia, ib int32) {
	maxVerts := ca.NVerts + cb.NVerts + 2
	verts := make([]int32, maxVerts*4)

	var nv int32
	for i := int32(0); i <= ca.NVerts; i++ {
		copy(verts[nv*4:nv*4+4], ca.Verts[((ia+i)%ca.NVerts)*4:((ia+i)%ca.NVerts)*4+4])
		nv++
	}
	for i := int32(0); i <= cb.NVerts; i++ {
		copy(verts[nv*4:nv*4+4], cb.Verts[((ib+i)%cb.NVerts)*4:((ib+i)%cb.NVerts)*4+4])
		nv++
	}

	ca.Verts = verts[:nv*4]
	ca.NVerts = nv
	cb.Verts = nil
	cb.NVerts = 0
}

type contourHole struct {
	contour              *Contour
	minx, minz, leftmost int32
}

type potentialDiagonal struct {
	vert, dist int32
}

func inConeOutline(i, n int32, verts, pj []int32) bool {
	pi := verts[i*4:]
	pi1 := verts[nextIdx(i, n)*4:]
	pin1 := verts[prevIdx(i, n)*4:]
	if leftOnPred(pin1, pi, pi1) {
		return leftPred(pi, pj, pin1) && leftPred(pj, pi, pi1)
	}
	return !(leftOnPred(pi, pj, pi1) && leftOnPred(pj, pi, pin1))
}

func intersectSegContour(d0, d1 []int32, skip, n int32, verts []int32) bool {
	for k := int32(0); k < n; k++ {
		k1 := nextIdx(k, n)
		if skip == k || skip == k1 {
			continue
		}
		p0, p1 := verts[k*4:], verts[k1*4:]
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}
		if segmentsIntersect(d0, d1, p0, p1) {
			return true
		}
	}
	return false
}

// mergeContourHoles groups each region's negatively-wound (hole) contours
// under its single positively-wound outline and stitches each hole into
// the outline via the shortest non-intersecting diagonal, per region.
func mergeContourHoles(ctx *Context, chf *CompactHeightfield, cset *ContourSet) error {
	winding := make([]int8, cset.NConts)
	nholes := int32(0)
	for i := range cset.Conts {
		c := &cset.Conts[i]
		if calcAreaOfPolygon2D(c.Verts, c.NVerts) < 0 {
			winding[i] = -1
			nholes++
		} else {
			winding[i] = 1
		}
	}
	if nholes == 0 {
		return nil
	}

	nregions := int32(chf.MaxRegions) + 1
	outlines := make([]*Contour, nregions)
	var holesByRegion [][]contourHole
	holesByRegion = make([][]contourHole, nregions)

	for i := range cset.Conts {
		c := &cset.Conts[i]
		if winding[i] > 0 {
			if outlines[c.Reg] != nil {
				ctx.Errorf("multiple outline contours for region %d", c.Reg)
			}
			outlines[c.Reg] = c
		} else {
			holesByRegion[c.Reg] = append(holesByRegion[c.Reg], contourHole{contour: c})
		}
	}

	for reg := int32(0); reg < nregions; reg++ {
		holes := holesByRegion[reg]
		if len(holes) == 0 {
			continue
		}
		outline := outlines[reg]
		if outline == nil {
			ctx.Errorf("region %d has holes but no outline; contour simplification is likely too aggressive", reg)
			continue
		}

		for i := range holes {
			holes[i].minx, holes[i].minz, holes[i].leftmost = findLeftMostVertex(holes[i].contour)
		}
		sort.Slice(holes, func(a, b int) bool {
			if holes[a].minx != holes[b].minx {
				return holes[a].minx < holes[b].minx
			}
			return holes[a].minz < holes[b].minz
		})

		maxVerts := outline.NVerts
		for _, hl := range holes {
			maxVerts += hl.contour.NVerts
		}
		diags := make([]potentialDiagonal, maxVerts)

		for hi := range holes {
			hole := holes[hi].contour
			bestVertex := holes[hi].leftmost
			index := int32(-1)

			for iter := int32(0); iter < hole.NVerts; iter++ {
				ndiags := int32(0)
				corner := hole.Verts[bestVertex*4:]
				for j := int32(0); j < outline.NVerts; j++ {
					if inConeOutline(j, outline.NVerts, outline.Verts, corner) {
						dx := outline.Verts[j*4+0] - corner[0]
						dz := outline.Verts[j*4+2] - corner[2]
						diags[ndiags] = potentialDiagonal{vert: j, dist: dx*dx + dz*dz}
						ndiags++
					}
				}
				sort.Slice(diags[:ndiags], func(a, b int) bool { return diags[a].dist < diags[b].dist })

				for j := int32(0); j < ndiags; j++ {
					pt := outline.Verts[diags[j].vert*4:]
					intersects := intersectSegContour(pt, corner, diags[j].vert, outline.NVerts, outline.Verts)
					for k := hi; k < len(holes) && !intersects; k++ {
						intersects = intersectSegContour(pt, corner, -1, holes[k].contour.NVerts, holes[k].contour.Verts)
					}
					if !intersects {
						index = diags[j].vert
						break
					}
				}
				if index != -1 {
					break
				}
				bestVertex = (bestVertex + 1) % hole.NVerts
			}

			if index == -1 {
				ctx.Warningf("failed to find a merge point for a hole in region %d", reg)
				continue
			}
			mergeTwoContours(outline, hole, index, bestVertex)
		}
	}

	filtered := cset.Conts[:0]
	for i := range cset.Conts {
		if cset.Conts[i].NVerts > 0 {
			filtered = append(filtered, cset.Conts[i])
		}
	}
	cset.Conts = filtered
	cset.NConts = int32(len(filtered))
	return nil
}
