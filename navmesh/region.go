package navmesh

import assert "github.com/aurelien-rainone/assertgo"

// PartitionType selects the algorithm BuildRegions uses to divide a
// compact heightfield's walkable surface into regions.
type PartitionType int

const (
	// PartitionWatershed produces the most natural-looking regions but is
	// the most expensive and most prone to small slivers along diagonal
	// corridors.
	PartitionWatershed PartitionType = iota
	// PartitionMonotone is a fast single-sweep partition. It tends to
	// create long thin regions, which later merge cleanly but can look
	// artificial.
	PartitionMonotone
)

// BuildRegions partitions chf's walkable surface into regions using the
// algorithm named by partition, then merges and filters the result with
// the same pass for both the monotone and watershed paths, so this
// dispatches to whichever one the caller asks for instead of hardcoding
// monotone.
func BuildRegions(ctx *Context, chf *CompactHeightfield, partition PartitionType, borderSize, minRegionArea, mergeRegionArea int32) error {
	assert.True(minRegionArea >= 0 && mergeRegionArea >= 0, "region areas must be >= 0")

	switch partition {
	case PartitionMonotone:
		return buildRegionsMonotone(ctx, chf, borderSize, minRegionArea, mergeRegionArea)
	default:
		return buildRegionsWatershed(ctx, chf, borderSize, minRegionArea, mergeRegionArea)
	}
}

// buildRegionsMonotone assigns region ids to every walkable span with a
// single west-to-east, south-to-north (z ascending) sweep: each row
// extends the previous (z-1) row's regions where areas agree, and splits a new
// region id whenever it can't.
func buildRegionsMonotone(ctx *Context, chf *CompactHeightfield, borderSize, minRegionArea, mergeRegionArea int32) error {
	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w, h := chf.Width, chf.Height
	id := uint16(1)

	srcReg := make([]uint16, chf.SpanCount)
	sweeps := make([]sweepSpan, iMax(w, h)+1)

	if borderSize > 0 {
		bw := iMin(w, borderSize)
		bh := iMin(h, borderSize)
		paintRectRegion(0, bw, 0, h, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(w-bw, w, 0, h, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(0, w, 0, bh, id|borderReg, chf, srcReg)
		id++
		paintRectRegion(0, w, h-bh, h, id|borderReg, chf, srcReg)
		id++
		chf.BorderSize = borderSize
	}

	for z := borderSize; z < h-borderSize; z++ {
		prev := make([]int32, id+1)
		rid := uint16(1)

		for x := borderSize; x < w-borderSize; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == NullArea {
					continue
				}

				previd := uint16(0)
				if GetCon(s, 0) != NotConnected {
					ax := x + dirOffsetXDir(0)
					az := z + dirOffsetZDir(0)
					ai := int32(chf.Cells[ax+az*w].Index) + GetCon(s, 0)
					if srcReg[ai]&borderReg == 0 && chf.Areas[i] == chf.Areas[ai] {
						previd = srcReg[ai]
					}
				}

				if previd == 0 {
					previd = rid
					rid++
					sweeps[previd] = sweepSpan{rid: previd}
				}

				if GetCon(s, 3) != NotConnected {
					ax := x + dirOffsetXDir(3)
					az := z + dirOffsetZDir(3)
					ai := int32(chf.Cells[ax+az*w].Index) + GetCon(s, 3)
					if srcReg[ai] != 0 && srcReg[ai]&borderReg == 0 && chf.Areas[i] == chf.Areas[ai] {
						nr := srcReg[ai]
						if sweeps[previd].nei == 0 || sweeps[previd].nei == nr {
							sweeps[previd].nei = nr
							sweeps[previd].ns++
							prev[nr]++
						} else {
							sweeps[previd].nei = nullNeighbor
						}
					}
				}

				srcReg[i] = previd
			}
		}

		for i := uint16(1); i < rid; i++ {
			if sweeps[i].nei != nullNeighbor && sweeps[i].nei != 0 && prev[sweeps[i].nei] == int32(sweeps[i].ns) {
				sweeps[i].id = sweeps[i].nei
			} else {
				sweeps[i].id = id
				id++
			}
		}

		for x := borderSize; x < w-borderSize; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if srcReg[i] > 0 && srcReg[i] < rid {
					srcReg[i] = sweeps[srcReg[i]].id
				}
			}
		}
	}

	ctx.StartTimer(TimerBuildRegionsFilter)
	maxRegions := id
	if err := mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &maxRegions, chf, srcReg); err != nil {
		ctx.StopTimer(TimerBuildRegionsFilter)
		return err
	}
	chf.MaxRegions = maxRegions
	ctx.StopTimer(TimerBuildRegionsFilter)

	for i := int32(0); i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}
	return nil
}

// buildRegionsWatershed grows regions outward from local maxima of chf's
// distance field, one level band at a time, so that watersheds naturally
// form along ridgelines between the nearest obstacles. It is the
// textbook Recast watershed implementation.
func buildRegionsWatershed(ctx *Context, chf *CompactHeightfield, borderSize, minRegionArea, mergeRegionArea int32) error {
	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w, h := chf.Width, chf.Height

	buf := make([]uint16, chf.SpanCount*4)
	ctx.StartTimer(TimerBuildRegionsWatershed)

	const logNbStacks = 3
	const nbStacks = 1 << logNbStacks

	lvlStacks := make([][]int32, nbStacks)
	for i := range lvlStacks {
		lvlStacks[i] = make([]int32, 0, 256)
	}
	stack := make([]int32, 0, 256)

	srcReg := buf[:chf.SpanCount]
	srcDist := buf[chf.SpanCount : chf.SpanCount*2]
	dstReg := buf[chf.SpanCount*2 : chf.SpanCount*3]
	dstDist := buf[chf.SpanCount*3:]

	regionID := uint16(1)
	level := (chf.MaxDistance + 1) &^ 1

	const expandIters = 8

	if borderSize > 0 {
		bw := iMin(w, borderSize)
		bh := iMin(h, borderSize)
		paintRectRegion(0, bw, 0, h, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(w-bw, w, 0, h, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(0, w, 0, bh, regionID|borderReg, chf, srcReg)
		regionID++
		paintRectRegion(0, w, h-bh, h, regionID|borderReg, chf, srcReg)
		regionID++
		chf.BorderSize = borderSize
	}

	sID := -1
	for level > 0 {
		if level >= 2 {
			level -= 2
		} else {
			level = 0
		}
		sID = (sID + 1) & (nbStacks - 1)

		if sID == 0 {
			sortCellsByLevel(level, chf, srcReg, nbStacks, lvlStacks, 1)
		} else {
			appendStacks(lvlStacks[sID-1], &lvlStacks[sID], srcReg)
		}

		ctx.StartTimer(TimerBuildRegionsExpand)
		if expandRegions(expandIters, level, chf, &srcReg, &srcDist, &dstReg, &dstDist, &lvlStacks[sID], false) {
			srcReg, dstReg = dstReg, srcReg
			srcDist, dstDist = dstDist, srcDist
		}
		ctx.StopTimer(TimerBuildRegionsExpand)

		ctx.StartTimer(TimerBuildRegionsFlood)
		for j := 0; j < len(lvlStacks[sID]); j += 3 {
			x := lvlStacks[sID][j]
			z := lvlStacks[sID][j+1]
			i := lvlStacks[sID][j+2]
			if i >= 0 && srcReg[i] == 0 {
				if floodRegion(x, z, i, level, regionID, chf, srcReg, srcDist, &stack) {
					if regionID == 0xffff {
						return newError(ErrResourceExhausted, CodeRegionIDOverflow, "region id overflow")
					}
					regionID++
				}
			}
		}
		ctx.StopTimer(TimerBuildRegionsFlood)
	}

	if expandRegions(expandIters*8, 0, chf, &srcReg, &srcDist, &dstReg, &dstDist, &stack, true) {
		srcReg, dstReg = dstReg, srcReg
		srcDist, dstDist = dstDist, srcDist
	}
	ctx.StopTimer(TimerBuildRegionsWatershed)

	ctx.StartTimer(TimerBuildRegionsFilter)
	maxRegions := regionID
	if err := mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &maxRegions, chf, srcReg); err != nil {
		ctx.StopTimer(TimerBuildRegionsFilter)
		return err
	}
	chf.MaxRegions = maxRegions
	ctx.StopTimer(TimerBuildRegionsFilter)

	for i := int32(0); i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}
	return nil
}

func paintRectRegion(minx, maxx, minz, maxz int32, regID uint16, chf *CompactHeightfield, srcReg []uint16) {
	w := chf.Width
	for z := minz; z < maxz; z++ {
		for x := minx; x < maxx; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if chf.Areas[i] != NullArea {
					srcReg[i] = regID
				}
			}
		}
	}
}

func floodRegion(x, z, i int32, level, r uint16, chf *CompactHeightfield, srcReg, srcDist []uint16, stack *[]int32) bool {
	w := chf.Width
	area := chf.Areas[i]

	*stack = append((*stack)[:0], x, z, i)
	srcReg[i] = r
	srcDist[i] = 0

	lev := uint16(0)
	if level >= 2 {
		lev = level - 2
	}

	count := int32(0)
	for len(*stack) > 0 {
		ci := (*stack)[len(*stack)-1]
		cz := (*stack)[len(*stack)-2]
		cx := (*stack)[len(*stack)-3]
		*stack = (*stack)[:len(*stack)-3]

		cs := &chf.Spans[ci]

		var ar uint16
		for dir := int32(0); dir < 4; dir++ {
			if GetCon(cs, dir) == NotConnected {
				continue
			}
			ax := cx + dirOffsetXDir(dir)
			az := cz + dirOffsetZDir(dir)
			ai := int32(chf.Cells[ax+az*w].Index) + GetCon(cs, dir)
			if chf.Areas[ai] != area {
				continue
			}
			nr := srcReg[ai]
			if nr&borderReg != 0 {
				continue
			}
			if nr != 0 && nr != r {
				ar = nr
				break
			}

			as := &chf.Spans[ai]
			dir2 := rotateCW(dir)
			if GetCon(as, dir2) != NotConnected {
				ax2 := ax + dirOffsetXDir(dir2)
				az2 := az + dirOffsetZDir(dir2)
				ai2 := int32(chf.Cells[ax2+az2*w].Index) + GetCon(as, dir2)
				if chf.Areas[ai2] != area {
					continue
				}
				nr2 := srcReg[ai2]
				if nr2 != 0 && nr2 != r {
					ar = nr2
					break
				}
			}
		}
		if ar != 0 {
			srcReg[ci] = 0
			continue
		}

		count++

		for dir := int32(0); dir < 4; dir++ {
			if GetCon(cs, dir) == NotConnected {
				continue
			}
			ax := cx + dirOffsetXDir(dir)
			az := cz + dirOffsetZDir(dir)
			ai := int32(chf.Cells[ax+az*w].Index) + GetCon(cs, dir)
			if chf.Areas[ai] != area {
				continue
			}
			if chf.Dist[ai] >= lev && srcReg[ai] == 0 {
				srcReg[ai] = r
				srcDist[ai] = 0
				*stack = append(*stack, ax, az, ai)
			}
		}
	}

	return count > 0
}

func expandRegions(maxIter int, level uint16, chf *CompactHeightfield, srcReg, srcDist, dstReg, dstDist *[]uint16, stack *[]int32, fillStack bool) (swapped bool) {
	w, h := chf.Width, chf.Height

	if fillStack {
		*stack = (*stack)[:0]
		for z := int32(0); z < h; z++ {
			for x := int32(0); x < w; x++ {
				c := chf.Cells[x+z*w]
				for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
					if chf.Dist[i] >= level && (*srcReg)[i] == 0 && chf.Areas[i] != NullArea {
						*stack = append(*stack, x, z, i)
					}
				}
			}
		}
	} else {
		for j := 0; j < len(*stack); j += 3 {
			i := (*stack)[j+2]
			if (*srcReg)[i] != 0 {
				(*stack)[j+2] = -1
			}
		}
	}

	iter := 0
	for len(*stack) > 0 {
		failed := 0
		copy(*dstReg, (*srcReg)[:chf.SpanCount])
		copy(*dstDist, (*srcDist)[:chf.SpanCount])

		for j := 0; j < len(*stack); j += 3 {
			x := (*stack)[j+0]
			z := (*stack)[j+1]
			i := (*stack)[j+2]
			if i < 0 {
				failed++
				continue
			}

			r := (*srcReg)[i]
			d2 := int32(0xffff)
			area := chf.Areas[i]
			s := &chf.Spans[i]
			for dir := int32(0); dir < 4; dir++ {
				if GetCon(s, dir) == NotConnected {
					continue
				}
				ax := x + dirOffsetXDir(dir)
				az := z + dirOffsetZDir(dir)
				ai := int32(chf.Cells[ax+az*w].Index) + GetCon(s, dir)
				if chf.Areas[ai] != area {
					continue
				}
				if (*srcReg)[ai] > 0 && (*srcReg)[ai]&borderReg == 0 {
					if d := int32((*srcDist)[ai]) + 2; d < d2 {
						r = (*srcReg)[ai]
						d2 = d
					}
				}
			}
			if r != 0 {
				(*stack)[j+2] = -1
				(*dstReg)[i] = r
				(*dstDist)[i] = uint16(d2)
			} else {
				failed++
			}
		}

		*srcReg, *dstReg = *dstReg, *srcReg
		*srcDist, *dstDist = *dstDist, *srcDist
		swapped = !swapped

		if failed*3 == len(*stack) {
			break
		}
		if level > 0 {
			iter++
			if iter >= maxIter {
				break
			}
		}
	}

	return swapped
}

func sortCellsByLevel(startLevel uint16, chf *CompactHeightfield, srcReg []uint16, nbStacks uint32, stacks [][]int32, logLevelsPerStack uint16) {
	w, h := chf.Width, chf.Height
	startLevel >>= logLevelsPerStack

	for j := uint32(0); j < nbStacks; j++ {
		stacks[j] = stacks[j][:0]
	}

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				if chf.Areas[i] == NullArea || srcReg[i] != 0 {
					continue
				}
				lvl := chf.Dist[i] >> logLevelsPerStack
				sID := int32(startLevel) - int32(lvl)
				if sID < 0 {
					sID = 0
				}
				if uint32(sID) >= nbStacks {
					continue
				}
				stacks[sID] = append(stacks[sID], x, z, i)
			}
		}
	}
}

func appendStacks(srcStack []int32, dstStack *[]int32, srcReg []uint16) {
	for j := 0; j < len(srcStack); j += 3 {
		i := srcStack[j+2]
		if i < 0 || srcReg[i] != 0 {
			continue
		}
		*dstStack = append(*dstStack, srcStack[j:j+3]...)
	}
}

// Region is transient region-merge bookkeeping used only inside
// mergeAndFilterRegions; by the time BuildRegions returns, its
// information has been folded into CompactSpan.Reg and the final region
// count.
type Region struct {
	SpanCount        int32
	ID               uint16
	AreaType         uint8
	Remap, Visited   bool
	Overlap          bool
	YMin, YMax       uint16
	Connections      []int32
	Floors           []int32
}

func newRegion(id int) *Region {
	return &Region{ID: uint16(id), YMin: 0xffff}
}

func (reg *Region) removeAdjacentDuplicates() {
	for i := 0; i < len(reg.Connections) && len(reg.Connections) > 1; {
		ni := (i + 1) % len(reg.Connections)
		if reg.Connections[i] == reg.Connections[ni] {
			reg.Connections = append(reg.Connections[:i], reg.Connections[i+1:]...)
		} else {
			i++
		}
	}
}

func (reg *Region) replaceNeighbour(oldID, newID uint16) {
	changed := false
	for i := range reg.Connections {
		if reg.Connections[i] == int32(oldID) {
			reg.Connections[i] = int32(newID)
			changed = true
		}
	}
	for i := range reg.Floors {
		if reg.Floors[i] == int32(oldID) {
			reg.Floors[i] = int32(newID)
		}
	}
	if changed {
		reg.removeAdjacentDuplicates()
	}
}

func (reg *Region) canMergeWithRegion(other *Region) bool {
	if reg.AreaType != other.AreaType {
		return false
	}
	n := 0
	for _, c := range reg.Connections {
		if c == int32(other.ID) {
			n++
		}
	}
	if n > 1 {
		return false
	}
	for _, f := range reg.Floors {
		if f == int32(other.ID) {
			return false
		}
	}
	return true
}

func (reg *Region) addUniqueFloorRegion(n int32) {
	for _, f := range reg.Floors {
		if f == n {
			return
		}
	}
	reg.Floors = append(reg.Floors, n)
}

func mergeRegions(a, b *Region) bool {
	aid, bid := a.ID, b.ID

	acon := append([]int32(nil), a.Connections...)
	bcon := b.Connections

	insa := int32(-1)
	for i, c := range acon {
		if c == int32(bid) {
			insa = int32(i)
			break
		}
	}
	if insa == -1 {
		return false
	}

	insb := int32(-1)
	for i, c := range bcon {
		if c == int32(aid) {
			insb = int32(i)
			break
		}
	}
	if insb == -1 {
		return false
	}

	a.Connections = a.Connections[:0]
	na := int32(len(acon))
	for i := int32(0); i < na-1; i++ {
		a.Connections = append(a.Connections, acon[(insa+1+i)%na])
	}
	nb := int32(len(bcon))
	for i := int32(0); i < nb-1; i++ {
		a.Connections = append(a.Connections, bcon[(insb+1+i)%nb])
	}
	a.removeAdjacentDuplicates()

	for _, f := range b.Floors {
		a.addUniqueFloorRegion(f)
	}
	a.SpanCount += b.SpanCount
	b.SpanCount = 0
	b.Connections = nil
	return true
}

func (reg *Region) isConnectedToBorder() bool {
	for _, c := range reg.Connections {
		if c == 0 {
			return true
		}
	}
	return false
}

func isSolidEdge(chf *CompactHeightfield, srcReg []uint16, x, z, i, dir int32) bool {
	s := &chf.Spans[i]
	var r uint16
	if GetCon(s, dir) != NotConnected {
		ax := x + dirOffsetXDir(dir)
		az := z + dirOffsetZDir(dir)
		ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(s, dir)
		r = srcReg[ai]
	}
	return r != srcReg[i]
}

func walkContour(x, z, i, dir int32, chf *CompactHeightfield, srcReg []uint16, cont *[]int32) {
	startDir, starti := dir, i

	ss := &chf.Spans[i]
	var curReg uint16
	if GetCon(ss, dir) != NotConnected {
		ax := x + dirOffsetXDir(dir)
		az := z + dirOffsetZDir(dir)
		ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(ss, dir)
		curReg = srcReg[ai]
	}
	*cont = append(*cont, int32(curReg))

	for iter := 0; iter < 39999; iter++ {
		s := &chf.Spans[i]

		if isSolidEdge(chf, srcReg, x, z, i, dir) {
			var r uint16
			if GetCon(s, dir) != NotConnected {
				ax := x + dirOffsetXDir(dir)
				az := z + dirOffsetZDir(dir)
				ai := int32(chf.Cells[ax+az*chf.Width].Index) + GetCon(s, dir)
				r = srcReg[ai]
			}
			if r != curReg {
				curReg = r
				*cont = append(*cont, int32(curReg))
			}
			dir = rotateCW(dir)
		} else {
			nx := x + dirOffsetXDir(dir)
			nz := z + dirOffsetZDir(dir)
			ni := int32(-1)
			if GetCon(s, dir) != NotConnected {
				ni = int32(chf.Cells[nx+nz*chf.Width].Index) + GetCon(s, dir)
			}
			if ni == -1 {
				return
			}
			x, z, i = nx, nz, ni
			dir = rotateCCW(dir)
		}

		if starti == i && startDir == dir {
			break
		}
	}

	for j := 0; j < len(*cont); {
		nj := (j + 1) % len(*cont)
		if (*cont)[j] == (*cont)[nj] {
			*cont = append((*cont)[:j], (*cont)[j+1:]...)
		} else {
			j++
		}
	}
}

// mergeAndFilterRegions discards regions smaller than minRegionArea
// (unless they touch a tile border, whose true extent can't be known
// locally), merges remaining undersized regions into their smallest
// compatible neighbor, then compacts region ids down to a dense range.
func mergeAndFilterRegions(ctx *Context, minRegionArea, mergeRegionSize int32, maxRegionID *uint16, chf *CompactHeightfield, srcReg []uint16) error {
	w, h := chf.Width, chf.Height
	nreg := *maxRegionID + 1
	regions := make([]*Region, nreg)
	for i := range regions {
		regions[i] = newRegion(i)
	}

	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			c := chf.Cells[x+z*w]
			for i := int32(c.Index); i < int32(c.Index)+int32(c.Count); i++ {
				r := srcReg[i]
				if r == 0 || r >= nreg {
					continue
				}
				reg := regions[r]
				reg.SpanCount++

				for j := int32(c.Index); j < int32(c.Index)+int32(c.Count); j++ {
					if i == j {
						continue
					}
					floorID := srcReg[j]
					if floorID == 0 || floorID >= nreg {
						continue
					}
					if floorID == r {
						reg.Overlap = true
					}
					reg.addUniqueFloorRegion(int32(floorID))
				}

				if len(reg.Connections) > 0 {
					continue
				}

				reg.AreaType = chf.Areas[i]

				ndir := int32(-1)
				for dir := int32(0); dir < 4; dir++ {
					if isSolidEdge(chf, srcReg, x, z, i, dir) {
						ndir = dir
						break
					}
				}
				if ndir != -1 {
					walkContour(x, z, i, ndir, chf, srcReg, &reg.Connections)
				}
			}
		}
	}

	stack := make([]int32, 0, 32)
	trace := make([]int32, 0, 32)
	for i := uint16(0); i < nreg; i++ {
		reg := regions[i]
		if reg.ID == 0 || reg.ID&borderReg != 0 || reg.SpanCount == 0 || reg.Visited {
			continue
		}

		connectsToBorder := false
		spanCount := int32(0)
		stack = stack[:0]
		trace = trace[:0]

		reg.Visited = true
		stack = append(stack, int32(i))

		for len(stack) > 0 {
			ri := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			creg := regions[ri]

			spanCount += creg.SpanCount
			trace = append(trace, ri)

			for _, c := range creg.Connections {
				if c&int32(borderReg) != 0 {
					connectsToBorder = true
					continue
				}
				neireg := regions[c]
				if neireg.Visited || neireg.ID == 0 || neireg.ID&borderReg != 0 {
					continue
				}
				stack = append(stack, int32(neireg.ID))
				neireg.Visited = true
			}
		}

		if spanCount < minRegionArea && !connectsToBorder {
			for _, ri := range trace {
				regions[ri].SpanCount = 0
				regions[ri].ID = 0
			}
		}
	}

	for {
		mergeCount := 0
		for i := uint16(0); i < nreg; i++ {
			reg := regions[i]
			if reg.ID == 0 || reg.ID&borderReg != 0 || reg.Overlap || reg.SpanCount == 0 {
				continue
			}
			if reg.SpanCount > mergeRegionSize && reg.isConnectedToBorder() {
				continue
			}

			smallest := int32(0x7fffffff)
			mergeID := reg.ID
			for _, c := range reg.Connections {
				if c&int32(borderReg) != 0 {
					continue
				}
				mreg := regions[c]
				if mreg.ID == 0 || mreg.ID&borderReg != 0 || mreg.Overlap {
					continue
				}
				if mreg.SpanCount < smallest && reg.canMergeWithRegion(mreg) && mreg.canMergeWithRegion(reg) {
					smallest = mreg.SpanCount
					mergeID = mreg.ID
				}
			}

			if mergeID != reg.ID {
				oldID := reg.ID
				target := regions[mergeID]
				if mergeRegions(target, reg) {
					for j := uint16(0); j < nreg; j++ {
						if regions[j].ID == 0 || regions[j].ID&borderReg != 0 {
							continue
						}
						if regions[j].ID == oldID {
							regions[j].ID = mergeID
						}
						regions[j].replaceNeighbour(oldID, mergeID)
					}
					mergeCount++
				}
			}
		}
		if mergeCount == 0 {
			break
		}
	}

	for i := uint16(0); i < nreg; i++ {
		regions[i].Remap = regions[i].ID != 0 && regions[i].ID&borderReg == 0
	}

	var gen uint16
	for i := uint16(0); i < nreg; i++ {
		if !regions[i].Remap {
			continue
		}
		oldID := regions[i].ID
		gen++
		newID := gen
		for j := i; j < nreg; j++ {
			if regions[j].ID == oldID {
				regions[j].ID = newID
				regions[j].Remap = false
			}
		}
	}
	*maxRegionID = gen

	for i := int32(0); i < chf.SpanCount; i++ {
		if srcReg[i]&borderReg == 0 {
			srcReg[i] = regions[srcReg[i]].ID
		}
	}

	var overlapping []uint16
	for i := uint16(0); i < nreg; i++ {
		if regions[i].Overlap {
			overlapping = append(overlapping, regions[i].ID)
		}
	}
	if len(overlapping) > 0 {
		ctx.Warningf("region merge left %d overlapping regions: %v", len(overlapping), overlapping)
	}

	return nil
}

type sweepSpan struct {
	rid uint16
	id  uint16
	ns  uint16
	nei uint16
}
