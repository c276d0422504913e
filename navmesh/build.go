package navmesh

// Result bundles the two meshes a successful Build produces: the convex
// PolyMesh used for pathfinding connectivity, and the PolyMeshDetail used
// to recover accurate floor height along that connectivity.
type Result struct {
	Mesh   *PolyMesh
	Detail *PolyMeshDetail
}

// Build runs the full rasterize-to-polymesh pipeline described by cfg
// over an indexed triangle mesh (verts packed xyz, tris packed index
// triples), painting custom area ids from vols before the distance field
// is computed so marked volumes affect region partitioning. partition
// selects watershed or monotone region partitioning. Equivalent to
// calling each Build* stage in sequence for a caller who doesn't need to
// intervene between stages.
func Build(ctx *Context, cfg *Config, verts []float32, tris []int32, vols []ConvexVolume, partition PartitionType) (*Result, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	ctx.StartTimer(TimerTotal)
	defer ctx.StopTimer(TimerTotal)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(verts) == 0 || len(tris) == 0 {
		return nil, newError(ErrInvalidGeometry, CodeEmptyGeometry, "no input geometry")
	}

	bmin, bmax := cfg.BMin, cfg.BMax
	if bmin == ([3]float32{}) && bmax == ([3]float32{}) {
		bmin, bmax = CalcBounds(verts)
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 || h == 0 {
		w, h = CalcGridSize(bmin, bmax, cfg.Cs)
	}

	areas := make([]uint8, len(tris)/3)
	MarkWalkableTriangles(cfg.WalkableSlopeAngle, verts, tris, areas)

	hf := NewHeightfield(w, h, bmin, bmax, cfg.Cs, cfg.Ch)
	if err := RasterizeTriangles(ctx, verts, tris, areas, cfg.WalkableClimb, hf); err != nil {
		return nil, err
	}

	FilterLowHangingWalkableObstacles(ctx, cfg.WalkableClimb, hf)
	FilterLedgeSpans(ctx, cfg.WalkableHeight, cfg.WalkableClimb, hf)
	FilterWalkableLowHeightSpans(ctx, cfg.WalkableHeight, hf)

	chf, err := BuildCompactHeightfield(ctx, cfg.WalkableHeight, cfg.WalkableClimb, hf)
	if err != nil {
		return nil, err
	}
	chf.BorderSize = cfg.BorderSize

	if cfg.WalkableRadius > 0 {
		if err := ErodeWalkableArea(ctx, cfg.WalkableRadius, chf); err != nil {
			return nil, err
		}
	}

	for _, vol := range vols {
		MarkConvexPolyArea(ctx, vol, chf)
	}

	if err := BuildDistanceField(ctx, chf); err != nil {
		return nil, err
	}

	if err := BuildRegions(ctx, chf, partition, cfg.BorderSize, cfg.MinRegionArea, cfg.MergeRegionArea); err != nil {
		return nil, err
	}

	cset, err := BuildContours(ctx, chf, cfg.MaxSimplificationError, cfg.MaxEdgeLen, ContourTessWallEdges)
	if err != nil {
		return nil, err
	}
	if cset.NConts == 0 {
		return nil, newError(ErrAlgorithmFailed, CodeTriangulationFailed, "no contours traced from walkable area")
	}

	mesh, err := BuildPolyMesh(ctx, cset, cfg.MaxVertsPerPoly)
	if err != nil {
		return nil, err
	}

	var detail *PolyMeshDetail
	if cfg.DetailSampleDist > 0 {
		detail, err = BuildPolyMeshDetail(ctx, mesh, chf, cfg.DetailSampleDist, cfg.DetailSampleMaxError)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Mesh: mesh, Detail: detail}, nil
}
