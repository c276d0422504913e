package navmesh

import "testing"

func baseConfig() Config {
	return Config{
		Cs:                     0.3,
		Ch:                     0.2,
		WalkableSlopeAngle:     45,
		WalkableHeight:         2,
		WalkableClimb:          1,
		WalkableRadius:         1,
		MaxEdgeLen:             12,
		MaxSimplificationError: 1.3,
		MinRegionArea:          8,
		MergeRegionArea:        20,
		MaxVertsPerPoly:        6,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		c := baseConfig()
		if err := c.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	cases := []struct {
		name    string
		mutate  func(*Config)
		code    int
	}{
		{"zero cell size", func(c *Config) { c.Cs = 0 }, CodeBadCellSize},
		{"negative cell height", func(c *Config) { c.Ch = -1 }, CodeBadCellSize},
		{"slope at 90", func(c *Config) { c.WalkableSlopeAngle = 90 }, CodeBadSlopeAngle},
		{"walkable height zero", func(c *Config) { c.WalkableHeight = 0 }, CodeBadWalkableHeight},
		{"negative climb", func(c *Config) { c.WalkableClimb = -1 }, CodeBadWalkableClimb},
		{"negative radius", func(c *Config) { c.WalkableRadius = -1 }, CodeBadWalkableRadius},
		{"negative edge len", func(c *Config) { c.MaxEdgeLen = -1 }, CodeBadMaxEdgeLen},
		{"zero simplification error", func(c *Config) { c.MaxSimplificationError = 0 }, CodeBadSimplificationError},
		{"negative min region area", func(c *Config) { c.MinRegionArea = -1 }, CodeBadRegionArea},
		{"negative merge region area", func(c *Config) { c.MergeRegionArea = -1 }, CodeBadRegionArea},
		{"too few verts per poly", func(c *Config) { c.MaxVertsPerPoly = 2 }, CodeBadVertsPerPoly},
		{"too many verts per poly", func(c *Config) { c.MaxVertsPerPoly = 13 }, CodeBadVertsPerPoly},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := baseConfig()
			tc.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected an error")
			}
			nerr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if nerr.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, nerr.Code)
			}
		})
	}
}

func TestCalcBounds(t *testing.T) {
	verts := []float32{
		1, 2, 3,
		-1, 5, 6,
		4, 0, -2,
	}
	bmin, bmax := CalcBounds(verts)
	wantMin := [3]float32{-1, 0, -2}
	wantMax := [3]float32{4, 5, 6}
	if bmin != wantMin {
		t.Fatalf("bmin = %v, want %v", bmin, wantMin)
	}
	if bmax != wantMax {
		t.Fatalf("bmax = %v, want %v", bmax, wantMax)
	}
}
