package cmd

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/polytopix/navmesh/navmesh"
)

// BuildProfile is the YAML-serializable form of a navmesh.Config, plus
// the fields that only make sense at the CLI boundary (which
// partitioning algorithm to run, how much to scale the input mesh).
// Keeping this separate from navmesh.Config mirrors the usual split
// between a sample app's BuildSettings and the Config the algorithm
// itself consumes.
type BuildProfile struct {
	CellSize   float32 `yaml:"cell_size"`
	CellHeight float32 `yaml:"cell_height"`

	AgentHeight   float32 `yaml:"agent_height"`
	AgentRadius   float32 `yaml:"agent_radius"`
	AgentMaxClimb float32 `yaml:"agent_max_climb"`
	AgentMaxSlope float32 `yaml:"agent_max_slope"`

	RegionMinArea   int32 `yaml:"region_min_area"`
	RegionMergeArea int32 `yaml:"region_merge_area"`

	EdgeMaxLen   float32 `yaml:"edge_max_len"`
	EdgeMaxError float32 `yaml:"edge_max_error"`

	VertsPerPoly int32 `yaml:"verts_per_poly"`

	DetailSampleDist     float32 `yaml:"detail_sample_dist"`
	DetailSampleMaxError float32 `yaml:"detail_sample_max_error"`

	// Partition is "watershed" or "monotone".
	Partition string `yaml:"partition"`

	// Scale is applied to every input vertex before rasterization.
	Scale float32 `yaml:"scale"`
}

// DefaultProfile returns the build profile used to seed a freshly
// written YAML file, tuned for a human-scale agent on voxels the size
// of Recast's own sample defaults.
func DefaultProfile() BuildProfile {
	return BuildProfile{
		CellSize:             0.3,
		CellHeight:           0.2,
		AgentHeight:          2.0,
		AgentRadius:          0.6,
		AgentMaxClimb:        0.9,
		AgentMaxSlope:        45,
		RegionMinArea:        8,
		RegionMergeArea:      20,
		EdgeMaxLen:           12,
		EdgeMaxError:         1.3,
		VertsPerPoly:         6,
		DetailSampleDist:     6,
		DetailSampleMaxError: 1,
		Partition:            "watershed",
		Scale:                1,
	}
}

func loadProfile(path string) (BuildProfile, error) {
	p := DefaultProfile()
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(buf, &p); err != nil {
		return p, err
	}
	return p, nil
}

func saveProfile(path string, p BuildProfile) error {
	buf, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, buf, 0644)
}

// toConfig converts the world-unit profile into the voxel-unit
// navmesh.Config the pipeline actually consumes, following the same
// cellSize-based conversion Recast's own sample build does.
func (p BuildProfile) toConfig() *navmesh.Config {
	walkableHeight := int32(p.AgentHeight/p.CellHeight + 0.5)
	walkableClimb := int32(p.AgentMaxClimb / p.CellHeight)
	walkableRadius := int32(p.AgentRadius/p.CellSize + 0.5)
	edgeMaxLen := int32(p.EdgeMaxLen / p.CellSize)
	regionMinArea := p.RegionMinArea * p.RegionMinArea
	regionMergeArea := p.RegionMergeArea * p.RegionMergeArea

	return &navmesh.Config{
		Cs:                     p.CellSize,
		Ch:                     p.CellHeight,
		WalkableSlopeAngle:     p.AgentMaxSlope,
		WalkableHeight:         walkableHeight,
		WalkableClimb:          walkableClimb,
		WalkableRadius:         walkableRadius,
		MaxEdgeLen:             edgeMaxLen,
		MaxSimplificationError: p.EdgeMaxError,
		MinRegionArea:          regionMinArea,
		MergeRegionArea:        regionMergeArea,
		MaxVertsPerPoly:        p.VertsPerPoly,
		DetailSampleDist:       p.DetailSampleDist * p.CellSize,
		DetailSampleMaxError:   p.DetailSampleMaxError * p.CellHeight,
	}
}

func (p BuildProfile) partitionType() navmesh.PartitionType {
	if p.Partition == "monotone" {
		return navmesh.PartitionMonotone
	}
	return navmesh.PartitionWatershed
}
