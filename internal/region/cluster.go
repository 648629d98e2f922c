package region

import (
	"fmt"

	"crop-cluster/internal/cluster"
	"crop-cluster/internal/raster"
)

// Cluster partitions the region descriptors with the shared k-means
// primitive and paints each region's cluster ID onto its pixel support
// in a fresh (h, w) label raster. Pixels covered by no retained region
// keep the unlabeled sentinel. Returns the label raster and one label
// per region in discovery order.
//
// When fewer regions than clusters were retained, the cluster count is
// clamped to the region count so the run still produces a label per
// region.
func Cluster(regions []Region, descriptors [][]float64, h, w int, opts cluster.Options) (*raster.IntGrid, []int, error) {
	if len(regions) != len(descriptors) {
		return nil, nil, fmt.Errorf("region count %d does not match descriptor count %d", len(regions), len(descriptors))
	}

	out, err := raster.NewIntGrid(h, w, raster.Unlabeled)
	if err != nil {
		return nil, nil, err
	}
	if len(regions) == 0 {
		return out, nil, nil
	}

	if opts.K > len(regions) {
		opts.K = len(regions)
	}
	res, err := cluster.Run(descriptors, opts)
	if err != nil {
		return nil, nil, err
	}

	for i, reg := range regions {
		label := int32(res.Labels[i])
		for _, p := range reg.Pixels {
			out.Set(p.Y, p.X, label)
		}
	}
	return out, res.Labels, nil
}
