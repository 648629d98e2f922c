// Package eval scores unsupervised cluster assignments against
// ground-truth crop-type rasters. It is used for evaluation only; no
// result ever feeds back into clustering.
package eval

import (
	"fmt"
	"sort"

	"crop-cluster/internal/raster"
)

// Report holds the outcome of scoring one label raster.
type Report struct {
	Classes   []int32         // Ground-truth class codes, ascending
	Remap     map[int32]int32 // Cluster ID -> majority ground-truth class
	Confusion [][]int         // [true class][remapped class] pixel counts
	Correct   int
	Total     int
	Accuracy  float64 // Percentage in [0, 100]
}

// Evaluate remaps every cluster to its majority ground-truth class and
// tabulates the confusion matrix and overall accuracy. Cluster identity
// is arbitrary, which is why the remapping happens here and nowhere
// else. Pixels with a non-positive truth code carry no ground truth and
// are skipped, as are pixels the region path left unlabeled.
func Evaluate(pred, truth *raster.IntGrid) (*Report, error) {
	if err := raster.CheckSameShape(pred, truth); err != nil {
		return nil, err
	}

	// Per-cluster ground-truth class tallies.
	votes := make(map[int32]map[int32]int)
	classSet := make(map[int32]bool)
	for i, p := range pred.Data {
		t := truth.Data[i]
		if t <= 0 || p == raster.Unlabeled {
			continue
		}
		classSet[t] = true
		if votes[p] == nil {
			votes[p] = make(map[int32]int)
		}
		votes[p][t]++
	}
	if len(classSet) == 0 {
		return nil, fmt.Errorf("ground truth contains no labeled pixels")
	}

	classes := make([]int32, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	classIdx := make(map[int32]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	// Majority vote, smallest class code on ties.
	remap := make(map[int32]int32, len(votes))
	for cl, tally := range votes {
		best, bestCount := int32(0), -1
		for _, c := range classes {
			if n := tally[c]; n > bestCount {
				best, bestCount = c, n
			}
		}
		remap[cl] = best
	}

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}
	correct, total := 0, 0
	for i, p := range pred.Data {
		t := truth.Data[i]
		if t <= 0 || p == raster.Unlabeled {
			continue
		}
		mapped := remap[p]
		confusion[classIdx[t]][classIdx[mapped]]++
		total++
		if mapped == t {
			correct++
		}
	}

	return &Report{
		Classes:   classes,
		Remap:     remap,
		Confusion: confusion,
		Correct:   correct,
		Total:     total,
		Accuracy:  float64(correct) / float64(total) * 100,
	}, nil
}

// String renders the confusion matrix and accuracy for terminal output.
func (r *Report) String() string {
	s := "class "
	for _, c := range r.Classes {
		s += fmt.Sprintf("%8d", c)
	}
	s += "\n"
	for i, c := range r.Classes {
		s += fmt.Sprintf("%5d ", c)
		for j := range r.Classes {
			s += fmt.Sprintf("%8d", r.Confusion[i][j])
		}
		s += "\n"
	}
	s += fmt.Sprintf("accuracy: %.2f%% (%d/%d pixels)\n", r.Accuracy, r.Correct, r.Total)
	return s
}
