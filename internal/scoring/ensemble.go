package scoring

import (
	"fmt"
	"math"

	"github.com/banshee-data/coaster.report/internal/features"
)

// Targets every model file must provide.
const (
	TargetFun    = "fun"
	TargetSafety = "safety"
)

// Node is one node of a regression tree. Internal nodes route a sample left
// when x[Feature] < Threshold (or is NaN) and right otherwise; leaves carry
// Value.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

// Tree is a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Ensemble is an additive boosted tree model for one target.
type Ensemble struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// ModelFile is the on-disk model format.
type ModelFile struct {
	Version      string              `json:"version"`
	FeatureNames []string            `json:"feature_names"`
	Targets      map[string]Ensemble `json:"targets"`
}

// validate checks the tree structure so evaluation can index without bounds
// checks failing and always terminates: children must come after their
// parent.
func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
				return fmt.Errorf("leaf %d has non-finite value", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= features.NumFeatures {
			return fmt.Errorf("node %d splits on feature %d, want [0, %d)", i, n.Feature, features.NumFeatures)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// eval walks the tree for one sample.
func (t Tree) eval(x *features.Vector) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if v := x[n.Feature]; math.IsNaN(v) || v < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (e Ensemble) validate() error {
	if !(e.LearningRate > 0) {
		return fmt.Errorf("learning rate %f must be positive", e.LearningRate)
	}
	for i, t := range e.Trees {
		if err := t.validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict returns the raw (unclamped) ensemble output.
func (e Ensemble) Predict(x *features.Vector) float64 {
	sum := e.BaseScore
	for _, t := range e.Trees {
		sum += e.LearningRate * t.eval(x)
	}
	return sum
}
