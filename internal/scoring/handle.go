package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/banshee-data/coaster.report/internal/features"
	"github.com/banshee-data/coaster.report/internal/monitoring"
)

var logf = monitoring.Component("scoring")

// Handle errors.
var (
	ErrNotLoaded     = errors.New("scorer model not loaded")
	ErrAlreadyLoaded = errors.New("scorer model already loaded")
	ErrFeatureCount  = errors.New("model feature count does not match extractor")
)

// maxModelSize bounds model files read from disk.
const maxModelSize = 32 * 1024 * 1024

type loadedModel struct {
	version string
	fun     Ensemble
	safety  Ensemble
}

// Handle owns a trained model. Create one with NewHandle, call Load or
// LoadFrom exactly once, then share it freely: Score never mutates it.
type Handle struct {
	model atomic.Pointer[loadedModel]
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Load reads a JSON model file.
func (h *Handle) Load(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("model file must have .json extension, got %q", ext)
	}
	f, err := os.Open(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	return h.LoadFrom(f)
}

// LoadFrom decodes and validates a model and installs it. A second
// successful load is rejected with ErrAlreadyLoaded.
func (h *Handle) LoadFrom(r io.Reader) error {
	if h.Loaded() {
		return ErrAlreadyLoaded
	}
	var mf ModelFile
	dec := json.NewDecoder(io.LimitReader(r, maxModelSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mf); err != nil {
		return fmt.Errorf("failed to parse model: %w", err)
	}
	m, err := compile(mf)
	if err != nil {
		return err
	}
	if !h.model.CompareAndSwap(nil, m) {
		return ErrAlreadyLoaded
	}
	logf("loaded model %s (%d fun trees, %d safety trees)", m.version, len(m.fun.Trees), len(m.safety.Trees))
	return nil
}

func compile(mf ModelFile) (*loadedModel, error) {
	if len(mf.FeatureNames) != features.NumFeatures {
		return nil, fmt.Errorf("model expects %d features, extractor produces %d: %w",
			len(mf.FeatureNames), features.NumFeatures, ErrFeatureCount)
	}
	for i, name := range mf.FeatureNames {
		if name != features.Names[i] {
			return nil, fmt.Errorf("feature %d is %q, extractor produces %q: %w", i, name, features.Names[i], ErrFeatureCount)
		}
	}
	m := &loadedModel{version: mf.Version}
	if m.version == "" {
		m.version = "gbt-unversioned"
	}
	for _, target := range []string{TargetFun, TargetSafety} {
		e, ok := mf.Targets[target]
		if !ok {
			return nil, fmt.Errorf("model has no %q target", target)
		}
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("invalid %q ensemble: %w", target, err)
		}
		if target == TargetFun {
			m.fun = e
		} else {
			m.safety = e
		}
	}
	return m, nil
}

// Loaded reports whether a model has been installed.
func (h *Handle) Loaded() bool {
	return h.model.Load() != nil
}

// Version returns the loaded model version, or "" before Load.
func (h *Handle) Version() string {
	if m := h.model.Load(); m != nil {
		return m.version
	}
	return ""
}

// Score implements Scorer.
func (h *Handle) Score(v features.Vector) (Rating, error) {
	m := h.model.Load()
	if m == nil {
		return Rating{}, ErrNotLoaded
	}
	return Rating{
		Fun:    clampRating(m.fun.Predict(&v)),
		Safety: clampRating(m.safety.Predict(&v)),
		Model:  m.version,
	}, nil
}
