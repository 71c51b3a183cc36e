// Package scoring rates a ride from its feature vector.
//
// Two raters are provided. RuleScorer is deterministic and needs no model
// file. Handle wraps a trained gradient-boosted tree ensemble that is loaded
// exactly once by its owner and is read-only afterwards, so one Handle can
// be shared by concurrent callers without further locking.
//
// Ratings are on a 0 to 10 scale for both fun and safety.
package scoring
