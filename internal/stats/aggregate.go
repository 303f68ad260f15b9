// Package stats computes the admin dashboard summary over feedback rows.
package stats

import (
	"math"

	"skinsense-backend/internal/models"
)

// UnknownSkinType buckets rows submitted without a skin type label.
const UnknownSkinType = "Unknown"

// Canonical helpfulness buckets, always present in Summary.HelpfulCounts.
var HelpfulBuckets = []string{"Yes", "No", ""}

type Summary struct {
	Total         int                `json:"total"`
	Counts        map[string]int     `json:"counts"`
	AvgConfidence map[string]float64 `json:"avg_confidence"`
	HelpfulCounts map[string]int     `json:"helpful_counts"`
}

// Aggregate counts rows per skin type and helpfulness value and averages
// confidence per skin type, rounded to two decimals.
func Aggregate(rows []models.Feedback) Summary {
	s := Summary{
		Total:         len(rows),
		Counts:        make(map[string]int),
		AvgConfidence: make(map[string]float64),
		HelpfulCounts: make(map[string]int, len(HelpfulBuckets)),
	}
	for _, b := range HelpfulBuckets {
		s.HelpfulCounts[b] = 0
	}

	sums := make(map[string]float64)
	for _, r := range rows {
		k := r.SkinType
		if k == "" {
			k = UnknownSkinType
		}
		s.Counts[k]++
		sums[k] += r.Confidence
		s.HelpfulCounts[r.Helpful]++
	}

	for k, sum := range sums {
		n := s.Counts[k]
		if n < 1 {
			n = 1
		}
		s.AvgConfidence[k] = round2(sum / float64(n))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
