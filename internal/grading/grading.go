package grading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultThreshold = 70
	ThresholdStep    = 5
	MinThreshold     = 0
	MaxThreshold     = 100
)

var ErrInvalidThreshold = errors.New("similarity threshold must be a whole number between 0 and 100")

// GradeRanges maps each letter grade to its minimum percentage.
type GradeRanges struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
	F float64 `json:"F"`
}

// DefaultGradeRanges is the fixed scale sent with every submission.
var DefaultGradeRanges = GradeRanges{A: 90, B: 80, C: 70, D: 60, F: 0}

type band struct {
	Grade string
	Min   float64
}

func (g GradeRanges) bands() []band {
	return []band{{"A", g.A}, {"B", g.B}, {"C", g.C}, {"D", g.D}, {"F", g.F}}
}

// Validate checks that thresholds strictly descend and F is the 0 floor.
func (g GradeRanges) Validate() error {
	bands := g.bands()
	for i := 1; i < len(bands); i++ {
		if bands[i].Min >= bands[i-1].Min {
			return fmt.Errorf("grade %s threshold %.0f must be below %s threshold %.0f",
				bands[i].Grade, bands[i].Min, bands[i-1].Grade, bands[i-1].Min)
		}
	}
	if g.F != 0 {
		return fmt.Errorf("grade F threshold must be 0, got %.0f", g.F)
	}
	return nil
}

// GradeFor returns the letter for a percentage in [0,100].
func (g GradeRanges) GradeFor(percent float64) string {
	for _, b := range g.bands() {
		if percent >= b.Min {
			return b.Grade
		}
	}
	return "F"
}

// Config is sent to the analysis backend alongside the two files.
type Config struct {
	SimilarityThreshold float64     `json:"similarity_threshold"`
	GradeRanges         GradeRanges `json:"grade_ranges"`
}

// NewConfig builds the config for a threshold percentage in [0,100].
func NewConfig(thresholdPercent int) (Config, error) {
	if thresholdPercent < MinThreshold || thresholdPercent > MaxThreshold {
		return Config{}, ErrInvalidThreshold
	}
	return Config{
		SimilarityThreshold: float64(thresholdPercent) / 100,
		GradeRanges:         DefaultGradeRanges,
	}, nil
}

// ParseThreshold reads the form value. Empty means the default.
func ParseThreshold(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultThreshold, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidThreshold
	}
	if v < MinThreshold || v > MaxThreshold {
		return 0, ErrInvalidThreshold
	}
	return v, nil
}
