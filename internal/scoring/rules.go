// Package scoring implements the health-score pipeline: a rule engine that
// folds independent risk evaluators over a reading, plus the short-horizon
// trend forecaster feeding its final rule.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/anporter/pulseboard/pkg/models"
)

// Population fallback used when a patient has no stored baseline yet.
const (
	DefaultAvgSystolic    = 120.0
	DefaultStddevSystolic = 8.0
)

// Rule weights. Each fires independently; the sum is capped at 100.
const (
	weightGlucoseHigh = 30
	weightGlucoseLow  = 40
	weightBPMajor     = 50
	weightBPMinor     = 25
	weightLowMood     = 15
	weightSymptoms    = 20
	weightTrend       = 25
)

// Rule thresholds. Deviation tiers are strict inequalities and mutually
// exclusive: only the highest matching tier fires.
const (
	glucoseHighAbove = 180.0
	glucoseLowBelow  = 70.0
	zScoreMajor      = 2.5
	zScoreMinor      = 1.5
	trendRiskAbove   = 50
	lowMoodAtOrBelow = 2
)

const stableInsight = "Patient appears stable."

// Input carries everything the rule set needs for one evaluation. Nil
// pointers mean the field was not provided, distinct from zero.
type Input struct {
	Systolic     *int
	Mood         *int // 1-5 scale
	BloodGlucose *float64

	// Symptoms is the tagger output for the reading's symptom text, or nil
	// when no text was supplied.
	Symptoms *models.SymptomAnalysis

	// Personal baseline for the deviation rule. StddevSystolic <= 0
	// short-circuits the rule rather than dividing by zero.
	AvgSystolic    float64
	StddevSystolic float64

	// TrendRisk is the forecaster's risk contribution for this patient.
	TrendRisk int
}

// contribution is one fired rule's weight and its insight sentence.
type contribution struct {
	weight  int
	insight string
}

// rule evaluates one independent risk factor. The bool reports whether the
// rule fired.
type rule func(Input) (contribution, bool)

// rules run in this fixed order; insights are collected in the same order.
var rules = []rule{
	glucoseRule,
	bloodPressureRule,
	moodRule,
	symptomRule,
	trendRule,
}

// Evaluate folds the rule set over an input and produces the bounded
// assessment: health_score = 100 - min(sum of fired weights, 100).
func Evaluate(in Input) models.RiskAssessment {
	risk := 0
	var insights []string

	for _, r := range rules {
		if c, fired := r(in); fired {
			risk += c.weight
			insights = append(insights, c.insight)
		}
	}

	if risk > 100 {
		risk = 100
	}

	insight := stableInsight
	if len(insights) > 0 {
		insight = strings.Join(insights, " ")
	}

	return models.RiskAssessment{
		HealthScore: 100 - risk,
		Insight:     insight,
		SymptomTags: in.Symptoms,
	}
}

func glucoseRule(in Input) (contribution, bool) {
	if in.BloodGlucose == nil {
		return contribution{}, false
	}
	g := *in.BloodGlucose
	switch {
	case g > glucoseHighAbove:
		return contribution{weightGlucoseHigh,
			fmt.Sprintf("Blood glucose is high (%.0f mg/dL).", g)}, true
	case g < glucoseLowBelow:
		return contribution{weightGlucoseLow,
			fmt.Sprintf("WARNING: blood glucose is low (%.0f mg/dL).", g)}, true
	}
	return contribution{}, false
}

func bloodPressureRule(in Input) (contribution, bool) {
	if in.Systolic == nil || in.StddevSystolic <= 0 {
		return contribution{}, false
	}
	z := math.Abs(float64(*in.Systolic)-in.AvgSystolic) / in.StddevSystolic
	switch {
	case z > zScoreMajor:
		return contribution{weightBPMajor,
			"Blood pressure is significantly higher than personal average."}, true
	case z > zScoreMinor:
		return contribution{weightBPMinor,
			"Blood pressure is elevated for you."}, true
	}
	return contribution{}, false
}

func moodRule(in Input) (contribution, bool) {
	if in.Mood == nil || *in.Mood > lowMoodAtOrBelow {
		return contribution{}, false
	}
	return contribution{weightLowMood, "Low mood reported."}, true
}

func symptomRule(in Input) (contribution, bool) {
	if in.Symptoms == nil || len(in.Symptoms.Tags) == 0 {
		return contribution{}, false
	}
	return contribution{weightSymptoms,
		fmt.Sprintf("Reported symptoms noted: %s.", strings.Join(in.Symptoms.Tags, ", "))}, true
}

func trendRule(in Input) (contribution, bool) {
	if in.TrendRisk <= trendRiskAbove {
		return contribution{}, false
	}
	return contribution{weightTrend,
		"Recent trends indicate potential future risk."}, true
}
