package models

// SymptomAnalysis is the result of mapping free-text symptom reports onto the
// canonical symptom vocabulary. Tags are deduplicated and ordered
// deterministically; Categories is parallel to Tags, one entry per tag.
type SymptomAnalysis struct {
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// RiskAssessment is the output of the health-score pipeline for a single
// reading. HealthScore is an integer in [0, 100] where 100 is best.
// SymptomTags is nil when no symptom text was supplied.
type RiskAssessment struct {
	HealthScore int              `json:"healthScore"`
	Insight     string           `json:"insight"`
	SymptomTags *SymptomAnalysis `json:"symptomTags"`
}
