package models

// Synopsis is a categorical clinical-state classification with supporting
// evidence, distinct from the continuous health score.
type Synopsis struct {
	Headline        string   `json:"headline"`
	ConclusionClass string   `json:"conclusion_class"`
	ConfidenceScore float64  `json:"confidence_score"`
	KeyFindings     []string `json:"key_findings"`
	Recommendation  string   `json:"recommendation"`
}
