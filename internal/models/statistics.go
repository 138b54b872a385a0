package models

// Statistics summarizes one detection run. It is recomputed per detection
// set and carries no state between requests.
type Statistics struct {
	TotalCount    int            `json:"total_count"`
	ByStage       map[string]int `json:"by_stage"`
	AvgConfidence float64        `json:"avg_confidence"`
}
