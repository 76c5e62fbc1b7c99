package events

import (
	"encoding/json"
	"time"
)

// AnalysisCompleted announces a persisted analysis. Amounts are decimal strings.
type AnalysisCompleted struct {
	RecordID        string    `json:"record_id"`
	Method          string    `json:"method"` // manual_entry or upload
	Filename        string    `json:"filename,omitempty"`
	Revenue         string    `json:"revenue"`
	NetProfit       string    `json:"net_profit"`
	TaxStatus       string    `json:"tax_status,omitempty"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
}

func (m AnalysisCompleted) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AnalysisCompletedFromJSON(data []byte) (*AnalysisCompleted, error) {
	var msg AnalysisCompleted
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
