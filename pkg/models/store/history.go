package store

import "time"

// HistoryRecord is the persisted shape of an analysis. Amounts are decimal strings.
type HistoryRecord struct {
	ID              string     `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	Filename        string     `json:"filename"`
	Revenue         *string    `json:"revenue,omitempty"`
	Profit          *string    `json:"profit,omitempty"`
	Recommendations []string   `json:"recommendations,omitempty"`
	TaxCompliance   *TaxLedger `json:"tax_compliance,omitempty"`
}

type TaxLedger struct {
	Status      string            `json:"status"`
	OutputTotal string            `json:"output_total"`
	OutputCGST  string            `json:"output_cgst"`
	OutputSGST  string            `json:"output_sgst"`
	ITCTotal    string            `json:"itc_total"`
	ITCCGST     string            `json:"itc_cgst"`
	ITCSGST     string            `json:"itc_sgst"`
	NetPayable  string            `json:"net_payable"`
	Deadlines   map[string]string `json:"deadlines,omitempty"` // filing type -> YYYY-MM-DD
	Insight     string            `json:"insight,omitempty"`
}
