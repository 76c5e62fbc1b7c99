package domain

import "strings"

// RecommendationCode is an opaque advisory identifier resolved to text by a localization lookup.
type RecommendationCode string

const (
	RecOptimizeCOGSUrgent   RecommendationCode = "REC_OPTIMIZE_COGS_URGENT"
	RecWorkingCapital       RecommendationCode = "REC_WORKING_CAPITAL"
	RecIncreaseMarketing    RecommendationCode = "REC_INCREASE_MARKETING"
	RecIncreaseMarketingROI RecommendationCode = "REC_INCREASE_MARKETING_ROI"
	RecCashFlowBuffer       RecommendationCode = "REC_CASH_FLOW_BUFFER"
	RecRenegotiateContracts RecommendationCode = "REC_RENEGOTIATE_CONTRACTS"
)

const recommendationCodePrefix = "REC_"

// IsCode reports whether the value is a catalog code rather than legacy free text.
func (c RecommendationCode) IsCode() bool {
	return strings.HasPrefix(string(c), recommendationCodePrefix)
}
