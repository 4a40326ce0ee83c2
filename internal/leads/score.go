// Package leads holds the lead-scoring and hot-lead classification rules.
// Everything here is pure: same inputs, same outputs, no I/O.
package leads

import (
	"fmt"
	"strings"
)

// Sub-score tables. Each bucket is independently capped; the theoretical
// maximum (30+25+15+10+10+10) is exactly 100.
var urgencyScores = map[string]int{
	"immediate":     30,
	"1-3 months":    25,
	"3-6 months":    15,
	"6+ months":     5,
	"just browsing": 0,
}

var roleScores = map[string]int{
	"buyer":     15,
	"investor":  15,
	"developer": 12,
	"seller":    10,
	"broker":    8,
	"tenant":    5,
	"landlord":  5,
}

var sentimentScores = map[string]int{
	"very_positive": 10,
	"positive":      8,
	"neutral":       5,
	"negative":      2,
	"frustrated":    0,
}

var premiumAssets = map[string]bool{
	"multifamily": true,
	"industrial":  true,
	"mixed-use":   true,
	"office":      true,
}

// Deal-size tiers, matched as case-insensitive substrings in priority order.
var (
	topTierDeals = []string{"10m", "million", "20m", "50m"}
	midTierDeals = []string{"5m", "1m", "2m"}
	lowTierDeals = []string{"500k", "750k"}
)

// Score computes a lead score (0-100) from canonical caller parameters.
func Score(params map[string]interface{}) int {
	score := 0

	// Urgency (0-30)
	score += urgencyScores[stringField(params, "urgency")]

	// Deal size (0-25): free text, so substring indicators
	if deal := strings.ToLower(stringField(params, "deal_size")); deal != "" {
		switch {
		case containsAny(deal, topTierDeals):
			score += 25
		case containsAny(deal, midTierDeals):
			score += 20
		case containsAny(deal, lowTierDeals):
			score += 15
		default:
			score += 10
		}
	}

	// Caller role (0-15)
	score += roleScores[stringField(params, "caller_role")]

	// Asset type (0-10)
	if asset := stringField(params, "asset_type"); premiumAssets[asset] {
		score += 10
	} else if asset != "" {
		score += 5
	}

	// Sentiment (0-10), anything unrecognized counts as neutral
	if s, ok := sentimentScores[stringField(params, "sentiment")]; ok {
		score += s
	} else {
		score += 5
	}

	// Email provided (+10)
	if stringField(params, "caller_email") != "" {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Classify decides whether a scored call is a hot lead and why. The reason is
// the comma-joined list of triggers, empty when none fired.
func Classify(score int, urgency, dealSize string) (bool, string) {
	var reasons []string

	if score >= 75 {
		reasons = append(reasons, fmt.Sprintf("High lead score (%d/100)", score))
	}
	if urgency == "immediate" {
		reasons = append(reasons, "Immediate timeline")
	}
	if dealSize != "" && containsAny(strings.ToLower(dealSize), topTierDeals) {
		reasons = append(reasons, fmt.Sprintf("High deal value (%s)", dealSize))
	}

	isHot := score >= 75 || urgency == "immediate" || len(reasons) >= 2
	return isHot, strings.Join(reasons, ", ")
}

func containsAny(s string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

// stringField reads a parameter as text; non-string values are rendered the
// way they would print, since deal sizes sometimes arrive as bare numbers.
func stringField(params map[string]interface{}, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
