package matching

import (
	"sort"
	"strings"

	"syndic-reconciliation-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Scoring weights. Amount proximity dominates; label overlap breaks ties.
const (
	amountExactScore = 40
	amountCloseScore = 25
	amountNearScore  = 15
	labelTokenScore  = 10
	labelMaxScore    = 30
	minTokenLen      = 2 // tokens must be longer than this
	MaxScore         = 100
)

var (
	exactTolerance = decimal.NewFromFloat(0.01)
	closeThreshold = decimal.NewFromFloat(0.05)
	nearThreshold  = decimal.NewFromFloat(0.10)
)

// Score rates how plausibly a transaction settles a target, 0-100.
// Both amounts must be non-negative magnitudes.
func Score(txAmount, targetAmount decimal.Decimal, txLabel, targetLabel string) int {
	score := amountScore(txAmount, targetAmount) + labelScore(txLabel, targetLabel)
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func amountScore(txAmount, targetAmount decimal.Decimal) int {
	diff := txAmount.Sub(targetAmount).Abs()
	if diff.LessThan(exactTolerance) {
		return amountExactScore
	}
	max := txAmount
	if targetAmount.GreaterThan(max) {
		max = targetAmount
	}
	if max.IsZero() {
		return 0
	}
	pct := diff.Div(max)
	switch {
	case pct.LessThan(closeThreshold):
		return amountCloseScore
	case pct.LessThan(nearThreshold):
		return amountNearScore
	}
	return 0
}

func labelScore(txLabel, targetLabel string) int {
	tx := strings.ToLower(txLabel)
	matched := 0
	for _, token := range strings.Fields(strings.ToLower(targetLabel)) {
		if len(token) <= minTokenLen {
			continue
		}
		if strings.Contains(tx, token) {
			matched++
		}
	}
	score := matched * labelTokenScore
	if score > labelMaxScore {
		score = labelMaxScore
	}
	return score
}

// ScoredCandidate pairs a target snapshot with its confidence score.
type ScoredCandidate struct {
	Target models.TargetSnapshot `json:"target"`
	Score  int                   `json:"score"`
}

// Rank scores every candidate against the transaction and orders them best
// first. Scoring uses the transaction's magnitude against each target's
// outstanding amount. Ties order by label for a stable listing.
func Rank(tx *models.BankTransaction, candidates []models.TargetSnapshot) []ScoredCandidate {
	magnitude := tx.Amount.Abs()
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredCandidate{
			Target: c,
			Score:  Score(magnitude, c.Outstanding, tx.Label, c.Label),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Target.Label < scored[j].Target.Label
	})
	return scored
}
