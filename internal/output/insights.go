package output

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

const (
	insightRiskThreshold     = 10.0
	insightLowSuccessPercent = 80.0
)

// KeyInsights summarizes a yearly track: the corpus at retirement, the first
// retirement age where depletion risk passes 10%, and whether the plan
// holds up to life expectancy.
func KeyInsights(p domain.PlanParameters, track *domain.CorpusTrack) []string {
	if track == nil || len(track.Snapshots) == 0 {
		return nil
	}
	var insights []string

	if snap, ok := track.SnapshotAt(p.RetirementAge); ok {
		insights = append(insights, fmt.Sprintf("At retirement (age %d), your projected corpus is %s with a %s point success rate.",
			p.RetirementAge, FormatMoney(snap.StartCorpus), FormatPercentage(snap.PointSuccessRate)))
	}

	riskAge := 0
	for _, s := range track.Snapshots {
		if s.Age >= p.RetirementAge && s.DepletionRisk > insightRiskThreshold {
			riskAge = s.Age
			break
		}
	}
	if riskAge > 0 {
		insights = append(insights, fmt.Sprintf("Depletion risk first exceeds 10%% at age %d.", riskAge))
	} else {
		insights = append(insights, "Your plan maintains a high success rate throughout your expected lifetime.")
	}

	last := track.Snapshots[len(track.Snapshots)-1]
	if last.PointSuccessRate < insightLowSuccessPercent {
		insights = append(insights, "RECOMMENDATION: Consider adjusting your plan to improve your long-term success rate.")
	} else {
		insights = append(insights, "Your plan appears sustainable through your expected lifetime.")
	}
	return insights
}
