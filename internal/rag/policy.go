package rag

// Policy bounds the adaptive retrieval loop for one intent.
type Policy struct {
	MinResultsForJudgment int
	ExpansionSteps        []int
	MaxAttempts           int
	MaxTotalRangeDays     int
}

var policies = map[Intent]Policy{
	IntentToday:   {MinResultsForJudgment: 1, ExpansionSteps: []int{1, 7, 14, 30}, MaxAttempts: 3, MaxTotalRangeDays: 30},
	IntentRecent:  {MinResultsForJudgment: 2, ExpansionSteps: []int{7, 14, 30, 60}, MaxAttempts: 3, MaxTotalRangeDays: 60},
	IntentTrend:   {MinResultsForJudgment: 3, ExpansionSteps: []int{15, 30, 60, 90}, MaxAttempts: 3, MaxTotalRangeDays: 90},
	IntentGeneral: {MinResultsForJudgment: 1, ExpansionSteps: []int{7, 30, 90, 180, 365}, MaxAttempts: 4, MaxTotalRangeDays: 365},
}

// PolicyFor returns a copy of the intent's policy. Unknown intents get the general policy.
func PolicyFor(intent Intent) Policy {
	p, ok := policies[intent]
	if !ok {
		p = policies[IntentGeneral]
	}
	p.ExpansionSteps = append([]int(nil), p.ExpansionSteps...)
	return p
}
