package rag

import (
	"errors"

	"journal-ai/internal/storage"
)

var (
	// ErrEmptyQuery is returned when the question is blank.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrUnknownOwner is returned when the owner id is not in the datastore.
	ErrUnknownOwner = errors.New("unknown owner")
	// ErrUnparsableExtraction is returned when extraction output is not a JSON object.
	ErrUnparsableExtraction = errors.New("extraction output is not a JSON object")
)

// Intent is the classified task type of a query.
type Intent string

const (
	IntentToday   Intent = "today"
	IntentRecent  Intent = "recent"
	IntentTrend   Intent = "trend"
	IntentGeneral Intent = "general"
)

// Valid reports whether i is one of the four labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentToday, IntentRecent, IntentTrend, IntentGeneral:
		return true
	}
	return false
}

// Semantic reports whether the intent is answered through hybrid retrieval.
func (i Intent) Semantic() bool {
	return i == IntentRecent || i == IntentTrend || i == IntentGeneral
}

// Confidence is the three-valued certainty used by the judge and the answer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Verdict is the relevance judge's decision on a candidate set.
type Verdict struct {
	CanAnswer   bool       `json:"can_answer"`
	Confidence  Confidence `json:"confidence"`
	Reason      string     `json:"reason"`
	MissingInfo string     `json:"missing_info,omitempty"`
}

// Decision is what the loop did after an attempt.
type Decision string

const (
	DecisionAccept    Decision = "accept"
	DecisionExpand    Decision = "expand"
	DecisionExhausted Decision = "exhausted"
	DecisionFallback  Decision = "fallback"
)

// Attempt is one entry of the search attempt log.
type Attempt struct {
	Index        int            `json:"index"`
	Window       storage.Window `json:"window"`
	ResultCount  int            `json:"result_count"`
	JudgeInvoked bool           `json:"judge_invoked"`
	Verdict      *Verdict       `json:"verdict,omitempty"`
	Decision     Decision       `json:"decision"`
}

// LoopResult is the outcome of the adaptive retrieval loop.
type LoopResult struct {
	Records            []storage.Record
	FinalWindow        storage.Window
	Attempts           []Attempt
	SearchExpanded     bool
	MaxAttemptsReached bool
	FallbackUsed       bool
	JudgeConfidence    Confidence
	JudgeReason        string
}

// Retrieval describes how the grounding records were obtained.
type Retrieval struct {
	Intent             Intent         `json:"intent"`
	OriginalWindow     storage.Window `json:"original_window"`
	FinalWindow        storage.Window `json:"final_window"`
	SearchExpanded     bool           `json:"search_expanded"`
	MaxAttemptsReached bool           `json:"max_attempts_reached"`
	FallbackUsed       bool           `json:"fallback_used"`
	JudgeConfidence    Confidence     `json:"judge_confidence,omitempty"`
}

// FinalAnswer is the structured response returned to callers.
type FinalAnswer struct {
	Answer                string     `json:"answer"`
	Evidence              []string   `json:"evidence"`
	TrendAnalysis         []string   `json:"trend_analysis"`
	Insights              []string   `json:"insights"`
	Sources               []string   `json:"sources"`
	Confidence            Confidence `json:"confidence"`
	UsedSemanticRetrieval bool       `json:"used_semantic_retrieval"`
	Attempts              []Attempt  `json:"attempts"`
	Retrieval             Retrieval  `json:"retrieval"`
}

// QueryContext is the state threaded through the engine graph. It is treated
// as a value: stages return a Patch, and Apply produces the next context.
type QueryContext struct {
	OwnerID        int64
	Query          string
	Intent         Intent
	OriginalWindow storage.Window
	Window         storage.Window
	QueryVector    []float32
	Candidates     []storage.Record
	Retrieved      []storage.Record
	Loop           *LoopResult
	Answer         *FinalAnswer
}

// Patch carries the fields a stage changed. Nil fields are left untouched.
type Patch struct {
	Intent         *Intent
	OriginalWindow *storage.Window
	Window         *storage.Window
	QueryVector    []float32
	Candidates     *[]storage.Record
	Retrieved      *[]storage.Record
	Loop           *LoopResult
	Answer         *FinalAnswer
}

// Apply returns a copy of qc with p merged in. qc itself is not modified.
func (qc QueryContext) Apply(p Patch) QueryContext {
	next := qc
	if p.Intent != nil {
		next.Intent = *p.Intent
	}
	if p.OriginalWindow != nil {
		next.OriginalWindow = *p.OriginalWindow
	}
	if p.Window != nil {
		next.Window = *p.Window
	}
	if p.QueryVector != nil {
		next.QueryVector = append([]float32(nil), p.QueryVector...)
	}
	if p.Candidates != nil {
		next.Candidates = append([]storage.Record(nil), (*p.Candidates)...)
	}
	if p.Retrieved != nil {
		next.Retrieved = append([]storage.Record(nil), (*p.Retrieved)...)
	}
	if p.Loop != nil {
		loop := *p.Loop
		next.Loop = &loop
	}
	if p.Answer != nil {
		answer := *p.Answer
		next.Answer = &answer
	}
	return next
}
