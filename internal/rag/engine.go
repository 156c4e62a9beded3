package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/llm"
	"journal-ai/internal/storage"
)

const (
	prefilterLimit        = 200
	generationTemperature = 0.7
)

// Engine answers questions about an owner's journal.
type Engine interface {
	// Respond classifies the query, retrieves grounding records and returns a
	// normalized answer. Only caller input errors and datastore failures are returned.
	Respond(ctx context.Context, ownerID int64, query string) (FinalAnswer, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	llmClient  LLMClient
	embedder   Embedder
	records    RecordSource
	classifier *Classifier
	loop       *Loop
	clock      Clock
	graph      *graph
}

// NewEngine creates a new engine. A nil clock uses time.Now; a nil vector
// retriever leaves retrieval to the lexical side.
func NewEngine(
	llmClient LLMClient,
	embedder Embedder,
	records RecordSource,
	vector VectorRetriever,
	lexical LexicalRetriever,
	clock Clock,
) Engine {
	if clock == nil {
		clock = time.Now
	}
	e := &ragEngine{
		llmClient:  llmClient,
		embedder:   embedder,
		records:    records,
		classifier: NewClassifier(llmClient),
		loop:       NewLoop(NewHybridSearcher(vector, lexical, records), NewJudge(llmClient), records),
		clock:      clock,
	}
	e.graph = &graph{
		start: nodeClassify,
		nodes: map[node]transition{
			nodeClassify:        e.classify,
			nodeWindow:          e.window,
			nodePrefilter:       e.prefilter,
			nodeRoute:           func(context.Context, QueryContext) (Patch, error) { return Patch{}, nil },
			nodeEmbed:           e.embed,
			nodeRetrieve:        e.retrieve,
			nodeGenerateSingle:  e.generateSingle,
			nodeGenerateHistory: e.generateHistory,
		},
		edges: map[node]edge{
			nodeClassify:        always(nodeWindow),
			nodeWindow:          always(nodePrefilter),
			nodePrefilter:       always(nodeRoute),
			nodeRoute:           routeEdge,
			nodeEmbed:           always(nodeRetrieve),
			nodeRetrieve:        always(nodeGenerateHistory),
			nodeGenerateSingle:  always(nodeEnd),
			nodeGenerateHistory: always(nodeEnd),
		},
	}
	return e
}

// Respond answers a query.
func (e *ragEngine) Respond(ctx context.Context, ownerID int64, query string) (FinalAnswer, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return FinalAnswer{}, ErrEmptyQuery
	}

	ok, err := e.records.OwnerExists(ctx, ownerID)
	if err != nil {
		return FinalAnswer{}, fmt.Errorf("failed to look up owner: %w", err)
	}
	if !ok {
		return FinalAnswer{}, ErrUnknownOwner
	}

	logger.InfoContext(ctx, "query started", "owner_id", ownerID, "query", query)

	final, err := e.graph.run(ctx, QueryContext{OwnerID: ownerID, Query: query})
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "owner_id", ownerID, "error", err)
		return FinalAnswer{}, err
	}
	if final.Answer == nil {
		return FinalAnswer{}, fmt.Errorf("graph finished without an answer")
	}

	logger.InfoContext(ctx, "query completed",
		"owner_id", ownerID,
		"intent", final.Intent,
		"semantic", final.Answer.UsedSemanticRetrieval,
		"attempts", len(final.Answer.Attempts),
		"sources", len(final.Answer.Sources),
		"confidence", final.Answer.Confidence,
	)
	return *final.Answer, nil
}

func (e *ragEngine) classify(ctx context.Context, qc QueryContext) (Patch, error) {
	intent := e.classifier.Classify(ctx, qc.Query)
	return Patch{Intent: &intent}, nil
}

func (e *ragEngine) window(ctx context.Context, qc QueryContext) (Patch, error) {
	current, original := ResolveWindow(qc.Intent, e.clock())
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "window resolved", "intent", qc.Intent, "window", current)
	return Patch{Window: &current, OriginalWindow: &original}, nil
}

func (e *ragEngine) prefilter(ctx context.Context, qc QueryContext) (Patch, error) {
	recs, err := e.records.FetchByOwnerAndWindow(ctx, qc.OwnerID, qc.Window, prefilterLimit)
	if err != nil {
		return Patch{}, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "prefilter done", "window", qc.Window, "candidates", len(recs))
	return Patch{Candidates: &recs}, nil
}

func (e *ragEngine) embed(ctx context.Context, qc QueryContext) (Patch, error) {
	vec, err := e.embedder.Embed(ctx, qc.Query)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "query embedding failed, lexical only", "error", err)
		return Patch{}, nil
	}
	return Patch{QueryVector: vec}, nil
}

func (e *ragEngine) retrieve(ctx context.Context, qc QueryContext) (Patch, error) {
	res := e.loop.Run(ctx, qc)
	return Patch{Loop: &res, Retrieved: &res.Records, Window: &res.FinalWindow}, nil
}

func (e *ragEngine) generateSingle(ctx context.Context, qc QueryContext) (Patch, error) {
	var raw string
	day := latestDay(qc.Candidates)
	if len(day) > 0 {
		date := day[0].RecordDate
		user := fmt.Sprintf(singleUserTemplate, qc.Query, date, len(day), singleDayEntries(day), date)
		raw = e.generate(ctx, singleSystemPrompt, user)
	}

	ans := Normalize(raw, DisclosureFor(qc.Loop, qc.OriginalWindow))
	if len(ans.Sources) == 0 && len(day) > 0 {
		ans.Sources = []string{"单日记录: " + day[0].RecordDate}
	}
	e.annotate(&ans, qc)
	return Patch{Answer: &ans}, nil
}

// latestDay returns the leading candidates sharing the newest record date.
// Candidates arrive newest first.
func latestDay(candidates []storage.Record) []storage.Record {
	for i, rec := range candidates {
		if rec.RecordDate != candidates[0].RecordDate {
			return candidates[:i]
		}
	}
	return candidates
}

func singleDayEntries(day []storage.Record) string {
	entries := make([]string, 0, len(day))
	for i, rec := range day {
		entries = append(entries, fmt.Sprintf("[%d] ", i+1)+fmt.Sprintf(singleEntryTemplate,
			rec.Content,
			moodLabel(rec.MoodScore),
			orNone(rec.Reflections),
			joinList(rec.WorkActivities),
			joinList(rec.PersonalActivities),
			joinList(rec.LearningActivities),
			joinList(rec.HealthActivities),
			joinList(rec.GoalsAchieved),
			joinList(rec.ChallengesFaced),
		))
	}
	return strings.Join(entries, "\n\n")
}

func (e *ragEngine) generateHistory(ctx context.Context, qc QueryContext) (Patch, error) {
	recs := qc.Retrieved
	if len(recs) == 0 {
		recs = qc.Candidates
	}

	raw := e.generate(ctx, historySystemPrompt, fmt.Sprintf(historyUserTemplate, qc.Query, HistoryDigest(recs)))

	ans := Normalize(raw, DisclosureFor(qc.Loop, qc.OriginalWindow))
	if len(ans.Sources) == 0 {
		ans.Sources = make([]string, 0, len(recs))
		for _, r := range recs {
			ans.Sources = append(ans.Sources, fmt.Sprintf("[src:%d,%.4f] %s", r.ID, r.Score, r.RecordDate))
		}
	}
	e.annotate(&ans, qc)
	return Patch{Answer: &ans}, nil
}

// generate returns "" when the model fails so the normalizer placeholder applies.
func (e *ragEngine) generate(ctx context.Context, system, user string) string {
	raw, err := e.llmClient.Complete(ctx, system, user, llm.ChatParams{Temperature: generationTemperature})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "answer generation failed", "error", err)
		return ""
	}
	return raw
}

func (e *ragEngine) annotate(ans *FinalAnswer, qc QueryContext) {
	ans.UsedSemanticRetrieval = qc.Loop != nil
	ans.Attempts = []Attempt{}
	ans.Retrieval = Retrieval{
		Intent:         qc.Intent,
		OriginalWindow: qc.OriginalWindow,
		FinalWindow:    qc.Window,
	}
	if qc.Loop != nil {
		ans.Attempts = append(ans.Attempts, qc.Loop.Attempts...)
		ans.Retrieval.SearchExpanded = qc.Loop.SearchExpanded
		ans.Retrieval.MaxAttemptsReached = qc.Loop.MaxAttemptsReached
		ans.Retrieval.FallbackUsed = qc.Loop.FallbackUsed
		ans.Retrieval.JudgeConfidence = qc.Loop.JudgeConfidence
	}
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "无"
	}
	return strings.Join(items, "、")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "无"
	}
	return s
}
