package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"journal-ai/internal/llm"
	"journal-ai/internal/rag"
	"journal-ai/internal/rag/mocks"
	"journal-ai/internal/storage"
)

var fixedNow = time.Date(2025, 3, 10, 21, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

// script answers the three kinds of model calls the engine makes, told apart
// by their token budgets.
type script struct {
	intent    string
	verdict   string
	answer    string
	answerErr error
	prompts   *[]string
}

func (s script) expect(t *testing.T, client *mocks.MockLLMClient) {
	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, user string, p llm.ChatParams) (string, error) {
			switch p.MaxTokens {
			case 8:
				return s.intent, nil
			case 256:
				return s.verdict, nil
			}
			assert.InDelta(t, 0.7, p.Temperature, 1e-6)
			if s.prompts != nil {
				*s.prompts = append(*s.prompts, user)
			}
			return s.answer, s.answerErr
		}).AnyTimes()
}

type engineDeps struct {
	llm     *mocks.MockLLMClient
	embed   *mocks.MockEmbedder
	records *mocks.MockRecordSource
	vector  *mocks.MockVectorRetriever
	lexical *mocks.MockLexicalRetriever
	engine  rag.Engine
}

func newEngineDeps(t *testing.T) engineDeps {
	ctrl := gomock.NewController(t)
	d := engineDeps{
		llm:     mocks.NewMockLLMClient(ctrl),
		embed:   mocks.NewMockEmbedder(ctrl),
		records: mocks.NewMockRecordSource(ctrl),
		vector:  mocks.NewMockVectorRetriever(ctrl),
		lexical: mocks.NewMockLexicalRetriever(ctrl),
	}
	d.engine = rag.NewEngine(d.llm, d.embed, d.records, d.vector, d.lexical, clock)
	d.records.EXPECT().OwnerExists(gomock.Any(), int64(1)).Return(true, nil).AnyTimes()
	return d
}

// serveJournal backs the retrievers with a fixed set of records filtered by window.
func (d engineDeps) serveJournal(journal []storage.Record) {
	byID := make(map[int64]storage.Record, len(journal))
	for _, r := range journal {
		byID[r.ID] = r
	}
	d.vector.EXPECT().VectorSearch(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ []float32, w storage.Window, _ int) ([]storage.Hit, error) {
			var out []storage.Hit
			for _, r := range journal {
				if w.Contains(r.RecordDate) {
					out = append(out, storage.Hit{RecordID: r.ID, Score: 0.8})
				}
			}
			return out, nil
		}).AnyTimes()
	d.lexical.EXPECT().LexicalSearch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrNoTerms).AnyTimes()
	d.records.EXPECT().FetchByIDs(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, ids []int64) ([]storage.Record, error) {
			out := make([]storage.Record, 0, len(ids))
			for _, id := range ids {
				out = append(out, byID[id])
			}
			return out, nil
		}).AnyTimes()
}

func TestEngine_TodayAnswersFromSingleRecord(t *testing.T) {
	d := newEngineDeps(t)
	today := storage.Window{Start: "2025-03-10", End: "2025-03-10"}
	rec := storage.Record{ID: 42, OwnerID: 1, RecordDate: "2025-03-10", Content: "完成了项目评审", MoodScore: moodPtr(7)}

	var prompts []string
	script{intent: "today", answer: `{"answer":"今天很充实","evidence":["完成了项目评审"],"confidence":"high"}`, prompts: &prompts}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), today, 200).Return([]storage.Record{rec}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "  今天过得怎么样？ ")
	require.NoError(t, err)

	assert.Equal(t, "今天很充实", ans.Answer)
	assert.False(t, ans.UsedSemanticRetrieval)
	assert.Equal(t, []string{"单日记录: 2025-03-10"}, ans.Sources)
	assert.Equal(t, rag.ConfidenceHigh, ans.Confidence)
	assert.Empty(t, ans.Attempts)
	assert.Equal(t, rag.IntentToday, ans.Retrieval.Intent)
	assert.Equal(t, today, ans.Retrieval.FinalWindow)

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "完成了项目评审")
	assert.Contains(t, prompts[0], "心情: 7")
}

func TestEngine_TodayGroundsEverySameDayEntry(t *testing.T) {
	d := newEngineDeps(t)
	today := storage.Window{Start: "2025-03-10", End: "2025-03-10"}
	candidates := []storage.Record{
		{ID: 44, OwnerID: 1, RecordDate: "2025-03-10", Content: "晚上读了两章书"},
		{ID: 43, OwnerID: 1, RecordDate: "2025-03-10", Content: "上午开了周会", MoodScore: moodPtr(6)},
		{ID: 40, OwnerID: 1, RecordDate: "2025-03-09", Content: "昨天去爬山"},
	}

	var prompts []string
	script{intent: "today", answer: `{"answer":"开会和读书","confidence":"medium"}`, prompts: &prompts}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), today, 200).Return(candidates, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "今天做了什么")
	require.NoError(t, err)
	assert.Equal(t, []string{"单日记录: 2025-03-10"}, ans.Sources)

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "晚上读了两章书")
	assert.Contains(t, prompts[0], "上午开了周会")
	assert.Contains(t, prompts[0], "共2条")
	assert.NotContains(t, prompts[0], "昨天去爬山")
}

func TestEngine_RecentExpandsUntilJudgeAccepts(t *testing.T) {
	d := newEngineDeps(t)
	journal := []storage.Record{
		{ID: 1, OwnerID: 1, RecordDate: "2025-02-03", Content: "学习 Go 并发", LearningActivities: []string{"Go"}},
		{ID: 2, OwnerID: 1, RecordDate: "2025-02-04", Content: "继续学习 channel", LearningActivities: []string{"Go"}},
	}
	d.serveJournal(journal)

	var prompts []string
	script{
		intent:  "recent",
		verdict: `{"can_answer": true, "confidence": "high", "reason": "学习记录"}`,
		answer:  `{"answer":"主要在学 Go","trend_analysis":["持续学习"],"evidence":["学习 Go 并发"],"confidence":"中"}`,
		prompts: &prompts,
	}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), marchWeek, 200).Return(nil, nil)
	d.embed.EXPECT().Embed(gomock.Any(), "过去一周学了什么").Return([]float32{0.3, 0.4}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "过去一周学了什么")
	require.NoError(t, err)

	assert.True(t, ans.UsedSemanticRetrieval)
	assert.True(t, ans.Retrieval.SearchExpanded)
	assert.False(t, ans.Retrieval.MaxAttemptsReached)
	assert.False(t, ans.Retrieval.FallbackUsed)
	assert.Equal(t, rag.ConfidenceHigh, ans.Retrieval.JudgeConfidence)
	assert.Equal(t, marchWeek, ans.Retrieval.OriginalWindow)
	assert.Equal(t, storage.Window{Start: "2025-02-01", End: "2025-03-10"}, ans.Retrieval.FinalWindow)

	require.Len(t, ans.Attempts, 3)
	assert.Equal(t, rag.DecisionExpand, ans.Attempts[0].Decision)
	assert.Equal(t, rag.DecisionExpand, ans.Attempts[1].Decision)
	assert.Equal(t, rag.DecisionAccept, ans.Attempts[2].Decision)
	assert.Equal(t, 2, ans.Attempts[2].ResultCount)

	assert.True(t, strings.HasPrefix(ans.Answer, "主要在学 Go"))
	assert.Contains(t, ans.Answer, "已扩展至 2025-02-01 至 2025-03-10")
	assert.Equal(t, rag.ConfidenceMedium, ans.Confidence)
	require.Len(t, ans.Sources, 2)
	assert.Regexp(t, `^\[src:\d+,0\.\d{4}\] 2025-02-0[34]$`, ans.Sources[0])

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "[src:1]")
	assert.Contains(t, prompts[0], "学习: Go")
}

func TestEngine_RecentFallsBackBeyondCap(t *testing.T) {
	d := newEngineDeps(t)
	old := storage.Record{ID: 7, OwnerID: 1, RecordDate: "2025-01-24", Content: "开始读《三体》"}
	d.serveJournal([]storage.Record{old})

	script{intent: "recent", answer: `{"answer":"在读《三体》","confidence":"low"}`}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), marchWeek, 200).Return(nil, nil)
	d.embed.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{1}, nil)
	d.records.EXPECT().FetchRecent(gomock.Any(), int64(1), 5).Return([]storage.Record{old}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "上周读了什么书")
	require.NoError(t, err)

	assert.True(t, ans.Retrieval.FallbackUsed)
	assert.True(t, ans.Retrieval.MaxAttemptsReached)
	assert.Len(t, ans.Attempts, 3)
	assert.Contains(t, ans.Answer, "以下基于最近的记录回答")
	assert.NotContains(t, ans.Answer, "多次扩展检索")
	assert.Equal(t, []string{"[src:7,0.0000] 2025-01-24"}, ans.Sources)
}

func TestEngine_TodayWithoutRecordsBacksOff(t *testing.T) {
	d := newEngineDeps(t)
	d.serveJournal([]storage.Record{
		{ID: 3, OwnerID: 1, RecordDate: "2025-03-05", Content: "周中总结"},
	})

	script{
		intent:  "today",
		verdict: `{"can_answer": true, "confidence": "medium"}`,
		answer:  `{"answer":"今天还没有记录，最近一次是周中总结"}`,
	}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), gomock.Any(), 200).Return(nil, nil)
	d.embed.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{1}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "今天做了什么")
	require.NoError(t, err)

	assert.True(t, ans.UsedSemanticRetrieval)
	assert.True(t, ans.Retrieval.SearchExpanded)
	assert.Equal(t, "2025-03-03", ans.Retrieval.FinalWindow.Start)
	require.Len(t, ans.Attempts, 2)
}

func TestEngine_GenerationFailureYieldsPlaceholder(t *testing.T) {
	d := newEngineDeps(t)
	rec := storage.Record{ID: 1, OwnerID: 1, RecordDate: "2025-03-10", Content: "x"}

	script{intent: "today", answerErr: errors.New("model crashed")}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]storage.Record{rec}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "今天怎么样")
	require.NoError(t, err)
	assert.Equal(t, rag.ConfidenceLow, ans.Confidence)
	assert.Equal(t, []string{"单日记录: 2025-03-10"}, ans.Sources)
	assert.NotEmpty(t, ans.Answer)
}

func TestEngine_EmbedFailureStillRetrievesLexically(t *testing.T) {
	d := newEngineDeps(t)
	rec := storage.Record{ID: 5, OwnerID: 1, RecordDate: "2025-03-08", Content: "跑步 5 公里"}

	script{intent: "general", verdict: `{"can_answer": true, "confidence": "high"}`, answer: `{"answer":"跑了 5 公里"}`}.expect(t, d.llm)
	d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), int64(1), storage.Window{}, 200).Return([]storage.Record{rec}, nil)
	d.embed.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(nil, errors.New("embedder down"))
	d.lexical.EXPECT().LexicalSearch(gomock.Any(), int64(1), "跑步", storage.Window{}, 20).Return([]storage.Hit{{RecordID: 5, Score: 1}}, nil)
	d.records.EXPECT().FetchByIDs(gomock.Any(), int64(1), []int64{5}).Return([]storage.Record{rec}, nil)

	ans, err := d.engine.Respond(context.Background(), 1, "跑步")
	require.NoError(t, err)
	assert.Equal(t, "跑了 5 公里", ans.Answer)
	assert.True(t, ans.UsedSemanticRetrieval)
	require.Len(t, ans.Attempts, 1)
	assert.Equal(t, rag.DecisionAccept, ans.Attempts[0].Decision)
}

func TestEngine_Errors(t *testing.T) {
	t.Run("blank query", func(t *testing.T) {
		d := newEngineDeps(t)
		_, err := d.engine.Respond(context.Background(), 1, "   ")
		assert.ErrorIs(t, err, rag.ErrEmptyQuery)
	})

	t.Run("unknown owner", func(t *testing.T) {
		d := newEngineDeps(t)
		d.records.EXPECT().OwnerExists(gomock.Any(), int64(2)).Return(false, nil)
		_, err := d.engine.Respond(context.Background(), 2, "今天")
		assert.ErrorIs(t, err, rag.ErrUnknownOwner)
	})

	t.Run("owner lookup fails", func(t *testing.T) {
		d := newEngineDeps(t)
		d.records.EXPECT().OwnerExists(gomock.Any(), int64(3)).Return(false, errors.New("db locked"))
		_, err := d.engine.Respond(context.Background(), 3, "今天")
		require.Error(t, err)
		assert.NotErrorIs(t, err, rag.ErrUnknownOwner)
	})

	t.Run("prefilter fails", func(t *testing.T) {
		d := newEngineDeps(t)
		script{intent: "today"}.expect(t, d.llm)
		dbErr := errors.New("disk full")
		d.records.EXPECT().FetchByOwnerAndWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr)
		_, err := d.engine.Respond(context.Background(), 1, "今天")
		assert.ErrorIs(t, err, dbErr)
	})
}

func moodPtr(n int) *int { return &n }
