package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"journal-ai/internal/llm"
	"journal-ai/internal/rag"
	"journal-ai/internal/rag/mocks"
)

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  rag.Intent
	}{
		{"今天过得怎么样？", rag.IntentToday},
		{"What did I do TODAY", rag.IntentToday},
		{"上周学习了什么", rag.IntentRecent},
		{"过去一周的运动", rag.IntentRecent},
		{"最近一段时间情绪趋势", rag.IntentTrend},
		{"生产力有什么变化", rag.IntentTrend},
		{"我什么时候开始跑步的", rag.IntentGeneral},
		{"今天和上周比有什么变化", rag.IntentToday},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, rag.ClassifyByKeywords(tt.query))
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		raw   string
		err   error
		want  rag.Intent
	}{
		{name: "model label", query: "随便问问", raw: "trend", want: rag.IntentTrend},
		{name: "label is trimmed and lower-cased", query: "随便问问", raw: "  Recent\n", want: rag.IntentRecent},
		{name: "invalid label falls back", query: "今天做了什么", raw: "daily", want: rag.IntentToday},
		{name: "extra words fall back", query: "上周呢", raw: "the answer is trend", want: rag.IntentRecent},
		{name: "model error falls back", query: "我读过哪些书", err: errors.New("timeout"), want: rag.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockLLMClient(ctrl)

			client.EXPECT().
				Complete(gomock.Any(), gomock.Any(), "用户问题："+tt.query, gomock.Any()).
				DoAndReturn(func(_ context.Context, _, _ string, params llm.ChatParams) (string, error) {
					assert.InDelta(t, 0.1, params.Temperature, 1e-6)
					return tt.raw, tt.err
				})

			got := rag.NewClassifier(client).Classify(context.Background(), tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_NilClient(t *testing.T) {
	assert.Equal(t, rag.IntentRecent, rag.NewClassifier(nil).Classify(context.Background(), "这周怎么样"))
}
