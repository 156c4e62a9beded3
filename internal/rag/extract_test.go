package rag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"journal-ai/internal/llm"
	"journal-ai/internal/rag"
	"journal-ai/internal/rag/mocks"
)

func TestExtractor_Extract(t *testing.T) {
	empty := []string{}
	tests := []struct {
		name    string
		raw     string
		err     error
		want    rag.RecordFields
		wantErr error
	}{
		{
			name: "full object",
			raw:  `{"mood_score": 7, "work_activities": ["写了一份报告"], "personal_activities": ["看电影"], "learning_activities": [], "health_activities": ["跑步5公里"], "goals_achieved": null, "challenges_faced": ["睡得太晚"], "reflections": " 要早点休息 "}`,
			want: rag.RecordFields{
				MoodScore:          moodPtr(7),
				Reflections:        "要早点休息",
				WorkActivities:     []string{"写了一份报告"},
				PersonalActivities: []string{"看电影"},
				LearningActivities: empty,
				HealthActivities:   []string{"跑步5公里"},
				GoalsAchieved:      empty,
				ChallengesFaced:    []string{"睡得太晚"},
			},
		},
		{
			name: "fenced with string mood and blank items",
			raw:  "```json\n{\"mood_score\": \"8\", \"learning_activities\": [\" \", \"读书\"], \"reflections\": null}\n```",
			want: rag.RecordFields{
				MoodScore:          moodPtr(8),
				WorkActivities:     empty,
				PersonalActivities: empty,
				LearningActivities: []string{"读书"},
				HealthActivities:   empty,
				GoalsAchieved:      empty,
				ChallengesFaced:    empty,
			},
		},
		{
			name: "mood out of range and scalar list",
			raw:  `{"mood_score": 12, "health_activities": "睡了八小时"}`,
			want: rag.RecordFields{
				WorkActivities:     empty,
				PersonalActivities: empty,
				LearningActivities: empty,
				HealthActivities:   []string{"睡了八小时"},
				GoalsAchieved:      empty,
				ChallengesFaced:    empty,
			},
		},
		{
			name: "fractional mood dropped",
			raw:  `{"mood_score": 6.5}`,
			want: rag.RecordFields{
				WorkActivities:     empty,
				PersonalActivities: empty,
				LearningActivities: empty,
				HealthActivities:   empty,
				GoalsAchieved:      empty,
				ChallengesFaced:    empty,
			},
		},
		{name: "not json", raw: "今天还不错", wantErr: rag.ErrUnparsableExtraction},
		{name: "call fails", err: errors.New("timeout"), wantErr: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockLLMClient(gomock.NewController(t))
			client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _, user string, p llm.ChatParams) (string, error) {
					assert.InDelta(t, 0.2, p.Temperature, 1e-6)
					assert.Equal(t, 800, p.MaxTokens)
					assert.Contains(t, user, "上午写了报告")
					return tt.raw, tt.err
				})

			got, err := rag.NewExtractor(client).Extract(context.Background(), "上午写了报告")
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, rag.ErrUnparsableExtraction) {
					assert.ErrorIs(t, err, rag.ErrUnparsableExtraction)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
