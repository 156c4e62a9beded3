package vault

import "testing"

func TestNoteParser_Parse(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		wantContent     string
		wantReflections string
		wantMood        int // 0 means no mood
		wantInvalid     bool
	}{
		{
			name:        "plain note",
			content:     "今天写了周报。\n\n晚上跑步。\n",
			wantContent: "今天写了周报。\n\n晚上跑步。",
		},
		{
			name:        "leading mood line",
			content:     "mood: 7\n今天写了周报。\n",
			wantContent: "今天写了周报。",
			wantMood:    7,
		},
		{
			name:        "chinese mood line",
			content:     "\n心情：4\n加班到很晚。",
			wantContent: "加班到很晚。",
			wantMood:    4,
		},
		{
			name:        "front matter mood",
			content:     "---\ntags: [daily]\nmood: 9\n---\n# 2025-03-10\n很开心。\n",
			wantContent: "# 2025-03-10\n很开心。",
			wantMood:    9,
		},
		{
			name:        "mood out of range",
			content:     "mood: 12\n还行。",
			wantContent: "还行。",
			wantInvalid: true,
		},
		{
			name:        "mood line later in the note stays in body",
			content:     "早上开会。\nmood: 5\n",
			wantContent: "早上开会。\nmood: 5",
		},
		{
			name:            "reflections section",
			content:         "# 2025-03-10\n完成接口设计。\n\n# Reflections\n需要早点开始测试。\n\n- 少开会\n",
			wantContent:     "# 2025-03-10\n完成接口设计。",
			wantReflections: "需要早点开始测试。\n\n- 少开会",
		},
		{
			name:            "reflections ends at same level heading",
			content:         "## Work\n写代码\n## reflections\n专注不够\n### detail\n下午被打断\n## Health\n跑步\n",
			wantContent:     "## Work\n写代码\n## Health\n跑步",
			wantReflections: "专注不够\n### detail\n下午被打断",
		},
		{
			name:            "chinese reflections heading",
			content:         "读书一小时\n\n## 反思\n应该每天坚持",
			wantContent:     "读书一小时",
			wantReflections: "应该每天坚持",
		},
		{
			name:            "two reflections sections",
			content:         "# Reflections\n第一点\n# Day\n正文\n# Reflections\n第二点\n",
			wantContent:     "# Day\n正文",
			wantReflections: "第一点\n\n第二点",
		},
		{
			name:            "reflections only",
			content:         "mood: 3\n# Reflections\n只有反思",
			wantReflections: "只有反思",
			wantMood:        3,
		},
	}

	p := NewNoteParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := p.Parse("2025-03-10", []byte(tt.content))

			if note.RecordDate != "2025-03-10" {
				t.Errorf("RecordDate = %q", note.RecordDate)
			}
			if note.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", note.Content, tt.wantContent)
			}
			if note.Reflections != tt.wantReflections {
				t.Errorf("Reflections = %q, want %q", note.Reflections, tt.wantReflections)
			}
			switch {
			case tt.wantMood == 0 && note.MoodScore != nil:
				t.Errorf("MoodScore = %d, want none", *note.MoodScore)
			case tt.wantMood != 0 && (note.MoodScore == nil || *note.MoodScore != tt.wantMood):
				t.Errorf("MoodScore = %v, want %d", note.MoodScore, tt.wantMood)
			}
			if note.MoodInvalid != tt.wantInvalid {
				t.Errorf("MoodInvalid = %v, want %v", note.MoodInvalid, tt.wantInvalid)
			}
		})
	}
}
