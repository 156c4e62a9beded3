package storage

import "time"

// DateLayout is the ISO layout used for record dates and window bounds.
const DateLayout = "2006-01-02"

// Owner is the user a set of journal records belongs to.
type Owner struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Record is a single journal entry.
// (OwnerID, ID) is unique; RecordDate is not unique per owner.
type Record struct {
	ID                 int64    `json:"id"`
	OwnerID            int64    `json:"owner_id"`
	RecordDate         string   `json:"record_date"` // YYYY-MM-DD, no time of day
	Content            string   `json:"content"`
	MoodScore          *int     `json:"mood_score,omitempty"`
	Reflections        string   `json:"reflections,omitempty"`
	WorkActivities     []string `json:"work_activities"`
	PersonalActivities []string `json:"personal_activities"`
	LearningActivities []string `json:"learning_activities"`
	HealthActivities   []string `json:"health_activities"`
	GoalsAchieved      []string `json:"goals_achieved"`
	ChallengesFaced    []string `json:"challenges_faced"`
	Embedded           bool     `json:"embedded"`
	// Score is only populated after retrieval.
	Score float64 `json:"score,omitempty"`
}

// Window is an inclusive date range. An empty bound is unbounded.
type Window struct {
	Start string `json:"start_date,omitempty"`
	End   string `json:"end_date,omitempty"`
}

// Unbounded reports whether neither side of the window is set.
func (w Window) Unbounded() bool {
	return w.Start == "" && w.End == ""
}

// Contains reports whether the ISO date falls inside the window.
func (w Window) Contains(date string) bool {
	if w.Start != "" && date < w.Start {
		return false
	}
	if w.End != "" && date > w.End {
		return false
	}
	return true
}

// Hit is a ranked reference to a record produced by a search backend.
type Hit struct {
	RecordID int64
	Score    float64
}
