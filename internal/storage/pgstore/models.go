package pgstore

import (
	"time"

	"github.com/pgvector/pgvector-go"

	"journal-ai/internal/storage"
)

type ownerModel struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ownerModel) TableName() string {
	return "owners"
}

type recordModel struct {
	ID                 int64            `gorm:"primaryKey"`
	OwnerID            int64            `gorm:"not null;index:idx_records_owner_date,priority:1"`
	Owner              ownerModel       `gorm:"constraint:OnDelete:CASCADE"`
	RecordDate         string           `gorm:"type:varchar(10);not null;index:idx_records_owner_date,priority:2"`
	Content            string           `gorm:"type:text;not null"`
	MoodScore          *int             `gorm:"type:integer"`
	Reflections        string           `gorm:"type:text;not null;default:''"`
	WorkActivities     []string         `gorm:"type:text;serializer:json"`
	PersonalActivities []string         `gorm:"type:text;serializer:json"`
	LearningActivities []string         `gorm:"type:text;serializer:json"`
	HealthActivities   []string         `gorm:"type:text;serializer:json"`
	GoalsAchieved      []string         `gorm:"type:text;serializer:json"`
	ChallengesFaced    []string         `gorm:"type:text;serializer:json"`
	Embedded           bool             `gorm:"not null;default:false"`
	Embedding          *pgvector.Vector `gorm:"type:vector"`
	CreatedAt          time.Time        `gorm:"autoCreateTime"`
}

func (recordModel) TableName() string {
	return "records"
}

func toRecordModel(rec *storage.Record) recordModel {
	return recordModel{
		ID:                 rec.ID,
		OwnerID:            rec.OwnerID,
		RecordDate:         rec.RecordDate,
		Content:            rec.Content,
		MoodScore:          rec.MoodScore,
		Reflections:        rec.Reflections,
		WorkActivities:     nonNil(rec.WorkActivities),
		PersonalActivities: nonNil(rec.PersonalActivities),
		LearningActivities: nonNil(rec.LearningActivities),
		HealthActivities:   nonNil(rec.HealthActivities),
		GoalsAchieved:      nonNil(rec.GoalsAchieved),
		ChallengesFaced:    nonNil(rec.ChallengesFaced),
		Embedded:           rec.Embedded,
	}
}

func (m recordModel) toRecord() storage.Record {
	return storage.Record{
		ID:                 m.ID,
		OwnerID:            m.OwnerID,
		RecordDate:         m.RecordDate,
		Content:            m.Content,
		MoodScore:          m.MoodScore,
		Reflections:        m.Reflections,
		WorkActivities:     nonNil(m.WorkActivities),
		PersonalActivities: nonNil(m.PersonalActivities),
		LearningActivities: nonNil(m.LearningActivities),
		HealthActivities:   nonNil(m.HealthActivities),
		GoalsAchieved:      nonNil(m.GoalsAchieved),
		ChallengesFaced:    nonNil(m.ChallengesFaced),
		Embedded:           m.Embedded,
	}
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
