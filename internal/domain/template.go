package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency describes how often a template is meant to recur.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// TemplateType categorizes the kind of routine.
type TemplateType string

const (
	TypeStrength    TemplateType = "strength"
	TypeCardio      TemplateType = "cardio"
	TypeFlexibility TemplateType = "flexibility"
	TypeMixed       TemplateType = "mixed"
)

// WorkoutTemplate is a reusable routine definition owned by a user.
// Only templates with IsActive=true are expanded into weekly instances.
type WorkoutTemplate struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID       string               `bson:"userId" json:"userId"`
	Name         string               `bson:"name" json:"name"`
	ExerciseIDs  []primitive.ObjectID `bson:"exercises" json:"exerciseIds"`
	Duration     int                  `bson:"duration" json:"duration"` // Minutes, >= 0
	Type         TemplateType         `bson:"type,omitempty" json:"type,omitempty"`
	MuscleGroups []string             `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Frequency    Frequency            `bson:"frequency" json:"frequency"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`

	// Exercises carries the resolved exercise documents on read paths that
	// populate the template. Never persisted alongside the template itself.
	Exercises []Exercise `bson:"-" json:"exercises,omitempty"`
}

// ValidFrequency reports whether f is one of the supported recurrence values.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
