package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetRecord is one recorded set of a completed workout: what was actually
// lifted, as opposed to the targets stored on the exercise definition.
type SetRecord struct {
	SetNumber int     `bson:"setNumber" json:"setNumber"`
	Reps      int     `bson:"reps" json:"reps"`
	Weight    float64 `bson:"weight" json:"weight"`
	Completed bool    `bson:"completed" json:"completed"`
}

// WorkoutInstance is one scheduled (and possibly completed) occurrence of a
// template within a specific ISO week. The tuple
// (userId, templateId, weekNumber, year) is unique, enforced by an index,
// see EnsureInstanceIndexes.
type WorkoutInstance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateID  primitive.ObjectID `bson:"templateId" json:"templateId"`
	UserID      string             `bson:"userId" json:"userId"`
	Date        time.Time          `bson:"date" json:"date"` // Scheduled day within the week
	WeekNumber  int                `bson:"weekNumber" json:"weekNumber"`
	Year        int                `bson:"year" json:"year"` // ISO week-year, not calendar year
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Progress    []SetRecord        `bson:"progress" json:"progress"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Template is the resolved parent template, populated by the repository
	// on read paths. Not persisted with the instance.
	Template *WorkoutTemplate `bson:"-" json:"template,omitempty"`
}
