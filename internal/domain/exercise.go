package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single exercise definition in the user's library.
// Templates reference exercises by ID; the target numbers recorded here
// (sets, reps, weight) feed the volume figures in the stats aggregator.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	TotalSets   int                `bson:"totalSets" json:"totalSets"`
	Reps        int                `bson:"reps" json:"reps"`
	Weight      float64            `bson:"weight" json:"weight"` // Working weight in kg
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
