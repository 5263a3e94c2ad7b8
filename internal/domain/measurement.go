package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is a dated set of body measurements, all in centimeters.
type Measurement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"userId" json:"userId"`
	Date       time.Time          `bson:"date" json:"date"`
	Chest      float64            `bson:"chest" json:"chest"`
	Waist      float64            `bson:"waist" json:"waist"`
	Hips       float64            `bson:"hips" json:"hips"`
	LeftArm    float64            `bson:"leftArm" json:"leftArm"`
	RightArm   float64            `bson:"rightArm" json:"rightArm"`
	LeftThigh  float64            `bson:"leftThigh" json:"leftThigh"`
	RightThigh float64            `bson:"rightThigh" json:"rightThigh"`
	LeftCalf   float64            `bson:"leftCalf" json:"leftCalf"`
	RightCalf  float64            `bson:"rightCalf" json:"rightCalf"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeightLog is a single body-weight entry.
type WeightLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Date      time.Time          `bson:"date" json:"date"`
	Weight    float64            `bson:"weight" json:"weight"` // kg
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgressImageType distinguishes the camera angle of a progress photo.
type ProgressImageType string

const (
	ImageFront ProgressImageType = "front"
	ImageSide  ProgressImageType = "side"
	ImageBack  ProgressImageType = "back"
)

// ProgressImage holds the metadata for a progress photo. The bytes live in
// object storage under ObjectKey; clients upload and download through
// presigned URLs.
type ProgressImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	ObjectKey   string             `bson:"objectKey" json:"-"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Type        ProgressImageType  `bson:"type" json:"type"`
	Date        time.Time          `bson:"date" json:"date"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
