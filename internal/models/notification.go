package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const DefaultNotificationType = "Other"

type Notification struct {
	Base    `bson:",inline"`
	Member  primitive.ObjectID `bson:"member" json:"member"`
	Message string             `bson:"message" json:"message"`
	Type    string             `bson:"type" json:"type"` // "Fee Reminder", "Announcement", "Other"
	Read    bool               `bson:"read" json:"read"`
}
