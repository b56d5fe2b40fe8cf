package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type FeePackage struct {
	Base        `bson:",inline"`
	Name        string  `bson:"name" json:"name"`
	Duration    string  `bson:"duration" json:"duration"` // e.g. "1 Month", "3 Months", "1 Year"
	Cost        float64 `bson:"cost" json:"cost"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

type FeePackageSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Duration string             `json:"duration"`
	Cost     float64            `json:"cost"`
}

func (p *FeePackage) Summary() FeePackageSummary {
	return FeePackageSummary{ID: p.ID, Name: p.Name, Duration: p.Duration, Cost: p.Cost}
}
