package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BillStatus string

const (
	BillPending BillStatus = "Pending"
	BillPaid    BillStatus = "Paid"
	BillDue     BillStatus = "Due"
)

type Bill struct {
	Base   `bson:",inline"`
	Member primitive.ObjectID `bson:"member" json:"member"`
	Amount float64            `bson:"amount" json:"amount"`
	Date   time.Time          `bson:"date" json:"date"`
	Status BillStatus         `bson:"status" json:"status"`
}
