// Package store defines the document collections the API works against.
// mongostore backs them with MongoDB; memstore keeps them in process.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/models"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// Filter matches documents by field. Implementations must support plain
// equality, {"$ne": v} and {"$in": []v}.
type Filter = bson.M

// Collection is one document type's CRUD surface. Update applies set as a
// partial overwrite and bumps updatedAt; it returns the updated document.
type Collection[T any] interface {
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	List(ctx context.Context, filter Filter) ([]T, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter Filter) (int64, error)
	Sum(ctx context.Context, filter Filter, field string) (float64, error)
}

const (
	UsersCollection         = "users"
	FeePackagesCollection   = "feepackages"
	BillsCollection         = "bills"
	NotificationsCollection = "notifications"
	SupplementsCollection   = "supplements"
	DietDetailsCollection   = "dietdetails"
)

// UniqueKeys lists the fields each collection keeps unique.
var UniqueKeys = map[string][]string{
	UsersCollection:       {"username"},
	FeePackagesCollection: {"name"},
	SupplementsCollection: {"name"},
	DietDetailsCollection: {"title"},
}

type Store struct {
	Users         Collection[models.User]
	FeePackages   Collection[models.FeePackage]
	Bills         Collection[models.Bill]
	Notifications Collection[models.Notification]
	Supplements   Collection[models.Supplement]
	DietDetails   Collection[models.DietDetail]
}
