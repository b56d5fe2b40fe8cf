// Package memstore keeps documents in process. Documents are held in their
// BSON form so filters see exactly the field names MongoDB would.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
)

func New() *store.Store {
	return &store.Store{
		Users:         newCollection[models.User](store.UsersCollection),
		FeePackages:   newCollection[models.FeePackage](store.FeePackagesCollection),
		Bills:         newCollection[models.Bill](store.BillsCollection),
		Notifications: newCollection[models.Notification](store.NotificationsCollection),
		Supplements:   newCollection[models.Supplement](store.SupplementsCollection),
		DietDetails:   newCollection[models.DietDetail](store.DietDetailsCollection),
	}
}

type collection[T any] struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []string
	now    func() time.Time
}

func newCollection[T any](name string) *collection[T] {
	return &collection[T]{unique: store.UniqueKeys[name], now: time.Now}
}

// normalize round-trips v through BSON so Go types collapse to the values
// the driver would hand back (named strings become string, time.Time becomes
// primitive.DateTime and so on).
func normalize(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decode[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func asDoc(v any) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return t, true
	case primitive.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case primitive.A:
		return t, true
	case []any:
		return t, true
	default:
		return nil, false
	}
}

func matches(doc, filter bson.M) (bool, error) {
	for field, want := range filter {
		got := doc[field]
		ops, isOp := asDoc(want)
		if !isOp {
			if !reflect.DeepEqual(got, want) {
				return false, nil
			}
			continue
		}
		for op, arg := range ops {
			switch op {
			case "$ne":
				if reflect.DeepEqual(got, arg) {
					return false, nil
				}
			case "$in":
				values, ok := asArray(arg)
				if !ok {
					return false, fmt.Errorf("memstore: $in on %q needs an array", field)
				}
				found := false
				for _, v := range values {
					if reflect.DeepEqual(got, v) {
						found = true
						break
					}
				}
				if !found {
					return false, nil
				}
			default:
				return false, fmt.Errorf("memstore: unsupported operator %s", op)
			}
		}
	}
	return true, nil
}

// conflicts reports whether candidate collides on a unique key with any
// document other than the one at skip.
func (c *collection[T]) conflicts(candidate bson.M, skip int) bool {
	for _, field := range c.unique {
		v, ok := candidate[field]
		if !ok {
			continue
		}
		for i, existing := range c.docs {
			if i != skip && reflect.DeepEqual(existing[field], v) {
				return true
			}
		}
	}
	return false
}

func (c *collection[T]) indexOf(id primitive.ObjectID) int {
	for i, d := range c.docs {
		if d["_id"] == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) Insert(_ context.Context, doc *T) error {
	m, err := normalize(doc)
	if err != nil {
		return err
	}
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		return fmt.Errorf("memstore: document has no _id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) >= 0 || c.conflicts(m, -1) {
		return store.ErrDuplicate
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *collection[T]) Get(_ context.Context, id primitive.ObjectID) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	return decode[T](c.docs[i])
}

func (c *collection[T]) selectDocs(filter store.Filter) ([]bson.M, error) {
	var f bson.M
	if filter != nil {
		var err error
		if f, err = normalize(filter); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]bson.M, 0, len(c.docs))
	for _, d := range c.docs {
		ok, err := matches(d, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *collection[T]) List(_ context.Context, filter store.Filter) ([]T, error) {
	selected, err := c.selectDocs(filter)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0, len(selected))
	for _, m := range selected {
		doc, err := decode[T](m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (c *collection[T]) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	fields := bson.M{"updatedAt": c.now()}
	for k, v := range set {
		fields[k] = v
	}
	norm, err := normalize(fields)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	next := make(bson.M, len(c.docs[i])+len(norm))
	for k, v := range c.docs[i] {
		next[k] = v
	}
	for k, v := range norm {
		next[k] = v
	}
	if c.conflicts(next, i) {
		return nil, store.ErrDuplicate
	}
	c.docs[i] = next
	return decode[T](next)
}

func (c *collection[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return nil
}

func (c *collection[T]) Count(_ context.Context, filter store.Filter) (int64, error) {
	selected, err := c.selectDocs(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(selected)), nil
}

func (c *collection[T]) Sum(_ context.Context, filter store.Filter, field string) (float64, error) {
	selected, err := c.selectDocs(filter)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, d := range selected {
		switch v := d[field].(type) {
		case float64:
			total += v
		case int32:
			total += float64(v)
		case int64:
			total += float64(v)
		}
	}
	return total, nil
}
