package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/store"
)

// resource wires the five admin CRUD routes of one document type. C and U
// are the create and update request bodies; build and patch turn them into
// a new document and a $set document respectively.
type resource[T any, C any, U any] struct {
	h      *Handler
	entity string // "Bill", "Fee package"
	coll   store.Collection[T]

	build func(c *gin.Context, req *C) (*T, error)
	patch func(c *gin.Context, req *U) (bson.M, error)
	// present shapes documents for responses; nil sends them as stored.
	present func(c *gin.Context, docs []T) ([]any, error)
	// created runs after a successful insert.
	created func(c *gin.Context, doc *T)
}

func (r *resource[T, C, U]) register(g *gin.RouterGroup) {
	g.POST("", r.create)
	g.GET("", r.list)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.remove)
}

func (r *resource[T, C, U]) render(c *gin.Context, docs []T) ([]any, error) {
	if r.present != nil {
		return r.present(c, docs)
	}
	out := make([]any, len(docs))
	for i := range docs {
		out[i] = docs[i]
	}
	return out, nil
}

func (r *resource[T, C, U]) renderOne(c *gin.Context, status int, doc *T) {
	out, err := r.render(c, []T{*doc})
	if err != nil {
		r.h.fail(c, apperr.Server(err, "Server error loading "+r.entity))
		return
	}
	c.JSON(status, out[0])
}

func (r *resource[T, C, U]) create(c *gin.Context) {
	var req C
	if err := bindJSON(c, &req); err != nil {
		r.h.fail(c, err)
		return
	}
	doc, err := r.build(c, &req)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	if err := r.coll.Insert(c.Request.Context(), doc); err != nil {
		r.h.fail(c, apperr.FromStore(err, r.entity))
		return
	}
	if r.created != nil {
		r.created(c, doc)
	}
	r.renderOne(c, http.StatusCreated, doc)
}

func (r *resource[T, C, U]) list(c *gin.Context) {
	docs, err := r.coll.List(c.Request.Context(), nil)
	if err != nil {
		r.h.fail(c, apperr.FromStore(err, r.entity))
		return
	}
	out, err := r.render(c, docs)
	if err != nil {
		r.h.fail(c, apperr.Server(err, "Server error loading "+r.entity))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (r *resource[T, C, U]) get(c *gin.Context) {
	id, err := parseID(c, r.entity)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	doc, err := r.coll.Get(c.Request.Context(), id)
	if err != nil {
		r.h.fail(c, apperr.FromStore(err, r.entity))
		return
	}
	r.renderOne(c, http.StatusOK, doc)
}

func (r *resource[T, C, U]) update(c *gin.Context) {
	id, err := parseID(c, r.entity)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	var req U
	if err := bindJSON(c, &req); err != nil {
		r.h.fail(c, err)
		return
	}
	set, err := r.patch(c, &req)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	if len(set) == 0 {
		r.h.fail(c, apperr.Validation("No fields to update"))
		return
	}
	doc, err := r.coll.Update(c.Request.Context(), id, set)
	if err != nil {
		r.h.fail(c, apperr.FromStore(err, r.entity))
		return
	}
	r.renderOne(c, http.StatusOK, doc)
}

func (r *resource[T, C, U]) remove(c *gin.Context) {
	id, err := parseID(c, r.entity)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	if err := r.coll.Delete(c.Request.Context(), id); err != nil {
		r.h.fail(c, apperr.FromStore(err, r.entity))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.entity + " removed"})
}
