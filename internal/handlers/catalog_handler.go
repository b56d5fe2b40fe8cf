package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/gym-api/internal/models"
)

// --- Fee packages ---

type createFeePackageRequest struct {
	Name        string   `json:"name" binding:"required,notblank"`
	Duration    string   `json:"duration" binding:"required,duration"`
	Cost        *float64 `json:"cost" binding:"required,gte=0"`
	Description string   `json:"description"`
}

type updateFeePackageRequest struct {
	Name        *string  `json:"name" binding:"omitempty,notblank"`
	Duration    *string  `json:"duration" binding:"omitempty,duration"`
	Cost        *float64 `json:"cost" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

// RegisterFeePackages mounts the admin fee package routes on g.
func (h *Handler) RegisterFeePackages(g *gin.RouterGroup) {
	r := &resource[models.FeePackage, createFeePackageRequest, updateFeePackageRequest]{
		h:      h,
		entity: "Fee package",
		coll:   h.Store.FeePackages,
		build: func(_ *gin.Context, req *createFeePackageRequest) (*models.FeePackage, error) {
			return &models.FeePackage{
				Base:        models.NewBase(h.now()),
				Name:        strings.TrimSpace(req.Name),
				Duration:    strings.Join(strings.Fields(req.Duration), " "),
				Cost:        *req.Cost,
				Description: req.Description,
			}, nil
		},
		patch: func(_ *gin.Context, req *updateFeePackageRequest) (bson.M, error) {
			set := bson.M{}
			if req.Name != nil {
				set["name"] = strings.TrimSpace(*req.Name)
			}
			if req.Duration != nil {
				set["duration"] = strings.Join(strings.Fields(*req.Duration), " ")
			}
			if req.Cost != nil {
				set["cost"] = *req.Cost
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			return set, nil
		},
	}
	r.register(g)
}

// --- Supplements ---

type createSupplementRequest struct {
	Name        string   `json:"name" binding:"required,notblank"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int64   `json:"stock" binding:"omitempty,gte=0"`
}

type updateSupplementRequest struct {
	Name        *string  `json:"name" binding:"omitempty,notblank"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int64   `json:"stock" binding:"omitempty,gte=0"`
}

// RegisterSupplements mounts the admin supplement routes on g.
func (h *Handler) RegisterSupplements(g *gin.RouterGroup) {
	r := &resource[models.Supplement, createSupplementRequest, updateSupplementRequest]{
		h:      h,
		entity: "Supplement",
		coll:   h.Store.Supplements,
		build: func(_ *gin.Context, req *createSupplementRequest) (*models.Supplement, error) {
			s := &models.Supplement{
				Base:        models.NewBase(h.now()),
				Name:        strings.TrimSpace(req.Name),
				Description: req.Description,
				Price:       *req.Price,
			}
			if req.Stock != nil {
				s.Stock = *req.Stock
			}
			return s, nil
		},
		patch: func(_ *gin.Context, req *updateSupplementRequest) (bson.M, error) {
			set := bson.M{}
			if req.Name != nil {
				set["name"] = strings.TrimSpace(*req.Name)
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			if req.Price != nil {
				set["price"] = *req.Price
			}
			if req.Stock != nil {
				set["stock"] = *req.Stock
			}
			return set, nil
		},
	}
	r.register(g)
}

// --- Diet details ---

type createDietDetailRequest struct {
	Title   string `json:"title" binding:"required,notblank"`
	Content string `json:"content" binding:"required,notblank"`
}

type updateDietDetailRequest struct {
	Title   *string `json:"title" binding:"omitempty,notblank"`
	Content *string `json:"content" binding:"omitempty,notblank"`
}

// RegisterDietDetails mounts the admin diet detail routes on g.
func (h *Handler) RegisterDietDetails(g *gin.RouterGroup) {
	r := &resource[models.DietDetail, createDietDetailRequest, updateDietDetailRequest]{
		h:      h,
		entity: "Diet detail",
		coll:   h.Store.DietDetails,
		build: func(_ *gin.Context, req *createDietDetailRequest) (*models.DietDetail, error) {
			return &models.DietDetail{
				Base:    models.NewBase(h.now()),
				Title:   strings.TrimSpace(req.Title),
				Content: req.Content,
			}, nil
		},
		patch: func(_ *gin.Context, req *updateDietDetailRequest) (bson.M, error) {
			set := bson.M{}
			if req.Title != nil {
				set["title"] = strings.TrimSpace(*req.Title)
			}
			if req.Content != nil {
				set["content"] = *req.Content
			}
			return set, nil
		},
	}
	r.register(g)
}
