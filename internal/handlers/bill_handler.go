package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/models"
)

type createBillRequest struct {
	MemberID string            `json:"memberId" binding:"required"`
	Amount   *float64          `json:"amount" binding:"required,gte=0"`
	Date     string            `json:"date" binding:"required"`
	Status   models.BillStatus `json:"status" binding:"omitempty,oneof=Pending Paid Due"`
}

type updateBillRequest struct {
	Amount *float64           `json:"amount" binding:"omitempty,gte=0"`
	Date   *string            `json:"date"`
	Status *models.BillStatus `json:"status" binding:"omitempty,oneof=Pending Paid Due"`
}

// billView is a bill with its owner expanded to {id, username, role}.
// Member is null when the owning account no longer exists.
type billView struct {
	models.Bill
	Member *models.UserSummary `json:"member"`
}

func (h *Handler) billResource() *resource[models.Bill, createBillRequest, updateBillRequest] {
	return &resource[models.Bill, createBillRequest, updateBillRequest]{
		h:       h,
		entity:  "Bill",
		coll:    h.Store.Bills,
		build:   h.buildBill,
		patch:   patchBill,
		present: func(c *gin.Context, docs []models.Bill) ([]any, error) { return h.billViews(c.Request.Context(), docs) },
	}
}

// RegisterBills mounts the admin bill routes on g.
func (h *Handler) RegisterBills(g *gin.RouterGroup) {
	h.billResource().register(g)
}

func (h *Handler) buildBill(c *gin.Context, req *createBillRequest) (*models.Bill, error) {
	member, err := h.nonAdminAccount(c.Request.Context(), req.MemberID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("Invalid bill date: %q", req.Date)
	}
	status := req.Status
	if status == "" {
		status = models.BillPending
	}
	return &models.Bill{
		Base:   models.NewBase(h.now()),
		Member: member.ID,
		Amount: *req.Amount,
		Date:   date,
		Status: status,
	}, nil
}

func patchBill(_ *gin.Context, req *updateBillRequest) (bson.M, error) {
	set := bson.M{}
	if req.Amount != nil {
		set["amount"] = *req.Amount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, apperr.Validation("Invalid bill date: %q", *req.Date)
		}
		set["date"] = date
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	return set, nil
}

func (h *Handler) billViews(ctx context.Context, bills []models.Bill) ([]any, error) {
	ids := make([]primitive.ObjectID, len(bills))
	for i := range bills {
		ids[i] = bills[i].Member
	}
	owners, err := h.accountSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(bills))
	for i := range bills {
		view := billView{Bill: bills[i]}
		if owner, ok := owners[bills[i].Member]; ok {
			view.Member = &owner
		}
		out[i] = view
	}
	return out, nil
}
