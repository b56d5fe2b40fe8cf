package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
)

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalMembers int64   `json:"totalMembers"`
	TotalAdmins  int64   `json:"totalAdmins"`
	TotalUsers   int64   `json:"totalUsers"`
	PendingBills int64   `json:"pendingBills"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Report is the bulk account export.
type Report struct {
	Message     string        `json:"message"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Data        []models.User `json:"data"`
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		stats DashboardStats
		err   error
	)
	counts := []struct {
		dst  *int64
		coll func() (int64, error)
	}{
		{&stats.TotalMembers, func() (int64, error) { return h.Store.Users.Count(ctx, store.Filter{"role": models.RoleMember}) }},
		{&stats.TotalAdmins, func() (int64, error) { return h.Store.Users.Count(ctx, store.Filter{"role": models.RoleAdmin}) }},
		{&stats.TotalUsers, func() (int64, error) { return h.Store.Users.Count(ctx, store.Filter{"role": models.RoleUser}) }},
		{&stats.PendingBills, func() (int64, error) { return h.Store.Bills.Count(ctx, store.Filter{"status": models.BillPending}) }},
	}
	for _, count := range counts {
		if *count.dst, err = count.coll(); err != nil {
			h.fail(c, apperr.Server(err, "Server error fetching dashboard stats"))
			return
		}
	}
	stats.TotalRevenue, err = h.Store.Bills.Sum(ctx, store.Filter{"status": models.BillPaid}, "amount")
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching dashboard stats"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportReport returns every account. Password hashes never serialize.
func (h *Handler) ExportReport(c *gin.Context) {
	users, err := h.Store.Users.List(c.Request.Context(), nil)
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error during report export"))
		return
	}
	log.Info().Int("accounts", len(users)).Msg("report exported")
	c.JSON(http.StatusOK, Report{
		Message:     "Report generated",
		GeneratedAt: h.now(),
		Data:        users,
	})
}
