package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

const dashboardCacheTTL = 2 * time.Minute

// DashboardHandler serves the landing-page summary numbers.
type DashboardHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewDashboardHandler(db *gorm.DB, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{db: db, cache: cache}
}

type dashboardStats struct {
	PatientCount     int64           `json:"patient_count"`
	ActivePlanCount  int64           `json:"active_plan_count"`
	OverdueAccounts  int64           `json:"overdue_accounts"`
	CurrentAccounts  int64           `json:"current_accounts"`
	PaidAccounts     int64           `json:"paid_accounts"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	CallsThisWeek    int64           `json:"calls_this_week"`
}

// Dashboard returns headline counts and totals, cached briefly.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := services.GetOrSet(h.cache, ctx, "dashboard:stats", dashboardCacheTTL,
		func() (dashboardStats, error) {
			var s dashboardStats

			if err := h.db.Model(&models.Patient{}).Count(&s.PatientCount).Error; err != nil {
				return s, err
			}
			if err := h.db.Model(&models.DischargePlan{}).
				Where("status = ?", models.DischargePlanStatusActive).
				Count(&s.ActivePlanCount).Error; err != nil {
				return s, err
			}

			counts := map[billing.AccountStatus]*int64{
				billing.StatusOverdue: &s.OverdueAccounts,
				billing.StatusCurrent: &s.CurrentAccounts,
				billing.StatusPaid:    &s.PaidAccounts,
			}
			for status, dest := range counts {
				if err := h.db.Model(&models.Account{}).
					Where("status = ?", status).
					Count(dest).Error; err != nil {
					return s, err
				}
			}

			var total struct{ Total decimal.Decimal }
			if err := h.db.Model(&models.Account{}).
				Select("COALESCE(SUM(total_owed), 0) AS total").
				Scan(&total).Error; err != nil {
				return s, err
			}
			s.TotalOutstanding = total.Total

			weekAgo := time.Now().AddDate(0, 0, -7)
			if err := h.db.Model(&models.CallLog{}).
				Where("call_date >= ?", weekAgo).
				Count(&s.CallsThisWeek).Error; err != nil {
				return s, err
			}
			return s, nil
		})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
