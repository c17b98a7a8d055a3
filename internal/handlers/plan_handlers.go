package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

type PlanHandler struct {
	db       *gorm.DB
	accounts *services.AccountService
}

func NewPlanHandler(db *gorm.DB, accounts *services.AccountService) *PlanHandler {
	return &PlanHandler{db: db, accounts: accounts}
}

type dischargePlanRequest struct {
	PatientID   uint                   `json:"patient_id"`
	Hospital    string                 `json:"hospital"`
	Medications []models.MedicationRow `json:"medications"`
	Notes       string                 `json:"notes"`
	// Amount to put on the patient's account for the dispensed
	// medications, if billed on credit.
	ChargeAmount string `json:"charge_amount"`
}

// ListPlans returns discharge plans, newest first, optionally scoped to a
// patient.
func (h *PlanHandler) ListPlans(c echo.Context) error {
	query := h.db.Model(&models.DischargePlan{}).Preload("Patient").Order("created_at desc")
	if pid := c.QueryParam("patient_id"); pid != "" {
		query = query.Where("patient_id = ?", pid)
	}

	var plans []models.DischargePlan
	if err := query.Find(&plans).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch discharge plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan returns one discharge plan.
func (h *PlanHandler) GetPlan(c echo.Context) error {
	var plan models.DischargePlan
	if err := h.db.Preload("Patient").First(&plan, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Discharge plan not found")
	}
	return c.JSON(http.StatusOK, plan)
}

// StorePlan creates a discharge plan. The patient's account is opened on
// their first plan; an optional charge amount is billed to it.
func (h *PlanHandler) StorePlan(c echo.Context) error {
	var req dischargePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	var patient models.Patient
	if err := h.db.First(&patient, req.PatientID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	if len(req.Medications) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one medication row is required")
	}

	plan := models.DischargePlan{
		PatientID:   patient.ID,
		Hospital:    req.Hospital,
		Status:      models.DischargePlanStatusActive,
		Medications: req.Medications,
		Notes:       req.Notes,
	}
	if err := h.db.Create(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create discharge plan")
	}

	account, err := h.accounts.EnsureAccountForPatient(&patient)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open patient account")
	}

	if req.ChargeAmount != "" {
		amount, err := decimal.NewFromString(req.ChargeAmount)
		if err != nil || !amount.IsPositive() {
			return echo.NewHTTPError(http.StatusBadRequest, "Charge amount must be a positive decimal")
		}
		if _, err := h.accounts.AddCharge(account.ID, amount, time.Now()); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to bill account")
		}
	}

	return c.JSON(http.StatusCreated, plan)
}

// UpdatePlanStatus moves a plan between draft, active, and archived.
func (h *PlanHandler) UpdatePlanStatus(c echo.Context) error {
	var plan models.DischargePlan
	if err := h.db.First(&plan, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Discharge plan not found")
	}

	var req struct {
		Status models.DischargePlanStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	switch req.Status {
	case models.DischargePlanStatusDraft, models.DischargePlanStatusActive, models.DischargePlanStatusArchived:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown plan status")
	}

	plan.Status = req.Status
	if err := h.db.Save(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update plan")
	}
	return c.JSON(http.StatusOK, plan)
}
