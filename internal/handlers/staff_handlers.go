package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

type staffRequest struct {
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  models.StaffRole `json:"role"`
}

func (r staffRequest) validate() error {
	if r.Name == "" || r.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}
	switch r.Role {
	case models.StaffRoleAdmin, models.StaffRolePharmacist, models.StaffRoleAccounts:
		return nil
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown staff role")
	}
}

// ListStaff returns all staff users
func (h *StaffHandler) ListStaff(c echo.Context) error {
	var staff []models.StaffUser
	if err := h.db.Order("name asc").Find(&staff).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch staff")
	}
	return c.JSON(http.StatusOK, staff)
}

// StoreStaff handles the creation of a new staff user
func (h *StaffHandler) StoreStaff(c echo.Context) error {
	var req staffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := req.validate(); err != nil {
		return err
	}

	staff := models.StaffUser{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := h.db.Create(&staff).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create staff user")
	}
	return c.JSON(http.StatusCreated, staff)
}

// UpdateStaff handles updating an existing staff user
func (h *StaffHandler) UpdateStaff(c echo.Context) error {
	var staff models.StaffUser
	if err := h.db.First(&staff, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Staff user not found")
	}

	var req staffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := req.validate(); err != nil {
		return err
	}

	staff.Name = req.Name
	staff.Email = req.Email
	staff.Role = req.Role
	if err := h.db.Save(&staff).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update staff user")
	}
	return c.JSON(http.StatusOK, staff)
}

// DeleteStaff handles deleting a staff user
func (h *StaffHandler) DeleteStaff(c echo.Context) error {
	if err := h.db.Delete(&models.StaffUser{}, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete staff user")
	}
	return c.NoContent(http.StatusNoContent)
}
