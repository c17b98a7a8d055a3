package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

type patientRequest struct {
	Name        string `json:"name"`
	MRN         string `json:"mrn"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

// ListPatients returns all patients, optionally filtered by a name or MRN
// search term.
func (h *PatientHandler) ListPatients(c echo.Context) error {
	query := h.db.Model(&models.Patient{}).Order("name asc")

	if search := c.QueryParam("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR mrn ILIKE ?", like, like)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch patients")
	}
	return c.JSON(http.StatusOK, patients)
}

// GetPatient returns one patient with their discharge plans and account.
func (h *PatientHandler) GetPatient(c echo.Context) error {
	var patient models.Patient
	err := h.db.Preload("DischargePlans").Preload("Account").First(&patient, c.Param("id")).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	return c.JSON(http.StatusOK, patient)
}

// StorePatient creates a new patient record.
func (h *PatientHandler) StorePatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Name == "" || req.MRN == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and MRN are required")
	}
	dob, err := parseOptionalDate(req.DateOfBirth, "date of birth")
	if err != nil {
		return err
	}

	patient := models.Patient{
		Name:        req.Name,
		MRN:         req.MRN,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: dob,
	}
	if err := h.db.Create(&patient).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create patient")
	}
	return c.JSON(http.StatusCreated, patient)
}

// UpdatePatient updates a patient's contact details. The denormalized
// copy on the account follows in the same transaction.
func (h *PatientHandler) UpdatePatient(c echo.Context) error {
	var patient models.Patient
	if err := h.db.First(&patient, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}

	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Name == "" || req.MRN == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and MRN are required")
	}
	dob, err := parseOptionalDate(req.DateOfBirth, "date of birth")
	if err != nil {
		return err
	}

	patient.Name = req.Name
	patient.MRN = req.MRN
	patient.Phone = req.Phone
	patient.Address = req.Address
	patient.DateOfBirth = dob

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&patient).Error; err != nil {
			return err
		}
		return tx.Model(&models.Account{}).
			Where("patient_id = ?", patient.ID).
			Updates(map[string]interface{}{
				"patient_name": patient.Name,
				"mrn":          patient.MRN,
				"phone":        patient.Phone,
			}).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update patient")
	}
	return c.JSON(http.StatusOK, patient)
}
