package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

type AccountHandler struct {
	db       *gorm.DB
	accounts *services.AccountService
}

func NewAccountHandler(db *gorm.DB, accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{db: db, accounts: accounts}
}

// ListAccounts returns a page of accounts with filtering and sorting.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	// Parse query parameters
	status := c.QueryParam("status")
	if status == "" {
		status = "all"
	}
	sortBy := c.QueryParam("sort_by")
	if sortBy == "" {
		sortBy = "name"
	}
	sortOrder := c.QueryParam("sort_order")
	if sortOrder != "desc" {
		sortOrder = "asc"
	}

	// Parse pagination parameters
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20 // Items per page

	minBalance, err := parseOptionalDecimal(c.QueryParam("min_balance"), "min balance")
	if err != nil {
		return err
	}
	maxBalance, err := parseOptionalDecimal(c.QueryParam("max_balance"), "max balance")
	if err != nil {
		return err
	}
	if minBalance != nil && maxBalance != nil && minBalance.GreaterThan(*maxBalance) {
		return echo.NewHTTPError(http.StatusBadRequest, "Min balance exceeds max balance")
	}

	// Build base query with filters
	query := h.db.Model(&models.Account{})
	switch status {
	case "all":
	case string(billing.StatusOverdue), string(billing.StatusCurrent), string(billing.StatusPaid):
		query = query.Where("status = ?", status)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown status filter")
	}
	if minBalance != nil {
		query = query.Where("total_owed >= ?", minBalance)
	}
	if maxBalance != nil {
		query = query.Where("total_owed <= ?", maxBalance)
	}

	// Get total count for pagination
	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count accounts")
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * pageSize

	// Apply sorting
	switch sortBy {
	case "amount":
		query = query.Order("total_owed " + sortOrder)
	case "name":
		query = query.Order("patient_name " + sortOrder)
	case "due_date":
		query = query.Order("due_date " + sortOrder)
	case "status":
		// Fixed status order: overdue, current, paid
		query = query.Order("CASE status WHEN 'overdue' THEN 0 WHEN 'current' THEN 1 ELSE 2 END " + sortOrder)
	default:
		query = query.Order("id " + sortOrder)
	}

	var accounts []models.Account
	if err := query.Limit(pageSize).Offset(offset).Find(&accounts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch accounts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"accounts":     accounts,
		"current_page": page,
		"total_pages":  totalPages,
		"total_count":  totalCount,
		"page_size":    pageSize,
	})
}

// GetAccount returns one account with its payment and call history,
// optionally windowed by date range and always newest first.
func (h *AccountHandler) GetAccount(c echo.Context) error {
	var account models.Account
	err := h.db.Preload("Payments").Preload("CallLogs").First(&account, c.Param("id")).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Account not found")
	}

	paymentRange, err := parseDateRange(
		c.QueryParam("payments_from"), c.QueryParam("payments_to"), "payment date")
	if err != nil {
		return err
	}
	callRange, err := parseDateRange(
		c.QueryParam("calls_from"), c.QueryParam("calls_to"), "call date")
	if err != nil {
		return err
	}

	rec := account.ToRecord()
	rec.Payments = billing.FilterPayments(rec.Payments, paymentRange)
	rec.Calls = billing.FilterCalls(rec.Calls, callRange)

	res := rec.StatusAt(time.Now())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"account":            account,
		"status":             res.Status,
		"effective_due_date": res.EffectiveDueDate,
		"days_overdue":       rec.DaysOverdueAt(time.Now()),
		"payments":           rec.Payments,
		"calls":              rec.Calls,
	})
}

type recordPaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Method      string `json:"method"`
	Notes       string `json:"notes"`
}

// RecordPayment records a payment against the account and returns the
// updated account alongside the payment row.
func (h *AccountHandler) RecordPayment(c echo.Context) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid account ID")
	}

	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment amount")
	}
	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := parseDate(req.PaymentDate, "payment date")
		if err != nil {
			return err
		}
		paymentDate = parsed
	}

	payment, err := h.accounts.RecordPayment(
		uint(accountID), amount, paymentDate, models.PaymentMethod(req.Method), req.Notes, time.Now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var account models.Account
	if err := h.db.First(&account, accountID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reload account")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"payment": payment,
		"account": account,
	})
}

// UpdateDueDate sets or clears the account's explicit due date.
func (h *AccountHandler) UpdateDueDate(c echo.Context) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid account ID")
	}

	var req struct {
		DueDate string `json:"due_date"` // empty clears the explicit date
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	dueDate, err := parseOptionalDate(req.DueDate, "due date")
	if err != nil {
		return err
	}

	account, err := h.accounts.UpdateDueDate(uint(accountID), dueDate, time.Now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update due date")
	}
	return c.JSON(http.StatusOK, account)
}

// AddCall records a phone contact against the account.
func (h *AccountHandler) AddCall(c echo.Context) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid account ID")
	}

	var req struct {
		CallDate string `json:"call_date"`
		Comments string `json:"comments"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	callDate := time.Now()
	if req.CallDate != "" {
		parsed, err := parseDate(req.CallDate, "call date")
		if err != nil {
			return err
		}
		callDate = parsed
	}

	entry, err := h.accounts.AddCallLog(uint(accountID), callDate, req.Comments, getStringFromContext(c, "staffName"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}
