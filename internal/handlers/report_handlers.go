package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/models"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/report"
	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/services"
)

// reportCacheTTL keeps identical report queries from re-aggregating the
// whole book on every request. Exports always build fresh.
const reportCacheTTL = 5 * time.Minute

type ReportHandler struct {
	db      *gorm.DB
	fetcher *services.HistoryFetcher
	cache   *services.RedisCache
}

func NewReportHandler(db *gorm.DB, fetcher *services.HistoryFetcher, cache *services.RedisCache) *ReportHandler {
	return &ReportHandler{db: db, fetcher: fetcher, cache: cache}
}

func parseOptionalInt(value, field string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid %s %q", field, value))
	}
	return &n, nil
}

// parseReportOptions reads the shared filter/sort/section query parameters
// used by all three report endpoints.
func parseReportOptions(c echo.Context) (billing.ReportOptions, error) {
	var opts billing.ReportOptions

	opts.Criteria.Bucket = billing.StatusBucket(c.QueryParam("bucket"))
	opts.Criteria.IncludeZeroBalance = c.QueryParam("include_zero_balance") == "true"
	opts.Criteria.IncludePaid = c.QueryParam("include_paid") == "true"

	var err error
	if opts.Criteria.MinBalance, err = parseOptionalDecimal(c.QueryParam("min_balance"), "min balance"); err != nil {
		return opts, err
	}
	if opts.Criteria.MaxBalance, err = parseOptionalDecimal(c.QueryParam("max_balance"), "max balance"); err != nil {
		return opts, err
	}
	if opts.Criteria.MinDaysOverdue, err = parseOptionalInt(c.QueryParam("min_days_overdue"), "min days overdue"); err != nil {
		return opts, err
	}
	if opts.Criteria.MaxDaysOverdue, err = parseOptionalInt(c.QueryParam("max_days_overdue"), "max days overdue"); err != nil {
		return opts, err
	}
	if opts.Criteria.PaymentDateRange, err = parseDateRange(
		c.QueryParam("payments_from"), c.QueryParam("payments_to"), "payment date"); err != nil {
		return opts, err
	}
	if opts.Criteria.CallDateRange, err = parseDateRange(
		c.QueryParam("calls_from"), c.QueryParam("calls_to"), "call date"); err != nil {
		return opts, err
	}

	opts.SortField = billing.SortField(c.QueryParam("sort_by"))
	opts.SortDirection = billing.SortDirection(c.QueryParam("sort_order"))
	opts.GroupByStatus = c.QueryParam("group_by_status") == "true"
	opts.IncludeAging = c.QueryParam("include_aging") != "false"
	opts.IncludeContacts = c.QueryParam("include_contacts") == "true"
	opts.IncludeDetail = c.QueryParam("include_detail") != "false"
	return opts, nil
}

// buildReport loads the whole account book with history and aggregates it.
func (h *ReportHandler) buildReport(c echo.Context, opts billing.ReportOptions) (*billing.Report, error) {
	ctx := c.Request().Context()

	var accounts []models.Account
	if err := h.db.WithContext(ctx).Order("id asc").Find(&accounts).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch accounts")
	}
	records, err := h.fetcher.FetchRecords(ctx, accounts)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch account history")
	}

	rep, err := billing.BuildReport(records, opts, time.Now())
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return rep, nil
}

// GetReport returns the aggregated report as JSON, cached briefly per
// query-parameter combination.
func (h *ReportHandler) GetReport(c echo.Context) error {
	opts, err := parseReportOptions(c)
	if err != nil {
		return err
	}
	if err := opts.Criteria.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cacheKey := "report:" + c.QueryString()
	rep, err := services.GetOrSet(h.cache, c.Request().Context(), cacheKey, reportCacheTTL,
		func() (*billing.Report, error) {
			return h.buildReport(c, opts)
		})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

// ExportHTML renders the report as a printable HTML document.
func (h *ReportHandler) ExportHTML(c echo.Context) error {
	opts, err := parseReportOptions(c)
	if err != nil {
		return err
	}
	rep, err := h.buildReport(c, opts)
	if err != nil {
		return err
	}

	html, err := report.RenderHTML(report.RenderInput{
		Title:        "Accounts Report",
		PharmacyName: os.Getenv("PHARMACY_NAME"),
		GeneratedAt:  rep.GeneratedAt,
		Report:       rep,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render report")
	}

	filename := fmt.Sprintf("accounts-report-%s.html", uuid.NewString())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.HTML(http.StatusOK, html)
}

// ExportCSV streams the report's account rows as CSV.
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	opts, err := parseReportOptions(c)
	if err != nil {
		return err
	}
	opts.IncludeDetail = true // CSV is the detail rows
	rep, err := h.buildReport(c, opts)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("accounts-report-%s.csv", uuid.NewString())
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().WriteHeader(http.StatusOK)
	return report.WriteCSV(c.Response(), rep)
}
