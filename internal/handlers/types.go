package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/AutoMateAu/TerryWhite-Automations-sub000/internal/billing"
)

// dateLayout is the wire format for all date-only fields.
const dateLayout = "2006-01-02"

// parseDate rejects malformed dates with a 400 rather than defaulting
// them silently.
func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid %s %q, expected YYYY-MM-DD", field, value))
	}
	return t, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalDecimal(value, field string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid %s %q", field, value))
	}
	return &d, nil
}

func parseDateRange(startStr, endStr, field string) (*billing.DateRange, error) {
	if startStr == "" && endStr == "" {
		return nil, nil
	}
	if startStr == "" || endStr == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Both ends of the %s range are required", field))
	}
	start, err := parseDate(startStr, field+" start")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endStr, field+" end")
	if err != nil {
		return nil, err
	}
	r := billing.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &r, nil
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}
