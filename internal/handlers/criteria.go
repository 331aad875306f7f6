package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sfpurchasing/internal/errors"
	"sfpurchasing/internal/models"
	"sfpurchasing/internal/refdata"
)

// criteriaFromQuery builds FilterCriteria from dashboard query params.
// Absent or "all" params leave the corresponding filter inactive. The
// department param accepts a display name or a code; commodity and vendor
// must be known titles/names.
func criteriaFromQuery(q url.Values) (models.FilterCriteria, *errors.AppError) {
	criteria := models.FilterCriteria{
		MaxDaysAfterPurchase: refdata.DefaultTimeWindowDays,
	}

	if raw := q.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, errors.BadRequest(fmt.Sprintf("invalid days value %q", raw))
		}
		if !refdata.ValidTimeWindow(days) {
			return criteria, errors.BadRequest(fmt.Sprintf("days must be one of %v", refdata.TimeWindows()))
		}
		criteria.MaxDaysAfterPurchase = days
	}

	if dept := q.Get("department"); !isAllSentinel(dept) {
		if code, ok := refdata.DepartmentCode(dept); ok {
			criteria.Department = code
		} else if refdata.ValidDepartmentCode(dept) {
			criteria.Department = dept
		} else {
			return criteria, errors.BadRequest(fmt.Sprintf("unknown department %q", dept))
		}
	}

	if commodity := q.Get("commodity"); !isAllSentinel(commodity) {
		if !refdata.ValidCommodity(commodity) {
			return criteria, errors.BadRequest(fmt.Sprintf("unknown commodity %q", commodity))
		}
		criteria.CommodityTitle = commodity
	}

	if vendor := q.Get("vendor"); !isAllSentinel(vendor) {
		if !refdata.ValidVendor(vendor) {
			return criteria, errors.BadRequest(fmt.Sprintf("unknown vendor %q", vendor))
		}
		criteria.VendorName = vendor
	}

	return criteria, nil
}

func isAllSentinel(value string) bool {
	return value == "" || strings.EqualFold(value, "all")
}
