package dataset

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// combinedRow is one customer record from the combined dataset file before
// it is split into the four entity row sets.
type combinedRow struct {
	CustomerID     string
	SignupDate     time.Time
	Industry       string
	Region         string
	PlanType       string
	MonthlyRevenue int64 // cents
	Churned        bool
	RenewalDate    *time.Time
	SalesRep       string
	NPSScore       int
}

// ReadCombined reads the combined dataset file and splits it into the four
// entity row sets:
//
//   - one user per customer
//   - one plan per distinct plan type, priced at the median monthly revenue
//     observed for that type, billed monthly
//   - one subscription per customer, canceled when the churn flag is set,
//     with the renewal date as the end date of canceled subscriptions
//   - one NPS response per customer, surveyed at the renewal date when
//     present, otherwise at signup
func ReadCombined(path string) (*Dataset, error) {
	rows, err := readTable(path, parseCombinedRow)
	if err != nil {
		return nil, err
	}
	return split(rows), nil
}

func parseCombinedRow(r *record) (combinedRow, error) {
	var row combinedRow
	var err error

	if row.CustomerID, err = r.require("customer_id"); err != nil {
		return row, err
	}
	if row.SignupDate, err = r.date("signup_date"); err != nil {
		return row, err
	}
	if row.Industry, err = r.get("industry"); err != nil {
		return row, err
	}
	if row.Region, err = r.get("region"); err != nil {
		return row, err
	}
	if row.PlanType, err = r.require("plan_type"); err != nil {
		return row, err
	}
	revenue, err := r.require("monthly_revenue")
	if err != nil {
		return row, err
	}
	if row.MonthlyRevenue, err = parseCents(revenue); err != nil {
		return row, r.errorf("column %q: %v", "monthly_revenue", err)
	}
	churned, err := r.require("churned")
	if err != nil {
		return row, err
	}
	switch churned {
	case "0":
		row.Churned = false
	case "1":
		row.Churned = true
	default:
		return row, r.errorf("column %q: %q is not 0 or 1", "churned", churned)
	}
	if row.RenewalDate, err = r.optionalDate("renewal_date"); err != nil {
		return row, err
	}
	if row.SalesRep, err = r.get("sales_rep"); err != nil {
		return row, err
	}
	score, err := r.require("nps_score")
	if err != nil {
		return row, err
	}
	if row.NPSScore, err = strconv.Atoi(score); err != nil {
		return row, r.errorf("column %q: %q is not an integer", "nps_score", score)
	}
	return row, nil
}

func split(rows []combinedRow) *Dataset {
	ds := &Dataset{}
	revenueByPlan := map[string][]int64{}

	for _, row := range rows {
		ds.Users = append(ds.Users, UserRow{
			UserID:    row.CustomerID,
			CreatedAt: row.SignupDate,
			Industry:  row.Industry,
			Region:    row.Region,
			SalesRep:  row.SalesRep,
		})

		planID := PlanID(row.PlanType)
		revenueByPlan[row.PlanType] = append(revenueByPlan[row.PlanType], row.MonthlyRevenue)

		sub := SubscriptionRow{
			SubscriptionID: "sub_" + row.CustomerID,
			UserID:         row.CustomerID,
			PlanID:         planID,
			StartAt:        row.SignupDate,
			Status:         StatusActive,
		}
		if row.Churned {
			sub.Status = StatusCanceled
			sub.EndAt = row.RenewalDate
		}
		ds.Subscriptions = append(ds.Subscriptions, sub)

		surveyAt := row.SignupDate
		if row.RenewalDate != nil {
			surveyAt = *row.RenewalDate
		}
		ds.NPS = append(ds.NPS, NPSRow{
			NPSID:    "nps_" + row.CustomerID,
			UserID:   row.CustomerID,
			SurveyAt: surveyAt,
			Score:    row.NPSScore,
		})
	}

	for planType, revenues := range revenueByPlan {
		ds.Plans = append(ds.Plans, PlanRow{
			PlanID:        PlanID(planType),
			PlanName:      planType,
			PriceUSD:      formatCents(medianCents(revenues)),
			BillingPeriod: BillingMonthly,
		})
	}
	sort.Slice(ds.Plans, func(i, j int) bool { return ds.Plans[i].PlanID < ds.Plans[j].PlanID })

	return ds
}

// PlanID derives the plan key from a plan type, e.g. "Pro" -> "pro_m".
// The suffix marks the monthly billing period the combined dataset implies.
func PlanID(planType string) string {
	return strings.ToLower(strings.TrimSpace(planType)) + "_m"
}

// medianCents returns the median of the observed amounts. For an even count
// the two middle values are averaged, rounding half a cent up.
func medianCents(values []int64) int64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid] + 1) / 2
}
