// Package dataset reads the SaaS customer CSV input into typed row sets,
// either from four per-entity files or by splitting the combined dataset
// file in memory before any table load begins.
package dataset

import "time"

// UserRow is one raw_users record.
type UserRow struct {
	UserID    string
	CreatedAt time.Time
	Industry  string
	Region    string
	SalesRep  string
}

// PlanRow is one raw_plans record. PriceUSD is kept as a validated decimal
// string with two fraction digits and handed to Postgres as text for the
// NUMERIC(10,2) column.
type PlanRow struct {
	PlanID        string
	PlanName      string
	PriceUSD      string
	BillingPeriod string
}

// SubscriptionRow is one raw_subscriptions record.
// EndAt and CancelReason are optional.
type SubscriptionRow struct {
	SubscriptionID string
	UserID         string
	PlanID         string
	StartAt        time.Time
	EndAt          *time.Time
	Status         string
	CancelReason   *string
}

// NPSRow is one raw_nps record.
type NPSRow struct {
	NPSID    string
	UserID   string
	SurveyAt time.Time
	Score    int
}

// Dataset holds the four row sets in foreign key dependency order.
type Dataset struct {
	Users         []UserRow
	Plans         []PlanRow
	Subscriptions []SubscriptionRow
	NPS           []NPSRow
}

// Closed value sets enforced before rows reach the database, so a typo
// fails with file and row context instead of a bare CHECK violation.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"

	BillingMonthly = "monthly"
	BillingAnnual  = "annual"
)

// Per-entity input file names.
const (
	UsersFile         = "users.csv"
	PlansFile         = "plans.csv"
	SubscriptionsFile = "subscriptions.csv"
	NPSFile           = "nps.csv"
)
