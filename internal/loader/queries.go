package loader

// Upsert statements for the four raw tables. ON CONFLICT on the primary
// key makes every load idempotent: re-running over the same input updates
// rows in place instead of failing.
const (
	upsertUserSQL = `
		INSERT INTO raw.raw_users (user_id, created_at, industry, region, sales_rep)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			industry   = EXCLUDED.industry,
			region     = EXCLUDED.region,
			sales_rep  = EXCLUDED.sales_rep`

	upsertPlanSQL = `
		INSERT INTO raw.raw_plans (plan_id, plan_name, price_usd, billing_period)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plan_id) DO UPDATE SET
			plan_name      = EXCLUDED.plan_name,
			price_usd      = EXCLUDED.price_usd,
			billing_period = EXCLUDED.billing_period`

	upsertSubscriptionSQL = `
		INSERT INTO raw.raw_subscriptions
			(subscription_id, user_id, plan_id, start_at, end_at, status, cancel_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subscription_id) DO UPDATE SET
			user_id       = EXCLUDED.user_id,
			plan_id       = EXCLUDED.plan_id,
			start_at      = EXCLUDED.start_at,
			end_at        = EXCLUDED.end_at,
			status        = EXCLUDED.status,
			cancel_reason = EXCLUDED.cancel_reason`

	upsertNPSSQL = `
		INSERT INTO raw.raw_nps (nps_id, user_id, survey_at, nps_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (nps_id) DO UPDATE SET
			user_id   = EXCLUDED.user_id,
			survey_at = EXCLUDED.survey_at,
			nps_score = EXCLUDED.nps_score`
)

// anyUsersSQL drives the skip-if-loaded check: a non-empty raw_users table
// means a previous run completed and the load short-circuits unless a
// force reload was requested.
const anyUsersSQL = `SELECT EXISTS (SELECT 1 FROM raw.raw_users)`

// upsertRunLogSQL records the load watermark. One row per pipeline,
// overwritten on every successful run.
const upsertRunLogSQL = `
	INSERT INTO raw.raw_etl_run_log (pipeline, run_id, last_run_at)
	VALUES ($1, $2, now())
	ON CONFLICT (pipeline) DO UPDATE SET
		run_id      = EXCLUDED.run_id,
		last_run_at = EXCLUDED.last_run_at`
