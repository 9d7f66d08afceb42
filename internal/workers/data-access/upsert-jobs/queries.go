// internal/workers/data-access/upsert-jobs/queries.go
package upsertjobs

// upsertJobSQL inserts or refreshes one job. xmax is zero only for a row
// this statement inserted, which tells created from updated.
const upsertJobSQL = `
INSERT INTO jobs (
	id, external_id, title, company, location, job_type, remote,
	experience_level, posted_date, payload, is_active, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11, $11)
ON CONFLICT (external_id) DO UPDATE SET
	title            = EXCLUDED.title,
	company          = EXCLUDED.company,
	location         = EXCLUDED.location,
	job_type         = EXCLUDED.job_type,
	remote           = EXCLUDED.remote,
	experience_level = EXCLUDED.experience_level,
	posted_date      = EXCLUDED.posted_date,
	payload          = EXCLUDED.payload,
	is_active        = TRUE,
	updated_at       = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted`

// deactivateStaleSQL flips rows absent from the latest refresh and not
// updated since the cutoff.
const deactivateStaleSQL = `
UPDATE jobs SET is_active = FALSE
WHERE is_active = TRUE
  AND updated_at < $1
  AND NOT (external_id = ANY($2))`

const listActiveSQL = `
SELECT payload FROM jobs
WHERE is_active = TRUE
ORDER BY posted_date DESC NULLS LAST, external_id`
