package postgres

const (
	findCommitQuery = `
		SELECT c.id, c.sha, c.coverage_threshold, c.condensed_status, r.id, r.org, r.name
		FROM commits c
		JOIN repositories r ON r.id = c.repository_id
		WHERE c.repository_id = $1 AND c.sha = $2;`

	updateCommitThresholdQuery = `UPDATE commits SET coverage_threshold = $2 WHERE id = $1;`

	updateCommitCondensedStatusQuery = `UPDATE commits SET condensed_status = $2 WHERE id = $1;`

	branchesWithHeadQuery = `
		SELECT id, repository_id, name, head_commit_id
		FROM branches
		WHERE head_commit_id = $1
		ORDER BY id;`

	findOrCreateCheckSetQuery = `
		INSERT INTO check_sets (commit_id, status, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (commit_id) DO UPDATE SET commit_id = EXCLUDED.commit_id
		RETURNING id, commit_id, status, job_id, canceling, error_kind, error_extra, updated_at;`

	findCheckSetQuery = `
		SELECT id, commit_id, status, job_id, canceling, error_kind, error_extra, updated_at
		FROM check_sets
		WHERE commit_id = $1;`

	updateCheckSetQuery = `
		UPDATE check_sets
		SET status = $2, job_id = $3, canceling = $4, error_kind = $5, error_extra = $6, updated_at = $7
		WHERE id = $1;`

	deleteIssuesQuery = `DELETE FROM issues WHERE check_id IN (SELECT id FROM checks WHERE check_set_id = $1);`

	deleteChecksQuery = `DELETE FROM checks WHERE check_set_id = $1;`

	insertCheckQuery = `
		INSERT INTO checks (check_set_id, plugin_name, plugin, status, started_at, finished_at, error_output)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`

	listChecksQuery = `
		SELECT id, check_set_id, plugin_name, plugin, status, started_at, finished_at, error_output
		FROM checks
		WHERE check_set_id = $1
		ORDER BY id;`

	findCheckQuery = `
		SELECT id, check_set_id, plugin_name, plugin, status, started_at, finished_at, error_output
		FROM checks
		WHERE check_set_id = $1 AND plugin_name = $2;`

	updateCheckQuery = `
		UPDATE checks
		SET status = $2, started_at = $3, finished_at = $4, error_output = $5
		WHERE id = $1;`

	countIssuesQuery = `
		SELECT COUNT(*)
		FROM issues i
		JOIN checks c ON c.id = i.check_id
		WHERE c.check_set_id = $1;`

	deleteCoverageInfoQuery = `DELETE FROM coverage_infos WHERE commit_id = $1;`

	insertCoverageInfoQuery = `
		INSERT INTO coverage_infos (commit_id, status)
		VALUES ($1, $2)
		RETURNING id;`

	findCoverageInfoQuery = `
		SELECT id, commit_id, status, lines_total, lines_covered, percent_covered
		FROM coverage_infos
		WHERE commit_id = $1;`

	updateCoverageInfoQuery = `
		UPDATE coverage_infos
		SET status = $2, lines_total = $3, lines_covered = $4, percent_covered = $5
		WHERE id = $1;`

	insertCoverageFileQuery = `
		INSERT INTO coverage_files
			(coverage_info_id, path, lines_total, lines_covered, lines_missed, percent_covered, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`

	findCoverageFileQuery = `
		SELECT id, coverage_info_id, path, lines_total, lines_covered, lines_missed, percent_covered, data
		FROM coverage_files
		WHERE coverage_info_id = $1 AND path = $2;`

	insertHistoryQuery = `
		INSERT INTO branch_histories (branch_id, commit_id, kind, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (branch_id, commit_id, kind)
		DO UPDATE SET value = EXCLUDED.value, recorded_at = EXCLUDED.recorded_at;`

	acquireLockQuery = `
		INSERT INTO locks (key, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
		WHERE locks.expires_at <= $4;`

	releaseLockQuery = `DELETE FROM locks WHERE key = $1 AND token = $2;`

	sweepLocksQuery = `DELETE FROM locks WHERE expires_at <= $1;`
)
