// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

/*
Package api provides the HTTP interface of the recommendation service.

# Response Format

Every endpoint except /metrics and /swagger answers with the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "VALIDATION_FAILED", "message": "...", "details": [...]},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Validation failures list every failed field with its JSON path in
error.details.

# Recommendation Jobs

POST /api/process-data does not run the pipeline inline. It validates the
questionnaire, queues a job and answers 202 with the job id:

	{"jobId": "5f0c...", "status": "queued"}

Poll GET /api/v1/jobs/{jobID} until the status is succeeded or failed,
then read GET /api/v1/users/{userID}/recommendations. A full queue answers
503 with code QUEUE_FULL and a Retry-After header.

The Idempotency-Key header, or the questionnaire id when the header is
absent, makes a resubmission store at most one recommendation set.

# Ratings

GET /api/v1/users/{userID}/songs/random offers unrated songs (limit 10 by
default, at most 50). POST /api/v1/users/{userID}/preferences stores a
rating; rating the same song again replaces it.

# Questionnaires

POST /api/v1/users/{userID}/questionnaires stores a submission and returns
its id with up to five earlier submissions. GET on the same path lists
them newest first.

# Catalog

POST /api/v1/catalog/songs upserts 1 to 1000 songs and invalidates the
cached catalog snapshot.

# API Docs

Swagger UI is served under /swagger/. Regenerate the docs package after
changing handler annotations:

	swag init -g cmd/server/docs.go -o docs --parseInternal
*/
package api
