// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

// General API information for swag. Regenerate the docs package with:
//
//	swag init -g cmd/server/docs.go -o docs --parseInternal
//
// @title Soundcluster API
// @version 1.0
// @description Questionnaire-driven song recommendations. A process-data call queues a
// @description pipeline run that clusters the catalog by audio features, scores every
// @description unrated song against the listener's taste and stores one capped list.
// @description
// @description All responses use the envelope `{success, data, error, meta}`. Errors carry
// @description `error.code`, for example `VALIDATION_FAILED` or `QUEUE_FULL`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/soundcluster/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness checks
//
// @tag.name Recommendations
// @tag.description Pipeline submission, job status and stored recommendation sets
//
// @tag.name Preferences
// @tag.description Song likes and dislikes
//
// @tag.name Questionnaires
// @tag.description Questionnaire submissions and history
//
// @tag.name Catalog
// @tag.description Song catalog maintenance and sampling
package main
