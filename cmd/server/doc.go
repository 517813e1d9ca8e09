// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Command server runs the MoodMirror reaction statistics service.

	RootSupervisor ("moodmirror")
	├── StoreSupervisor ("store-layer")
	│   └── CheckpointService (duckdb and sqlite)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Initialization order:

 1. Configuration: koanf with defaults, optional YAML file and environment
 2. Logging: zerolog, JSON or console
 3. Reaction store: duckdb (default), sqlite or supabase, behind a circuit breaker
 4. Content manifest (optional): enables content rotation and catalog checks
 5. Ingestion gateway with the per-source fixed-window limiter
 6. Ranking service, router and supervisor tree

Core environment variables:

	HTTP_PORT=8080
	STORE_BACKEND=duckdb            # duckdb, sqlite or supabase
	DUCKDB_PATH=/data/moodmirror.duckdb
	SUPABASE_URL=https://<project>.supabase.co
	SUPABASE_SERVICE_ROLE_KEY=<key>
	RATE_LIMIT_MAX=10               # submissions per source per window
	RATE_LIMIT_WINDOW=60s
	MANIFEST_PATH=/content/content-manifest.json
	REQUIRE_KNOWN_CONTENT=false
	LOG_LEVEL=info
	LOG_FORMAT=json

SIGINT and SIGTERM stop the tree; the HTTP server drains for
SHUTDOWN_TIMEOUT before the store is checkpointed and closed.
*/
package main
