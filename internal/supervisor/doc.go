// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package supervisor runs MoodMirror's long-lived services under suture v4.

	RootSupervisor ("moodmirror")
	├── StoreSupervisor ("store-layer")
	│   └── CheckpointService (duckdb and sqlite backends)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Services that return an error are restarted with suture's backoff. Events
are logged through sutureslog, which writes to the zerolog global logger
via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
