// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

/*
Package supervisor runs the long-lived Ridewise services under a suture v4
supervisor tree.

	RootSupervisor ("ridewise")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService (badger model store only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── InvalidationConsumer
	│   └── ReviewFeed (if KAFKA_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Supervisor events are logged through sutureslog on the slog handler that
internal/logging backs with zerolog.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	if _, err := tree.Add(supervisor.LayerMessaging, consumer); err != nil {
	    return err
	}
	if _, err := tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second, handler)); err != nil {
	    return err
	}
	return tree.Serve(ctx)
*/
package supervisor
