// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips the test when testcontainers cannot reach a healthy
// container provider.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// CleanupContainer terminates container and logs, rather than fails, on error.
// A nil container is ignored.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if err := testcontainers.TerminateContainer(container, testcontainers.StopContext(ctx)); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}

// startContainer starts req, which must expose exactly one port, and returns
// the container with its host:port endpoint. The container is terminated if
// the endpoint cannot be resolved.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest) (testcontainers.Container, string, error) {
	if len(req.ExposedPorts) != 1 {
		return nil, "", fmt.Errorf("start %s: want one exposed port, got %d", req.Image, len(req.ExposedPorts))
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start %s: %w", req.Image, err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, "", fmt.Errorf("%s endpoint: %w", req.Image, err)
	}
	return container, endpoint, nil
}
