// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultHTTPShutdownTimeout = 10 * time.Second

// ErrServerExited is returned when the server stops listening without being
// asked to.
var ErrServerExited = errors.New("http server exited unexpectedly")

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Drainer finishes background work started by request handlers, such as
// review events still being published.
type Drainer interface {
	Wait(ctx context.Context) error
}

// HTTPServerService runs the API server under supervision. On cancellation it
// stops accepting requests and then drains, both inside one shutdown budget.
//
//	server := &http.Server{Addr: ":8080", Handler: router}
//	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second, handler))
type HTTPServerService struct {
	server          HTTPServer
	drainers        []Drainer
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, drainers ...Drainer) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultHTTPShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		drainers:        drainers,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	done := h.listen()

	select {
	case err := <-done:
		if err == nil {
			return ErrServerExited
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	if err := h.stop(done); err != nil {
		return err
	}
	return ctx.Err()
}

// listen runs ListenAndServe in the background. The channel yields the
// listen error, or nil once the server has been shut down.
func (h *HTTPServerService) listen() <-chan error {
	done := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()
	return done
}

// stop shuts the server down and waits for every drainer. The Serve context
// is already canceled, so stop works against its own deadline.
func (h *HTTPServerService) stop(done <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-done

	var errs []error
	for _, d := range h.drainers {
		if err := d.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("drain background work: %w", err)
	}
	return nil
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
