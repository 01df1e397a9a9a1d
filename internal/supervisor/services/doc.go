// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

// Package services adapts Ridewise components to suture.Service.
//
// Each wrapper turns a component lifecycle (ListenAndServe/Shutdown, periodic
// maintenance) into a context-aware Serve method that returns ctx.Err() on
// cancellation and implements fmt.Stringer for supervisor logs.
package services
