// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package recommend

import "errors"

var (
	// ErrInvalidScore is returned by Predictor.Score for NaN or infinite output.
	ErrInvalidScore = errors.New("invalid score")

	// ErrPersistFailed is returned by Trainer.Train when every save attempt failed.
	ErrPersistFailed = errors.New("model persistence failed")

	// ErrMissingDependency is returned by NewEngine when a collaborator is nil.
	ErrMissingDependency = errors.New("missing dependency")
)
