// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/ridewise/internal/metrics"
	"github.com/tomtom215/ridewise/internal/recommend/algorithms"
)

// ModelMetadata describes a stored model.
type ModelMetadata struct {
	// RiderID owns the model.
	RiderID int64 `json:"rider_id"`

	// Version is the pipeline layout version.
	Version int `json:"version"`

	// TrainedAt is when the model was fitted.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was written.
	SavedAt time.Time `json:"saved_at"`

	// Samples is the number of training examples.
	Samples int `json:"samples"`

	// Checksum is the SHA-256 of the gob-encoded pipeline.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed pipeline size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedModel is the envelope written to the KV.
type storedModel struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// ModelStore keeps one algorithms.Pipeline per rider on top of a KV.
type ModelStore struct {
	kv  KV
	now func() time.Time
}

// NewModelStore creates a model store over kv.
func NewModelStore(kv KV) *ModelStore {
	return &ModelStore{kv: kv, now: time.Now}
}

// Backend returns the name of the underlying KV.
func (s *ModelStore) Backend() string {
	return s.kv.Name()
}

// Exists reports whether riderID has a stored model.
func (s *ModelStore) Exists(ctx context.Context, riderID int64) (bool, error) {
	start := time.Now()
	ok, err := s.kv.Has(ctx, RiderKey(riderID))
	s.record("exists", start, err)
	if err != nil {
		return false, fmt.Errorf("check model for rider %d: %w", riderID, err)
	}
	return ok, nil
}

// Save encodes and stores p for riderID, replacing any previous model.
func (s *ModelStore) Save(ctx context.Context, riderID int64, p *algorithms.Pipeline) error {
	start := time.Now()
	data, err := s.encode(riderID, p)
	if err != nil {
		return err
	}
	err = s.kv.Put(ctx, RiderKey(riderID), data)
	s.record("save", start, err)
	if err != nil {
		return fmt.Errorf("save model for rider %d: %w", riderID, err)
	}
	return nil
}

// Load returns the model for riderID. It returns ErrModelNotFound when absent and
// ErrCorruptModel when the stored bytes fail verification.
func (s *ModelStore) Load(ctx context.Context, riderID int64) (*algorithms.Pipeline, error) {
	p, _, err := s.LoadWithMetadata(ctx, riderID)
	return p, err
}

// LoadWithMetadata is Load that also returns the envelope metadata.
func (s *ModelStore) LoadWithMetadata(ctx context.Context, riderID int64) (*algorithms.Pipeline, *ModelMetadata, error) {
	start := time.Now()
	data, err := s.kv.Get(ctx, RiderKey(riderID))
	if errors.Is(err, ErrKeyNotFound) {
		s.record("load", start, nil)
		return nil, nil, fmt.Errorf("rider %d: %w", riderID, ErrModelNotFound)
	}
	s.record("load", start, err)
	if err != nil {
		return nil, nil, fmt.Errorf("load model for rider %d: %w", riderID, err)
	}

	p, meta, err := decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("rider %d: %w", riderID, err)
	}
	return p, meta, nil
}

// Invalidate deletes the model for riderID. An absent model is not an error.
func (s *ModelStore) Invalidate(ctx context.Context, riderID int64) error {
	start := time.Now()
	err := s.kv.Delete(ctx, RiderKey(riderID))
	s.record("invalidate", start, err)
	if err != nil {
		return fmt.Errorf("invalidate model for rider %d: %w", riderID, err)
	}
	return nil
}

// Ping checks that the backend answers.
func (s *ModelStore) Ping(ctx context.Context) error {
	_, err := s.kv.Has(ctx, "healthcheck")
	return err
}

// Close closes the underlying KV.
func (s *ModelStore) Close() error {
	return s.kv.Close()
}

func (s *ModelStore) record(op string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.RecordModelStoreOp(s.kv.Name(), op, result, time.Since(start))
}

func (s *ModelStore) encode(riderID int64, p *algorithms.Pipeline) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save invalid model: %w", err)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(p); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	envelope := storedModel{
		Metadata: ModelMetadata{
			RiderID:   riderID,
			Version:   p.Version,
			TrainedAt: p.TrainedAt,
			SavedAt:   s.now().UTC(),
			Samples:   p.Samples,
			Checksum:  hex.EncodeToString(hash[:]),
			SizeBytes: int64(compressed.Len()),
		},
		CompressedData: compressed.Bytes(),
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), nil
}

func decode(data []byte) (*algorithms.Pipeline, *ModelMetadata, error) {
	var envelope storedModel
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: read envelope: %v", ErrCorruptModel, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(envelope.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress: %v", ErrCorruptModel, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read decompressed data: %v", ErrCorruptModel, err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != envelope.Metadata.Checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s",
			ErrCorruptModel, envelope.Metadata.Checksum, checksum)
	}

	var p algorithms.Pipeline
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&p); err != nil {
		return nil, nil, fmt.Errorf("%w: decode model: %v", ErrCorruptModel, err)
	}
	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	return &p, &envelope.Metadata, nil
}
