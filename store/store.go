package store

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/logic"
)

const tracerName = "github.com/RahulVervebot/pims-sub002/store"

// Store loads and saves whole collections by key.
type Store struct {
	backend  Backend
	codec    Codec
	upcaster *Upcaster
	log      *zap.Logger
	tracer   trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithCodec selects the persisted encoding. The default is JSONCodec.
func WithCodec(codec Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithUpcaster replaces DefaultUpcaster.
func WithUpcaster(upcaster *Upcaster) Option {
	return func(s *Store) {
		if upcaster != nil {
			s.upcaster = upcaster
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		codec:    JSONCodec{},
		upcaster: DefaultUpcaster(),
		log:      zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("codec", s.codec.Name()))
	return s
}

// Codec returns the codec the store writes with.
func (s *Store) Codec() Codec {
	return s.codec
}

// Load returns the collection stored under key.
//
// The returned slice is always usable. A key that was never written yields an
// empty slice and a nil error. A backend failure or an undecodable payload
// yields an empty slice and a *StoreError. Individual records that cannot be
// repaired are dropped and only logged.
func (s *Store) Load(ctx context.Context, key string) ([]logic.LineItem, error) {
	ctx, span := s.tracer.Start(ctx, "store.Load", trace.WithAttributes(
		attribute.String("store.key", key),
		attribute.String("store.codec", s.codec.Name()),
	))
	defer span.End()

	data, found, err := s.backend.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend read failed")
		return []logic.LineItem{}, readError(key, err)
	}
	if !found || len(data) == 0 {
		span.SetAttributes(attribute.Bool("store.found", false))
		return []logic.LineItem{}, nil
	}

	records, skipped, err := s.codec.Decode(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return []logic.LineItem{}, corruptError(key, err)
	}

	records = s.upcaster.Upcast(records)
	items := make([]logic.LineItem, 0, len(records))
	for _, rec := range records {
		item, ok := itemFromRecord(rec)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	items, merged := logic.Normalize(items)
	if skipped > 0 || merged > 0 {
		s.log.Warn("repaired stored collection",
			zap.String("key", key),
			zap.Int("skipped", skipped),
			zap.Int("merged", merged),
			zap.Int("items", len(items)),
		)
	}

	span.SetAttributes(
		attribute.Bool("store.found", true),
		attribute.Int("store.items", len(items)),
		attribute.Int("store.skipped", skipped+merged),
	)
	return items, nil
}

// Save overwrites the collection stored under key.
func (s *Store) Save(ctx context.Context, key string, items []logic.LineItem) error {
	ctx, span := s.tracer.Start(ctx, "store.Save", trace.WithAttributes(
		attribute.String("store.key", key),
		attribute.String("store.codec", s.codec.Name()),
		attribute.Int("store.items", len(items)),
	))
	defer span.End()

	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = recordFromItem(item)
	}
	data, err := s.codec.Encode(records)
	if err != nil {
		dropped := dropUnencodable(records)
		if len(dropped) == 0 {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode failed")
			return encodeError(key, err)
		}
		s.log.Warn("dropped unencodable payload fields",
			zap.String("key", key),
			zap.Strings("fields", dropped),
			zap.Error(err),
		)
		if data, err = s.codec.Encode(records); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode failed")
			return encodeError(key, err)
		}
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend write failed")
		return writeError(key, err)
	}
	span.SetAttributes(attribute.Int("store.bytes", len(data)))
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}
