package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"tagcore/internal/blob"
	"tagcore/pkg/domain"
)

// Service exposes the tag collection operations: CRUD, scan handling, startup
// hydration, and snapshot archival. All operations are instrumented through
// the configured audit recorder, metrics recorder, and tracer.
type Service struct {
	store     *Store
	bus       *EventBus
	sink      StateSink
	projector *Projector
	archive   blob.Store
	logger    Logger
	clock     Clock
	audit     AuditRecorder
	metrics   MetricsRecorder
	tracer    Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default slog logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock used for scan timestamps and audit
// entries.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAuditRecorder wires an audit recorder.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithMetricsRecorder wires a metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer wires a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithStateSink overrides the in-memory state sink entities publish to.
func WithStateSink(sink StateSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithArchiveStore wires the blob store ArchiveSnapshot writes to.
func WithArchiveStore(store blob.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.archive = store
		}
	}
}

// NewService constructs a service around the supplied store and registers the
// entity projector as the store's first listener.
func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		bus:     NewEventBus(),
		logger:  slog.Default(),
		clock:   ClockFunc(nil),
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sink == nil {
		s.sink = NewMemoryStateSink()
	}
	s.projector = NewProjector(s.sink, s.logger)
	store.AddListener(s.projector)
	return s
}

// Store returns the underlying collection.
func (s *Service) Store() *Store { return s.store }

// Subscribe registers a handler for scan events.
func (s *Service) Subscribe(h EventHandler) { s.bus.Subscribe(h) }

// Load hydrates the collection from persistence and publishes one entity per
// pre-existing record, in list order.
func (s *Service) Load(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := s.instrument(ctx, "load_tags", func(ctx context.Context) (string, error) {
		var err error
		tags, err = s.store.Load(ctx)
		if err != nil {
			return "", err
		}
		return "", s.projector.Hydrate(ctx, tags)
	})
	return tags, err
}

// ListTags returns all tags sorted by id.
func (s *Service) ListTags() []domain.Tag { return s.store.List() }

// GetTag retrieves a single tag by id.
func (s *Service) GetTag(id string) (domain.Tag, bool) { return s.store.Get(id) }

// CreateTag validates the payload and inserts a new record.
func (s *Service) CreateTag(ctx context.Context, payload domain.Payload) (domain.Tag, error) {
	var created domain.Tag
	err := s.instrument(ctx, "create_tag", func(ctx context.Context) (string, error) {
		var err error
		created, err = s.store.Create(ctx, payload)
		return created.ID, err
	})
	return created, err
}

// UpdateTag merges the patch onto an existing record.
func (s *Service) UpdateTag(ctx context.Context, id string, patch domain.Payload) (domain.Tag, error) {
	var updated domain.Tag
	err := s.instrument(ctx, "update_tag", func(ctx context.Context) (string, error) {
		var err error
		updated, err = s.store.Update(ctx, id, patch)
		return id, err
	})
	return updated, err
}

// DeleteTag removes a record and destroys its entity.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	return s.instrument(ctx, "delete_tag", func(ctx context.Context) (string, error) {
		return id, s.store.Delete(ctx, id)
	})
}

// Scan handles a tag scan stimulus. The scan event fires for every scan,
// including scans of unknown tags; afterwards the matching record is stamped
// with the scan time and scanning device, or created when the tag is new. The
// returned tag reflects the stored record after the scan.
//
// Event handler failures are logged and never fail the scan. Listener
// failures from the resulting mutation surface to the caller even though the
// mutation has been committed.
func (s *Service) Scan(ctx context.Context, tagID, deviceID string) (domain.Tag, error) {
	var result domain.Tag
	err := s.instrument(ctx, "scan_tag", func(ctx context.Context) (string, error) {
		if !s.store.Loaded() {
			return tagID, domain.ErrNotLoaded
		}
		if tagID == "" {
			return tagID, domain.ErrValidation{Field: domain.FieldID, Reason: "must not be empty"}
		}

		now := s.clock.Now().UTC()
		existing, known := s.store.Get(tagID)

		event := Event{Type: EventTagScanned, TagID: tagID, Time: now}
		if known && existing.Name != "" {
			name := existing.Name
			event.Name = &name
		}
		if deviceID != "" {
			device := deviceID
			event.DeviceID = &device
		}
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("scan event handler failed", "tag_id", tagID, "error", err)
		}

		payload := domain.Payload{
			domain.FieldLastScanned: now,
			domain.FieldDeviceID:    deviceID,
		}
		var err error
		if known {
			result, err = s.store.Update(ctx, tagID, payload)
		} else {
			payload[domain.FieldID] = tagID
			result, err = s.store.Create(ctx, payload)
		}
		return tagID, err
	})
	return result, err
}

// ArchiveSnapshot writes the current collection snapshot to the configured
// blob store and returns the stored object's metadata.
func (s *Service) ArchiveSnapshot(ctx context.Context) (blob.Info, error) {
	var info blob.Info
	err := s.instrument(ctx, "archive_snapshot", func(ctx context.Context) (string, error) {
		if s.archive == nil {
			return "", errors.New("no archive store configured")
		}
		if !s.store.Loaded() {
			return "", domain.ErrNotLoaded
		}
		data, err := json.MarshalIndent(s.store.ExportState(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode snapshot: %w", err)
		}
		key := fmt.Sprintf("snapshots/tags-%s.json", s.clock.Now().UTC().Format("20060102T150405Z"))
		info, err = s.archive.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/json"})
		if err != nil {
			return "", fmt.Errorf("archive snapshot: %w", err)
		}
		return "", nil
	})
	return info, err
}

func (s *Service) instrument(ctx context.Context, op string, fn func(context.Context) (string, error)) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	tagID, err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	entry := AuditEntry{
		Operation: op,
		TagID:     tagID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error("tag operation failed", "operation", op, "tag_id", tagID, "error", err)
	} else {
		s.logger.Debug("tag operation complete", "operation", op, "tag_id", tagID, "duration", duration)
	}
	s.audit.Record(ctx, entry)
	return err
}
