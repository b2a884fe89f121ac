package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tagcore/pkg/domain"
)

// Projector maintains one published entity per tag record. Entities are
// published on creation and startup hydration, republished when a tag's last
// scan moves, and removed when the record is deleted.
//
// The entity id is derived from the tag's display name at the time the entity
// first appears and stays stable for the entity's lifetime, including across
// renames.
type Projector struct {
	sink   StateSink
	logger Logger

	mu      sync.Mutex
	tracked map[string]trackedEntity
	used    map[string]string
}

type trackedEntity struct {
	entityID    string
	lastScanned string
}

// NewProjector constructs a projector publishing to sink. A nil logger
// silences diagnostics.
func NewProjector(sink StateSink, logger Logger) *Projector {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Projector{
		sink:    sink,
		logger:  logger,
		tracked: make(map[string]trackedEntity),
		used:    make(map[string]string),
	}
}

// Hydrate publishes one entity per pre-existing record, in the order given.
func (p *Projector) Hydrate(ctx context.Context, tags []domain.Tag) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, tag := range tags {
		if err := p.appear(ctx, tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notify implements domain.Listener.
func (p *Projector) Notify(ctx context.Context, change domain.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch change.Kind {
	case domain.ChangeCreated:
		return p.appear(ctx, change.Tag)
	case domain.ChangeUpdated:
		entry, ok := p.tracked[change.Tag.ID]
		if !ok {
			return p.appear(ctx, change.Tag)
		}
		if entry.lastScanned == change.Tag.LastScanned {
			p.logger.Debug("suppressing entity update", "tag_id", change.Tag.ID, "entity_id", entry.entityID)
			return nil
		}
		entry.lastScanned = change.Tag.LastScanned
		p.tracked[change.Tag.ID] = entry
		return p.publish(ctx, entry.entityID, change.Tag)
	case domain.ChangeRemoved:
		entry, ok := p.tracked[change.Tag.ID]
		if !ok {
			return nil
		}
		delete(p.tracked, change.Tag.ID)
		delete(p.used, entry.entityID)
		if err := p.sink.Remove(ctx, entry.entityID); err != nil {
			return fmt.Errorf("remove entity %s: %w", entry.entityID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown change kind %q", change.Kind)
	}
}

// EntityIDFor returns the entity id tracked for a tag id.
func (p *Projector) EntityIDFor(tagID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.tracked[tagID]
	if !ok {
		return "", false
	}
	return entry.entityID, true
}

func (p *Projector) appear(ctx context.Context, tag domain.Tag) error {
	entityID := p.claimEntityID(tag)
	p.tracked[tag.ID] = trackedEntity{entityID: entityID, lastScanned: tag.LastScanned}
	return p.publish(ctx, entityID, tag)
}

func (p *Projector) publish(ctx context.Context, entityID string, tag domain.Tag) error {
	if err := p.sink.Publish(ctx, ProjectEntity(entityID, tag)); err != nil {
		return fmt.Errorf("publish entity %s: %w", entityID, err)
	}
	return nil
}

// claimEntityID reserves a slugged entity id for the tag, suffixing a counter
// when another tag already holds the base id.
func (p *Projector) claimEntityID(tag domain.Tag) string {
	base := EntityID(tag)
	candidate := base
	for n := 2; ; n++ {
		owner, taken := p.used[candidate]
		if !taken || owner == tag.ID {
			break
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	p.used[candidate] = tag.ID
	return candidate
}
