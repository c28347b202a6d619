package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushy123/minyan-now/internal/model"
)

// CreateSpaceInput carries the fields a host supplies when opening a space.
type CreateSpaceInput struct {
	Tefillah     model.Tefillah
	StartTime    time.Time
	Lat          float64
	Lng          float64
	Address      *string
	Notes        *string
	Capacity     int
	PresenceRule *string
	HostID       string
}

// SpaceUpdate carries the host-editable fields. Nil means "leave unchanged".
type SpaceUpdate struct {
	StartTime *time.Time
	Address   *string
	Notes     *string
	Capacity  *int
	Status    *model.SpaceStatus
}

func (in *CreateSpaceInput) validate() error {
	if !in.Tefillah.Valid() {
		return fmt.Errorf("%w: unknown tefillah %q", ErrValidation, in.Tefillah)
	}
	if in.Lat < -90 || in.Lat > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if in.Lng < -180 || in.Lng > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	if in.Capacity < 1 || in.Capacity > 100 {
		return fmt.Errorf("%w: capacity must be between 1 and 100", ErrValidation)
	}
	if in.StartTime.Before(time.Now()) {
		return fmt.Errorf("%w: start time must be in the future", ErrValidation)
	}
	if in.Address != nil && len(*in.Address) > 500 {
		return fmt.Errorf("%w: address too long", ErrValidation)
	}
	if in.Notes != nil && len(*in.Notes) > 1000 {
		return fmt.Errorf("%w: notes too long", ErrValidation)
	}
	if in.PresenceRule != nil && len(*in.PresenceRule) > 500 {
		return fmt.Errorf("%w: presence rule too long", ErrValidation)
	}
	if _, err := uuid.Parse(in.HostID); err != nil {
		return fmt.Errorf("%w: host id is not a valid uuid", ErrValidation)
	}
	return nil
}

// CreateSpace validates the input and persists a new OPEN space with an empty
// quorum.
func (s *gormStore) CreateSpace(ctx context.Context, input CreateSpaceInput) (*model.Space, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	space := model.Space{
		ID:           uuid.NewString(),
		Tefillah:     input.Tefillah,
		StartTime:    input.StartTime,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Address:      input.Address,
		Notes:        input.Notes,
		Status:       model.StatusOpen,
		Capacity:     input.Capacity,
		QuorumCount:  0,
		PresenceRule: input.PresenceRule,
		HostID:       input.HostID,
	}
	if err := s.db.WithContext(ctx).Create(&space).Error; err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return &space, nil
}

// fetchOwnedSpace loads a space inside tx and verifies the acting user hosts it.
func fetchOwnedSpace(tx *gorm.DB, id, hostID string) (*model.Space, error) {
	var space model.Space
	if err := tx.First(&space, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch space %s: %w", id, err)
	}
	if space.HostID != hostID {
		return nil, ErrUnauthorized
	}
	return &space, nil
}

// UpdateSpace applies host edits. Status transitions are monotonic: once a
// space has left OPEN no further transition is accepted.
func (s *gormStore) UpdateSpace(ctx context.Context, id, hostID string, updates SpaceUpdate) (*model.Space, error) {
	if updates.Capacity != nil && (*updates.Capacity < 1 || *updates.Capacity > 100) {
		return nil, fmt.Errorf("%w: capacity must be between 1 and 100", ErrValidation)
	}
	if updates.Status != nil {
		switch *updates.Status {
		case model.StatusOpen, model.StatusLocked, model.StatusStarted, model.StatusCancelled, model.StatusExpired:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *updates.Status)
		}
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	var updated *model.Space
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		space, err := fetchOwnedSpace(tx, id, hostID)
		if err != nil {
			return err
		}

		if updates.StartTime != nil {
			space.StartTime = *updates.StartTime
		}
		if updates.Address != nil {
			space.Address = updates.Address
		}
		if updates.Notes != nil {
			space.Notes = updates.Notes
		}
		if updates.Capacity != nil {
			if *updates.Capacity < space.QuorumCount {
				return fmt.Errorf("%w: capacity below current quorum count", ErrValidation)
			}
			space.Capacity = *updates.Capacity
		}
		if updates.Status != nil && *updates.Status != space.Status {
			if space.Status.Terminal() {
				return ErrSpaceClosed
			}
			space.Status = *updates.Status
		}

		if err := tx.Save(space).Error; err != nil {
			return fmt.Errorf("failed to update space %s: %w", id, err)
		}
		updated = space
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelSpace moves an OPEN space to CANCELLED. Cancelling a space that has
// already reached a terminal state fails with ErrSpaceClosed.
func (s *gormStore) CancelSpace(ctx context.Context, id, hostID string) (*model.Space, error) {
	cancelled := model.StatusCancelled
	return s.UpdateSpace(ctx, id, hostID, SpaceUpdate{Status: &cancelled})
}

// DeleteSpace removes a space and its memberships.
func (s *gormStore) DeleteSpace(ctx context.Context, id, hostID string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwnedSpace(tx, id, hostID); err != nil {
			return err
		}
		if err := tx.Delete(&model.Membership{}, "space_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete memberships for space %s: %w", id, err)
		}
		if err := tx.Delete(&model.Space{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete space %s: %w", id, err)
		}
		return nil
	})
}
