package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tushy123/minyan-now/internal/model"
)

// isUniqueViolation recognizes a duplicate (space_id, user_id) insert on both
// the production Postgres backend and the SQLite backend used in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Join adds the user to a space and increments its quorum count as one
// indivisible operation. The status and capacity checks are evaluated against
// the same locked snapshot the mutation applies to, so two simultaneous joins
// against the last free slot yield exactly one success and one ErrSpaceFull.
func (s *gormStore) Join(ctx context.Context, spaceID, userID string) error {
	lock := s.lockFor(spaceID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space model.Space
		if err := tx.First(&space, "id = ?", spaceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch space %s: %w", spaceID, err)
		}

		if space.Status != model.StatusOpen {
			return ErrSpaceClosed
		}
		if space.QuorumCount >= space.Capacity {
			return ErrSpaceFull
		}

		membership := model.Membership{
			SpaceID:  spaceID,
			UserID:   userID,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(&membership).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}

		if err := tx.Model(&model.Space{}).
			Where("id = ?", spaceID).
			UpdateColumn("quorum_count", gorm.Expr("quorum_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment quorum count: %w", err)
		}
		return nil
	})
}

// Leave removes the user's membership and decrements the quorum count
// atomically with the removal. Leaving a space the user never joined is a
// silent success.
func (s *gormStore) Leave(ctx context.Context, spaceID, userID string) error {
	lock := s.lockFor(spaceID)
	lock.Lock()
	defer lock.Unlock()

	return s.removeMembership(ctx, spaceID, userID)
}

// RemoveMember is the host-initiated variant of Leave.
func (s *gormStore) RemoveMember(ctx context.Context, spaceID, targetUserID, hostID string) error {
	lock := s.lockFor(spaceID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchOwnedSpace(tx, spaceID, hostID); err != nil {
			return err
		}
		return deleteMembership(tx, spaceID, targetUserID)
	})
}

// removeMembership runs the delete-and-decrement transaction. The caller must
// hold the space lock.
func (s *gormStore) removeMembership(ctx context.Context, spaceID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteMembership(tx, spaceID, userID)
	})
}

func deleteMembership(tx *gorm.DB, spaceID, userID string) error {
	res := tx.Delete(&model.Membership{}, "space_id = ? AND user_id = ?", spaceID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete membership: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Idempotent: nothing to remove, nothing to decrement.
		return nil
	}
	if err := tx.Model(&model.Space{}).
		Where("id = ? AND quorum_count > 0", spaceID).
		UpdateColumn("quorum_count", gorm.Expr("quorum_count - 1")).Error; err != nil {
		return fmt.Errorf("failed to decrement quorum count: %w", err)
	}
	return nil
}
