package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tushy123/minyan-now/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Space reads. Read paths may serve slightly stale data; the write path
	// below is serialized per space.
	GetSpace(ctx context.Context, id string) (*model.Space, error)
	ListSpaces(ctx context.Context) ([]model.Space, error)
	ListOfficialMinyanim(ctx context.Context) ([]model.OfficialMinyan, error)

	// Space writes, host-only where a hostID is taken.
	CreateSpace(ctx context.Context, input CreateSpaceInput) (*model.Space, error)
	UpdateSpace(ctx context.Context, id, hostID string, updates SpaceUpdate) (*model.Space, error)
	CancelSpace(ctx context.Context, id, hostID string) (*model.Space, error)
	DeleteSpace(ctx context.Context, id, hostID string) error

	// Membership coordination. These are the only writers of quorum counts.
	Join(ctx context.Context, spaceID, userID string) error
	Leave(ctx context.Context, spaceID, userID string) error
	RemoveMember(ctx context.Context, spaceID, targetUserID, hostID string) error
	ListMemberships(ctx context.Context, userID string) ([]string, error)
	ListMembers(ctx context.Context, spaceID string) ([]Member, error)
	CountMembers(ctx context.Context, spaceID string) (int64, error)
}

// Member is a membership row joined with the member's profile name.
type Member struct {
	UserID   string    `json:"user_id"`
	FullName *string   `json:"full_name"`
	JoinedAt time.Time `json:"joined_at"`
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB

	// locks serializes membership writes per space id. Joins on different
	// spaces never contend; joins on the same space are checked and applied
	// against one consistent snapshot.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// lockFor returns the mutex guarding membership writes for one space.
func (s *gormStore) lockFor(spaceID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[spaceID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[spaceID] = l
	}
	return l
}

func (s *gormStore) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	var space model.Space
	if err := s.db.WithContext(ctx).First(&space, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch space %s: %w", id, err)
	}
	return &space, nil
}

func (s *gormStore) ListSpaces(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	if err := s.db.WithContext(ctx).Order("start_time ASC").Find(&spaces).Error; err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	return spaces, nil
}

func (s *gormStore) ListOfficialMinyanim(ctx context.Context) ([]model.OfficialMinyan, error) {
	var minyanim []model.OfficialMinyan
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("start_time ASC").
		Find(&minyanim).Error; err != nil {
		return nil, fmt.Errorf("failed to list official minyanim: %w", err)
	}
	return minyanim, nil
}

func (s *gormStore) ListMemberships(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("user_id = ?", userID).
		Pluck("space_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships for user %s: %w", userID, err)
	}
	return ids, nil
}

func (s *gormStore) ListMembers(ctx context.Context, spaceID string) ([]Member, error) {
	var members []Member
	if err := s.db.WithContext(ctx).
		Model(&model.Membership{}).
		Select("memberships.user_id, profiles.full_name, memberships.joined_at").
		Joins("LEFT JOIN profiles ON profiles.id = memberships.user_id").
		Where("memberships.space_id = ?", spaceID).
		Order("memberships.joined_at ASC").
		Scan(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list members for space %s: %w", spaceID, err)
	}
	return members, nil
}

func (s *gormStore) CountMembers(ctx context.Context, spaceID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("space_id = ?", spaceID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count members for space %s: %w", spaceID, err)
	}
	return count, nil
}
