package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "task-board.com/task-board/pkg/models"
)

type TagRepository struct {
	db *gorm.DB
}

var ErrDuplicate = errors.New("duplicate record")

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// CreateTag inserts a tag. The (owner_id, name) unique index rejects
// duplicates with ErrDuplicate when the connection translates driver errors.
func (r *TagRepository) CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	tag := &model.Tag{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
	}

	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: tag %q", ErrDuplicate, name)
		}
		return nil, err
	}
	return tag, nil
}

func (r *TagRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&tags).Error
	return tags, err
}
