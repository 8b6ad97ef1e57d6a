package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "task-board.com/task-board/pkg/models"
)

type OwnerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Anonymous returns the stored anonymous owner id, creating one on first use.
func (r *OwnerRepository) Anonymous(ctx context.Context) (string, error) {
	var owner model.Owner
	err := r.db.WithContext(ctx).Order("created_at asc").First(&owner).Error
	if err == nil {
		return owner.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	owner = model.Owner{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return "", err
	}
	return owner.ID, nil
}
