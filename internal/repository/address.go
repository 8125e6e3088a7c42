package repository

import (
	"context"

	"rustic-lights-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Address, error)
	FirstForUser(ctx context.Context, userID uuid.UUID) (*model.Address, error)
}

type addressRepoImpl struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepoImpl{db: db}
}

func (r *addressRepoImpl) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepoImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Address, error) {
	var addresses []*model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepoImpl) FirstForUser(ctx context.Context, userID uuid.UUID) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
