package repository

import (
	"context"
	"errors"

	"rustic-lights-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavouriteRepository interface {
	// Upsert sets the favourite flag for the user/product pair, creating the
	// row on first touch.
	Upsert(ctx context.Context, userID, productID uuid.UUID, favourite bool) error
	ListFavouriteProducts(ctx context.Context, userID uuid.UUID) ([]*model.Product, error)
}

type favouriteRepoImpl struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepoImpl{db: db}
}

func (r *favouriteRepoImpl) Upsert(ctx context.Context, userID, productID uuid.UUID, favourite bool) error {
	var existing model.UserFavourite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	switch {
	case err == nil:
		return r.db.WithContext(ctx).Model(&existing).
			Update("favourite", favourite).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(&model.UserFavourite{
			UserID:    userID,
			ProductID: productID,
			Favourite: favourite,
		}).Error
	default:
		return err
	}
}

func (r *favouriteRepoImpl) ListFavouriteProducts(ctx context.Context, userID uuid.UUID) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN user_favourites ON user_favourites.product_id = products.id").
		Where("user_favourites.user_id = ? AND user_favourites.favourite = ?", userID, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
