package repository

import (
	"context"

	"rustic-lights-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ListItems(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*model.CartItem, error)
	UpdateTotal(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, total decimal.Decimal) error
	// DeleteItemsByID removes exactly the named lines. Checkout uses it so a
	// line committed after its snapshot was taken is never swept away.
	DeleteItemsByID(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, "id = ?", itemID).Error
}

// ListItems accepts a transaction handle so checkout can snapshot the lines it
// is about to clear inside one transaction. Pass r.db outside a transaction.
func (r *cartRepoImpl) ListItems(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepoImpl) UpdateTotal(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, total decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("total", total).Error
}

func (r *cartRepoImpl) DeleteItemsByID(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Delete(&model.CartItem{}).Error
}
