package service

import (
	"context"
	"errors"
	"sync"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.CartResponse, error)
	SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*dto.CartResponse, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
}

type cartServiceImpl struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository

	// one mutex per user so concurrent mutations of the same cart cannot race
	// on the total; different users never contend
	userLocks sync.Map
}

func NewCartService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
) CartService {
	return &cartServiceImpl{
		db:          db,
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (s *cartServiceImpl) lockUser(userID uuid.UUID) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, apperr.InvalidInput("Quantity must be at least 1")
	}

	unlock := s.lockUser(userID)
	defer unlock()

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &model.Cart{UserID: userID, Total: decimal.Zero}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		// quantity is additive for repeated adds of the same product
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		newItem := &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Discount:  product.Discount,
		}
		if err := s.cartRepo.CreateItem(ctx, newItem); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.recomputeTotal(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.cartResponse(ctx, userID)
}

func (s *cartServiceImpl) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, apperr.InvalidInput("Quantity must be at least 1")
	}

	unlock := s.lockUser(userID)
	defer unlock()

	cart, item, err := s.findLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	// quantity is replaced, not incremented
	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}

	if err := s.recomputeTotal(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.cartResponse(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*dto.CartResponse, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	cart, item, err := s.findLine(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}

	if err := s.recomputeTotal(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.cartResponse(ctx, userID)
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return s.cartResponse(ctx, userID)
}

func (s *cartServiceImpl) findLine(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, *model.CartItem, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, nil, notFoundOr(err, "User not found")
	}
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Cart not found")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, nil, notFoundOr(err, "Product not found")
	}
	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Product not found in cart")
	}
	return cart, item, nil
}

// recomputeTotal applies the one total rule for every mutation: the sum of
// unit price times quantity over all remaining lines. Discounts are captured
// on the line but do not enter the total.
func (s *cartServiceImpl) recomputeTotal(ctx context.Context, cartID uuid.UUID) error {
	items, err := s.cartRepo.ListItems(ctx, s.db, cartID)
	if err != nil {
		return err
	}
	return s.cartRepo.UpdateTotal(ctx, s.db, cartID, sumLines(items))
}

func sumLines(items []*model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *cartServiceImpl) cartResponse(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Cart not found")
	}
	resp := &dto.CartResponse{
		ID:     cart.ID,
		UserID: cart.UserID,
		Total:  cart.Total,
		Items:  make([]dto.CartItemResponse, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}
	return resp, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return err
}
