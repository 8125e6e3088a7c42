package service

import (
	"context"
	"fmt"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderTransitions is the monotonic status machine. DELIVERED and CANCELLED
// are terminal.
var orderTransitions = map[string][]string{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusDelivered, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusDelivered, model.OrderStatusCancelled},
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]*dto.OrderResponse, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
	}
}

// Checkout converts the user's cart into an order. Line prices, discounts and
// the total are copied from the cart, never re-derived, so later catalog
// changes cannot alter a placed order. Order creation and cart clearing
// commit or roll back together. Only the snapshotted lines are deleted: a
// line committed concurrently between snapshot and commit stays in the cart
// and the cart total is recomputed over the survivors.
func (s *orderServiceImpl) Checkout(ctx context.Context, userID uuid.UUID) (*dto.OrderResponse, error) {
	address, err := s.addressRepo.FirstForUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Address not found, please add an address")
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Cart not found")
	}
	if len(cart.Items) == 0 {
		return nil, apperr.NotFound("Cart is empty")
	}

	order := &model.Order{
		UserID:  userID,
		Total:   cart.Total,
		Status:  model.OrderStatusPending,
		Address: fmt.Sprintf("%s, %s, %s", address.Street, address.City, address.County),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		items := make([]*model.OrderItem, len(cart.Items))
		lineIDs := make([]uuid.UUID, len(cart.Items))
		for i, line := range cart.Items {
			lineIDs[i] = line.ID
			items[i] = &model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Discount:  line.Discount,
			}
		}
		if err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if err := s.cartRepo.DeleteItemsByID(ctx, tx, lineIDs); err != nil {
			return fmt.Errorf("clear ordered cart lines: %w", err)
		}
		remaining, err := s.cartRepo.ListItems(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("list remaining cart lines: %w", err)
		}
		return s.cartRepo.UpdateTotal(ctx, tx, cart.ID, sumLines(remaining))
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*dto.OrderResponse, error) {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return nil, apperr.InvalidInput("Unknown order status")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, apperr.Conflict(
			fmt.Sprintf("Order cannot move from %s to %s", order.Status, status))
	}

	changed, err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, []string{order.Status}, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		// a concurrent update won the race
		return nil, apperr.Conflict("Order status changed concurrently")
	}

	return s.GetOrder(ctx, orderID)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return orderResponse(order), nil
}

func (s *orderServiceImpl) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = orderResponse(order)
	}
	return responses, nil
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return notFoundOr(err, "Order not found")
	}
	return s.orderRepo.Delete(ctx, orderID)
}

func orderResponse(order *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
		Address:   order.Address,
		Items:     make([]dto.OrderItemResponse, 0, len(order.Items)),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}
	return resp
}
