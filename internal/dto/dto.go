package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,len=12,startswith=254"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateUserRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required,len=12,startswith=254"`
	Profile *string `json:"profile"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Profile   *string   `json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AddressRequest struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone" validate:"required,len=12,startswith=254"`
	County string `json:"county" validate:"required"`
	City   string `json:"city" validate:"required"`
	Street string `json:"address" validate:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type ProductRequest struct {
	Name             string          `json:"name" validate:"required"`
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"detailed_description"`
	Price            decimal.Decimal `json:"price" validate:"required"`
	Quantity         int             `json:"quantity" validate:"gte=0"`
	CategoryID       uuid.UUID       `json:"category_id" validate:"required"`
	Discount         decimal.Decimal `json:"discount"`
}

type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type CartResponse struct {
	ID     uuid.UUID          `json:"id"`
	UserID uuid.UUID          `json:"user_id"`
	Total  decimal.Decimal    `json:"total"`
	Items  []CartItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	Address   string              `json:"address"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type STKPushRequest struct {
	OrderID     uuid.UUID `json:"order_id" validate:"required"`
	PhoneNumber string    `json:"phone_number" validate:"required,len=12,startswith=254"`
}

type STKPushResponse struct {
	MerchantRequestID string `json:"merchant_request_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}
