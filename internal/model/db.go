package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order lifecycle. Transitions are validated in the order service; the
// DELIVERED and CANCELLED states are terminal.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// PaymentSession lifecycle. INITIATED is the only non-terminal state; the
// transition out of it is guarded in SQL so callback replays are no-ops.
const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusSucceeded = "SUCCEEDED"
	PaymentStatusFailed    = "FAILED"
)

type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"size:255;not null"` // bcrypt hash
	Phone     string    `gorm:"size:16;not null"`
	Role      string    `gorm:"size:16;not null;default:CUSTOMER"` // MERCHANT, CUSTOMER
	Profile   *string   `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Address struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);index;not null"`
	Name      string    `gorm:"size:128;not null"`
	Phone     string    `gorm:"size:16;not null"`
	County    string    `gorm:"size:64;not null"`
	City      string    `gorm:"size:64;not null"`
	Street    string    `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"size:64;uniqueIndex;not null"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Name             string          `gorm:"size:128;not null"`
	ShortDescription string          `gorm:"size:255"`
	LongDescription  string          `gorm:"type:text"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity         int             `gorm:"not null"` // stock on hand
	SKU              string          `gorm:"size:32;uniqueIndex;not null"`
	CategoryID       uuid.UUID       `gorm:"type:char(36);index;not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserFavourite marks a product on a user's favourites list. One row per
// user/product pair; unfavouriting flips the flag rather than deleting the
// row.
type UserFavourite struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);index:idx_user_product,unique;not null"`
	ProductID uuid.UUID `gorm:"type:char(36);index:idx_user_product,unique;not null"`
	Favourite bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f *UserFavourite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Cart holds one active cart per user. Lines cascade with the cart; clearing
// the lines on checkout leaves the cart row behind for reuse.
type Cart struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	CartID    uuid.UUID       `gorm:"type:char(36);index:idx_cart_product,unique;not null"`
	ProductID uuid.UUID       `gorm:"type:char(36);index:idx_cart_product,unique;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"` // price snapshot at add time
	Discount  decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Order is immutable after checkout except for Status. Line prices and the
// total are the cart's values at conversion time, never re-derived.
type Order struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `gorm:"type:char(36);index;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"size:16;index;not null;default:PENDING"`
	Address   string          `gorm:"size:512;not null"` // flattened "street, city, county"
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:char(36);index;not null"`
	ProductID uuid.UUID       `gorm:"type:char(36);index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PaymentSession correlates a Daraja checkout request with an order. One row
// per STK push; the callback settles it exactly once.
type PaymentSession struct {
	ID                uuid.UUID       `gorm:"type:char(36);primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:char(36);index;not null"`
	MerchantRequestID string          `gorm:"size:64;not null"`
	CheckoutRequestID string          `gorm:"size:64;uniqueIndex;not null"`
	Status            string          `gorm:"size:16;index;not null;default:INITIATED"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PhoneNumber       string          `gorm:"size:16;not null"`
	ResultCode        *int
	ResultDesc        string `gorm:"size:255"`
	MpesaReceipt      string `gorm:"size:64"`
	TransactionTime   string `gorm:"size:32"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s *PaymentSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
