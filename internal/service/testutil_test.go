package service

import (
	"context"
	"testing"

	"rustic-lights-backend/internal/auth"
	"rustic-lights-backend/internal/client"
	"rustic-lights-backend/internal/config"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	addressRepo   repository.AddressRepository
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	favouriteRepo repository.FavouriteRepository
	cartRepo      repository.CartRepository
	orderRepo     repository.OrderRepository
	sessionRepo   repository.PaymentSessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(db))

	return &testEnv{
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		addressRepo:   repository.NewAddressRepository(db),
		categoryRepo:  repository.NewCategoryRepository(db),
		productRepo:   repository.NewProductRepository(db),
		favouriteRepo: repository.NewFavouriteRepository(db),
		cartRepo:      repository.NewCartRepository(db),
		orderRepo:     repository.NewOrderRepository(db),
		sessionRepo:   repository.NewPaymentSessionRepository(db),
	}
}

func (e *testEnv) productService() ProductService {
	return NewProductService(e.categoryRepo, e.productRepo, e.favouriteRepo)
}

func (e *testEnv) userService() (UserService, *auth.Blacklist) {
	maker := auth.NewMaker(config.JWT{
		Secret:   "test-secret",
		Issuer:   "rustic-lights",
		Audience: "rustic-lights-api",
	})
	blacklist := auth.NewBlacklist()
	return NewUserService(e.userRepo, e.addressRepo, maker, blacklist), blacklist
}

func (e *testEnv) cartService() CartService {
	return NewCartService(e.db, e.userRepo, e.productRepo, e.cartRepo)
}

func (e *testEnv) orderService() OrderService {
	return NewOrderService(e.db, e.cartRepo, e.orderRepo, e.addressRepo)
}

func (e *testEnv) paymentService(daraja client.DarajaClient) PaymentService {
	return NewPaymentService(e.db, zap.NewNop(), daraja, e.orderRepo, e.sessionRepo)
}

func (e *testEnv) seedUser(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Phone:    "254700000000",
		Role:     "CUSTOMER",
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedAddress(t *testing.T, userID uuid.UUID) *model.Address {
	t.Helper()
	address := &model.Address{
		UserID: userID,
		Name:   "Home",
		Phone:  "254700000000",
		County: "Nairobi",
		City:   "Nairobi",
		Street: "Moi Avenue 12",
	}
	require.NoError(t, e.addressRepo.Create(context.Background(), address))
	return address
}

func (e *testEnv) seedProduct(t *testing.T, price string) *model.Product {
	t.Helper()

	category := &model.Category{Name: "Lamps " + uuid.NewString()}
	require.NoError(t, e.db.Create(category).Error)

	product := &model.Product{
		Name:       "Rustic Lamp",
		Price:      decimal.RequireFromString(price),
		Quantity:   100,
		SKU:        uuid.NewString()[:16],
		CategoryID: category.ID,
		Discount:   decimal.Zero,
	}
	require.NoError(t, e.productRepo.Create(context.Background(), product))
	return product
}
