package service

import (
	"context"
	"math/rand"

	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"github.com/google/uuid"
)

const skuAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type ProductService interface {
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	SetFavourite(ctx context.Context, userID, productID uuid.UUID, favourite bool) (*model.Product, error)
	ListFavourites(ctx context.Context, userID uuid.UUID) ([]*model.Product, error)
}

type productServiceImpl struct {
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	favouriteRepo repository.FavouriteRepository
}

func NewProductService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	favouriteRepo repository.FavouriteRepository,
) ProductService {
	return &productServiceImpl{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		favouriteRepo: favouriteRepo,
	}
}

func (s *productServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *productServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return category, nil
}

func (s *productServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Category not found")
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, notFoundOr(err, "Category not found")
	}

	product := &model.Product{
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		Quantity:         req.Quantity,
		SKU:              randomSKU(16),
		CategoryID:       req.CategoryID,
		Discount:         req.Discount,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, notFoundOr(err, "Category not found")
	}

	product.Name = req.Name
	product.ShortDescription = req.ShortDescription
	product.LongDescription = req.LongDescription
	product.Price = req.Price
	product.Quantity = req.Quantity
	product.CategoryID = req.CategoryID
	product.Discount = req.Discount

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Product not found")
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *productServiceImpl) SetFavourite(ctx context.Context, userID, productID uuid.UUID, favourite bool) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	if err := s.favouriteRepo.Upsert(ctx, userID, productID, favourite); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productServiceImpl) ListFavourites(ctx context.Context, userID uuid.UUID) ([]*model.Product, error) {
	return s.favouriteRepo.ListFavouriteProducts(ctx, userID)
}

func randomSKU(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = skuAlphabet[rand.Intn(len(skuAlphabet))]
	}
	return string(b)
}
