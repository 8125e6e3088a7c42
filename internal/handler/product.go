package handler

import (
	"net/http"
	"strconv"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/httputil"
	"rustic-lights-backend/internal/middleware"
	"rustic-lights-backend/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.productService.CreateCategory(ctx, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "Category created", category)
}

func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.productService.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Categories retrieved", categories)
}

func (h *ProductHandler) GetCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid category id")
	}
	category, err := h.productService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Category retrieved", category)
}

func (h *ProductHandler) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid category id")
	}
	if err := h.productService.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Category deleted", nil)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.productService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusCreated, "Product created", product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Products retrieved", products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}
	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product retrieved", product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.productService.UpdateProduct(ctx, id, &req)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product updated", product)
}

func (h *ProductHandler) SetFavourite(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}
	favourite, err := strconv.ParseBool(c.QueryParam("favourite"))
	if err != nil {
		return apperr.InvalidInput("Invalid favourite flag")
	}

	product, err := h.productService.SetFavourite(ctx, userID, productID, favourite)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product added to favourites", product)
}

func (h *ProductHandler) ListFavourites(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	products, err := h.productService.ListFavourites(ctx, userID)
	if err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Favourite products retrieved", products)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("Invalid product id")
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return httputil.JSON(c, http.StatusOK, "Product deleted", nil)
}
