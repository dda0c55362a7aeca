package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/core/validation"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service   ports.ProductService
	validator *validation.Engine
}

func NewProductHandler(service ports.ProductService, validator *validation.Engine) *ProductHandler {
	return &ProductHandler{service: service, validator: validator}
}

// List returns one page of products, optionally filtered by brand.
//
// @Summary      List products
// @Description  Pages hold 5 products ordered by model. brand matches a substring of the brand name, "all" disables the filter.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        brand  query     string  false  "Brand name substring"  default(all)
// @Param        order  query     string  false  "Model order"           Enums(asc, desc)  default(asc)
// @Param        page   query     string  false  "Page number"           default(1)
// @Success      200    {object}  productListResponse
// @Failure      400    {object}  errorBody
// @Failure      401    {object}  errorBody
// @Failure      404    {object}  errorBody
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	query, err := h.validator.ProductQuery(validation.ProductQueryParams{
		Brand: optionalQuery(c, "brand"),
		Order: optionalQuery(c, "order"),
		Page:  optionalQuery(c, "page"),
	})
	if err != nil {
		return err
	}

	page, err := h.service.ListProducts(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductList(page))
}

// Get returns a single product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productDetail
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrProductNotFound)
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductDetail(product))
}
