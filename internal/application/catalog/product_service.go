// Package catalog contains application services for the tenant's
// sellable items and services.
package catalog

import (
	"context"
	"time"

	"github.com/osworks/backend/internal/domain/catalog"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=150"`
	Code  string          `json:"code" binding:"max=30"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit" binding:"max=10"`
}

// UpdateProductRequest updates mutable product fields
type UpdateProductRequest struct {
	Name   *string          `json:"name" binding:"omitempty,min=1,max=150"`
	Price  *decimal.Decimal `json:"price"`
	Unit   *string          `json:"unit" binding:"omitempty,max=10"`
	Active *bool            `json:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		Code:      product.Code,
		Price:     product.Price,
		Unit:      product.Unit,
		Active:    product.Active,
		CreatedAt: product.CreatedAt,
	}
}

// ProductService manages the tenant's product catalog
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create registers a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if req.Code != "" {
		if existing, err := s.productRepo.FindByCode(ctx, req.Code); err == nil && existing != nil {
			return nil, shared.NewDomainError("CODE_IN_USE", "A product with this code already exists")
		}
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.Code, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update mutates product fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
