package services

import (
	"fmt"
	"log"

	"productcrud/internal/mapper"
	"productcrud/internal/models"
	"productcrud/internal/repositories"
)

// ProductService handles business logic related to products.
// Mutating operations each run in one repository transaction; reads do not.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher Publisher
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no product events are sent.
func NewProductService(repo repositories.ProductRepository, publisher Publisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// SaveProduct stores a new product. Any ID on dto is ignored.
func (s *ProductService) SaveProduct(dto models.ProductDTO) (models.ProductDTO, error) {
	product := mapper.ToEntity(dto)
	product.ID = 0

	err := s.repo.Transaction(func(repo repositories.ProductRepository) error {
		return repo.Save(&product)
	})
	if err != nil {
		return models.ProductDTO{}, fmt.Errorf("failed to create product: %w", err)
	}

	saved := mapper.ToDTO(product)
	s.publish(models.ProductCreated, saved.ID, saved)
	return saved, nil
}

// SaveProducts stores all products in one transaction. Either every product
// is stored or none is.
func (s *ProductService) SaveProducts(dtos []models.ProductDTO) ([]models.ProductDTO, error) {
	products := mapper.ToEntities(dtos)
	for i := range products {
		products[i].ID = 0
	}

	err := s.repo.Transaction(func(repo repositories.ProductRepository) error {
		return repo.SaveAll(products)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create products: %w", err)
	}

	saved := mapper.ToDTOs(products)
	if len(saved) > 0 {
		s.publish(models.ProductBatchCreated, 0, saved...)
	}
	return saved, nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.ProductDTO, error) {
	products, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	return mapper.ToDTOs(products), nil
}

// GetProductByID retrieves a single product by its ID.
// It returns repositories.ErrProductNotFound when there is none.
func (s *ProductService) GetProductByID(id uint) (models.ProductDTO, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return models.ProductDTO{}, err
	}
	return mapper.ToDTO(*product), nil
}

// GetProductByName retrieves a single product by its exact name.
// It returns repositories.ErrProductNotFound when there is none.
func (s *ProductService) GetProductByName(name string) (models.ProductDTO, error) {
	product, err := s.repo.FindByName(name)
	if err != nil {
		return models.ProductDTO{}, err
	}
	return mapper.ToDTO(*product), nil
}

// RemoveProduct deletes a product by its ID. Deleting a missing product
// succeeds without effect.
func (s *ProductService) RemoveProduct(id uint) error {
	var removed bool
	err := s.repo.Transaction(func(repo repositories.ProductRepository) error {
		var err error
		removed, err = repo.DeleteByID(id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove product %d: %w", id, err)
	}

	if !removed {
		log.Printf("No product with ID %d to remove", id)
		return nil
	}
	s.publish(models.ProductDeleted, id)
	return nil
}

// UpdateProduct overwrites name, price and quantity of an existing product.
// It returns repositories.ErrProductNotFound when there is none.
func (s *ProductService) UpdateProduct(id uint, dto models.ProductDTO) (models.ProductDTO, error) {
	var updated models.Product
	err := s.repo.Transaction(func(repo repositories.ProductRepository) error {
		existing, err := repo.FindByID(id)
		if err != nil {
			return err
		}
		existing.Name = dto.Name
		existing.Price = dto.Price
		existing.Quantity = dto.Quantity
		if err := repo.Save(existing); err != nil {
			return err
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return models.ProductDTO{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	saved := mapper.ToDTO(updated)
	s.publish(models.ProductUpdated, saved.ID, saved)
	return saved, nil
}
