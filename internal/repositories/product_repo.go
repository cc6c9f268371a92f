package repositories

import (
	"errors"

	"productcrud/internal/models"
)

var (
	// ErrProductNotFound is returned when no product matches the lookup.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when a product name is already taken.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrConstraintViolation is returned when a row breaks a storage check.
	ErrConstraintViolation = errors.New("product violates a storage constraint")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	FindAll() ([]models.Product, error)
	FindByID(id uint) (*models.Product, error)
	FindByName(name string) (*models.Product, error)
	// Save inserts the product when its ID is zero and updates it otherwise.
	// The generated ID is written back into product.
	Save(product *models.Product) error
	// SaveAll applies Save semantics to every element in place.
	SaveAll(products []models.Product) error
	// DeleteByID reports whether a row was removed. A missing row is not an error.
	DeleteByID(id uint) (bool, error)
	// Transaction runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(fn func(repo ProductRepository) error) error
}
