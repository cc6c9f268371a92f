package repositories

import (
	"fmt"
	"sort"
	"sync"

	"productcrud/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same unique name and non-negative bounds as the products table.
type InMemoryProductRepository struct {
	mu    sync.RWMutex
	store *memoryStore
}

type memoryStore struct {
	products map[uint]models.Product
	lastID   uint
}

func (s *memoryStore) clone() *memoryStore {
	products := make(map[uint]models.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	return &memoryStore{products: products, lastID: s.lastID}
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		store: &memoryStore{products: make(map[uint]models.Product)},
	}
}

// FindAll returns all products ordered by ID.
func (r *InMemoryProductRepository) FindAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// FindByID returns a product by its ID.
func (r *InMemoryProductRepository) FindByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// FindByName returns the product with the given name.
func (r *InMemoryProductRepository) FindByName(name string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.store.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with name %q: %w", name, ErrProductNotFound)
}

// Save inserts or updates a product.
func (r *InMemoryProductRepository) Save(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.save(product)
}

// SaveAll inserts or updates every product, keeping none of them on failure.
func (r *InMemoryProductRepository) SaveAll(products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := r.store.clone()
	for i := range products {
		if err := staged.save(&products[i]); err != nil {
			return err
		}
	}
	r.store = staged
	return nil
}

// DeleteByID removes a product by its ID.
func (r *InMemoryProductRepository) DeleteByID(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return false, nil
	}
	delete(r.store.products, id)
	return true, nil
}

// Transaction runs fn against a private copy of the store and publishes the
// copy only when fn succeeds. Other callers block until it finishes.
func (r *InMemoryProductRepository) Transaction(fn func(repo ProductRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &InMemoryProductRepository{store: r.store.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	r.store = tx.store
	return nil
}

func (s *memoryStore) save(product *models.Product) error {
	if product.Price < 0 || product.Quantity < 0 {
		return fmt.Errorf("failed to save product %q: %w", product.Name, ErrConstraintViolation)
	}
	for id, p := range s.products {
		if p.Name == product.Name && id != product.ID {
			return fmt.Errorf("failed to save product %q: %w", product.Name, ErrDuplicateName)
		}
	}

	if product.ID == 0 {
		s.lastID++
		product.ID = s.lastID
	} else if product.ID > s.lastID {
		s.lastID = product.ID
	}
	s.products[product.ID] = *product
	return nil
}
