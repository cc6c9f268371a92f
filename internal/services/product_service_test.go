package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"productcrud/internal/models"
	"productcrud/internal/repositories"
	"productcrud/internal/services"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(name string) (*models.Product, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Save(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveAll(products []models.Product) error {
	args := m.Called(products)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteByID(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// Transaction records the call and runs fn against the mock itself.
func (m *MockProductRepository) Transaction(fn func(repo repositories.ProductRepository) error) error {
	m.Called()
	return fn(m)
}

// MockPublisher is a mock implementation of services.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func decodeEvent(t *testing.T, body []byte) models.ProductEvent {
	t.Helper()
	var event models.ProductEvent
	require.NoError(t, json.Unmarshal(body, &event))
	return event
}

func TestProductService_SaveProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)
	mockRepo.On("Save", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 0 && p.Name == "Widget"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = 1
	}).Return(nil).Once()

	var published []byte
	mockMQ.On("Publish", "products", models.ProductCreated, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(2).([]byte)
	}).Return(nil).Once()

	// The client-supplied ID is ignored.
	saved, err := service.SaveProduct(models.ProductDTO{ID: 99, Name: "Widget", Price: 10, Quantity: 5})

	assert.NoError(t, err)
	assert.Equal(t, models.ProductDTO{ID: 1, Name: "Widget", Price: 10, Quantity: 5}, saved)
	mockRepo.AssertExpectations(t)
	mockMQ.AssertExpectations(t)

	event := decodeEvent(t, published)
	assert.Equal(t, models.ProductCreated, event.Type)
	assert.Equal(t, uint(1), event.ProductID)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, []models.ProductDTO{saved}, event.Products)
}

func TestProductService_SaveProduct_DuplicateName(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)
	mockRepo.On("Save", mock.Anything).Return(fmt.Errorf("failed to save product: %w", repositories.ErrDuplicateName)).Once()

	_, err := service.SaveProduct(models.ProductDTO{Name: "Widget", Price: 10, Quantity: 5})

	assert.ErrorIs(t, err, repositories.ErrDuplicateName)
	mockMQ.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SaveProduct_PublishFailureIsNotReturned(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)
	mockRepo.On("Save", mock.Anything).Return(nil).Once()
	mockMQ.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(fmt.Errorf("channel closed")).Once()

	_, err := service.SaveProduct(models.ProductDTO{Name: "Widget", Price: 10, Quantity: 5})

	assert.NoError(t, err)
	mockMQ.AssertExpectations(t)
}

func TestProductService_SaveProducts(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	service := services.NewProductService(repo, nil)

	saved, err := service.SaveProducts([]models.ProductDTO{
		{ID: 50, Name: "Pen", Price: 2, Quantity: 100},
		{Name: "Pencil", Price: 1, Quantity: 200},
	})

	require.NoError(t, err)
	assert.Equal(t, []models.ProductDTO{
		{ID: 1, Name: "Pen", Price: 2, Quantity: 100},
		{ID: 2, Name: "Pencil", Price: 1, Quantity: 200},
	}, saved)

	all, err := service.GetAllProducts()
	require.NoError(t, err)
	assert.Equal(t, saved, all)
}

func TestProductService_SaveProducts_IsAtomic(t *testing.T) {
	repo := repositories.NewInMemoryProductRepository()
	mockMQ := new(MockPublisher)
	service := services.NewProductService(repo, mockMQ)

	mockMQ.On("Publish", "products", models.ProductCreated, mock.Anything).Return(nil).Once()
	_, err := service.SaveProduct(models.ProductDTO{Name: "Widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	_, err = service.SaveProducts([]models.ProductDTO{
		{Name: "Gadget", Price: 3, Quantity: 1},
		{Name: "Widget", Price: 4, Quantity: 2},
	})

	assert.ErrorIs(t, err, repositories.ErrDuplicateName)
	all, err := service.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	_, err = service.GetProductByName("Gadget")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockMQ.AssertNotCalled(t, "Publish", "products", models.ProductBatchCreated, mock.Anything)
}

func TestProductService_SaveProducts_Empty(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)
	mockRepo.On("SaveAll", []models.Product{}).Return(nil).Once()

	saved, err := service.SaveProducts(nil)

	assert.NoError(t, err)
	assert.Empty(t, saved)
	mockMQ.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("FindAll").Return([]models.Product{
		{ID: 1, Name: "Product A", Price: 10, Quantity: 100},
		{ID: 2, Name: "Product B", Price: 20, Quantity: 50},
	}, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Equal(t, []models.ProductDTO{
		{ID: 1, Name: "Product A", Price: 10, Quantity: 100},
		{ID: 2, Name: "Product B", Price: 20, Quantity: 50},
	}, products)
	mockRepo.AssertExpectations(t)

	mockRepo.On("FindAll").Return([]models.Product(nil), fmt.Errorf("database error")).Once()
	_, err = service.GetAllProducts()
	assert.ErrorContains(t, err, "database error")
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Test successful retrieval
	mockRepo.On("FindByID", uint(1)).Return(&models.Product{ID: 1, Name: "Product A", Price: 10, Quantity: 100}, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, models.ProductDTO{ID: 1, Name: "Product A", Price: 10, Quantity: 100}, product)

	// Test product not found
	mockRepo.On("FindByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	_, err = service.GetProductByID(99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByName(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("FindByName", "Lamp").Return(&models.Product{ID: 3, Name: "Lamp", Price: 30, Quantity: 2}, nil).Once()
	product, err := service.GetProductByName("Lamp")
	assert.NoError(t, err)
	assert.Equal(t, uint(3), product.ID)

	mockRepo.On("FindByName", "Ghost").Return(nil, repositories.ErrProductNotFound).Once()
	_, err = service.GetProductByName("Ghost")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_RemoveProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)

	// Test successful deletion
	mockRepo.On("DeleteByID", uint(1)).Return(true, nil).Once()
	mockMQ.On("Publish", "products", models.ProductDeleted, mock.Anything).Return(nil).Once()
	assert.NoError(t, service.RemoveProduct(1))

	// Deleting a missing product is silent
	mockRepo.On("DeleteByID", uint(99)).Return(false, nil).Once()
	assert.NoError(t, service.RemoveProduct(99))

	// Storage failures are reported
	mockRepo.On("DeleteByID", uint(5)).Return(false, fmt.Errorf("database error")).Once()
	assert.ErrorContains(t, service.RemoveProduct(5), "database error")

	mockRepo.AssertExpectations(t)
	mockMQ.AssertNumberOfCalls(t, "Publish", 1)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockMQ := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockMQ)

	mockRepo.On("Transaction").Return(nil)

	// Test successful update
	existing := &models.Product{ID: 1, Name: "Product A", Price: 10, Quantity: 100}
	mockRepo.On("FindByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("Save", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 1 && p.Name == "Product A Updated" && p.Price == 12 && p.Quantity == 95
	})).Return(nil).Once()
	mockMQ.On("Publish", "products", models.ProductUpdated, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(1, models.ProductDTO{ID: 7, Name: "Product A Updated", Price: 12, Quantity: 95})
	assert.NoError(t, err)
	assert.Equal(t, models.ProductDTO{ID: 1, Name: "Product A Updated", Price: 12, Quantity: 95}, updated)

	// Test update of a missing product
	mockRepo.On("FindByID", uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	_, err = service.UpdateProduct(99, models.ProductDTO{Name: "NonExistent", Price: 1, Quantity: 1})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
	mockMQ.AssertExpectations(t)
}

func TestProductService_GetAfterSave(t *testing.T) {
	service := services.NewProductService(repositories.NewInMemoryProductRepository(), nil)

	saved, err := service.SaveProduct(models.ProductDTO{Name: "Widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	fetched, err := service.GetProductByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, fetched)

	require.NoError(t, service.RemoveProduct(saved.ID))
	_, err = service.GetProductByID(saved.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestHandleProductEvent(t *testing.T) {
	body, err := json.Marshal(models.ProductEvent{ID: "evt-1", Type: models.ProductDeleted, ProductID: 4})
	require.NoError(t, err)

	assert.NoError(t, services.HandleProductEvent(amqp.Delivery{Body: body}))
	assert.Error(t, services.HandleProductEvent(amqp.Delivery{Body: []byte("not json")}))
	assert.Error(t, services.HandleProductEvent(amqp.Delivery{Body: []byte(`{"id":"evt-2"}`)}))
}
