package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"productcrud/internal/models"
	"productcrud/internal/repositories"
	"productcrud/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/batch", h.HandleCreateProducts)
	productRoutes.Get("/", h.HandleGetProducts)
	// Registered before /:id so that "search" is not taken for an ID.
	productRoutes.Get("/search", h.HandleGetProductByName)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a single product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var dto models.ProductDTO
	if err := c.BodyParser(&dto); err != nil {
		return invalidBody(c, err)
	}
	if errs := h.validateProduct(dto, ""); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	log.Printf("Creating new product with name: %s", dto.Name)
	saved, err := h.service.SaveProduct(dto)
	if err != nil {
		return storageFailed(c, "creating product", err)
	}
	log.Printf("Product created with ID: %d", saved.ID)
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleCreateProducts creates a batch of products atomically.
func (h *ProductHandler) HandleCreateProducts(c *fiber.Ctx) error {
	var dtos []models.ProductDTO
	if err := c.BodyParser(&dtos); err != nil {
		return invalidBody(c, err)
	}
	errs := make(map[string]string)
	for i, dto := range dtos {
		for field, msg := range h.validateProduct(dto, fmt.Sprintf("[%d].", i)) {
			errs[field] = msg
		}
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	log.Printf("Creating products in batch. Number of products: %d", len(dtos))
	saved, err := h.service.SaveProducts(dtos)
	if err != nil {
		return storageFailed(c, "creating products in batch", err)
	}
	log.Printf("Products created. Number of products saved: %d", len(saved))
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	log.Println("Fetching all products")
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return err
	}
	log.Printf("Number of products fetched: %d", len(products))
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return invalidID(c, err)
	}

	log.Printf("Fetching product with ID: %d", id)
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, fmt.Sprintf("Product not found with id %d", id))
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return err
	}
	log.Printf("Product found with ID: %d", id)
	return c.JSON(product)
}

// HandleGetProductByName retrieves a single product by the name query parameter.
func (h *ProductHandler) HandleGetProductByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'name' is required",
		})
	}

	log.Printf("Fetching product with name: %s", name)
	product, err := h.service.GetProductByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, fmt.Sprintf("Product not found with name %s", name))
		}
		log.Printf("Error getting product by name %s: %v", name, err)
		return err
	}
	log.Printf("Product found with name: %s", name)
	return c.JSON(product)
}

// HandleUpdateProduct overwrites an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return invalidID(c, err)
	}
	var dto models.ProductDTO
	if err := c.BodyParser(&dto); err != nil {
		return invalidBody(c, err)
	}
	if errs := h.validateProduct(dto, ""); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	log.Printf("Updating product with ID: %d", id)
	updated, err := h.service.UpdateProduct(id, dto)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return notFound(c, fmt.Sprintf("Product not found with id %d", id))
		}
		return storageFailed(c, fmt.Sprintf("updating product %d", id), err)
	}
	log.Printf("Product updated with ID: %d", id)
	return c.JSON(updated)
}

// HandleDeleteProduct deletes a product. Deleting a missing product also
// answers 204.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return invalidID(c, err)
	}

	log.Printf("Deleting product with ID: %d", id)
	if err := h.service.RemoveProduct(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return err
	}
	log.Printf("Product deleted with ID: %d", id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) validateProduct(dto models.ProductDTO, prefix string) map[string]string {
	errs := make(map[string]string)
	if err := h.validate.Struct(dto); err != nil {
		fieldErrors(err, prefix, errs)
	}
	return errs
}

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q", c.Params("id"))
	}
	return uint(id), nil
}

func invalidID(c *fiber.Ctx, err error) error {
	log.Printf("Rejected request: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid product ID",
		"error":   err.Error(),
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing product request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, errs map[string]string) error {
	log.Printf("Product validation failed: %v", errs)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errs,
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	log.Printf("Warning: %s", msg)
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": msg,
	})
}

// storageFailed answers constraint failures as client errors and leaves
// everything else to the app error handler.
func storageFailed(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateName):
		log.Printf("Warning: %s: %v", action, err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product name must be unique",
			"error":   repositories.ErrDuplicateName.Error(),
		})
	case errors.Is(err, repositories.ErrConstraintViolation):
		log.Printf("Warning: %s: %v", action, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product rejected by storage constraints",
			"error":   repositories.ErrConstraintViolation.Error(),
		})
	default:
		log.Printf("Error %s: %v", action, err)
		return err
	}
}
