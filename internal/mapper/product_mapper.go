// Package mapper converts between stored products and their API shape.
package mapper

import "productcrud/internal/models"

// ToDTO copies a stored product into its API representation.
func ToDTO(product models.Product) models.ProductDTO {
	return models.ProductDTO{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
	}
}

// ToEntity copies an API product into its stored representation.
func ToEntity(dto models.ProductDTO) models.Product {
	return models.Product{
		ID:       dto.ID,
		Name:     dto.Name,
		Price:    dto.Price,
		Quantity: dto.Quantity,
	}
}

// ToDTOs maps a slice of stored products, never returning nil.
func ToDTOs(products []models.Product) []models.ProductDTO {
	dtos := make([]models.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}

// ToEntities maps a slice of API products.
func ToEntities(dtos []models.ProductDTO) []models.Product {
	products := make([]models.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, ToEntity(d))
	}
	return products
}
