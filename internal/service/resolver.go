package service

import (
	"fmt"

	"storefront-service/internal/models"
)

// ResolveLineItems maps validated request items onto a catalog snapshot,
// checking variant legality and computing monetary line items. Items are
// resolved in request order; the first violation aborts the whole request so
// a partial checkout session is never built. No side effects.
//
// When the matched storage override carries its own price it replaces the
// product base price, otherwise the base price applies.
func ResolveLineItems(items []CheckoutRequestItem, catalog map[string]*models.Product) ([]models.LineItem, error) {
	resolved := make([]models.LineItem, 0, len(items))

	for _, item := range items {
		product, ok := catalog[item.ID]
		if !ok {
			return nil, businessErr(ReasonUnknownProduct, item.ID,
				fmt.Sprintf("no product with id %q", item.ID))
		}

		line := models.LineItem{
			ProductID:   product.ID,
			Name:        product.ShortName,
			Description: product.Description,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Images:      product.Images,
		}

		if product.Overrides != nil {
			if item.Overrides == nil {
				return nil, businessErr(ReasonInvalidColorOverride, product.ID,
					fmt.Sprintf("product %q requires a variant selection", product.ID))
			}

			color, ok := product.Overrides.ColorByName(item.Overrides.Color)
			if !ok {
				return nil, businessErr(ReasonInvalidColorOverride, product.ID,
					fmt.Sprintf("product %q has no color %q", product.ID, item.Overrides.Color))
			}

			storage, ok := product.Overrides.StorageBySize(item.Overrides.Size)
			if !ok {
				return nil, businessErr(ReasonInvalidStorageOverride, product.ID,
					fmt.Sprintf("product %q has no storage size %d", product.ID, item.Overrides.Size))
			}

			if !storage.Compatible(color.Name) {
				return nil, businessErr(ReasonIncompatibleOverride, product.ID,
					fmt.Sprintf("color %q is not available with %dGB on product %q",
						color.Name, storage.Size, product.ID))
			}

			if storage.Price != nil {
				line.UnitPrice = *storage.Price
			}
			line.Description = fmt.Sprintf("%s, %dGB", color.Readable, storage.Size)
			line.ColorKey = color.Name
			line.StorageSize = storage.Size
		}

		resolved = append(resolved, line)
	}

	return resolved, nil
}

// CatalogSnapshot indexes a product list by id for resolution
func CatalogSnapshot(products []models.Product) map[string]*models.Product {
	snapshot := make(map[string]*models.Product, len(products))
	for i := range products {
		snapshot[products[i].ID] = &products[i]
	}
	return snapshot
}
