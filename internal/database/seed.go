package database

import (
	"context"
	"fmt"
	"log/slog"

	"minishop/internal/models"
	"minishop/internal/store"
)

func strPtr(s string) *string { return &s }

// SampleProducts is the starter catalog written into an empty store.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			Title:       "Aurora Card Wallet",
			Description: strPtr("Slim RFID wallet with glassmorphic sheen."),
			Price:       29.99,
			Category:    "accessories",
			Image:       strPtr("https://images.unsplash.com/photo-1592417817030-2f1b1c86a8e7?q=80&w=1200&auto=format&fit=crop"),
			InStock:     true,
		},
		{
			Title:       "Nebula Headphones",
			Description: strPtr("Wireless noise-cancelling over-ears."),
			Price:       129.0,
			Category:    "audio",
			Image:       strPtr("https://images.unsplash.com/photo-1518445145672-c8cfc6a2d6b1?q=80&w=1200&auto=format&fit=crop"),
			InStock:     true,
		},
		{
			Title:       "Lumos Desk Lamp",
			Description: strPtr("Minimal, touch dimmer, USB-C powered."),
			Price:       49.5,
			Category:    "home",
			Image:       strPtr("https://images.unsplash.com/photo-1555041469-a586c61ea9bc?q=80&w=1200&auto=format&fit=crop"),
			InStock:     true,
		},
		{
			Title:       "Flux Water Bottle",
			Description: strPtr("Insulated steel, matte gradient."),
			Price:       24.0,
			Category:    "outdoors",
			Image:       strPtr("https://images.unsplash.com/photo-1541506610-6913f8f24e5d?q=80&w=1200&auto=format&fit=crop"),
			InStock:     true,
		},
	}
}

// SeedProducts inserts SampleProducts when the catalog is empty and reports
// how many were written.
func SeedProducts(ctx context.Context, products store.ProductStore) (int, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		slog.Debug("catalog not empty, skipping seed", "count", count)
		return 0, nil
	}

	written := 0
	for _, p := range SampleProducts() {
		p := p
		if err := products.Create(ctx, &p); err != nil {
			return written, fmt.Errorf("seed %q: %w", p.Title, err)
		}
		written++
	}
	slog.Info("catalog seeded", "products", written)
	return written, nil
}
