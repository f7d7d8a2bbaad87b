package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clayshop/storefront/internal/adapter/catalog"
	"github.com/clayshop/storefront/internal/core/domain"
)

var productImages = map[string]string{
	"smart-table-clock": "smart-table-clock.png",
	"audio-pro-g10":     "audio-pro-g10.png",
	"camera-lens-kit":   "camera-lens-kit.png",
	"travel-backpack":   "travel-backpack.png",
	"leather-case":      "leather-case.png",
}

const heroImage = "hero-background.png"

// seedMedia uploads the image file for each product slug and attaches it by
// documentId, then does the same for the hero background. Missing files and
// unknown products are reported and skipped.
func seedMedia(ctx context.Context, client *catalog.Client, dir string) error {
	for slug, filename := range productImages {
		fmt.Printf("processing %s\n", slug)

		image, err := uploadFile(ctx, client, dir, filename)
		if err != nil {
			fmt.Printf("skipping %s: %v\n", slug, err)
			continue
		}

		product, err := client.ProductBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("look up product %s: %w", slug, err)
		}
		if product == nil {
			fmt.Printf("product not found: %s\n", slug)
			continue
		}

		if err := client.UpdateProduct(ctx, product.DocumentID, map[string]any{"image": image.ID}); err != nil {
			return fmt.Errorf("attach image to %s: %w", slug, err)
		}
		fmt.Printf("updated product %s with image %d\n", slug, image.ID)
	}

	fmt.Println("processing hero")
	image, err := uploadFile(ctx, client, dir, heroImage)
	if err != nil {
		fmt.Printf("skipping hero: %v\n", err)
		return nil
	}
	if err := client.UpdateHero(ctx, map[string]any{"image": image.ID}); err != nil {
		return fmt.Errorf("attach hero image: %w", err)
	}
	fmt.Printf("updated hero with image %d\n", image.ID)

	return nil
}

func uploadFile(ctx context.Context, client *catalog.Client, dir, filename string) (*domain.Image, error) {
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	return client.UploadMedia(ctx, filename, data)
}
