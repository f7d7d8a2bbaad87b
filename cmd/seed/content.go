package main

import (
	"context"
	"fmt"

	"github.com/clayshop/storefront/internal/adapter/catalog"
)

type categorySeed struct {
	Name string
	Slug string
}

type productSeed struct {
	Title       string
	Slug        string
	Price       float64
	Category    string
	Description string
}

type featureSeed struct {
	Title       string
	Description string
	Icon        string
}

var categories = []categorySeed{
	{Name: "Technology", Slug: "technology"},
	{Name: "Gear", Slug: "gear"},
	{Name: "Accessory", Slug: "accessory"},
}

var products = []productSeed{
	{
		Title:       "Smart Table Clock",
		Slug:        "smart-table-clock",
		Price:       129.99,
		Category:    "Technology",
		Description: "A beautiful smart clock for your desk.",
	},
	{
		Title:       "Audio Pro G10",
		Slug:        "audio-pro-g10",
		Price:       299.00,
		Category:    "Technology",
		Description: "High fidelity audio speaker.",
	},
	{
		Title:       "Camera Lens Kit",
		Slug:        "camera-lens-kit",
		Price:       89.99,
		Category:    "Gear",
		Description: "Professional lens kit for mobile photography.",
	},
	{
		Title:       "Travel Backpack",
		Slug:        "travel-backpack",
		Price:       149.50,
		Category:    "Gear",
		Description: "Durable backpack for adventures.",
	},
	{
		Title:       "Leather Case",
		Slug:        "leather-case",
		Price:       49.99,
		Category:    "Accessory",
		Description: "Premium leather finish.",
	},
}

var hero = map[string]any{
	"title":      "Innovative Tech for Modern Life",
	"subtitle":   "Discover the future of everyday essentials.",
	"buttonText": "Explore Products",
	"buttonLink": "/store",
}

var features = []featureSeed{
	{Title: "Free Shipping", Description: "On all orders over $50", Icon: "truck"},
	{Title: "Safe Payments", Description: "Visas, Mastercard, Stripe", Icon: "lock"},
	{Title: "Free Returns", Description: "Within 30 days of purchase", Icon: "refresh"},
}

// seedContent upserts the storefront fixtures: existence is checked by slug
// or title filter so reruns are harmless.
func seedContent(ctx context.Context, client *catalog.Client) error {
	fmt.Println("starting seed")

	categoryIDs := make(map[string]int)
	for _, cat := range categories {
		existing, err := client.CategoryBySlug(ctx, cat.Slug)
		if err != nil {
			return fmt.Errorf("check category %s: %w", cat.Slug, err)
		}
		if existing != nil {
			fmt.Printf("category exists: %s\n", cat.Name)
			categoryIDs[cat.Name] = existing.ID
			continue
		}

		created, err := client.CreateCategory(ctx, cat.Name, cat.Slug)
		if err != nil {
			return fmt.Errorf("create category %s: %w", cat.Slug, err)
		}
		fmt.Printf("created category: %s\n", cat.Name)
		categoryIDs[cat.Name] = created.ID
	}

	for _, prod := range products {
		existing, err := client.ProductBySlug(ctx, prod.Slug)
		if err != nil {
			return fmt.Errorf("check product %s: %w", prod.Slug, err)
		}
		if existing != nil {
			fmt.Printf("product exists: %s\n", prod.Title)
			continue
		}

		_, err = client.CreateProduct(ctx, catalog.ProductInput{
			Title:       prod.Title,
			Slug:        prod.Slug,
			Price:       prod.Price,
			Description: prod.Description,
			Category:    categoryIDs[prod.Category],
		})
		if err != nil {
			return fmt.Errorf("create product %s: %w", prod.Slug, err)
		}
		fmt.Printf("created product: %s\n", prod.Title)
	}

	if err := client.UpdateHero(ctx, hero); err != nil {
		return fmt.Errorf("update hero: %w", err)
	}
	fmt.Println("updated hero content")

	for _, feat := range features {
		existing, err := client.FeatureByTitle(ctx, feat.Title)
		if err != nil {
			return fmt.Errorf("check feature %s: %w", feat.Title, err)
		}
		if existing != nil {
			fmt.Printf("feature exists: %s\n", feat.Title)
			continue
		}

		if err := client.CreateFeature(ctx, feat.Title, feat.Description, feat.Icon); err != nil {
			return fmt.Errorf("create feature %s: %w", feat.Title, err)
		}
		fmt.Printf("created feature: %s\n", feat.Title)
	}

	fmt.Println("seeding complete")
	return nil
}
