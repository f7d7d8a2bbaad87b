package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clayshop/storefront/internal/adapter/catalog"
	"github.com/clayshop/storefront/pkg/config"
)

var (
	catalogURL   string
	catalogToken string
	assetsDir    string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the content store with storefront data",
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Seed categories, products, hero and features",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedContent(cmd.Context(), newClient())
	},
}

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Upload product and hero images and attach them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedMedia(cmd.Context(), newClient(), assetsDir)
	},
}

func newClient() *catalog.Client {
	return catalog.NewClient(catalogURL, catalogToken)
}

func main() {
	cfg := config.Load()

	rootCmd.PersistentFlags().StringVar(&catalogURL, "url", cfg.CatalogURL, "content store base URL")
	rootCmd.PersistentFlags().StringVar(&catalogToken, "token", cfg.CatalogToken, "content store API token")
	mediaCmd.Flags().StringVar(&assetsDir, "assets", "assets", "directory holding the image files")

	rootCmd.AddCommand(contentCmd, mediaCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seeding failed:", err)
		os.Exit(1)
	}
}
