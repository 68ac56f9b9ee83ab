package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	productsFile string
	bandsFile    string
	pretty       bool
)

var rootCmd = &cobra.Command{
	Use:   "facetctl",
	Short: "Derive facet options and filter a product listing offline",
	Long: `facetctl runs the storefront filtering against a product json file,
either a bare array or an object with a products property.

Example:
  facetctl facets --file products.json --category Saree
  facetctl filter --file products.json --category Suit --size M --range 0-5000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&productsFile, "file", "f", "products.json", "product listing to read")
	rootCmd.PersistentFlags().StringVar(&bandsFile, "bands", "", "price band yaml file, defaults are used when empty")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent the json output")
	rootCmd.AddCommand(newFacetsCmd(), newFilterCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
