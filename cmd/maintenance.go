package cmd

import (
	"fmt"

	"github.com/faunapedia/api-go/seed"
	"github.com/faunapedia/api-go/services"
	"github.com/spf13/cobra"
)

var catalogFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the animal and quiz catalog",
	Long: `Upserts animals by name and quiz questions by question text. Questions
are linked to their animal by name. Safe to run repeatedly.`,
	RunE: runSeed,
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Repair records written by older releases",
}

var backfillLikesCmd = &cobra.Command{
	Use:   "likes",
	Short: "Give an empty like list to posts stored without one",
	RunE:  runBackfillLikes,
}

func init() {
	seedCmd.Flags().StringVar(&catalogFile, "file", "", "catalog YAML file (defaults to the embedded catalog)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := services.NewCatalogService(st, logger).Seed(cmd.Context(), catalog)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d animals and %d quiz questions (%d linked)\n",
		result.Animals, result.Questions, result.LinkedQuestions)
	return nil
}

func runBackfillLikes(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := services.NewCatalogService(st, logger).BackfillLikes(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "matched %d posts, modified %d\n", result.Matched, result.Modified)
	return nil
}

func loadCatalog() (*seed.Catalog, error) {
	if catalogFile == "" {
		return seed.Default()
	}
	return seed.Load(catalogFile)
}
