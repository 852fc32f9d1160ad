package cmd

import (
	"fmt"

	"portal-migrate/feature/reference"

	"github.com/spf13/cobra"
)

var (
	referencePrefix string
	referenceYear   int
	referenceField  string
)

// referenceCmd prints the next reference number of a collection.
var referenceCmd = &cobra.Command{
	Use:   "reference <collection>",
	Short: "Print the next sequential reference number",
	Long: `Prints the next reference (e.g. CL-2025-003) for a collection. The number is
not reserved: create the document before allocating another one in the
same scope.

Examples:
  portal-migrate reference clients
  portal-migrate reference quotations --year 2024 --field referenceNumber`,
	Args: cobra.ExactArgs(1),
	RunE: runReference,
}

func init() {
	referenceCmd.Flags().StringVar(&referencePrefix, "prefix", "", "Reference prefix (default: the collection's portal prefix)")
	referenceCmd.Flags().IntVar(&referenceYear, "year", 0, "Year of the series (default: current year)")
	referenceCmd.Flags().StringVar(&referenceField, "field", "", "Read existing references from this field instead of document keys")

	RootCmd.AddCommand(referenceCmd)
}

func runReference(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	ref, err := reference.NewService(e.store, e.log).Next(ctx, reference.Request{
		Collection: args[0],
		Prefix:     referencePrefix,
		Year:       referenceYear,
		Field:      referenceField,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ref)
	return nil
}
