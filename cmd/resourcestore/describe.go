package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stowlabs/resourcestore/mapper"
)

var describeJSON bool

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print collections, type descriptors and relationship edges",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "emit machine-readable JSON")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	descriptors := mapper.DescribeAll(schema)
	relationships := mapper.Relationships(schema)

	if describeJSON {
		out := map[string]any{
			"collections":   mapper.Collections(schema),
			"types":         descriptors,
			"relationships": relationships,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("schema: %s\n\ntypes:\n", schema.Name)
	for _, desc := range descriptors {
		fmt.Printf("  %-20s %s\n", desc.TypeName, desc.URLPattern)
	}
	if len(relationships) > 0 {
		fmt.Println("\nrelationships:")
		for _, rel := range relationships {
			fmt.Printf("  %s: %s -> %s (%s, %s)\n", rel.Name, rel.From, rel.To, rel.Kind, rel.Cardinality)
		}
	}
	return nil
}
