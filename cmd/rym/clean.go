package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rym/internal/driver"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "clean",
		Short:       "Remove the rym diagnostics cache",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache(cacheApp)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	}
}
