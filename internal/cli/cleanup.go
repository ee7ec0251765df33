// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCleanupCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete assets no article references anymore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			res, err := a.up.CleanupUnusedAssets(context.Background(), dryRun)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("%d unused assets (dry run, nothing deleted)\n", res.Found)
				return nil
			}
			fmt.Printf("deleted %d of %d unused assets\n", len(res.Deleted), res.Found)
			for _, f := range res.Failed {
				fmt.Fprintf(os.Stderr, "warning: could not delete %s: %v\n", f.FileName, f.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report unused assets without deleting them")
	return cmd
}
