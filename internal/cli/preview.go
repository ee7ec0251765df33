// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pressline/internal/markdown"
)

func newPreviewCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "preview <article-file>",
		Short: "Render an article file to HTML locally, without remote calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			af, err := loadArticleFile(args[0])
			if err != nil {
				return err
			}

			html, err := markdown.PreviewHTML(af.Content)
			if err != nil {
				return err
			}
			page := fmt.Sprintf("<!doctype html>\n<html><head><title>%s</title></head>\n<body>\n<h1>%s</h1>\n%s</body></html>\n",
				af.Title, af.Title, html)

			if out == "" {
				fmt.Print(page)
				return nil
			}
			if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "preview written to", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write HTML to a file instead of stdout")
	return cmd
}
