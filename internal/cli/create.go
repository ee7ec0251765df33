// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pressline/internal/models"
)

func newCreateCmd() *cobra.Command {
	var (
		imageFlags []string
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   "create <article-file>",
		Short: "Create an article from a file, processing and uploading its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			af, err := loadArticleFile(args[0])
			if err != nil {
				return err
			}

			images := make([]models.ImageReference, 0, len(imageFlags))
			for _, v := range imageFlags {
				images = append(images, parseImageFlag(v))
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			res := a.runner.Execute(context.Background(), af.toRequest(images, publish))
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			if !res.Success {
				for _, e := range res.Errors {
					fmt.Fprintln(os.Stderr, "error:", e)
				}
				return errors.New("article creation failed")
			}

			fmt.Printf("created %s (%s)\n", res.DocumentID, res.Article.Status)
			fmt.Printf("  slug:    %s\n", res.Article.Slug)
			fmt.Printf("  images:  %d\n", len(res.Uploaded))
			fmt.Printf("  elapsed: %s (processing %s, upload %s, create %s)\n",
				res.Performance.Total.Round(time.Millisecond),
				res.Performance.ImageProcessing.Round(time.Millisecond),
				res.Performance.Upload.Round(time.Millisecond),
				res.Performance.ArticleCreation.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&imageFlags, "image", nil, "image to attach: path[:alt[:caption]] (repeatable)")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish immediately instead of creating a draft")
	return cmd
}
