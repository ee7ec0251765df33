// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pressline/internal/contentstore"
)

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <document-id>",
		Short: "Publish a draft article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lifecycle(args[0], "published",
				func(ctx context.Context, a *app, id string) (*contentstore.Document, error) {
					return a.pub.PublishDraft(ctx, id)
				})
		},
	}
}

func newUnpublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <document-id>",
		Short: "Take a published article back to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lifecycle(args[0], "unpublished",
				func(ctx context.Context, a *app, id string) (*contentstore.Document, error) {
					return a.pub.Unpublish(ctx, id)
				})
		},
	}
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <document-id>",
		Short: "Archive an article (terminal state)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lifecycle(args[0], "archived",
				func(ctx context.Context, a *app, id string) (*contentstore.Document, error) {
					return a.pub.Archive(ctx, id)
				})
		},
	}
}

func lifecycle(id, verb string, op func(context.Context, *app, string) (*contentstore.Document, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	doc, err := op(context.Background(), a, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (%s)\n", verb, doc.ID, doc.StringField("title"))
	return nil
}
