package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, and update the categories transactions are grouped under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			var categories []model.Category
			if typeFilter != "" {
				typ, err := parseType(typeFilter)
				if err != nil {
					return err
				}
				categories, err = client.CategoriesByType(ctx, typ)
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}
			} else {
				categories, err = client.Categories(ctx)
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet. Use 'moneyctl categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Icon"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8),
				strings.Repeat("-", 20),
				strings.Repeat("-", 8),
				strings.Repeat("-", 6))

			for _, cat := range categories {
				icon := cat.Icon
				if icon == "" {
					icon = cli.SubtleStyle.Render("-")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Type, icon)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by type (income or expense)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		typeName string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			typ, err := parseType(typeName)
			if err != nil {
				return err
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			// Names are unique per type, case-insensitively. Checking here
			// saves a round trip; the server still has the final word when
			// two clients race.
			existing, err := client.Categories(ctx)
			if err != nil {
				return fmt.Errorf("failed to check existing categories: %w", err)
			}
			if dup := model.FindDuplicate(existing, name, typ); dup != nil {
				return fmt.Errorf("category %q already exists for type %s", dup.Name, typ)
			}

			cat := model.Category{Name: name, Type: typ, Icon: icon}
			if err := cat.Validate(); err != nil {
				return err
			}

			created, err := client.CreateCategory(ctx, cat)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created category %q (ID: %s)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "expense", "category type (income or expense)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon or emoji for the category")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		typeName string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a category or change its icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, name := args[0], args[1]

			typ, err := parseType(typeName)
			if err != nil {
				return err
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			existing, err := client.Categories(ctx)
			if err != nil {
				return fmt.Errorf("failed to check existing categories: %w", err)
			}
			if dup := model.FindDuplicate(existing, name, typ); dup != nil && dup.ID != id {
				return fmt.Errorf("category %q already exists for type %s", dup.Name, typ)
			}

			cat := model.Category{ID: id, Name: name, Type: typ, Icon: icon}
			if err := cat.Validate(); err != nil {
				return err
			}

			updated, err := client.UpdateCategory(ctx, id, cat)
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Updated category %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "expense", "category type (income or expense)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon or emoji for the category")

	return cmd
}
