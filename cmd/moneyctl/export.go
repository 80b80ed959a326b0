package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mymoneyhq/moneyctl/internal/cli"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Spreadsheet exports of your transactions",
	}

	cmd.AddCommand(exportDownloadCmd())
	cmd.AddCommand(exportEmailCmd())

	return cmd
}

func exportDownloadCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <incomes|expenses>",
		Short: "Download the spreadsheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			typ, err := parseType(args[0])
			if err != nil {
				return err
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			data, err := client.DownloadExcel(ctx, typ)
			if err != nil {
				return fmt.Errorf("failed to download export: %w", err)
			}

			if outPath == "" {
				outPath = fmt.Sprintf("%s_details.xlsx", args[0])
			}
			if err := os.WriteFile(outPath, data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Saved %s (%d bytes)", outPath, len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <collection>_details.xlsx)")

	return cmd
}

func exportEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email <incomes|expenses>",
		Short: "Email the spreadsheet export to your account address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			typ, err := parseType(args[0])
			if err != nil {
				return err
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			if err := client.EmailExcel(ctx, typ); err != nil {
				return fmt.Errorf("failed to email export: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Export sent to your email"))
			return nil
		},
	}
}
