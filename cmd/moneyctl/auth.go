package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/common"
	"github.com/mymoneyhq/moneyctl/internal/upload"
)

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			creds, err := openCredentials()
			if err != nil {
				return err
			}

			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			client := newAPIClient(creds)
			token, profile, err := client.Login(ctx, email, password)
			if err != nil {
				return common.NewUserError("Login failed", err)
			}

			if err := creds.SetToken(token); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			if profile != nil {
				creds.SetProfile(profile)
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Signed in as %s", profile.FullName)))
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Signed in"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")

	return cmd
}

func registerCmd() *cobra.Command {
	var (
		fullName        string
		email           string
		imagePath       string
		skipImageErrors bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a Money Manager account.

With --image, the picture is uploaded to the image host first and its URL is
attached to the registration. If that upload fails, registration stops unless
--skip-image-errors is set, in which case the account is created without a
picture and the failure is reported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if strings.TrimSpace(fullName) == "" {
				return fmt.Errorf("--name is required")
			}
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			var profileImageURL string
			if imagePath != "" {
				cloudName := viper.GetString("upload.cloud_name")
				if cloudName == "" {
					return fmt.Errorf("%w: upload.cloud_name must be set to use --image", common.ErrMissingConfig)
				}
				uploader := upload.NewUploader(cloudName, viper.GetString("upload.preset"))
				profileImageURL, err = uploader.UploadFile(ctx, imagePath)
				if err != nil {
					if !skipImageErrors {
						return common.NewUserError("Profile image upload failed", err)
					}
					fmt.Println(cli.ErrorStyle.Render("Profile image upload failed; continuing without an image."))
					profileImageURL = ""
				}
			}

			creds, err := openCredentials()
			if err != nil {
				return err
			}
			client := newAPIClient(creds)

			profile, err := client.Register(ctx, fullName, email, password, profileImageURL)
			if err != nil {
				return common.NewUserError("Registration failed", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Account created for %s", profile.Email)))
			fmt.Println("Run 'moneyctl login' to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a profile image to upload")
	cmd.Flags().BoolVar(&skipImageErrors, "skip-image-errors", false, "register even if the profile image upload fails")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		RunE: func(_ *cobra.Command, _ []string) error {
			creds, err := openCredentials()
			if err != nil {
				return err
			}
			if err := creds.Clear(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Println(cli.SuccessStyle.Render("✓ Logged out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, creds, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}

			profile, ok := creds.Profile()
			if !ok {
				return fmt.Errorf("no profile cached")
			}

			fmt.Printf("%s <%s>\n", profile.FullName, profile.Email)
			if profile.ProfileImageURL != "" {
				fmt.Println(cli.SubtleStyle.Render(profile.ProfileImageURL))
			}
			return nil
		},
	}
}
