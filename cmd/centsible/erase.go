package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func eraseCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Permanently delete all stored data for a user",
		Long: `Erase purges the financial state, rolling summary, every check-in and
every plan stored for the user. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := viper.GetString("user")

			if !force {
				fmt.Printf("This permanently deletes ALL data for user %q. Type 'yes' to continue: ", userID)
				reader := bufio.NewReader(os.Stdin)
				answer, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if strings.TrimSpace(answer) != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			store, err := openStorage(true)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.EraseUserData(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Printf("All data for user %q erased.\n", userID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openStorage(true)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println("Database is up to date.")
			return nil
		},
	}
}
