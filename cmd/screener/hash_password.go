package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Generate a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost (10-14)")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	if hashCost < 10 || hashCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", hashCost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	cmd.Println(string(hash))
	return nil
}
