package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/config"
)

var flagPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and store the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		email := args[0]
		password := flagPassword
		if password == "" {
			password = os.Getenv("LINKVERSE_PASSWORD")
		}
		if password == "" {
			fmt.Print("Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimSpace(line)
		}
		if password == "" {
			return fmt.Errorf("a password is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		sess, err := e.gw.SignIn(ctx, email, password)
		if err != nil {
			return fmt.Errorf("signing in: %w", err)
		}

		stored := config.Session{
			AccessToken: sess.AccessToken,
			UserID:      sess.User.ID,
			Email:       email,
		}
		if err := config.SaveSession(config.SessionPath(), stored); err != nil {
			return fmt.Errorf("storing session: %w", err)
		}

		fmt.Printf("Signed in as %s.\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearSession(config.SessionPath()); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "password (falls back to LINKVERSE_PASSWORD, then a prompt)")
}
