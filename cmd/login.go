package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bill-tracking/internal/auth"
	"github.com/frahmantamala/bill-tracking/internal/session"
)

var (
	loginCmd = &cobra.Command{
		RunE:  runLogin,
		Use:   "login",
		Short: "Provision the local session identity and bearer token",
	}
	loginEmail string
	loginType  string
)

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "employee email")
	loginCmd.Flags().StringVarP(&loginType, "type", "t", session.TypeEmployee, "identity type (Employee or Admin)")
	loginCmd.MarkFlagRequired("email")
}

func runLogin(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	user := session.User{Type: loginType, Email: loginEmail}
	if err := store.SaveUser(user); err != nil {
		return fmt.Errorf("saving identity: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.Session.TokenSecret, cfg.Session.TokenTTL)
	token, err := tokens.Mint(user)
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}
	if err := store.SaveToken(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Printf("session saved for %s (%s)\n", user.Email, user.Type)
	return nil
}
