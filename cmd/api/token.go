package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-matchmate/internal/config"
	"go-matchmate/internal/infrastructure/auth"
)

const (
	userFlag = "user"
	ttlFlag  = "ttl"
)

// tokenCommand issues a bearer token signed with the configured secret. It
// exists for local development; production tokens come from the identity
// provider.
func tokenCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "token",
		Short: "Issues a development bearer token",
		RunE:  tokenFunc,
	}
	c.Flags().String(userFlag, "", "User id to put in the token (required)")
	c.Flags().Duration(ttlFlag, 24*time.Hour, "Token lifetime")
	_ = c.MarkFlagRequired(userFlag)
	return c
}

func tokenFunc(c *cobra.Command, _ []string) error {
	path, err := c.Flags().GetString(configFlag)
	if err != nil {
		return err
	}
	userID, err := c.Flags().GetString(userFlag)
	if err != nil {
		return err
	}
	ttl, err := c.Flags().GetDuration(ttlFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) is required")
	}
	tok, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret).Issue(userID, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.OutOrStdout(), tok)
	return nil
}
