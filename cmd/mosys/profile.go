package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
	"github.com/mosys-app/mosys/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit the user profile",
	}
	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileSetCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := store.GetProfile(ctx)
			if err != nil {
				return friendlyError(err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Name:  %s\n", p.Name)
			fmt.Fprintf(&b, "Email: %s", p.Email)
			if p.Bio != "" {
				fmt.Fprintf(&b, "\nBio:   %s", p.Bio)
			}
			fmt.Println(cli.RenderBox("Profile", b.String()))
			return nil
		},
	}
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := store.GetProfile(ctx)
			if err != nil {
				return friendlyError(err)
			}

			if cmd.Flags().Changed("name") {
				p.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("email") {
				p.Email, _ = cmd.Flags().GetString("email")
			}
			if cmd.Flags().Changed("avatar") {
				p.Avatar, _ = cmd.Flags().GetString("avatar")
			}
			if cmd.Flags().Changed("bio") {
				p.Bio, _ = cmd.Flags().GetString("bio")
			}

			if err := store.UpdateProfile(ctx, model.Profile{
				Name:   p.Name,
				Email:  p.Email,
				Avatar: p.Avatar,
				Bio:    p.Bio,
			}); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess("Profile updated"))
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("avatar", "", "avatar URL")
	cmd.Flags().String("bio", "", "short bio")
	return cmd
}
