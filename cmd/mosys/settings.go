package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosys-app/mosys/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Application configuration stored in the database",
	}
	cmd.AddCommand(settingsGetCmd())
	cmd.AddCommand(settingsSetCmd())
	cmd.AddCommand(settingsListCmd())
	return cmd
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			value, err := store.GetSetting(ctx, args[0])
			if err != nil {
				return friendlyError(err)
			}
			fmt.Println(value)
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			description, _ := cmd.Flags().GetString("description")
			if err := store.SetSetting(ctx, args[0], args[1], description); err != nil {
				return friendlyError(err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	}
	cmd.Flags().String("description", "", "what the setting controls")
	return cmd
}

func settingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.ListSettings(ctx)
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.FormatTitle("Settings"))
			for _, st := range settings {
				line := fmt.Sprintf("  %-14s %s", st.Key, cli.BoldStyle.Render(st.Value))
				if st.Description != "" {
					line += "  " + cli.SubtleStyle.Render(st.Description)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
