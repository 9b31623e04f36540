package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipstream/qualityengine/internal/library/quality"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage quality profiles",
	}

	cmd.AddCommand(newProfilesListCommand(ctx))
	cmd.AddCommand(newProfilesImportCommand(ctx))
	cmd.AddCommand(newProfilesExportCommand(ctx))
	return cmd
}

func newProfilesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quality profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			profiles, err := store.profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, profiles)
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.Itoa(allowedCount(p)),
					describeRule(p.HDRSettings),
					describeRule(p.VideoCodecSettings),
					describeRule(p.AudioCodecSettings),
					describeRule(p.AudioChannelSettings),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Qualities", "HDR", "Video", "Audio", "Channels"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newProfilesImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create or update profiles from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := quality.LoadProfilesYAML(args[0])
			if err != nil {
				return err
			}

			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			created, updated, err := store.profiles.Import(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles (%d created, %d updated)\n", created+updated, created, updated)
			return nil
		},
	}
}

func newProfilesExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every profile to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			profiles, err := store.profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := quality.WriteProfilesYAML(args[0], profiles); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d profiles to %s\n", len(profiles), args[0])
			return nil
		},
	}
}

func allowedCount(p *quality.Profile) int {
	n := 0
	for _, item := range p.Items {
		if item.Allowed {
			n++
		}
	}
	return n
}

func describeRule(rule quality.AttributeRule) string {
	if rule.Mode == "" || rule.Mode == quality.AttributeModeNone {
		return "-"
	}
	return fmt.Sprintf("%s: %s", rule.Mode, strings.Join(rule.Values, ", "))
}
