package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipstream/qualityengine/internal/library/quality"
	"github.com/slipstream/qualityengine/internal/library/slots"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var profileRef string

	cmd := &cobra.Command{
		Use:   "match <release title>",
		Short: "Match a release title against a quality profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(profileRef) == "" {
				return errors.New("--profile is required")
			}

			store, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			profile, err := resolveProfile(cmd.Context(), store.profiles, profileRef)
			if err != nil {
				return err
			}

			result, err := store.slots.Match(cmd.Context(), args[0], profile.ID)
			if err != nil {
				return err
			}

			output := slots.NewProfileMatchOutput(result)
			if jsonOutput {
				return writeJSON(cmd, output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMatch(output))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&profileRef, "profile", "p", "", "Quality profile ID or name")
	return cmd
}

// resolveProfile looks a profile up by ID when ref is numeric, by name otherwise.
func resolveProfile(ctx context.Context, profiles *quality.Service, ref string) (*quality.Profile, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		profile, err := profiles.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", id, err)
		}
		return profile, nil
	}
	profile, err := profiles.GetByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", ref, err)
	}
	return profile, nil
}

func renderMatch(out slots.ProfileMatchOutput) string {
	dims := []struct {
		name   string
		result quality.AttributeMatchResult
	}{
		{"HDR", out.HDRMatch},
		{"Video codec", out.VideoCodecMatch},
		{"Audio codec", out.AudioCodecMatch},
		{"Audio channels", out.AudioChannelMatch},
	}

	rows := make([][]string, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, []string{
			d.name,
			string(d.result.Mode),
			orDash(d.result.ReleaseValue),
			yesNo(d.result.Matches),
			strconv.Itoa(d.result.Score),
			orDash(d.result.Reason),
		})
	}

	dimTable := renderTable(
		[]string{"Dimension", "Mode", "Release", "Matches", "Score", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)

	tier := out.QualityMatchResult.MatchedQuality
	if !out.QualityMatch {
		tier = out.QualityMatchResult.Reason
	}

	summary := keyValueTable([][]string{
		{"Profile", fmt.Sprintf("%s (#%d)", out.ProfileName, out.ProfileID)},
		{"Release", orDash(out.Release.Title)},
		{"Quality tier", orDash(tier)},
		{"Quality score", strconv.Itoa(out.QualityScore)},
		{"Attribute score", strconv.Itoa(out.TotalScore)},
		{"Combined score", strconv.Itoa(out.CombinedScore)},
		{"All attributes match", yesNo(out.AllAttributesMatch)},
	})

	return summary + "\n" + dimTable
}
