package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipstream/qualityengine/internal/library/scanner"
	"github.com/slipstream/qualityengine/internal/library/slots"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var dir string

	cmd := &cobra.Command{
		Use:   "parse [release title]",
		Short: "Parse a release title, or every video file below --dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := cliLogger(cfg, cmd.ErrOrStderr())

			if dir != "" {
				if len(args) > 0 {
					return errors.New("pass either a release title or --dir, not both")
				}
				svc := scanner.NewService(cfg.Scoring.ScoreTable(), &log)
				result, err := svc.ScanFolder(cmd.Context(), dir, nil)
				if err != nil {
					return fmt.Errorf("scan %s: %w", dir, err)
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderScanResult(result))
				return nil
			}

			if len(args) == 0 {
				return errors.New("a release title is required")
			}

			parsed, err := newSlotsService(cfg, nil, log).Parse(args[0])
			if err != nil {
				return err
			}
			output := slots.NewParseReleaseOutput(parsed)
			if jsonOutput {
				return writeJSON(cmd, output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderParsed(output))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&dir, "dir", "", "Parse every video file below this folder")
	return cmd
}

func renderParsed(out slots.ParseReleaseOutput) string {
	rows := [][]string{
		{"Title", orDash(out.Title)},
		{"Year", intOrDash(out.Year)},
		{"Quality", orDash(out.Quality)},
		{"Source", orDash(out.Source)},
		{"Video codec", orDash(out.VideoCodec)},
		{"HDR", orDash(strings.Join(out.HDRFormats, ", "))},
		{"Audio codecs", orDash(strings.Join(out.AudioCodecs, ", "))},
		{"Audio channels", orDash(strings.Join(out.AudioChannels, ", "))},
		{"Attributes", orDash(strings.Join(out.Attributes, ", "))},
		{"Quality score", strconv.Itoa(out.QualityScore)},
	}
	if out.IsTV {
		rows = append(rows,
			[]string{"Season", intOrDash(out.Season)},
			[]string{"Episode", intOrDash(out.Episode)},
			[]string{"Season pack", yesNo(out.IsSeasonPack)},
		)
	}
	if out.ReleaseGroup != "" {
		rows = append(rows, []string{"Release group", out.ReleaseGroup})
	}
	return keyValueTable(rows)
}

func renderScanResult(result *scanner.ScanResult) string {
	rows := make([][]string, 0, len(result.Movies)+len(result.Episodes))
	add := func(items []scanner.ParsedMedia) {
		for _, m := range items {
			rows = append(rows, []string{
				filepath.Base(m.FilePath),
				orDash(m.Title),
				orDash(m.Quality),
				orDash(m.Source),
				strconv.Itoa(m.QualityScore),
			})
		}
	}
	add(result.Movies)
	add(result.Episodes)

	out := renderTable(
		[]string{"File", "Title", "Quality", "Source", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
	summary := fmt.Sprintf("%d files, %d movies, %d episodes, %d skipped, %d errors",
		result.TotalFiles, len(result.Movies), len(result.Episodes), result.Skipped, len(result.Errors))
	return out + "\n" + summary
}

func intOrDash(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}
