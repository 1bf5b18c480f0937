package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/instant-voices/pkg/synth"
)

func newSpeakPlanCmd(g *globalFlags) *cobra.Command {
	var (
		gender     string
		style      string
		pitch      float64
		speed      float64
		voicesFile string
		wait       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "speak-plan",
		Short: "Show the speech engine parameters for a style",
		Long: `Resolve a gender and style to the rate, pitch, volume and voice a speech
engine would use. Pitch and speed default to the style's own values.

--voices reads the engine's voice list from a JSON array of {"name","lang"}
objects; the file is polled until it lists at least one voice.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gd, err := synth.ParseGender(gender)
			if err != nil {
				return err
			}
			if _, ok := synth.Lookup(style); !ok {
				cmd.PrintErrf("warning: unknown style %q, using %s\n", style, synth.DefaultStyle)
			}

			seedPitch, seedSpeed := synth.Seed(style)
			if !cmd.Flags().Changed("pitch") {
				pitch = seedPitch
			}
			if !cmd.Flags().Changed("speed") {
				speed = seedSpeed
			}

			var voices synth.StaticVoices
			if voicesFile != "" {
				loaded, err := synth.LoadVoices(cmd.Context(), fileVoices(voicesFile), synth.LoadOptions{
					MaxElapsed: wait,
					Logger:     g.logger(cmd),
				})
				if err != nil {
					return fmt.Errorf("load voices from %s: %w", voicesFile, err)
				}
				voices = loaded
			}

			p := synth.NewResolver(voices).Resolve(gd, style, pitch, speed)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "style\t%s %s\n", p.Style.Icon, p.Style.Name)
			fmt.Fprintf(tw, "rate\t%.2f\n", p.Rate)
			fmt.Fprintf(tw, "pitch\t%.2f\n", p.Pitch)
			fmt.Fprintf(tw, "volume\t%.2f\n", p.Volume)
			fmt.Fprintf(tw, "lang\t%s\n", p.Lang)
			if p.Voice != nil {
				fmt.Fprintf(tw, "voice\t%s (%s) #%d\n", p.Voice.Name, p.Voice.Lang, p.VoiceIndex)
			} else {
				fmt.Fprintln(tw, "voice\tengine default")
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&gender, "gender", "female", "male or female")
	f.StringVar(&style, "style", synth.DefaultStyle, "style key")
	f.Float64Var(&pitch, "pitch", 1, "pitch control value")
	f.Float64Var(&speed, "speed", 1, "speed control value")
	f.StringVar(&voicesFile, "voices", "", "JSON file with the engine voice list")
	f.DurationVar(&wait, "wait", 5*time.Second, "how long to wait for a non-empty voice list")
	return cmd
}

// fileVoices reads the voice list on every call; a missing or invalid file
// counts as empty.
func fileVoices(path string) synth.VoiceSource {
	return synth.VoiceSourceFunc(func() []synth.Voice {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var voices []synth.Voice
		if json.Unmarshal(data, &voices) != nil {
			return nil
		}
		return voices
	})
}
