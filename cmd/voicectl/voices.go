package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/instant-voices/pkg/dialogue"
	"github.com/heartmarshall/instant-voices/pkg/voicecache"
	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

func newGuestCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Issue a guest session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.client(cmd).Guest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session: %s\n", s.SessionID)
			fmt.Fprintf(cmd.OutOrStdout(), "expires: %s\n", s.ExpiresAt.Format("2006-01-02 15:04:05Z07:00"))
			fmt.Fprintf(cmd.OutOrStdout(), "export VOICES_TOKEN=%s\n", s.Token)
			return nil
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	var asJSON, asCards bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored voices",
		Long: `List stored voices.

--cards lists the shipped dialogues in order, each with the voice that
replaces its audio, followed by the dialogues users created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.cache(cmd)
			if err != nil {
				return err
			}
			if asCards {
				return printCards(cmd, c.Cards(dialogue.Defaults()), asJSON)
			}
			entries := c.Entries()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			ids := make([]string, 0, len(entries))
			for id := range entries {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCUSTOM\tTYPE\tSIZE\tTEXT")
			for _, id := range ids {
				r := entries[id]
				fmt.Fprintf(tw, "%s\t%t\t%s\t%d\t%s\n", r.RecordID, r.IsCustom, r.MIMEType, r.SizeBytes, r.Text)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&asCards, "cards", false, "merge voices into the dialogue cards")
	return cmd
}

func printCards(cmd *cobra.Command, cards []voicecache.Card, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tAUDIO\tTEXT\tTRANSLATION")
	for _, card := range cards {
		kind := "default"
		if card.Custom {
			kind = "custom"
		}
		audio := "synth"
		if card.Voice != nil && card.Voice.HasAudio() {
			audio = card.Voice.MIMEType
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", card.ID, kind, audio, card.Text, card.Translation)
	}
	return tw.Flush()
}

func newUploadCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <record-id> <file>",
		Short: "Upload a recording for a dialogue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readAudioFile(args[1])
			if err != nil {
				return err
			}
			c, err := g.cache(cmd)
			if err != nil {
				return err
			}
			rec, err := c.Save(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
}

func newCreateCmd(g *globalFlags) *cobra.Command {
	var text, translation string

	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create a new dialogue with a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readAudioFile(args[0])
			if err != nil {
				return err
			}
			c, err := g.cache(cmd)
			if err != nil {
				return err
			}
			rec, err := c.Create(cmd.Context(), text, translation, f)
			if err != nil {
				return err
			}
			printRecord(cmd, rec)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "dialogue text")
	cmd.Flags().StringVar(&translation, "translation", "", "dialogue translation")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newDeleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a stored voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.cache(cmd)
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

// readAudioFile loads path and sniffs its media type.
func readAudioFile(path string) (*voiceclient.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &voiceclient.File{
		Name:         info.Name(),
		MIMEType:     mimetype.Detect(data).String(),
		LastModified: info.ModTime().UnixMilli(),
		Data:         data,
	}, nil
}

func printRecord(cmd *cobra.Command, r *voiceclient.Record) {
	fmt.Fprintf(cmd.OutOrStdout(), "id:      %s\n", r.RecordID)
	if r.IsCustom {
		fmt.Fprintf(cmd.OutOrStdout(), "text:    %s\n", r.Text)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "type:    %s\n", r.MIMEType)
	fmt.Fprintf(cmd.OutOrStdout(), "size:    %d\n", r.SizeBytes)
}
