package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chapterops/internal/batch"
	"chapterops/internal/goals"
	"chapterops/internal/statestore"
	"chapterops/internal/submission"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	submitRegion  string
	submitChapter string
	submitStaff   string
	submitWindow  string
	submitMonths  string
	submitCopy    bool
	submitOut     string
	submitMail    bool
	submitKeep    bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Build and deliver the goals submission from the stored draft",
	Long: `Freezes the draft for the given identity and month window into a
submission block, prints it, and optionally copies it to the clipboard,
writes it to a .txt file, or opens a mailto link. The draft is cleared once
submitted unless --keep-draft is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		months, err := resolveMonths()
		if err != nil {
			return err
		}

		store, err := statestore.Open(cfg.StateDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		sheet, err := goals.LoadOrInit(store, cat, submitRegion, submitChapter, submitStaff, months)
		if err != nil {
			return err
		}

		payload := submission.BuildPayload(submitRegion, submitChapter, submitStaff, months,
			sheet, batch.UUIDGenerator{}, time.Now(), cat.AppVersion)

		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode submission: %w", err)
		}
		if _, err := submission.VerifyPayload(raw); err != nil {
			return err
		}

		block := submission.Block(payload)

		fmt.Println(block)
		fmt.Println()

		if submitCopy {
			if err := (submission.ExecClipboard{}).Write(block); err != nil {
				return err
			}
			fmt.Println("Copied to clipboard.")
		}

		mailto := submission.BuildMailto(payload, block)
		needFile := submitOut != "" || (submitMail && mailto.NeedsAttachment)
		if needFile {
			dir := submitOut
			if dir == "" {
				dir = "."
			}
			path, err := submission.DirDownloader{Dir: dir}.Download(submission.Filename(payload), block)
			if err != nil {
				return err
			}
			fmt.Printf("Submission written to %s\n", path)
		}

		if submitMail {
			if mailto.NeedsAttachment {
				fmt.Println("Submission too large to inline: attach the downloaded .txt file to the email.")
			}
			if err := browser.OpenURL(mailto.Href); err != nil {
				return fmt.Errorf("open mail client: %w", err)
			}
		}

		if !submitKeep {
			key := goals.DraftKey(submitRegion, submitChapter, submitStaff, months)
			if err := store.ClearDraft(key); err != nil {
				log.Warn().Err(err).Msg("Could not clear submitted draft")
			}
		}
		if err := store.SaveProfile(statestore.Profile{
			StaffName:   submitStaff,
			LastRegion:  submitRegion,
			LastChapter: submitChapter,
		}); err != nil {
			log.Warn().Err(err).Msg("Could not save profile")
		}

		fmt.Println(submission.ReceiptLine(payload))
		return nil
	},
}

func resolveMonths() ([]string, error) {
	if submitMonths != "" {
		return strings.Split(submitMonths, ","), nil
	}
	window := goals.UpcomingMonths(time.Now())
	switch submitWindow {
	case "one":
		return window.OneMonth, nil
	case "two":
		return window.TwoMonths, nil
	default:
		return nil, fmt.Errorf("window must be one or two (or pass --months)")
	}
}

func init() {
	submitCmd.Flags().StringVar(&submitRegion, "region", "", "region name")
	submitCmd.Flags().StringVar(&submitChapter, "chapter", "", "chapter name")
	submitCmd.Flags().StringVar(&submitStaff, "staff", "", "staff name")
	submitCmd.Flags().StringVar(&submitWindow, "window", "one", "goal window: one or two upcoming months")
	submitCmd.Flags().StringVar(&submitMonths, "months", "", "explicit comma-separated YYYY-MM list (overrides --window)")
	submitCmd.Flags().BoolVar(&submitCopy, "copy", false, "copy the block to the clipboard")
	submitCmd.Flags().StringVar(&submitOut, "out", "", "write the block as a .txt file into this directory")
	submitCmd.Flags().BoolVar(&submitMail, "mail", false, "open a mailto link in the default mail client")
	submitCmd.Flags().BoolVar(&submitKeep, "keep-draft", false, "keep the draft after submitting")
	_ = submitCmd.MarkFlagRequired("region")
	_ = submitCmd.MarkFlagRequired("staff")
	rootCmd.AddCommand(submitCmd)
}
