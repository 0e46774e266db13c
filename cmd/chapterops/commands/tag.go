package commands

import (
	"fmt"

	"chapterops/internal/batch"
	"chapterops/internal/notify"
	"chapterops/internal/scope"
	"chapterops/internal/statestore"

	"github.com/spf13/cobra"
)

var (
	tagScopePath string
	tagID        string
	tagAction    string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Apply or undo a tag batch against the configured endpoint",
}

var tagApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Add or remove one tag for every user in scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		action := batch.Action(tagAction)
		if action != batch.ActionAdd && action != batch.ActionRemove {
			return fmt.Errorf("action must be ADD or REMOVE, got %q", tagAction)
		}

		sc, err := scope.ParseFile(tagScopePath)
		if err != nil {
			return err
		}

		store, err := statestore.Open(cfg.StateDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctrl := batch.NewController(cfg.Tag, store, batch.UUIDGenerator{}, notify.LogSink{})
		// FindTag returns nil for an unknown id; the controller rejects that
		// as "no tag selected".
		return ctrl.Apply(cmd.Context(), sc.Users, sc.FindTag(tagID), action)
	},
}

var tagUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last applied batch (single level)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := statestore.Open(cfg.StateDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctrl := batch.NewController(cfg.Tag, store, batch.UUIDGenerator{}, notify.LogSink{})
		if !ctrl.CanUndo() {
			fmt.Println("Nothing to undo.")
			return nil
		}
		return ctrl.Undo(cmd.Context())
	},
}

func init() {
	tagApplyCmd.Flags().StringVar(&tagScopePath, "scope", "", "role-tagged CSV with the users and tags in scope")
	tagApplyCmd.Flags().StringVar(&tagID, "tag", "", "tag id to apply")
	tagApplyCmd.Flags().StringVar(&tagAction, "action", "ADD", "ADD or REMOVE")
	_ = tagApplyCmd.MarkFlagRequired("scope")
	_ = tagApplyCmd.MarkFlagRequired("tag")

	tagCmd.AddCommand(tagApplyCmd)
	tagCmd.AddCommand(tagUndoCmd)
	rootCmd.AddCommand(tagCmd)
}
