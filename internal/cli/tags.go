package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tagcore/internal/core"
	"tagcore/pkg/domain"
)

// ListCmd returns the list command.
func ListCmd() *cobra.Command {
	var showStates bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tag records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, sink, err := openService(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tags := svc.ListTags()
			if len(tags) == 0 {
				fmt.Fprintln(out, "No tags found.")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Record your first scan:")
				fmt.Fprintln(out, "  tagctl scan <tag-id> --device <device-id>")
				return nil
			}
			renderTags(out, tags)
			if showStates {
				fmt.Fprintln(out)
				renderStates(out, sink.States())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStates, "states", false, "Also show projected entity states")

	return cmd
}

// GetCmd returns the get command.
func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [tag-id]",
		Short: "Show one tag record and its entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, sink, err := openService(ctx)
			if err != nil {
				return err
			}
			tag, ok := svc.GetTag(args[0])
			if !ok {
				return fmt.Errorf("tag %s not found", args[0])
			}
			out := cmd.OutOrStdout()
			printTag(out, tag)
			if state, ok := sink.Get(core.EntityID(tag)); ok {
				printState(out, state)
			}
			return nil
		},
	}
}

// CreateCmd returns the create command.
func CreateCmd() *cobra.Command {
	var id, name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag record",
		Long: `Create a tag record ahead of its first scan. Without --id a fresh
unique id is generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, err := openService(ctx)
			if err != nil {
				return err
			}
			payload := domain.Payload{}
			if id != "" {
				payload[domain.FieldID] = id
			}
			if cmd.Flags().Changed("name") {
				payload[domain.FieldName] = name
			}
			if cmd.Flags().Changed("description") {
				payload[domain.FieldDescription] = description
			}
			tag, err := svc.CreateTag(ctx, payload)
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created tag %s\n", okMark(), tag.ID)
			printTag(out, tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Explicit tag id (defaults to a generated one)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Tag name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Tag description")

	return cmd
}

// UpdateCmd returns the update command.
func UpdateCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update [tag-id]",
		Short: "Update a tag record",
		Long:  "Update name or description of an existing tag. Only the provided flags change; the id is immutable.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, err := openService(ctx)
			if err != nil {
				return err
			}
			patch := domain.Payload{}
			if cmd.Flags().Changed("name") {
				patch[domain.FieldName] = name
			}
			if cmd.Flags().Changed("description") {
				patch[domain.FieldDescription] = description
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update: pass --name or --description")
			}
			tag, err := svc.UpdateTag(ctx, args[0], patch)
			if err != nil {
				return fmt.Errorf("update tag: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Updated tag %s\n", okMark(), tag.ID)
			printTag(out, tag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New tag name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New tag description")

	return cmd
}

// DeleteCmd returns the delete command.
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [tag-id]",
		Short: "Delete a tag record and its entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, err := openService(ctx)
			if err != nil {
				return err
			}
			if err := svc.DeleteTag(ctx, args[0]); err != nil {
				return fmt.Errorf("delete tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted tag %s\n", okMark(), args[0])
			return nil
		},
	}
}

func okMark() string { return color.New(color.FgGreen).Sprint("✓") }

func renderTags(w io.Writer, tags []domain.Tag) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAST SCANNED\tDEVICE")
	for _, tag := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tag.ID, tag.DisplayName(), orDash(tag.LastScanned), deviceLabel(tag.DeviceID))
	}
	tw.Flush()
}

func renderStates(w io.Writer, states map[string]core.EntityState) {
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tSTATE\tTAG\tDEVICE")
	for _, id := range ids {
		state := states[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			id,
			orDash(stringValue(state.State)),
			state.Attributes[core.AttrTagID],
			orDash(state.Attributes[core.AttrDeviceID]),
		)
	}
	tw.Flush()
}

func printTag(w io.Writer, tag domain.Tag) {
	fmt.Fprintf(w, "Tag: %s\n", tag.ID)
	fmt.Fprintf(w, "Name: %s\n", tag.DisplayName())
	if tag.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", tag.Description)
	}
	if tag.LastScanned != "" {
		fmt.Fprintf(w, "Last scanned: %s\n", tag.LastScanned)
	}
	if tag.DeviceID != nil {
		fmt.Fprintf(w, "Device: %s\n", deviceLabel(tag.DeviceID))
	}
}

func printState(w io.Writer, state core.EntityState) {
	fmt.Fprintf(w, "Entity: %s\n", color.New(color.FgCyan).Sprint(state.EntityID))
	fmt.Fprintf(w, "State: %s\n", orDash(stringValue(state.State)))
}

func deviceLabel(device *string) string {
	switch {
	case device == nil:
		return "-"
	case *device == "":
		return "(none)"
	default:
		return *device
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
