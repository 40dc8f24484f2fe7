package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/geonet-tools/actornet/pkg/network"
	"github.com/geonet-tools/actornet/pkg/store"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved analysis snapshots",
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			snaps, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots saved")
				printNextStep("Save one", "actornet analyze actors.geojson --save")
				return nil
			}

			for _, snap := range snaps {
				printKeyValue(snap.CreatedAt.Local().Format("Jan 2 15:04"), snap.ID)
				printDetail("%d actors, %d partnerships · %s", snap.NodeCount, snap.EdgeCount, snap.Source)
			}
			return nil
		},
	}
}

// snapshotShowCommand creates the "snapshot show" subcommand. Without an
// id argument, it opens an interactive picker.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	var graphOut string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a snapshot, picking interactively when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			id := ""
			if len(args) == 1 {
				id = args[0]
			} else {
				id, err = pickSnapshot(ctx, st)
				if err != nil {
					return err
				}
				if id == "" {
					return nil // picker cancelled
				}
			}
			return c.showSnapshot(ctx, st, id, graphOut)
		},
	}

	cmd.Flags().StringVar(&graphOut, "graph", "", "write the snapshot graph JSON to this path")

	return cmd
}

func (c *CLI) showSnapshot(ctx context.Context, st store.Store, id, graphOut string) error {
	snap, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	printKeyValue("ID", snap.ID)
	printKeyValue("Created", snap.CreatedAt.Local().Format("Jan 2, 2006 15:04:05"))
	printKeyValue("Source", snap.Source)
	printKeyValue("Actors", fmt.Sprintf("%d", snap.NodeCount))
	printKeyValue("Partners", fmt.Sprintf("%d", snap.EdgeCount))

	g, err := network.FromDoc(snap.Graph)
	if err != nil {
		return fmt.Errorf("decode snapshot graph: %w", err)
	}

	for i, rank := range network.TopCentral(g, 3) {
		printDetail("#%d %s (%d connections, %.2f weighted)", i+1, rank.Node.Name, rank.Degree, rank.Weighted)
	}

	if graphOut != "" {
		if err := network.WriteGraphFile(g, graphOut); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
		printFile(graphOut)
		printNextStep("Export it", fmt.Sprintf("actornet export %s", graphOut))
	}
	return nil
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted snapshot %s", args[0])
			return nil
		},
	}
}

// pickSnapshot runs the interactive picker and returns the chosen id, or
// "" when the user cancels.
func pickSnapshot(ctx context.Context, st store.Store) (string, error) {
	snaps, err := st.List(ctx)
	if err != nil {
		return "", err
	}
	if len(snaps) == 0 {
		printInfo("No snapshots saved")
		return "", nil
	}

	model := NewSnapshotListModel(snaps)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("snapshot picker: %w", err)
	}
	if m, ok := final.(SnapshotListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
