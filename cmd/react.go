package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adilzhn/algoclient/algoritmika"
)

// reactCmd represents the react command
var reactCmd = &cobra.Command{
	Use:   "react <projectID> <like|love|fire>",
	Short: "Place a reaction on a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runReact,
}

// unreactCmd represents the unreact command
var unreactCmd = &cobra.Command{
	Use:   "unreact <projectID> <like|love|fire>",
	Short: "Remove a reaction from a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnreact,
}

func init() {
	rootCmd.AddCommand(reactCmd)
	rootCmd.AddCommand(unreactCmd)

	reactCmd.Flags().BoolVar(&anonymous, "anonymous", false, "react through the promotional identity")
	unreactCmd.Flags().BoolVar(&anonymous, "anonymous", false, "react through the promotional identity")
}

func runReact(cmd *cobra.Command, args []string) error {
	return sendReaction(args, true)
}

func runUnreact(cmd *cobra.Command, args []string) error {
	return sendReaction(args, false)
}

func sendReaction(args []string, place bool) error {
	projectID, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}
	reaction := algoritmika.Reaction(args[1])
	if !reaction.Valid() {
		return fmt.Errorf("unknown reaction %q (want like, love or fire)", args[1])
	}

	ctx := context.Background()
	actions, closeSession, err := openActions(ctx)
	if err != nil {
		return err
	}
	defer closeSession()

	if place {
		if err := actions.React(ctx, projectID, reaction); err != nil {
			return err
		}
		fmt.Printf("Placed %s on project %d\n", reaction, projectID)
		return nil
	}

	if err := actions.Unreact(ctx, projectID, reaction); err != nil {
		return err
	}
	fmt.Printf("Removed %s from project %d\n", reaction, projectID)
	return nil
}
