package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adilzhn/algoclient/algoritmika"
)

// commentsCmd represents the comments command
var commentsCmd = &cobra.Command{
	Use:   "comments <projectID>",
	Short: "List a project's comments",
	Long:  `List a project's comments newest-first, with threaded replies indented.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runComments,
}

// commentCmd represents the comment command
var commentCmd = &cobra.Command{
	Use:   "comment <projectID> <message>",
	Short: "Post a comment on a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runComment,
}

// uncommentCmd represents the uncomment command
var uncommentCmd = &cobra.Command{
	Use:   "uncomment <commentID>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runUncomment,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(uncommentCmd)

	commentsCmd.Flags().IntVar(&page, "page", 0, "page number")
	commentsCmd.Flags().IntVar(&perPage, "per-page", 0, "page size")

	commentCmd.Flags().StringVar(&replyTo, "reply-to", "", "parent comment id for a threaded reply")
	commentCmd.Flags().BoolVar(&anonymous, "anonymous", false, "post through the promotional identity")

	uncommentCmd.Flags().BoolVar(&anonymous, "anonymous", false, "delete through the promotional identity")
	uncommentCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "skip the confirmation prompt")
}

func runComments(cmd *cobra.Command, args []string) error {
	projectID, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	comments, err := session.Comments(ctx, projectID, page, perPage)
	if err != nil {
		return err
	}

	if len(comments) == 0 {
		fmt.Println("No comments found.")
		return nil
	}

	for _, comment := range comments {
		printComment(comment, 0)
	}
	return nil
}

func printComment(comment algoritmika.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s• %s (id %d, %s)\n", indent, comment.Author,
		comment.ID, comment.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("%s  %s\n", indent, comment.Message)
	for _, child := range comment.Children {
		printComment(child, depth+1)
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	projectID, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}
	message := strings.Join(args[1:], " ")

	parentID := 0
	if replyTo != "" {
		if parentID, err = algoritmika.ParseID(replyTo); err != nil {
			return err
		}
	}

	ctx := context.Background()
	actions, closeSession, err := openActions(ctx)
	if err != nil {
		return err
	}
	defer closeSession()

	comment, err := actions.PostComment(ctx, projectID, message, parentID)
	if err != nil {
		return err
	}

	fmt.Printf("Posted comment %d on project %d\n", comment.ID, projectID)
	return nil
}

func runUncomment(cmd *cobra.Command, args []string) error {
	commentID, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		fmt.Printf("Delete comment %d? [y/N]: ", commentID)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	ctx := context.Background()
	actions, closeSession, err := openActions(ctx)
	if err != nil {
		return err
	}
	defer closeSession()

	if err := actions.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	fmt.Printf("Deleted comment %d\n", commentID)
	return nil
}
