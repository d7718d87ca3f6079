package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adilzhn/algoclient/algoritmika"
	"github.com/adilzhn/algoclient/config"
	"github.com/adilzhn/algoclient/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
	mine       bool
	studentID  string
	page       int
	perPage    int
	sortKey    string
	replyTo    string
	noConfirm  bool
	anonymous  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "algoclient",
	Short: "A client for the learn.algoritmika.org student community",
	Long: `algoclient is a CLI for the Algoritmika learning platform community:
profiles, projects, comments and reactions, driven by the credentials in
your config file.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(projectCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func sessionOptions() []algoritmika.Option {
	return []algoritmika.Option{
		algoritmika.WithBaseURL(cfg.Algoritmika.BaseURL),
		algoritmika.WithTimeout(time.Duration(cfg.Algoritmika.TimeoutSeconds) * time.Second),
	}
}

// openSession creates a credentialed session and logs it in
func openSession(ctx context.Context) (*algoritmika.Session, error) {
	session := algoritmika.NewSession(cfg.Algoritmika.Login, cfg.Algoritmika.Password, logger, sessionOptions()...)
	if err := session.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return session, nil
}

// openActions returns the community-action surface honoring --anonymous,
// together with a close function.
func openActions(ctx context.Context) (algoritmika.CommunityActions, func(), error) {
	if anonymous {
		session := algoritmika.NewAnonymousSession(logger, sessionOptions()...)
		if err := session.Login(ctx); err != nil {
			return nil, nil, fmt.Errorf("anonymous login failed: %w", err)
		}
		return session, session.Close, nil
	}
	session, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	return session, session.Close, nil
}

// getFilterExpression resolves the -f/-p flags into one expression
func getFilterExpression() (string, error) {
	if filterExpr != "" && preset != "" {
		return "", fmt.Errorf("cannot use both --filter and --preset")
	}
	if preset != "" {
		expr, ok := cfg.Filter[preset]
		if !ok {
			return "", fmt.Errorf("preset %q not found in config", preset)
		}
		return expr, nil
	}
	return filterExpr, nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection and credentials",
	Long:  `Log in to the platform and report the authenticated student id.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", cfg.Algoritmika.BaseURL)

	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("✓ Login successful!")
	fmt.Printf("- Student id: %d\n", session.StudentID())
	return nil
}

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"whoami"},
	Short:   "Show the logged-in student's profile",
	RunE:    runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	profile, err := session.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d)\n", profile, profile.ID)
	fmt.Printf("- Username: %s\n", profile.Username)
	fmt.Printf("- Branch: %s\n", profile.Branch)
	fmt.Printf("- Course: %s\n", profile.Course)
	fmt.Printf("- Born: %s\n", profile.BirthDate.Format("2006-01-02"))
	if profile.Ban.IsBanned {
		fmt.Printf("- BANNED: %s\n", profile.Ban.Reason)
		if profile.Ban.ExpiresAt != nil {
			fmt.Printf("  until %s\n", profile.Ban.ExpiresAt.Format("2006-01-02 15:04"))
		}
	}
	fmt.Printf("- URL: %s\n", profile.URL)
	return nil
}

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Show another student's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runUser,
}

func runUser(cmd *cobra.Command, args []string) error {
	id, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	profile, err := session.UserProfile(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (id %d)\n", profile, profile.ID)
	if profile.City != "" {
		fmt.Printf("- City: %s\n", profile.City)
	}
	if profile.About != "" {
		fmt.Printf("- About: %s\n", profile.About)
	}
	if profile.FriendStatus != algoritmika.FriendStatusNone {
		fmt.Printf("- Relationship: %s\n", profile.FriendStatus)
	}
	fmt.Printf("- Projects: %d, views: %d, likes: %d\n",
		profile.Stats.Projects, profile.Stats.Views, profile.Stats.Likes)
	fmt.Printf("- Friends: %d, followers: %d, following: %d\n",
		profile.Stats.Friends, profile.Stats.Followers, profile.Stats.Following)

	if cfg.Safety.ShowDetails && len(profile.Friends) > 0 {
		fmt.Println("\nFriends:")
		for _, friend := range profile.Friends {
			fmt.Printf("  • %s (id %d)\n", friend, friend.ID)
		}
	}
	return nil
}

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Long: `List your own projects, another student's projects, or the whole
community's, with optional client-side filtering.`,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&mine, "mine", false, "list your own projects")
	projectsCmd.Flags().StringVar(&studentID, "student", "", "list a specific student's projects")
	projectsCmd.Flags().IntVar(&page, "page", 0, "page number")
	projectsCmd.Flags().IntVar(&perPage, "per-page", 0, "page size")
	projectsCmd.Flags().StringVar(&sortKey, "sort", "", "sort key (default latest)")
	projectsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	projectsCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runProjects(cmd *cobra.Command, args []string) error {
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	var projects []algoritmika.Project
	if mine {
		projects, err = session.OwnProjects(ctx, sortKey)
	} else {
		opts := algoritmika.SearchOptions{Page: page, PerPage: perPage, Sort: sortKey}
		if studentID != "" {
			if opts.StudentID, err = algoritmika.ParseID(studentID); err != nil {
				return err
			}
		}
		projects, err = session.CommunityProjects(ctx, opts)
	}
	if err != nil {
		return err
	}

	if expr != "" {
		match, err := filter.CreateFilter(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		filtered := projects[:0]
		for _, project := range projects {
			if match(project) {
				filtered = append(filtered, project)
			}
		}
		projects = filtered
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("\nFound %d projects:\n", len(projects))
	fmt.Println(strings.Repeat("-", 80))
	for _, project := range projects {
		printProject(project)
	}
	return nil
}

func printProject(project algoritmika.Project) {
	fmt.Printf("• %s [%s] by %s\n", project.Title, project.Type, project.Author)
	if cfg.Safety.ShowDetails {
		if project.Description != "" {
			fmt.Printf("  %s\n", project.Description)
		}
		fmt.Printf("  Likes: %d, views: %d, remixes: %d, comments: %d\n",
			project.Likes, project.Views, project.Remixes, project.Comments)
		fmt.Printf("  Created: %s\n", project.CreatedAt.Format("2006-01-02"))
		fmt.Printf("  %s\n", project.URL)
	}
}

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Show a single project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

func runProject(cmd *cobra.Command, args []string) error {
	id, err := algoritmika.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	project, err := session.ProjectByID(ctx, id)
	if err != nil {
		return err
	}

	printProject(*project)
	reactions := project.Reactions
	fmt.Printf("  Reactions: %d like, %d love, %d fire\n",
		reactions.Likes, reactions.Loves, reactions.Fires)
	if project.OriginalProject != nil {
		fmt.Printf("  Remix of: %s (%s)\n", project.OriginalProject, project.OriginalProject.URL)
	}
	if len(project.Uploads) > 0 {
		fmt.Println("  Uploads:")
		for _, upload := range project.Uploads {
			fmt.Printf("    • %s: %s\n", upload.Filename, upload.URL)
		}
	}
	return nil
}
