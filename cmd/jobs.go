package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/skillmatch/skillmatch/internal/filtering"
	"github.com/skillmatch/skillmatch/internal/jobs"
	"github.com/skillmatch/skillmatch/internal/jobs/adzuna"
	"github.com/skillmatch/skillmatch/internal/jobs/jsearch"
	"github.com/skillmatch/skillmatch/internal/logger"
	"github.com/skillmatch/skillmatch/internal/matching"
	"github.com/skillmatch/skillmatch/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowTop         = "Show top matches"
	PromptReportByCompany = "Report by company"
	PromptJobsToFile      = "Dump jobs to file"
	PromptInspect         = "Inspect a posting"
	PromptDismissAll      = "Dismiss all shown postings"
	PromptExit            = "Exit"
	PromptBack            = "back"
	PromptYes             = "Yes"
	PromptNo              = "No"

	defaultTopMatches = 10
)

var errExit = errors.New("exit requested")

var jobsPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowTop, PromptReportByCompany, PromptInspect, PromptJobsToFile, PromptDismissAll, PromptExit},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search job postings, score them against your profile and browse the results",
	Run: func(cmd *cobra.Command, _ []string) {
		runJobs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().BoolP("auto", "y", false, "print the top matches and exit without prompting")
	jobsCmd.Flags().IntP("top", "t", defaultTopMatches, "how many matches to show")
	jobsCmd.Flags().StringP("dismissed-file", "e", "", "special file with dismissed postings to exclude. Default is unset.")

	viper.BindPFlag("dismissed-file", jobsCmd.Flags().Lookup("dismissed-file"))
}

// runJobs is the search/score/filter/browse flow.
func runJobs(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Profile == nil {
		logger.Fatal("profile is required in the configuration file",
			zap.String("hint", "set profile.skills, profile.target-role and profile.location"),
		)
	}

	if err := config.Profile.Validate(); err != nil {
		logger.Fatal("incomplete profile", zap.Error(err))
	}

	query := buildQuery(config)
	logger.Info("starting the job search",
		zap.String("title", query.Title),
		zap.String("location", query.Location),
	)

	searcher := jobs.NewSearcher(buildProviders(config, logger), logger)

	found, err := searcher.Search(ctx, query)
	if err != nil {
		var aggregate *jobs.AggregateFailure
		if errors.As(err, &aggregate) {
			logger.Error("no jobs found", zap.Error(aggregate))
			fmt.Println("Unable to fetch jobs. Please try again later or try a different search term.")
			return
		}
		logger.Fatal("searching jobs", zap.Error(err))
	}

	matching.ScoreAll(found, config.Profile, time.Now())
	found.SortByScore()

	filtered, err := runFilters(ctx, config, logger, found)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	found = filtered

	if found.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	top, _ := cmd.Flags().GetInt("top")

	if auto, _ := cmd.Flags().GetBool("auto"); auto {
		printTopMatches(found, top)
		return
	}

	for {
		logger.Info("current list of postings", zap.Int("count", found.Len()))

		_, action, err := jobsPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleJobsAction(action, logger, found, top); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func buildQuery(config *Config) jobs.Query {
	query := jobs.Query{
		Title:    config.Profile.TargetRole,
		Location: config.Profile.CurrentLocation,
	}

	if config.Search != nil {
		if config.Search.Title != "" {
			query.Title = config.Search.Title
		}
		if config.Search.Location != "" {
			query.Location = config.Search.Location
		}
	}

	return query
}

// buildProviders wires the primary and fallback job providers. Missing
// credentials surface as a provider failure during search, which simply
// moves the fallback along.
func buildProviders(config *Config, logger *zap.Logger) []jobs.Provider {
	jobsCfg := config.Jobs
	if jobsCfg == nil {
		jobsCfg = &JobsConfig{}
	}

	var appID, appKey string
	if jobsCfg.Adzuna != nil {
		appID = jobsCfg.Adzuna.AppID
		appKey = loadOptionalSecret("adzuna app key", jobsCfg.Adzuna.AppKeyFile, logger)
	}

	adzunaClient := adzuna.New(appID, appKey, jobsCfg.Country, logger)
	if config.UserAgent != "" {
		adzunaClient.UserAgent = config.UserAgent
	}

	var rapidKey string
	if jobsCfg.JSearch != nil {
		rapidKey = loadOptionalSecret("jsearch api key", jobsCfg.JSearch.APIKeyFile, logger)
	}

	jsearchClient := jsearch.New(rapidKey, logger)
	if config.UserAgent != "" {
		jsearchClient.UserAgent = config.UserAgent
	}

	return []jobs.Provider{adzunaClient, jsearchClient}
}

func loadOptionalSecret(name, file string, logger *zap.Logger) string {
	if file == "" {
		return ""
	}

	secret, err := secrets.Load(secrets.Source{Name: name, File: file})
	if err != nil {
		logger.Warn("loading secret failed", zap.String("secret", name), zap.Error(err))
		return ""
	}
	return secret
}

func runFilters(ctx context.Context, config *Config, logger *zap.Logger, found *jobs.Jobs) (*jobs.Jobs, error) {
	cfg := &filtering.Config{
		DismissedFile: viper.GetString("dismissed-file"),
	}
	if config.Jobs != nil {
		cfg.MinScore = config.Jobs.MinScore
		cfg.MaxAgeDays = config.Jobs.MaxAgeDays
		if config.Jobs.Exclude != nil {
			cfg.Companies = config.Jobs.Exclude.Companies
		}
	}
	if cfg.DismissedFile == "" {
		cfg.DismissedFile = config.DismissedFile
	}

	steps := []filtering.Filter{
		filtering.NewMinScore(),
		filtering.NewStale(),
		filtering.NewCompanies(),
		filtering.NewDismissedFile(),
	}

	return filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, steps, found)
}

func handleJobsAction(action string, logger *zap.Logger, found *jobs.Jobs, top int) error {
	switch action {
	case PromptShowTop:
		printTopMatches(found, top)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(found.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", found.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := found.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptInspect:
		return inspectPosting(logger, found)
	case PromptDismissAll:
		return dismissAll(logger, found)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printTopMatches(found *jobs.Jobs, top int) {
	if top <= 0 || top > found.Len() {
		top = found.Len()
	}

	for _, posting := range found.Items[:top] {
		fmt.Printf("[%3d%%] %s / %s / %s\n       %s\n",
			posting.MatchScore, posting.Title, posting.Company, posting.Location, posting.ApplyURL,
		)
	}
}

func inspectPosting(logger *zap.Logger, found *jobs.Jobs) error {
	items := make([]string, 0, found.Len())
	for _, posting := range found.Items {
		items = append(items, fmt.Sprintf("%s %s / %s / %d%%",
			posting.ID, posting.Title, posting.Company, posting.MatchScore,
		))
	}

	postingPrompt := promptui.Select{
		Label: "Choose a posting and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := postingPrompt.Run()
	if err != nil {
		return err
	}

	if selected == PromptBack {
		return nil
	}

	id := firstField(selected)
	posting := found.FindByID(id)
	if posting == nil {
		return fmt.Errorf("there is no such posting id %s", id)
	}

	pretty, _ := json.MarshalIndent(posting, "", "  ")
	fmt.Println(string(pretty))

	dismissPrompt := promptui.Select{
		Label: "Dismiss this posting?",
		Items: []string{PromptNo, PromptYes},
	}

	_, answer, err := dismissPrompt.Run()
	if err != nil {
		return err
	}

	if answer == PromptYes {
		single := &jobs.Jobs{Items: []*jobs.Posting{posting}}
		if err := appendToDismissedFile(logger, single); err != nil {
			return err
		}
		found.Exclude(jobs.PostingIDField, []string{posting.ID})
	}

	return nil
}

func dismissAll(logger *zap.Logger, found *jobs.Jobs) error {
	if err := appendToDismissedFile(logger, found); err != nil {
		return err
	}

	found.Exclude(jobs.PostingIDField, found.ToDismissed().IDs())
	return errExit
}

func appendToDismissedFile(logger *zap.Logger, toDismiss *jobs.Jobs) error {
	path := viper.GetString("dismissed-file")
	if path == "" {
		return fmt.Errorf("dismissed file is not configured, pass --dismissed-file or set dismissed-file in the config")
	}

	dismissed, err := jobs.GetDismissedJobsFromFile(path)
	if err != nil {
		dismissed = &jobs.DismissedJobs{}
	}

	dismissed.Append(toDismiss.ToDismissed())

	if err := dismissed.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to dismissed file", zap.String("filename", path))
	return nil
}

func firstField(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
