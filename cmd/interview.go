package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/skillmatch/skillmatch/internal/interview"
	"github.com/skillmatch/skillmatch/internal/interview/api"
	"github.com/skillmatch/skillmatch/internal/interview/gemini"
	"github.com/skillmatch/skillmatch/internal/logger"
	"github.com/skillmatch/skillmatch/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptAnswer = "Answer"
	PromptFlag   = "Flag for later review"
	PromptSkip   = "Skip"
	PromptQuit   = "Quit the interview"

	interviewProviderAPI    = "api"
	interviewProviderGemini = "gemini"
)

var roundPrompt = promptui.Select{
	Label: "Choose an action",
	Items: []string{PromptAnswer, PromptFlag, PromptSkip, PromptQuit},
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a four-round mock interview tailored to a company type",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("company-type", "c", "", "company type: product, service or startup. Prompted for when unset.")
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	provider, err := buildQuestionProvider(ctx, config.Interview, logger)
	if err != nil {
		logger.Fatal("building a question provider", zap.Error(err))
	}

	companyType, err := chooseCompanyType(cmd)
	if err != nil {
		logger.Fatal("choosing a company type", zap.Error(err))
	}

	session := interview.NewSession(provider, logger)

	if err := session.Start(ctx, companyType); err != nil {
		logger.Fatal("starting the interview", zap.Error(err))
	}

	stop := session.StartCountdown(ctx)
	defer stop()

	for session.State() == interview.StateInProgress {
		if done := playRound(ctx, session, logger); done {
			return
		}
	}

	printOutcome(ctx, session, logger)
}

// playRound drives one prompt cycle. Returns true when the user quit.
func playRound(ctx context.Context, session *interview.Session, logger *zap.Logger) bool {
	if session.Question() == "" {
		if !recoverQuestion(ctx, session, logger) {
			return true
		}
	}

	entered := session.RoundIndex()
	round := session.CurrentRound()

	fmt.Printf("\n=== Round %d of %d: %s ===\n", round.Number(), interview.TotalRounds, round.Label())
	fmt.Printf("Tip: %s\n", round.Tip())
	fmt.Printf("Time left: %ds\n\n", session.Remaining())
	fmt.Println(session.Question())

	_, action, err := roundPrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	// The countdown keeps running while the prompt blocks. If it
	// skipped the round in the meantime, the chosen action belongs to
	// a round that no longer exists.
	if session.RoundIndex() != entered || session.State() != interview.StateInProgress {
		fmt.Println("Time ran out for that round, it was recorded as skipped.")
		return false
	}

	switch action {
	case PromptAnswer:
		err = submitTypedAnswer(ctx, session, entered)
	case PromptFlag:
		err = session.Flag(ctx)
	case PromptSkip:
		err = session.Skip(ctx)
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return true
	}

	var validation *interview.ValidationError
	var provider *interview.ProviderError
	switch {
	case errors.As(err, &validation):
		fmt.Println(validation.Error())
	case errors.As(err, &provider):
		// The answer is already recorded; only the next question is
		// missing. The top of the loop retries the fetch.
		logger.Warn("fetching the next question failed", zap.Error(provider))
	case err != nil:
		logger.Fatal("exiting", zap.Error(err))
	}

	return false
}

func submitTypedAnswer(ctx context.Context, session *interview.Session, entered int) error {
	answerPrompt := promptui.Prompt{
		Label:   "Your answer",
		Default: session.Draft(),
	}

	text, err := answerPrompt.Run()
	if err != nil {
		return err
	}

	if session.RoundIndex() != entered || session.State() != interview.StateInProgress {
		fmt.Println("Time ran out while you were typing, the round was recorded as skipped.")
		return nil
	}

	session.SetDraft(text)
	return session.SubmitAnswer(ctx, text)
}

func recoverQuestion(ctx context.Context, session *interview.Session, logger *zap.Logger) bool {
	retryPrompt := promptui.Select{
		Label: "The question could not be fetched. Retry?",
		Items: []string{PromptYes, PromptNo},
	}

	for session.Question() == "" && session.State() == interview.StateInProgress {
		_, answer, err := retryPrompt.Run()
		if err != nil || answer == PromptNo {
			return false
		}

		if err := session.RetryQuestion(ctx); err != nil {
			logger.Warn("fetching the question failed", zap.Error(err))
		}
	}

	return true
}

func printOutcome(ctx context.Context, session *interview.Session, logger *zap.Logger) {
	fmt.Println("\n=== Interview complete ===")

	for _, entry := range session.History() {
		fmt.Printf("\nRound %d: %s\n", entry.Round, interview.Round(entry.Round-1).Label())
		fmt.Printf("Q: %s\n", entry.Question)
		fmt.Printf("A: %s\n", entry.Answer)
	}

	feedback, err := session.GetFeedback(ctx)
	if err != nil {
		logger.Error("fetching feedback", zap.Error(err))
		fmt.Println("\nFeedback is unavailable right now, please try again later.")
		return
	}

	printSection("Overall score", feedback.Score)
	printSection("Strengths", feedback.Strengths)
	printSection("Weaknesses", feedback.Weaknesses)
	printSection("Tips", feedback.Tips)
	printSection("Resources", feedback.Resources)
}

func printSection(header, body string) {
	if body == "" {
		return
	}
	fmt.Printf("\n%s:\n%s\n", header, body)
}

func chooseCompanyType(cmd *cobra.Command) (interview.CompanyType, error) {
	if raw, _ := cmd.Flags().GetString("company-type"); raw != "" {
		return interview.ParseCompanyType(strings.ToLower(raw))
	}

	types := []interview.CompanyType{interview.CompanyProduct, interview.CompanyService, interview.CompanyStartup}
	labels := make([]string, 0, len(types))
	for _, t := range types {
		labels = append(labels, t.Label())
	}

	typePrompt := promptui.Select{
		Label: "What kind of company are you preparing for?",
		Items: labels,
	}

	idx, _, err := typePrompt.Run()
	if err != nil {
		return "", err
	}

	return types[idx], nil
}

// buildQuestionProvider picks the question source. Gemini is used when
// configured, the HTTP backend otherwise.
func buildQuestionProvider(ctx context.Context, cfg *InterviewConfig, logger *zap.Logger) (interview.QuestionProvider, error) {
	if cfg == nil {
		cfg = &InterviewConfig{}
	}

	name := cfg.Provider
	if name == "" {
		if cfg.Gemini != nil && cfg.Gemini.APIKeyFile != "" {
			name = interviewProviderGemini
		} else {
			name = interviewProviderAPI
		}
	}

	switch name {
	case interviewProviderAPI:
		if cfg.API == nil || cfg.API.BaseURL == "" {
			return nil, fmt.Errorf("interview.api.base-url is required for the api provider")
		}
		return api.New(cfg.API.BaseURL, logger), nil
	case interviewProviderGemini:
		gcfg := cfg.Gemini
		if gcfg == nil || gcfg.APIKeyFile == "" {
			return nil, fmt.Errorf("interview.gemini.api-key-file is required for the gemini provider")
		}

		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: gcfg.APIKeyFile})
		if err != nil {
			return nil, err
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, logger)
		if err != nil {
			return nil, err
		}

		return gemini.NewProvider(generator, gcfg.MaxLogLength, logger), nil
	default:
		return nil, fmt.Errorf("unknown interview provider %q, expected %q or %q",
			name, interviewProviderAPI, interviewProviderGemini)
	}
}
