package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/skillmatch/skillmatch/internal/analysis"
	"github.com/skillmatch/skillmatch/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a resume against a job description and report skill gaps",
	Run: func(cmd *cobra.Command, _ []string) {
		runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume file (pdf or docx)")
	analyzeCmd.Flags().StringP("job-description", "f", "", "path to a plain text file with the job description")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job-description")
}

func runAnalyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Analysis == nil || config.Analysis.BaseURL == "" {
		logger.Fatal("analysis.base-url is required in the configuration file")
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	descriptionPath, _ := cmd.Flags().GetString("job-description")

	description, err := os.ReadFile(descriptionPath)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	client := analysis.New(config.Analysis.BaseURL, logger)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	comparison, err := client.Analyze(ctx, resumePath, string(description))
	if err != nil {
		logger.Fatal("analyzing the resume", zap.Error(err))
	}

	printComparison(comparison)
}

func printComparison(c *analysis.SkillComparison) {
	fmt.Printf("Overall match: %.0f%%\n", c.OverallScore)

	printSkillList("Matched", c.Matched)
	printSkillList("Partial", c.Partial)
	printSkillList("Missing", c.Missing)

	if len(c.Recommendations) == 0 {
		return
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range c.Recommendations {
		fmt.Printf("  %s\n", rec.Skill)
		if len(rec.Courses) > 0 {
			fmt.Printf("    courses: %s\n", strings.Join(rec.Courses, ", "))
		}
		if len(rec.Resources) > 0 {
			fmt.Printf("    resources: %s\n", strings.Join(rec.Resources, ", "))
		}
	}
}

func printSkillList(header string, skills []string) {
	if len(skills) == 0 {
		return
	}
	fmt.Printf("\n%s skills:\n  %s\n", header, strings.Join(skills, ", "))
}
