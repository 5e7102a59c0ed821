package cmd

import (
	"errors"
	"log"

	"github.com/skillmatch/skillmatch/internal/profile"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "skillmatch"
)

type Config struct {
	Profile       *profile.CandidateProfile `mapstructure:"profile"`
	Search        *SearchConfig             `mapstructure:"search"`
	Jobs          *JobsConfig               `mapstructure:"jobs"`
	DismissedFile string                    `mapstructure:"dismissed-file"`
	UserAgent     string                    `mapstructure:"user-agent"`
	Interview     *InterviewConfig          `mapstructure:"interview"`
	Analysis      *AnalysisConfig           `mapstructure:"analysis"`
}

type SearchConfig struct {
	Title    string `mapstructure:"title"`
	Location string `mapstructure:"location"`
}

type JobsConfig struct {
	Country    string `mapstructure:"country"`
	MinScore   int    `mapstructure:"min-score"`
	MaxAgeDays int    `mapstructure:"max-age-days"`
	Exclude    *struct {
		Companies []string
	} `mapstructure:"exclude"`
	Adzuna  *AdzunaConfig  `mapstructure:"adzuna"`
	JSearch *JSearchConfig `mapstructure:"jsearch"`
}

type AdzunaConfig struct {
	AppID      string `mapstructure:"app-id"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

type JSearchConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type InterviewConfig struct {
	Provider string        `mapstructure:"provider"`
	API      *APIConfig    `mapstructure:"api"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type AnalysisConfig struct {
	BaseURL string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch is a cli for matching your profile against job postings and practicing mock interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("jobs.adzuna.app-key-file", "ADZUNA_APP_KEY_FILE"); err != nil {
		log.Fatalf("binding ADZUNA_APP_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("jobs.jsearch.api-key-file", "JSEARCH_API_KEY_FILE"); err != nil {
		log.Fatalf("binding JSEARCH_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("interview.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing default config file is fine; commands validate what they
	// actually need. A present but unparseable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
