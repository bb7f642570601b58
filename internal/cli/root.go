package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civicgo/civicgo/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "civicgo",
	Short: "CivicGo - civic issue classification and proof-of-record pipelines",
	Long: `CivicGo runs the two backend pipelines behind a civic issue reporting
application:

- Image classification: a fixed-priority chain of image analysis providers
  maps a photo of a municipal problem to a civic category (Water,
  Electricity, Roads, Sanitation, Infrastructure, Others). When no provider
  is configured or reachable, a deterministic placeholder result is
  produced so classification never fails outright.

- Proof-of-record: each report can be anchored as a minimal immutable JSON
  record in a content-addressable store, retrievable and checkable against
  tampering by its CID.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("civicgo v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.civicgo/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.civicgo")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CIVICGO_*
	viper.SetEnvPrefix("CIVICGO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the effective configuration: defaults, overlaid by
// the config file, overlaid by conventional provider env vars
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if order := viper.GetStringSlice("providers.order"); len(order) > 0 {
		cfg.Providers.Order = order
	}
	if rate := viper.GetFloat64("providers.requests_per_minute"); rate > 0 {
		cfg.Providers.RequestsPerMinute = rate
	}

	cfg.Providers.Clarifai.APIKey = firstNonEmpty(viper.GetString("providers.clarifai.api_key"), os.Getenv("CLARIFAI_API_KEY"))
	cfg.Providers.Clarifai.Model = viper.GetString("providers.clarifai.model")
	cfg.Providers.HuggingFace.APIToken = firstNonEmpty(viper.GetString("providers.huggingface.api_token"), os.Getenv("HF_API_TOKEN"))
	cfg.Providers.HuggingFace.Model = viper.GetString("providers.huggingface.model")
	cfg.Providers.OpenAI.APIKey = firstNonEmpty(viper.GetString("providers.openai.api_key"), os.Getenv("OPENAI_API_KEY"))
	cfg.Providers.OpenAI.Model = viper.GetString("providers.openai.model")

	if kind := viper.GetString("store.kind"); kind != "" {
		cfg.Store.Kind = kind
	}
	if apiURL := viper.GetString("store.api_url"); apiURL != "" {
		cfg.Store.APIURL = apiURL
	}
	if gateway := viper.GetString("store.gateway_url"); gateway != "" {
		cfg.Store.GatewayURL = gateway
	}
	if dir := viper.GetString("store.dir"); dir != "" {
		cfg.Store.Dir = dir
	}
	if rate := viper.GetFloat64("store.requests_per_minute"); rate > 0 {
		cfg.Store.RequestsPerMinute = rate
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if dir := viper.GetString("cache.dir"); dir != "" {
		cfg.Cache.Dir = dir
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
