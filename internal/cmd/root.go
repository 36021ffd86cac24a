package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/layout"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/parser"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/adapter/transcriber"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/app"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/config"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/domain"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/lang"
	"github.com/wafy80/whatsapp-chat-transcriber/internal/logger"
)

var (
	fromStr string
	toStr   string
)

var rootCmd = &cobra.Command{
	Use:   "chat-transcriber <export.zip>",
	Short: "Convert WhatsApp chat exports to structured documents",
	Long: `chat-transcriber processes WhatsApp chat exports (.zip files) and converts
them to formatted documents (.docx or HTML/PDF). Voice messages are
automatically transcribed using the OpenAI Whisper or Gemini API.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVar(&fromStr, "from", "", `Start time filter (format: "DD.MM.YYYY" or "DD.MM.YYYY HH:MM")`)
	rootCmd.Flags().StringVar(&toStr, "to", "", `End time filter (format: "DD.MM.YYYY" or "DD.MM.YYYY HH:MM")`)

	rootCmd.PersistentFlags().String("language", "", `Chat and transcription language code (e.g. "it")`)
	rootCmd.PersistentFlags().String("transcriber", "", `Transcription backend: "openai" or "gemini"`)
	rootCmd.PersistentFlags().String("owner", "", "Name of the exporting participant")
	rootCmd.PersistentFlags().String("dialect", "", `Template dialect: "bracket" (.docx) or "blocks" (HTML/PDF)`)
	rootCmd.PersistentFlags().String("template", "", "Custom document template file (blocks dialect)")
	rootCmd.PersistentFlags().Bool("exclude-images", false, "Replace images with a privacy placeholder")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	cobra.CheckErr(viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language")))
	cobra.CheckErr(viper.BindPFlag("transcriber", rootCmd.PersistentFlags().Lookup("transcriber")))
	cobra.CheckErr(viper.BindPFlag("owner_name", rootCmd.PersistentFlags().Lookup("owner")))
	cobra.CheckErr(viper.BindPFlag("dialect", rootCmd.PersistentFlags().Lookup("dialect")))
	cobra.CheckErr(viper.BindPFlag("template_file", rootCmd.PersistentFlags().Lookup("template")))
	cobra.CheckErr(viper.BindPFlag("exclude_images", rootCmd.PersistentFlags().Lookup("exclude-images")))
	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
}

func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Clean(filepath.Join(configHome, app.ApplicationName))
}

func initConfig() {
	// A local .env complements the shell environment, never overrides it.
	_ = godotenv.Load()

	dir := configDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) { //nolint:gosec // path is constructed from XDG_CONFIG_HOME or user home dir
		err = os.MkdirAll(dir, 0750) //nolint:gosec // see above
		cobra.CheckErr(err)
	}

	config.SetDefaults(viper.GetViper())

	viper.AddConfigPath(dir)
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	viper.AutomaticEnv()

	// Silently ignore missing config file
	_ = viper.ReadInConfig()

	// Bridge config value to environment variable for OpenAI SDK
	if apiKey := viper.GetString("openai_api_key"); apiKey != "" {
		if os.Getenv("OPENAI_API_KEY") == "" {
			_ = os.Setenv("OPENAI_API_KEY", apiKey)
		}
	}
}

// buildService resolves settings and wires the pipeline.
func buildService() (*app.ChatService, *parser.ExportParser, config.Settings, error) {
	settings, err := config.Resolve(viper.GetViper())
	if err != nil {
		return nil, nil, config.Settings{}, err
	}

	pack, err := lang.Load(settings.LangDir, settings.Language)
	if err != nil {
		return nil, nil, config.Settings{}, fmt.Errorf("loading language pack: %w", err)
	}

	log := logger.New(settings.LogLevel)

	var t domain.Transcriber
	switch settings.Transcriber {
	case config.TranscriberGemini:
		t = transcriber.NewGemini(settings.GeminiAPIKey, settings.GeminiModel)
	default:
		t = transcriber.NewOpenAI()
	}

	p := &parser.ExportParser{}
	svc := app.NewChatService(
		p, t,
		layout.NewDocx(log),
		layout.NewMarkup(settings.HTMLConverter, log),
		settings, pack, log,
	)

	return svc, p, settings, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	exportPath := args[0]

	from, err := parseTime(fromStr)
	if err != nil {
		return fmt.Errorf("parsing --from: %w", err)
	}

	to, err := parseTime(toStr)
	if err != nil {
		return fmt.Errorf("parsing --to: %w", err)
	}

	// If --to is date-only, set to end of day
	if to != nil && !strings.Contains(toStr, " ") {
		endOfDay := to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		to = &endOfDay
	}

	svc, p, _, err := buildService()
	if err != nil {
		return err
	}
	defer p.Cleanup()

	out, err := svc.Process(cmd.Context(), exportPath, from, to)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	formats := []string{
		"02.01.2006 15:04",
		"02.01.2006",
	}

	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("unknown time format: %q (expected DD.MM.YYYY or DD.MM.YYYY HH:MM)", s)
}
