package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.curricula/config.toml.

Environment variables (and a .env file in the working directory) override
the file: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, OLLAMA_HOST,
CURRICULA_EMBED_PROVIDER, CURRICULA_EMBED_MODEL, CURRICULA_LLM_PROVIDER,
CURRICULA_LLM_MODEL and CURRICULA_DOCUMENT.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single dotted key, e.g.

  curricula settings set chunking.mode hybrid
  curricula settings set llm.provider anthropic
  curricula settings set llm.api_key          (prompts without echo)

The resulting settings are validated before anything is written.
Run 'curricula settings keys' for the list of keys.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Ping the configured embedding and LLM providers",
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

// field is one "Label: value" line of settings show.
type field struct{ label, value string }

func providerFields(p domain.AIProvider, model, baseURL, apiKey string, configured bool) []field {
	out := []field{{"Provider", p.Description()}, {"Model", model}}
	if p.IsLocal() || baseURL != "" {
		out = append(out, field{"Base URL", baseURL})
	}
	if p.RequiresAPIKey() {
		shown := "(not set)"
		if apiKey != "" {
			shown = maskAPIKey(apiKey)
		}
		out = append(out, field{"API Key", shown})
	}
	state := "configured"
	if !configured {
		state = "not configured"
	}
	return append(out, field{"Status", state})
}

type section struct {
	name   string
	fields []field
}

func settingsSections(s *domain.AppSettings) []section {
	llm := []field{{"Provider", "(disabled)"}}
	if s.LLM.Provider != "" {
		llm = providerFields(s.LLM.Provider, s.LLM.Model, s.LLM.BaseURL, s.LLM.APIKey, s.LLM.IsConfigured())
	}
	vectorPath := s.Vector.Path
	if vectorPath == "" {
		vectorPath = "(in memory)"
	}

	return []section{
		{"Document", []field{{"Path", s.Document.Path}}},
		{"Embedding", providerFields(s.Embedding.Provider, s.Embedding.Model,
			s.Embedding.BaseURL, s.Embedding.APIKey, s.Embedding.IsConfigured())},
		{"LLM", llm},
		{"Vector Store", []field{
			{"Path", vectorPath},
			{"Collection", s.Vector.Collection},
			{"Compress", strconv.FormatBool(s.Vector.Compress)},
		}},
		{"Chunking", []field{
			{"Mode", s.Chunking.Mode.Description()},
			{"Workers", strconv.Itoa(s.Chunking.Workers)},
			{"Summary policy", string(s.Chunking.SummaryPolicy)},
			{"Leading subjects", strconv.Itoa(s.Chunking.LeadingSubjects)},
			{"LLM rate", fmt.Sprintf("%.2f req/s", s.Chunking.LLMRate)},
		}},
		{"Search", []field{{"Default k", strconv.Itoa(s.Search.DefaultK)}}},
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Current settings\n\n")
	for _, sec := range settingsSections(settings) {
		fmt.Fprintf(out, "[%s]\n", sec.name)
		for _, f := range sec.fields {
			fmt.Fprintf(out, "  %s: %s\n", f.label, f.value)
		}
		fmt.Fprintln(out)
	}

	if err := settingsService.Validate(settings); err != nil {
		fmt.Fprintf(out, "Warning: %v\nFix it with 'curricula settings set <key> <value>'.\n", err)
		return nil
	}
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case strings.HasSuffix(key, ".api_key"):
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	shown := value
	if strings.HasSuffix(key, ".api_key") {
		shown = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if providerCheck == nil {
		return errors.New("provider check not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	embedErr, llmErr := providerCheck(cmd.Context(), settings)
	cmd.Printf("Embedding (%s %s): %s\n", settings.Embedding.Provider, settings.Embedding.Model, checkState(embedErr))
	if settings.LLM.Provider == "" {
		cmd.Println("LLM: disabled")
	} else {
		cmd.Printf("LLM (%s %s): %s\n", settings.LLM.Provider, settings.LLM.Model, checkState(llmErr))
	}

	if embedErr != nil {
		return errors.New("embedding provider check failed")
	}
	return nil
}

func checkState(err error) string {
	if err != nil {
		return "FAILED: " + err.Error()
	}
	return "OK"
}

// readSecret reads a line from stdin, without echo when stdin is a
// terminal.
func readSecret() string {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if b, err := term.ReadPassword(fd); err == nil {
			return string(b)
		}
	}
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

// maskAPIKey keeps the first and last four characters of keys long
// enough that this reveals little.
func maskAPIKey(k string) string {
	if len(k) <= 8 {
		return "****"
	}
	return k[:4] + "..." + k[len(k)-4:]
}
