// Command contractscan analyzes contracts with an LLM, drafts new ones,
// browses the template catalog and manages the account session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"contract-scanner/internal/llm"
	"contract-scanner/internal/llm/openai"
	"contract-scanner/internal/session"
	"contract-scanner/internal/shared/config"
	"contract-scanner/internal/shared/telemetry"
)

const missingKeyMessage = "API key not configured. Please set OPENROUTER_API_KEY in your .env file"

// cli carries the collaborators every subcommand needs so tests can swap
// them out.
type cli struct {
	cfg     config.ClientConfig
	newLLM  func(config.ClientConfig) (llm.Client, error)
	tokens  func() (session.TokenStore, error)
	runTUI  func(m tea.Model, in io.Reader, out io.Writer) error
	verbose bool
}

func newCLI(cfg config.ClientConfig) *cli {
	return &cli{
		cfg:    cfg,
		newLLM: openRouterClient,
		tokens: func() (session.TokenStore, error) { return session.DefaultFileStore() },
		runTUI: func(m tea.Model, in io.Reader, out io.Writer) error {
			_, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen()).Run()
			return err
		},
	}
}

func openRouterClient(cfg config.ClientConfig) (llm.Client, error) {
	client, err := openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, openai.WithEndpoint(cfg.LLMEndpoint))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func main() {
	telemetry.SetLogger(telemetry.NewWriterLogger(os.Stderr, zapcore.WarnLevel))
	defer telemetry.Sync()

	root := newCLI(config.LoadClient()).rootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		telemetry.Sync()
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contractscan",
		Short:         "Scan contracts for risks, obligations and deadlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Logs go to stderr so stdout only carries reports and drafts.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zapcore.WarnLevel
			if c.verbose {
				level = zapcore.DebugLevel
			}
			telemetry.SetLogger(telemetry.NewWriterLogger(cmd.ErrOrStderr(), level))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			telemetry.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log progress to stderr")
	root.AddCommand(
		c.scanCmd(),
		c.generateCmd(),
		c.templatesCmd(),
		c.signupCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.meCmd(),
	)
	return root
}

// llmClient reports a missing key before anything is sent.
func (c *cli) llmClient() (llm.Client, error) {
	client, err := c.newLLM(c.cfg)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return nil, errors.New(missingKeyMessage)
	}
	return client, err
}

func (c *cli) sessionClient() (*session.Client, error) {
	store, err := c.tokens()
	if err != nil {
		return nil, err
	}
	return session.NewClient(c.cfg.APIBaseURL, store), nil
}

// templatesURL maps the credential base (".../api/users") to the sibling
// template routes.
func (c *cli) templatesURL() string {
	base := strings.TrimRight(c.cfg.APIBaseURL, "/")
	base = strings.TrimSuffix(base, "/users")
	return base + "/templates"
}

// userMessage flattens field errors into one line per field.
func userMessage(err error) string {
	fields := session.FieldErrorsFrom(err)
	if len(fields) == 0 {
		return err.Error()
	}
	return fields.Error()
}
