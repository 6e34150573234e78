package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"contract-scanner/internal/analysis"
	"contract-scanner/internal/presentation"
	"contract-scanner/internal/shared/telemetry"
)

type scanOptions struct {
	text  string
	focus string
	tab   string
	tui   bool
	xlsx  string
}

func (c *cli) scanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Analyze a PDF, DOCX or TXT contract, or pasted text",
		Long: `Analyze a contract for its summary, obligations, risks and deadlines.

Pass a file (pdf, docx or txt, up to 10MB) or the contract itself with --text.
A file takes precedence over --text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.text, "text", "", "contract text to analyze")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "what the analysis should concentrate on")
	cmd.Flags().StringVar(&opts.tab, "tab", string(presentation.TabSummary), "view to print: summary, risks, time or impact")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "browse the result interactively")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write the result to this Excel workbook")
	return cmd
}

func (c *cli) runScan(cmd *cobra.Command, args []string, opts scanOptions) error {
	tab, err := presentation.ParseTab(opts.tab)
	if err != nil {
		return err
	}
	client, err := c.llmClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws := analysis.NewWorkspace(analysis.NewAnalyzer(client))
	ws.SetText(opts.text)
	ws.SetFocus(opts.focus)

	if len(args) == 1 {
		if err := loadFile(cmd, ws, args[0]); err != nil {
			return err
		}
	}
	if strings.TrimSpace(ws.Text()) == "" {
		return analysis.ErrNoContract
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing...")
	report, err := ws.Scan(ctx)
	if err != nil {
		return err
	}
	if report.Truncation.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: removed %d characters from the middle of the contract to fit the model.\n", report.Truncation.Removed)
	}

	if opts.xlsx != "" {
		if err := writeWorkbook(opts.xlsx, report.Result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.xlsx)
	}

	if opts.tui {
		// The program owns the terminal until it exits.
		telemetry.SetLogger(nil)
		result := report.Result
		return c.runTUI(presentation.NewModel(&result, tab), cmd.InOrStdin(), cmd.OutOrStdout())
	}
	fmt.Fprint(cmd.OutOrStdout(), presentation.Render(report.Result, tab))
	return nil
}

func loadFile(cmd *cobra.Command, ws *analysis.Workspace, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := ws.LoadFile(cmd.Context(), info.Name(), info.Size(), f); err != nil {
		return err
	}
	if doc, ok := ws.Document(); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %s (%s, %d bytes)\n", doc.Name, doc.Kind, doc.Size)
	}
	return nil
}

func writeWorkbook(path string, result analysis.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return presentation.WriteWorkbook(result, f)
}
