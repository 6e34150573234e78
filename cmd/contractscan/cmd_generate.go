package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"contract-scanner/internal/drafting"
	"contract-scanner/internal/export"
)

func (c *cli) generateCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Draft a new contract from a description",
		Long: `Draft a contract with the LLM and print it.

With --format pdf or --format docx the draft is also saved, by default as
generated-contract.pdf or generated-contract.docx.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f export.Format
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}

			client, err := c.llmClient()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Generating...")
			text, err := drafting.NewDrafter(client).Draft(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if f == "" {
				return nil
			}
			if out == "" {
				out = f.FileName()
			}
			if err := saveExport(out, f, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "save the draft as pdf or docx")
	cmd.Flags().StringVarP(&out, "output", "o", "", "file to save the draft to")
	return cmd
}

func saveExport(path string, format export.Format, text string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(f, format, text)
}
