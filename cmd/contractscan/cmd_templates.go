package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"contract-scanner/internal/templates"
)

func (c *cli) templatesCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "templates [query]",
		Short: "Browse the contract template catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entries, err := templates.NewClient(c.templatesURL()).List(cmd.Context(), query, category)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTYPE\tDOWNLOADS")
			for _, e := range entries {
				title := e.Title
				if e.Popular {
					title += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", e.ID, title, e.Category, e.FileType, e.Downloads)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", templates.CategoryAll, "one of All, Business, Employment, Real Estate, Services, Legal")
	cmd.AddCommand(c.templatesDownloadCmd())
	return cmd
}

func (c *cli) templatesDownloadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			dir := "."
			if out != "" {
				dir = filepath.Dir(out)
			}
			tmp, err := os.CreateTemp(dir, ".template-*")
			if err != nil {
				return err
			}
			defer func() {
				if err != nil {
					tmp.Close()
					os.Remove(tmp.Name())
				}
			}()

			name, err := templates.NewClient(c.templatesURL()).Download(cmd.Context(), args[0], tmp)
			if err != nil {
				return err
			}
			if err = tmp.Close(); err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err = os.Rename(tmp.Name(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "file to save to (defaults to the template's file name)")
	return cmd
}
