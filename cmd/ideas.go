package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Manage the idea bank",
}

var ideasExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every submitted idea as CSV",
	RunE:  runIdeasExport,
}

func init() {
	ideasExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	ideasCmd.AddCommand(ideasExportCmd)
	rootCmd.AddCommand(ideasCmd)
}

func runIdeasExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := a.ideaService.ExportCSV(cmd.Context(), w); err != nil {
		return fmt.Errorf("exporting ideas: %w", err)
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOutput)
	}
	return nil
}
