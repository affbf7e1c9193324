package cmd

import (
	"fmt"
	"io"
	"strconv"

	"gabinete-digital/models"

	"github.com/spf13/cobra"
)

var showVersion int

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Inspect proposal drafts",
}

var proposalsHistoryCmd = &cobra.Command{
	Use:   "history <proposal-id>",
	Short: "List the versions of a proposal, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposalsHistory,
}

var proposalsListCmd = &cobra.Command{
	Use:   "list [author]",
	Short: "List proposals, most recently updated first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProposalsList,
}

func init() {
	proposalsHistoryCmd.Flags().IntVar(&showVersion, "show", 0, "print the full text of this version")
	proposalsCmd.AddCommand(proposalsHistoryCmd, proposalsListCmd)
	rootCmd.AddCommand(proposalsCmd)
}

func runProposalsHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	proposalID := args[0]
	if showVersion > 0 {
		version, err := a.proposalService.GetVersion(cmd.Context(), proposalID, showVersion)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.BodyText)
		return nil
	}

	versions, err := a.proposalService.ListVersions(cmd.Context(), proposalID)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("no versions recorded for proposal %s", proposalID)
	}

	printHistory(cmd.OutOrStdout(), versions)
	return nil
}

func printHistory(w io.Writer, versions []models.ProposalDraftVersion) {
	first := versions[len(versions)-1]
	fmt.Fprintf(w, "%s  %s: %s (%s)\n", first.ProposalID, first.DocumentType, first.SubjectText, first.Author)
	for _, v := range versions {
		note := "initial draft"
		if v.VersionNumber > 1 {
			note = "from v" + strconv.Itoa(v.BaseVersion) + ": " + v.Instruction
		}
		fmt.Fprintf(w, "  v%-3d %s  %s\n", v.VersionNumber, v.CreatedAt.Local().Format("2006-01-02 15:04"), note)
	}
}

func runProposalsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	author := ""
	if len(args) == 1 {
		author = args[0]
	}

	summaries, err := a.proposalService.ListProposals(cmd.Context(), author)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  v%d  %s: %s (%s)\n", s.ProposalID, s.LatestVersion, s.DocumentType, s.SubjectText, s.Author)
	}
	return nil
}
