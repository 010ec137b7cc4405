package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dicom-deid/internal/anonymizer"
	"dicom-deid/internal/identity"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	Exclude       []string
	Output        string
	Recursive     bool
	Blank         bool
	Enumerate     bool
	DeletePrivate bool
	UID           bool
	UIDRoot       string
	Audit         string
	Hash          string
	ContinueAudit bool
	Report        string
	RulesFile     string
	DeleteTags    []string
	KeepTags      []string
	NoProgress    bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <folder>...",
		Short: "De-identify every file under the given folders",
		Long: "Processes every file under the given folders, descending into sub-folders, one file at a\n" +
			"time. Files that cannot be read or written are reported and skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.OutOrStdout(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.Exclude, "exclude", "x", nil, "file or folder to leave untouched (repeatable)")
	f.StringVarP(&opts.Output, "output", "o", "", "write results under this folder instead of overwriting the sources")
	f.BoolVarP(&opts.Recursive, "recursive", "r", false, "apply rules inside nested sequence items as well")
	f.BoolVar(&opts.Blank, "blank", false, "blank every matched field instead of substituting")
	f.BoolVarP(&opts.Enumerate, "enumerate", "e", false, "number substitutes for rules flagged enumerate (Patient1, Patient2, ...)")
	f.BoolVar(&opts.DeletePrivate, "delete-private", false, "remove private (odd group) elements")
	f.BoolVar(&opts.UID, "uid", false, "regenerate UIDs consistently across the run")
	f.StringVar(&opts.UIDRoot, "uid-root", "", "root for regenerated UIDs (default "+identity.DefaultUIDRoot+")")
	f.StringVarP(&opts.Audit, "audit", "a", "", "write the original to substitute audit trail to this file")
	f.StringVar(&opts.Hash, "hash", "", "hash audit keys with "+strings.Join(identity.HashNames(), "|")+"; a bare --hash uses "+identity.DefaultHash+" (default clear)")
	f.BoolVar(&opts.ContinueAudit, "continue-audit", false, "seed substitutes from an existing audit trail")
	f.StringVar(&opts.Report, "report", "", "write a JSON report of every file's outcome")
	f.StringVar(&opts.RulesFile, "rules", "", "YAML rules file applied on top of the default rules")
	f.StringArrayVar(&opts.DeleteTags, "delete-tag", nil, "tag (GGGG,EEEE) to strip from documents (repeatable)")
	f.StringArrayVar(&opts.KeepTags, "keep-tag", nil, "tag (GGGG,EEEE) to leave untouched (repeatable)")
	f.BoolVar(&opts.NoProgress, "no-progress", false, "do not show a progress bar")
	f.Lookup("hash").NoOptDefVal = identity.DefaultHash

	return cmd
}

// Run executes a de-identification run over folders and prints a summary to out.
func Run(out io.Writer, folders []string, opts *RunOptions) error {
	aopts := anonymizer.Options{
		Recursive:     opts.Recursive,
		Blank:         opts.Blank,
		Enumeration:   opts.Enumerate,
		DeletePrivate: opts.DeletePrivate,
		UID:           opts.UID,
		UIDRoot:       opts.UIDRoot,
		WritePath:     opts.Output,
		AuditTrail:    opts.Audit,
		Hash:          opts.Hash,
		ContinueAudit: opts.ContinueAudit,
		ReportFile:    opts.Report,
		Logger:        logrus.StandardLogger(),
	}

	var pb *progressBar
	if !opts.NoProgress {
		pb = newProgressBar(out)
		aopts.Progress = pb.callback()
	}

	a, err := anonymizer.New(aopts)
	if err != nil {
		return err
	}
	if err := configureRules(a, opts); err != nil {
		return err
	}
	for _, folder := range folders {
		if err := a.AddFolder(folder); err != nil {
			return err
		}
	}
	for _, ex := range opts.Exclude {
		if err := a.AddException(ex); err != nil {
			return err
		}
	}

	printHeader(out, folders, opts)

	stats, err := a.Execute()
	if pb != nil {
		pb.finish()
	}
	printSummary(out, stats, opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// configureRules applies the rules file and the tag flags, in that order.
func configureRules(a *anonymizer.Anonymizer, opts *RunOptions) error {
	if opts.RulesFile != "" {
		if err := a.LoadRules(opts.RulesFile); err != nil {
			return err
		}
	}
	for _, t := range opts.DeleteTags {
		if err := a.DeleteTag(t); err != nil {
			return err
		}
	}
	for _, t := range opts.KeepTags {
		if err := a.KeepTag(t); err != nil {
			return err
		}
	}
	return nil
}

// printHeader prints the run configuration
func printHeader(out io.Writer, folders []string, opts *RunOptions) {
	bold := color.New(color.Bold)
	bold.Fprintln(out, "DICOM De-identification")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Input:     %s\n", strings.Join(folders, ", "))
	if opts.Output != "" {
		fmt.Fprintf(out, "Output:    %s\n", opts.Output)
	} else {
		color.New(color.FgYellow).Fprintln(out, "Output:    sources are overwritten in place")
	}
	if len(opts.Exclude) > 0 {
		fmt.Fprintf(out, "Excluded:  %s\n", strings.Join(opts.Exclude, ", "))
	}

	var options []string
	if opts.Recursive {
		options = append(options, "Recursive")
	}
	if opts.Blank {
		options = append(options, "Blank")
	}
	if opts.Enumerate {
		options = append(options, "Enumerate")
	}
	if opts.DeletePrivate {
		options = append(options, "Delete private")
	}
	if opts.UID {
		options = append(options, "Regenerate UIDs")
	}
	if len(options) > 0 {
		fmt.Fprintf(out, "Options:   %s\n", strings.Join(options, ", "))
	}
	fmt.Fprintln(out)
}

// printSummary prints the processing summary
func printSummary(out io.Writer, stats *anonymizer.Stats, opts *RunOptions) {
	if stats == nil {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))

	status := color.New(color.FgGreen).Sprint("Complete!")
	if stats.Failed > 0 {
		status = color.New(color.FgRed).Sprint("Complete with errors.")
	}
	fmt.Fprintf(out, "%s %d succeeded, %d failed, %d excluded\n",
		status, stats.Success, stats.Failed, stats.Excluded)
	fmt.Fprintf(out, "Written:   %s in %s\n",
		humanize.Bytes(uint64(stats.BytesWritten)), stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Changes:   %d substituted, %d deleted, %d UIDs regenerated\n",
		stats.Substitutions, stats.Deleted, stats.UIDsRegenerated)
	if opts.Audit != "" {
		fmt.Fprintf(out, "Audit:     %s (%s records)\n", opts.Audit, humanize.Comma(int64(stats.AuditRecords)))
	}
	if opts.Report != "" {
		fmt.Fprintf(out, "Report:    %s\n", opts.Report)
	}
}
