// Package anonymizer drives a de-identification run: it resolves the files
// to process, rewrites each one according to the rule table and writes the
// audit trail at the end.
package anonymizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"dicom-deid/internal/audit"
	"dicom-deid/internal/identity"
	"dicom-deid/internal/pathset"
	"dicom-deid/internal/progress"
	"dicom-deid/internal/rules"
)

// RunState is the phase of a run.
type RunState string

const (
	RunIdle       RunState = "idle"
	RunScanning   RunState = "scanning"
	RunProcessing RunState = "processing"
	RunFinalizing RunState = "finalizing"
	RunDone       RunState = "done"
)

// ProgressCallback is called as each file settles into a state.
type ProgressCallback func(current, total int, filename string, state progress.FileState)

// Options holds the global run options.
type Options struct {
	// Recursive searches nested sequence items for rule tags instead of the
	// top level only. File discovery is always recursive.
	Recursive bool
	// Blank replaces every matched field with its empty value.
	Blank bool
	// Enumeration enables numbered substitutes for rules flagged enumerate.
	Enumeration bool
	// DeletePrivate strips private (odd group) elements.
	DeletePrivate bool
	// UID regenerates every non-protected UID across the whole document.
	UID bool
	// UIDRoot is the root for regenerated UIDs; empty means "2.25".
	UIDRoot string
	// WritePath mirrors outputs under this folder. Empty overwrites sources.
	WritePath string
	// AuditTrail is where the audit trail is written. Empty disables auditing.
	AuditTrail string
	// Hash names the hash applied to audit keys. Empty keeps them in clear.
	Hash string
	// ContinueAudit seeds the run from an existing AuditTrail file.
	ContinueAudit bool
	// ReportFile receives a JSON report of every file's final state.
	ReportFile string

	Logger    logrus.FieldLogger
	Progress  ProgressCallback
	Generator identity.Generator
}

// Stats holds processing statistics
type Stats struct {
	Files           int
	Success         int
	Failed          int
	Excluded        int
	BytesWritten    int64
	Substitutions   int
	Deleted         int
	UIDsRegenerated int
	AuditRecords    int
	Duration        time.Duration
}

// Anonymizer owns the rule table and path set of a de-identification job.
// Caches live only for the duration of one Execute call.
type Anonymizer struct {
	opts  Options
	hash  identity.HashFunc
	log   logrus.FieldLogger
	rules *rules.Table
	paths *pathset.Set
	state RunState
}

// New validates opts and returns an anonymizer loaded with the default rules.
func New(opts Options) (*Anonymizer, error) {
	if opts.UIDRoot != "" {
		if err := identity.ValidateRoot(opts.UIDRoot); err != nil {
			return nil, fmt.Errorf("uid root: %w", err)
		}
	}
	hash, err := identity.LookupHash(opts.Hash)
	if err != nil {
		return nil, err
	}
	if opts.ContinueAudit && opts.AuditTrail == "" {
		return nil, errors.New("continuing an audit trail needs an audit trail path")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Generator == nil {
		opts.Generator = identity.DefaultGenerator()
	}

	return &Anonymizer{
		opts:  opts,
		hash:  hash,
		log:   opts.Logger,
		rules: rules.DefaultTable(),
		paths: pathset.New(),
		state: RunIdle,
	}, nil
}

// AddFolder registers a folder whose files are processed.
func (a *Anonymizer) AddFolder(path string) error {
	return a.paths.AddFolder(path)
}

// AddException excludes a file or folder from processing.
func (a *Anonymizer) AddException(path string) error {
	return a.paths.AddException(path)
}

// SetTag creates or updates the rule for tagStr.
func (a *Anonymizer) SetTag(tagStr string, u rules.Update) error {
	return a.rules.Set(tagStr, u)
}

// RemoveTag forgets the rule for tagStr.
func (a *Anonymizer) RemoveTag(tagStr string) error {
	return a.rules.Remove(tagStr)
}

// DeleteTag strips tagStr from processed documents.
func (a *Anonymizer) DeleteTag(tagStr string) error {
	return a.rules.Delete(tagStr)
}

// KeepTag leaves tagStr untouched.
func (a *Anonymizer) KeepTag(tagStr string) error {
	return a.rules.Keep(tagStr)
}

// Value returns the configured value for tagStr.
func (a *Anonymizer) Value(tagStr string) (any, bool, error) {
	return a.rules.Value(tagStr)
}

// Enum returns the enumeration flag for tagStr.
func (a *Anonymizer) Enum(tagStr string) (bool, bool, error) {
	return a.rules.Enumeration(tagStr)
}

// LoadRules applies a YAML rules file on top of the current rules.
func (a *Anonymizer) LoadRules(path string) error {
	return a.rules.LoadFile(path)
}

// Rules returns the rule table.
func (a *Anonymizer) Rules() *rules.Table {
	return a.rules
}

// Print writes the rule table to w.
func (a *Anonymizer) Print(w io.Writer) {
	a.rules.Print(w)
}

// State returns the phase of the current or last run.
func (a *Anonymizer) State() RunState {
	return a.state
}

func (a *Anonymizer) setState(s RunState) {
	a.state = s
	a.log.WithField("state", s).Debug("run state changed")
}

// Execute runs the job. Files are processed one at a time in discovery
// order; a file that cannot be read or written is logged, counted in
// Stats.Failed and skipped. An error is returned only for failures that
// affect the whole run.
func (a *Anonymizer) Execute() (*Stats, error) {
	start := time.Now()
	stats := &Stats{}
	defer func() {
		stats.Duration = time.Since(start)
		a.setState(RunDone)
	}()

	a.setState(RunScanning)
	entries, excluded, err := a.paths.Resolve()
	if err != nil {
		return stats, err
	}
	stats.Files = len(entries)
	stats.Excluded = excluded
	a.log.WithFields(logrus.Fields{
		"files":    len(entries),
		"excluded": excluded,
		"folders":  len(a.paths.Folders()),
	}).Info("discovered files")

	r, err := a.newRun(stats)
	if err != nil {
		return stats, err
	}

	a.setState(RunProcessing)
	for i, entry := range entries {
		state := r.processFile(entry)
		if a.opts.Progress != nil {
			a.opts.Progress(i+1, len(entries), entry.Path, state)
		}
	}

	a.setState(RunFinalizing)
	var errs []error
	if r.trail != nil {
		entries := r.trail.Finalize(a.hash)
		stats.AuditRecords = entries.Len()
		if err := entries.Persist(a.opts.AuditTrail); err != nil {
			errs = append(errs, err)
		} else {
			a.log.WithFields(logrus.Fields{
				"file":    a.opts.AuditTrail,
				"records": stats.AuditRecords,
			}).Info("wrote audit trail")
		}
	}
	if a.opts.ReportFile != "" {
		if err := r.tracker.Save(a.opts.ReportFile); err != nil {
			errs = append(errs, err)
		}
	}

	a.log.WithFields(logrus.Fields{
		"success": stats.Success,
		"failed":  stats.Failed,
		"bytes":   stats.BytesWritten,
	}).Info("run complete")

	return stats, errors.Join(errs...)
}

// newRun builds the caches for one Execute call, seeding them from an
// existing audit trail when asked to.
func (a *Anonymizer) newRun(stats *Stats) (*run, error) {
	r := &run{
		Anonymizer: a,
		stats:      stats,
		enum:       identity.NewEnumerator(),
		uids:       identity.NewUIDCache(a.opts.Generator, a.opts.UIDRoot),
		tracker:    progress.NewTracker(),
	}
	if a.opts.AuditTrail == "" {
		return r, nil
	}
	r.trail = audit.NewTrail()

	if !a.opts.ContinueAudit {
		return r, nil
	}
	if _, err := os.Stat(a.opts.AuditTrail); errors.Is(err, os.ErrNotExist) {
		a.log.WithField("file", a.opts.AuditTrail).Info("no audit trail to continue, starting a new one")
		return r, nil
	}
	previous, err := audit.Load(a.opts.AuditTrail)
	if err != nil {
		return nil, err
	}
	if err := r.seed(previous); err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"file":    a.opts.AuditTrail,
		"records": previous.Len(),
	}).Info("continuing audit trail")
	return r, nil
}
