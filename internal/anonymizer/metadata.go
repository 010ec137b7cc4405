package anonymizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-deid/internal/audit"
	dcm "dicom-deid/internal/dicom"
	"dicom-deid/internal/identity"
	"dicom-deid/internal/pathset"
	"dicom-deid/internal/progress"
	"dicom-deid/internal/rules"
)

// run holds the state shared between the files of one Execute call.
type run struct {
	*Anonymizer
	stats   *Stats
	enum    *identity.Enumerator
	uids    *identity.UIDCache
	trail   *audit.Trail // nil when auditing is off
	tracker *progress.Tracker

	// pending holds the current file's records until its output is written.
	pending []audit.Record
}

// seed loads an earlier trail. Its keys are matched against the hash of
// fresh originals when hashing is on.
func (r *run) seed(previous audit.Entries) error {
	if err := r.trail.Seed(previous); err != nil {
		return err
	}
	if r.hash != nil {
		r.enum.SetKeyFunc(r.hash)
		r.uids.SetKeyFunc(r.hash)
	}
	for _, tagStr := range previous.Tags() {
		tg, err := dcm.ParseTag(tagStr)
		if err != nil {
			return err
		}
		desc := dcm.Describe(tg)
		if desc.Category == dcm.CategoryUID {
			for _, p := range previous[tagStr] {
				r.uids.Seed(p.Key(), p.Substitute())
			}
			continue
		}

		// Only numbered substitutes of tags enumerated in this run carry
		// over; fixed and blank values would pin originals to them.
		rule, ok := r.rules.Get(tg)
		if !ok || desc.Category != dcm.CategoryText ||
			rule.Mode(r.opts.Blank, r.opts.Enumeration) != rules.ModeEnumerate {
			continue
		}
		base := enumerationBase(rule, desc)
		for _, p := range previous[tagStr] {
			if isEnumerated(p.Substitute(), base) {
				r.enum.Seed(tg, p.Key(), p.Substitute())
			}
		}
	}
	return nil
}

// enumerationBase is the text numbered substitutes of rule start with.
func enumerationBase(rule rules.Rule, desc dcm.Descriptor) string {
	if base := dcm.FormatValue(rule.Value); base != "" {
		return base
	}
	return desc.Name
}

// isEnumerated reports whether sub is base followed by a positive index.
func isEnumerated(sub, base string) bool {
	index, ok := strings.CutPrefix(sub, base)
	if !ok || index == "" || index[0] == '0' {
		return false
	}
	return strings.Trim(index, "0123456789") == ""
}

func (r *run) record(t tag.Tag, original, substitute string) {
	if r.trail != nil {
		r.pending = append(r.pending, audit.Record{Tag: t, Original: original, Substitute: substitute})
	}
}

// commit moves the current file's records into the trail.
func (r *run) commit() {
	for _, rec := range r.pending {
		r.trail.Record(rec.Tag, rec.Original, rec.Substitute)
	}
	r.pending = r.pending[:0]
}

// processFile takes one file through decode, rewrite and write, and returns
// the state it ended in.
func (r *run) processFile(entry pathset.Entry) progress.FileState {
	log := r.log.WithField("file", entry.Path)
	r.tracker.Discover(entry.Path)
	r.pending = r.pending[:0]

	skip := func(err error) progress.FileState {
		r.stats.Failed++
		log.WithError(err).Warn("skipping file")
		_ = r.tracker.MarkSkipped(entry.Path, err)
		return progress.StateSkipped
	}

	ds, err := dcm.ReadDicom(entry.Path)
	if err != nil {
		return skip(err)
	}
	_ = r.tracker.Advance(entry.Path, progress.StateDecoded)

	if err := r.rewrite(ds, log); err != nil {
		return skip(err)
	}
	_ = r.tracker.Advance(entry.Path, progress.StateRewritten)

	outputPath, err := r.outputPath(entry)
	if err != nil {
		return skip(err)
	}
	n, err := ds.Save(outputPath)
	if err != nil {
		return skip(err)
	}

	r.commit()
	r.stats.Success++
	r.stats.BytesWritten += n
	_ = r.tracker.MarkWritten(entry.Path, outputPath, n)
	log.WithField("output", outputPath).Debug("wrote file")
	return progress.StateWritten
}

// outputPath mirrors entry under WritePath, or returns the source path when
// no WritePath is set.
func (r *run) outputPath(entry pathset.Entry) (string, error) {
	if r.opts.WritePath == "" {
		return entry.Path, nil
	}
	rel, err := entry.Rel()
	if err != nil {
		return "", fmt.Errorf("could not compute output path: %w", err)
	}
	return filepath.Join(r.opts.WritePath, rel), nil
}

// rewrite applies the rule table, UID regeneration and private tag removal
// to ds in place.
func (r *run) rewrite(ds *dcm.Dataset, log logrus.FieldLogger) error {
	for _, rule := range r.rules.Rules() {
		mode := rule.Mode(r.opts.Blank, r.opts.Enumeration)
		switch mode {
		case rules.ModeKeep:
			continue
		case rules.ModeDelete:
			n, err := ds.Remove(rule.Tag, r.opts.Recursive)
			if err != nil {
				return err
			}
			r.stats.Deleted += n
			continue
		}

		var matches []*dicom.Element
		if r.opts.Recursive {
			matches = ds.FindRecursive(rule.Tag)
		} else {
			matches = ds.Find(rule.Tag)
		}
		for _, elem := range matches {
			if err := r.substitute(elem, rule, mode, log); err != nil {
				return err
			}
		}
	}

	if r.opts.UID {
		if err := r.regenerateUIDs(ds, log); err != nil {
			return err
		}
	}

	if r.opts.DeletePrivate {
		n, err := ds.RemoveFunc(func(elem *dicom.Element) bool { return dcm.IsPrivate(elem.Tag) }, r.opts.Recursive)
		if err != nil {
			return err
		}
		r.stats.Deleted += n
	}
	return nil
}

// substitute replaces the value of one matched field.
func (r *run) substitute(elem *dicom.Element, rule rules.Rule, mode rules.Mode, log logrus.FieldLogger) error {
	desc := dcm.DescribeElement(elem)
	current := dcm.ValueString(elem)

	var value any
	switch mode {
	case rules.ModeBlank:
		value = desc.Zero()
	case rules.ModeEnumerate:
		if desc.Category != dcm.CategoryText {
			// Only text can carry a numbered label.
			value = rule.Value
			break
		}
		value = r.enum.Substitute(rule.Tag, enumerationBase(rule, desc), current)
	default:
		value = rule.Value
	}

	if desc.Category != dcm.CategorySequence {
		coerced, err := dcm.Coerce(desc.Category, value)
		if err != nil {
			return fmt.Errorf("tag %s: %w", dcm.FormatTag(elem.Tag), err)
		}
		r.record(elem.Tag, current, dcm.FormatValue(coerced))
		value = coerced
	}

	if err := dcm.SetValue(elem, value); err != nil {
		return fmt.Errorf("tag %s: %w", dcm.FormatTag(elem.Tag), err)
	}
	r.stats.Substitutions++
	log.WithFields(logrus.Fields{
		"tag":  dcm.FormatTag(elem.Tag),
		"mode": mode,
	}).Debug("substituted field")
	return nil
}

// regenerateUIDs replaces every UID in the document, nested items included,
// except the protected ones.
func (r *run) regenerateUIDs(ds *dcm.Dataset, log logrus.FieldLogger) error {
	return ds.Walk(func(elem *dicom.Element) error {
		if dcm.DescribeElement(elem).Category != dcm.CategoryUID {
			return nil
		}
		values := dcm.Strings(elem)
		if len(values) == 0 {
			return nil
		}

		changed := false
		out := make([]string, len(values))
		for i, v := range values {
			original := strings.TrimRight(v, "\x00 ")
			out[i] = original
			if original == "" || isProtectedUID(elem.Tag, original) {
				continue
			}
			uid, err := r.uids.Regenerate(original)
			if err != nil {
				return fmt.Errorf("tag %s: %w", dcm.FormatTag(elem.Tag), err)
			}
			r.record(elem.Tag, original, uid)
			out[i] = uid
			changed = true
		}
		if !changed {
			return nil
		}

		if err := dcm.SetStrings(elem, out); err != nil {
			return fmt.Errorf("tag %s: %w", dcm.FormatTag(elem.Tag), err)
		}
		r.stats.UIDsRegenerated++
		log.WithField("tag", dcm.FormatTag(elem.Tag)).Debug("regenerated uid")
		return nil
	})
}
