package anonymizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dicom-deid/internal/audit"
	dcm "dicom-deid/internal/dicom"
	"dicom-deid/internal/identity"
	"dicom-deid/internal/pathset"
	"dicom-deid/internal/progress"
	"dicom-deid/internal/rules"
	"dicom-deid/internal/testutil"
)

func newAnonymizer(t *testing.T, opts Options) (*Anonymizer, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts.Logger = logger
	a, err := New(opts)
	require.NoError(t, err)
	return a, hook
}

func readBack(t *testing.T, path string) *dcm.Dataset {
	t.Helper()
	return &dcm.Dataset{Data: testutil.ReadFile(t, path), FilePath: path}
}

func trim(s string) string {
	return strings.TrimRight(s, " \x00")
}

func value(t *testing.T, path string, tg tag.Tag) string {
	t.Helper()
	return trim(readBack(t, path).GetString(tg))
}

// nestedValues returns the first value of every tg element at any depth.
func nestedValues(t *testing.T, path string, tg tag.Tag) []string {
	t.Helper()
	return lo.Map(readBack(t, path).FindRecursive(tg), func(e *dicom.Element, _ int) string {
		return trim(dcm.ValueString(e))
	})
}

func patientFile(t *testing.T, path, name string) {
	t.Helper()
	testutil.WriteFile(t, path, testutil.Element(t, tag.PatientName, []string{name}))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{UIDRoot: "1.2.x"})
	assert.ErrorIs(t, err, identity.ErrInvalidUID)

	_, err = New(Options{Hash: "crc32"})
	assert.ErrorIs(t, err, identity.ErrUnknownHash)

	_, err = New(Options{ContinueAudit: true})
	assert.Error(t, err)
}

func TestConfigurationErrorsAreImmediate(t *testing.T) {
	a, _ := newAnonymizer(t, Options{})

	assert.ErrorIs(t, a.SetTag("asdf,asdf", rules.Update{}), rules.ErrInvalidTag)
	assert.ErrorIs(t, a.RemoveTag("0010"), rules.ErrInvalidTag)
	assert.ErrorIs(t, a.DeleteTag(""), rules.ErrInvalidTag)
	assert.ErrorIs(t, a.KeepTag("zzzz,0010"), rules.ErrInvalidTag)
	_, _, err := a.Value("PatientName")
	assert.ErrorIs(t, err, rules.ErrInvalidTag)
	_, _, err = a.Enum("10,10")
	assert.ErrorIs(t, err, rules.ErrInvalidTag)

	assert.ErrorIs(t, a.AddFolder(""), pathset.ErrInvalidPath)
	assert.ErrorIs(t, a.AddException(" "), pathset.ErrInvalidPath)
}

func TestFacade(t *testing.T) {
	a, _ := newAnonymizer(t, Options{})

	require.NoError(t, a.SetTag("0040,2008", rules.Update{Value: "none"}))
	v, ok, err := a.Value("0040,2008")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "none", v)

	require.NoError(t, a.SetTag("0010,0010", rules.Update{Enumerate: lo.ToPtr(false)}))
	enum, _, err := a.Enum("0010,0010")
	require.NoError(t, err)
	assert.False(t, enum)

	require.NoError(t, a.RemoveTag("0010,0010"))
	_, ok, err = a.Value("0010,0010")
	require.NoError(t, err)
	assert.False(t, ok)

	var sb strings.Builder
	a.Print(&sb)
	assert.Contains(t, sb.String(), "0040,2008")
	assert.Equal(t, RunIdle, a.State())
}

func TestEnumerationAcrossFiles(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "1.dcm"), "Alice")
	patientFile(t, filepath.Join(root, "2.dcm"), "Bob")
	patientFile(t, filepath.Join(root, "3.dcm"), "Alice")

	a, _ := newAnonymizer(t, Options{Enumeration: true})
	require.NoError(t, a.AddFolder(root))

	stats, err := a.Execute()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Success)
	assert.Equal(t, RunDone, a.State())

	assert.Equal(t, "Patient1", value(t, filepath.Join(root, "1.dcm"), tag.PatientName))
	assert.Equal(t, "Patient2", value(t, filepath.Join(root, "2.dcm"), tag.PatientName))
	assert.Equal(t, "Patient1", value(t, filepath.Join(root, "3.dcm"), tag.PatientName))
}

func TestEnumerationFlagWithoutOptionIsFixed(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "1.dcm"), "Alice")

	a, _ := newAnonymizer(t, Options{})
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "Patient", value(t, filepath.Join(root, "1.dcm"), tag.PatientName))
}

func TestEnumerationWithoutBaseUsesFieldName(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "1.dcm"), "Alice")

	a, _ := newAnonymizer(t, Options{Enumeration: true})
	require.NoError(t, a.SetTag("0010,0010", rules.Update{Value: ""}))
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "PatientName1", value(t, filepath.Join(root, "1.dcm"), tag.PatientName))
}

func TestFixedRuleNeverCreatesFields(t *testing.T) {
	root := t.TempDir()
	with := filepath.Join(root, "with.dcm")
	without := filepath.Join(root, "without.dcm")
	testutil.WriteFile(t, with,
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
		testutil.Element(t, tag.PatientComments, []string{"allergic"}),
	)
	patientFile(t, without, "Bob")

	a, _ := newAnonymizer(t, Options{})
	require.NoError(t, a.SetTag("0010,4000", rules.Update{Value: "none"}))
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "none", value(t, with, tag.PatientComments))
	assert.False(t, readBack(t, without).Exists(tag.PatientComments))
	assert.False(t, readBack(t, without).Exists(tag.PatientBirthDate))
}

func TestDeleteRule(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	testutil.WriteFile(t, path,
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
		testutil.Sequence(t, tag.OtherPatientIDsSequence, []*dicom.Element{
			testutil.Element(t, tag.PatientName, []string{"Alice"}),
			testutil.Element(t, tag.PatientID, []string{"NESTED"}),
		}),
	)

	a, _ := newAnonymizer(t, Options{Recursive: true})
	require.NoError(t, a.DeleteTag("0010,0010"))
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)

	assert.Empty(t, readBack(t, path).FindRecursive(tag.PatientName))
	assert.Equal(t, 2, stats.Deleted)
	assert.Equal(t, []string{"ID"}, nestedValues(t, path, tag.PatientID))
}

func TestKeepSuppressesDefaultRule(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	testutil.WriteFile(t, path,
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
		testutil.Element(t, tag.PatientSex, []string{"F"}),
	)

	a, _ := newAnonymizer(t, Options{Blank: true})
	require.NoError(t, a.KeepTag("0010,0040"))
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "F", value(t, path, tag.PatientSex))
	assert.Equal(t, "", value(t, path, tag.PatientName))
}

func TestShallowVersusDeep(t *testing.T) {
	for _, deep := range []bool{false, true} {
		t.Run(map[bool]string{false: "shallow", true: "deep"}[deep], func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, "1.dcm")
			testutil.WriteFile(t, path,
				testutil.Element(t, tag.PatientID, []string{"TOPLEVEL"}),
				testutil.Sequence(t, tag.OtherPatientIDsSequence, []*dicom.Element{
					testutil.Element(t, tag.PatientID, []string{"NESTED"}),
				}),
			)

			a, _ := newAnonymizer(t, Options{Recursive: deep})
			require.NoError(t, a.SetTag("0010,0020", rules.Update{Value: "none"}))
			require.NoError(t, a.AddFolder(root))
			_, err := a.Execute()
			require.NoError(t, err)

			want := []string{"none", "NESTED"}
			if deep {
				want = []string{"none", "none"}
			}
			assert.Equal(t, want, nestedValues(t, path, tag.PatientID))
		})
	}
}

func TestSequenceRuleEmptiesSequence(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	testutil.WriteFile(t, path,
		testutil.Sequence(t, tag.OtherPatientIDsSequence, []*dicom.Element{
			testutil.Element(t, tag.PatientID, []string{"NESTED"}),
		}),
	)

	a, _ := newAnonymizer(t, Options{})
	require.NoError(t, a.SetTag("0010,1002", rules.Update{}))
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	ds := readBack(t, path)
	require.True(t, ds.Exists(tag.OtherPatientIDsSequence))
	assert.Empty(t, ds.FindRecursive(tag.PatientID))
}

func TestBlank(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	testutil.WriteFile(t, path,
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
		testutil.Element(t, tag.PatientBirthDate, []string{"19800101"}),
	)

	a, _ := newAnonymizer(t, Options{Blank: true, Enumeration: true})
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "", value(t, path, tag.PatientName))
	assert.Equal(t, "", value(t, path, tag.PatientBirthDate))
}

func TestUIDRegeneration(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	const instance = "1.2.3.4.5"
	testutil.WriteFile(t, path,
		testutil.Element(t, tag.SOPClassUID, []string{testutil.MRImageStorage}),
		testutil.Element(t, tag.SOPInstanceUID, []string{instance}),
		testutil.Sequence(t, tag.ReferencedImageSequence, []*dicom.Element{
			testutil.Element(t, tag.ReferencedSOPClassUID, []string{testutil.CTImageStorage}),
			testutil.Element(t, tag.ReferencedSOPInstanceUID, []string{instance}),
		}),
		testutil.Element(t, tag.StudyInstanceUID, []string{"1.2.3.100"}),
	)

	auditPath := filepath.Join(t.TempDir(), "audit.json")
	a, _ := newAnonymizer(t, Options{UID: true, UIDRoot: "1.2.826.0.1.3680043.8.498", AuditTrail: auditPath})
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)
	assert.Positive(t, stats.UIDsRegenerated)

	out := readBack(t, path)
	get := func(tg tag.Tag) string { return trim(out.GetString(tg)) }

	assert.Equal(t, testutil.ExplicitVRLittleEndian, get(tag.TransferSyntaxUID))
	assert.Equal(t, testutil.MRImageStorage, get(tag.MediaStorageSOPClassUID))
	assert.Equal(t, testutil.MRImageStorage, get(tag.SOPClassUID))
	assert.Equal(t, []string{testutil.CTImageStorage}, nestedValues(t, path, tag.ReferencedSOPClassUID))

	newInstance := get(tag.SOPInstanceUID)
	assert.NotEqual(t, instance, newInstance)
	assert.True(t, strings.HasPrefix(newInstance, "1.2.826.0.1.3680043.8.498."))
	assert.Equal(t, newInstance, get(tag.MediaStorageSOPInstanceUID))
	assert.Equal(t, []string{newInstance}, nestedValues(t, path, tag.ReferencedSOPInstanceUID))

	assert.NotEqual(t, "1.2.3.100", get(tag.StudyInstanceUID))
	assert.NotEqual(t, newInstance, get(tag.StudyInstanceUID))

	trail, err := audit.Load(auditPath)
	require.NoError(t, err)
	sub, ok := trail.Lookup("0020,000D", "1.2.3.100")
	assert.True(t, ok)
	assert.Equal(t, get(tag.StudyInstanceUID), sub)
}

func TestUIDsConsistentAcrossFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.dcm", "2.dcm"} {
		testutil.WriteFile(t, filepath.Join(root, name),
			testutil.Element(t, tag.StudyInstanceUID, []string{"1.2.3.100"}),
		)
	}

	a, _ := newAnonymizer(t, Options{UID: true})
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	first := value(t, filepath.Join(root, "1.dcm"), tag.StudyInstanceUID)
	assert.True(t, strings.HasPrefix(first, identity.DefaultUIDRoot+"."))
	assert.Equal(t, first, value(t, filepath.Join(root, "2.dcm"), tag.StudyInstanceUID))
}

func TestDeletePrivate(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1.dcm")
	private := tag.Tag{Group: 0x0009, Element: 0x1001}
	testutil.WriteFile(t, path,
		testutil.Private(t, private, "VENDORID"),
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
	)

	a, _ := newAnonymizer(t, Options{DeletePrivate: true})
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	out := readBack(t, path)
	assert.False(t, out.Exists(private))
	assert.True(t, out.Exists(tag.PatientName))
}

func TestExceptions(t *testing.T) {
	sep := string(os.PathSeparator)
	for _, suffix := range []string{"", sep} {
		t.Run("suffix="+suffix, func(t *testing.T) {
			root := t.TempDir()
			a1 := filepath.Join(root, "a.dcm")
			b1 := filepath.Join(root, "skip", "b.dcm")
			patientFile(t, a1, "Alice")
			patientFile(t, b1, "Bob")

			a, _ := newAnonymizer(t, Options{})
			require.NoError(t, a.AddFolder(root+suffix))
			require.NoError(t, a.AddException(filepath.Join(root, "skip")+suffix))
			stats, err := a.Execute()
			require.NoError(t, err)

			assert.Equal(t, 1, stats.Success)
			assert.Equal(t, 1, stats.Excluded)
			assert.Equal(t, "Patient", value(t, a1, tag.PatientName))
			assert.Equal(t, "Bob", value(t, b1, tag.PatientName))
		})
	}
}

func TestWritePathMirrorsTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "study", "series", "1.dcm")
	patientFile(t, src, "Alice")

	outDir := filepath.Join(t.TempDir(), "out")
	a, _ := newAnonymizer(t, Options{WritePath: outDir})
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)
	assert.Positive(t, stats.BytesWritten)

	assert.Equal(t, "Alice", value(t, src, tag.PatientName))
	assert.Equal(t, "Patient", value(t, filepath.Join(outDir, "study", "series", "1.dcm"), tag.PatientName))
}

func TestHashedAuditTrail(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "1.dcm"), "Alice")
	patientFile(t, filepath.Join(root, "2.dcm"), "Bob")

	auditPath := filepath.Join(t.TempDir(), "audit", "trail.json")
	a, _ := newAnonymizer(t, Options{Enumeration: true, AuditTrail: auditPath, Hash: "md5"})
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.AuditRecords)

	trail, err := audit.Load(auditPath)
	require.NoError(t, err)
	md5, _ := identity.LookupHash("md5")
	assert.Equal(t, audit.Entries{
		"0010,0010": {{md5("Alice"), "Patient1"}, {md5("Bob"), "Patient2"}},
	}, trail)
	for _, p := range trail["0010,0010"] {
		assert.Len(t, p.Key(), 32)
	}
}

func TestClearAuditTrail(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "1.dcm"),
		testutil.Element(t, tag.PatientName, []string{"Alice"}),
		testutil.Element(t, tag.PatientBirthDate, []string{"19800101"}),
	)

	auditPath := filepath.Join(t.TempDir(), "trail.json")
	a, _ := newAnonymizer(t, Options{AuditTrail: auditPath})
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	trail, err := audit.Load(auditPath)
	require.NoError(t, err)
	sub, ok := trail.Lookup("0010,0030", "19800101")
	assert.True(t, ok)
	assert.Equal(t, "20000101", sub)
}

func TestContinueAudit(t *testing.T) {
	for _, hash := range []string{"", "sha1"} {
		t.Run("hash="+hash, func(t *testing.T) {
			auditPath := filepath.Join(t.TempDir(), "trail.json")
			opts := Options{Enumeration: true, AuditTrail: auditPath, Hash: hash, ContinueAudit: true}

			first := t.TempDir()
			patientFile(t, filepath.Join(first, "1.dcm"), "Alice")
			a, _ := newAnonymizer(t, opts)
			require.NoError(t, a.AddFolder(first))
			_, err := a.Execute()
			require.NoError(t, err)

			second := t.TempDir()
			patientFile(t, filepath.Join(second, "1.dcm"), "Bob")
			patientFile(t, filepath.Join(second, "2.dcm"), "Alice")
			b, _ := newAnonymizer(t, opts)
			require.NoError(t, b.AddFolder(second))
			_, err = b.Execute()
			require.NoError(t, err)

			assert.Equal(t, "Patient2", value(t, filepath.Join(second, "1.dcm"), tag.PatientName))
			assert.Equal(t, "Patient1", value(t, filepath.Join(second, "2.dcm"), tag.PatientName))

			trail, err := audit.Load(auditPath)
			require.NoError(t, err)
			assert.Len(t, trail["0010,0010"], 2)
		})
	}
}

func TestCorruptFileDoesNotStopBatch(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "a.dcm"), "Alice")
	bad := filepath.Join(root, "b.dcm")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not dicom"), 0644))
	patientFile(t, filepath.Join(root, "c.dcm"), "Carol")

	reportPath := filepath.Join(t.TempDir(), "report.json")
	var seen []progress.FileState
	a, hook := newAnonymizer(t, Options{
		ReportFile: reportPath,
		Progress: func(current, total int, filename string, state progress.FileState) {
			assert.Equal(t, 3, total)
			seen = append(seen, state)
		},
	})
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []progress.FileState{progress.StateWritten, progress.StateSkipped, progress.StateWritten}, seen)
	assert.Equal(t, "Patient", value(t, filepath.Join(root, "c.dcm"), tag.PatientName))

	warned := lo.Filter(hook.AllEntries(), func(e *logrus.Entry, _ int) bool {
		return e.Level == logrus.WarnLevel && e.Data["file"] == bad
	})
	assert.Len(t, warned, 1)

	assert.FileExists(t, reportPath)
}

func TestRunsAreIsolated(t *testing.T) {
	a, _ := newAnonymizer(t, Options{Enumeration: true, WritePath: t.TempDir()})

	root := t.TempDir()
	patientFile(t, filepath.Join(root, "1.dcm"), "Bob")
	require.NoError(t, a.AddFolder(root))
	_, err := a.Execute()
	require.NoError(t, err)

	// Rewrite the source and run again: numbering starts over.
	patientFile(t, filepath.Join(root, "1.dcm"), "Carl")
	_, err = a.Execute()
	require.NoError(t, err)

	assert.Equal(t, "Patient1", value(t, filepath.Join(a.opts.WritePath, "1.dcm"), tag.PatientName))
}

func TestWriteFailureSkipsFile(t *testing.T) {
	root := t.TempDir()
	patientFile(t, filepath.Join(root, "a.dcm"), "Alice")
	patientFile(t, filepath.Join(root, "c.dcm"), "Carol")
	patientFile(t, filepath.Join(root, "sub", "b.dcm"), "Bob")

	out := t.TempDir()
	// A regular file where the sub folder's output directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(out, "sub"), []byte("in the way"), 0644))

	auditPath := filepath.Join(t.TempDir(), "trail.json")
	a, hook := newAnonymizer(t, Options{Enumeration: true, WritePath: out, AuditTrail: auditPath})
	require.NoError(t, a.AddFolder(root))
	stats, err := a.Execute()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, "Patient1", value(t, filepath.Join(out, "a.dcm"), tag.PatientName))
	assert.Equal(t, "Patient2", value(t, filepath.Join(out, "c.dcm"), tag.PatientName))
	assert.Equal(t, "Bob", value(t, filepath.Join(root, "sub", "b.dcm"), tag.PatientName))

	warned := lo.Filter(hook.AllEntries(), func(e *logrus.Entry, _ int) bool {
		return e.Level == logrus.WarnLevel && e.Data["file"] == filepath.Join(root, "sub", "b.dcm")
	})
	assert.Len(t, warned, 1)

	trail, err := audit.Load(auditPath)
	require.NoError(t, err)
	assert.Equal(t, []audit.Pair{{"Alice", "Patient1"}, {"Carol", "Patient2"}}, trail["0010,0010"])
	assert.Equal(t, 2, stats.AuditRecords)
}

func TestContinueAuditSeedsOnlyEnumeratedValues(t *testing.T) {
	auditPath := filepath.Join(t.TempDir(), "trail.json")

	first := t.TempDir()
	patientFile(t, filepath.Join(first, "1.dcm"), "Alice")
	a, _ := newAnonymizer(t, Options{AuditTrail: auditPath})
	require.NoError(t, a.AddFolder(first))
	_, err := a.Execute()
	require.NoError(t, err)
	assert.Equal(t, "Patient", value(t, filepath.Join(first, "1.dcm"), tag.PatientName))

	second := t.TempDir()
	patientFile(t, filepath.Join(second, "1.dcm"), "Alice")
	patientFile(t, filepath.Join(second, "2.dcm"), "Bob")
	b, _ := newAnonymizer(t, Options{Enumeration: true, AuditTrail: auditPath, ContinueAudit: true})
	require.NoError(t, b.AddFolder(second))
	_, err = b.Execute()
	require.NoError(t, err)

	assert.Equal(t, "Patient1", value(t, filepath.Join(second, "1.dcm"), tag.PatientName))
	assert.Equal(t, "Patient2", value(t, filepath.Join(second, "2.dcm"), tag.PatientName))
}

func TestIsEnumerated(t *testing.T) {
	tests := []struct {
		sub  string
		want bool
	}{
		{"Patient1", true},
		{"Patient12", true},
		{"Patient", false},
		{"Patient0", false},
		{"Patient1a", false},
		{"Other1", false},
	}
	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			assert.Equal(t, tt.want, isEnumerated(tt.sub, "Patient"))
		})
	}
}
