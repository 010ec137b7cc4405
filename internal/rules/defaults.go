package rules

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// defaultRule is one entry of the built-in rule list.
type defaultRule struct {
	tag       tag.Tag
	value     any
	enumerate bool
}

// defaultRules are the identifying fields replaced out of the box. Dates and
// times get a fixed placeholder; names, identifiers and institution details
// are enumerated when enumeration is switched on.
var defaultRules = []defaultRule{
	// Dates and times
	{tag.InstanceCreationDate, "20000101", false},
	{tag.InstanceCreationTime, "000000.00", false},
	{tag.StudyDate, "20000101", false},
	{tag.SeriesDate, "20000101", false},
	{tag.AcquisitionDate, "20000101", false},
	{tag.ContentDate, "20000101", false},
	{tag.StudyTime, "000000.00", false},
	{tag.SeriesTime, "000000.00", false},
	{tag.AcquisitionTime, "000000.00", false},
	{tag.ContentTime, "000000.00", false},

	// Institution and staff
	{tag.AccessionNumber, "", true},
	{tag.InstitutionName, "Institution", true},
	{tag.InstitutionAddress, "Address", true},
	{tag.ReferringPhysicianName, "Physician", true},
	{tag.StationName, "Station", true},
	{tag.InstitutionalDepartmentName, "Department", true},
	{tag.OperatorsName, "Operator", true},

	// Patient
	{tag.PatientName, "Patient", true},
	{tag.PatientID, "ID", true},
	{tag.PatientBirthDate, "20000101", false},
	{tag.PatientSex, "O", false},
	{tag.PatientAge, "", false},
	{tag.ImageComments, "", false},
}

// DefaultTable returns a table holding the built-in rules.
func DefaultTable() *Table {
	t := NewTable()
	for _, d := range defaultRules {
		enumerate := d.enumerate
		// The built-in values are valid for their tags; an error here is a
		// programming mistake in defaultRules.
		if err := t.SetTag(d.tag, Update{Value: d.value, Enumerate: &enumerate}); err != nil {
			panic(err)
		}
	}
	return t
}
