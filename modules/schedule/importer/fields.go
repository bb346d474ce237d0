package importer

// Field names a logical column of a scheduling row, independent of how the
// source spells it.
type Field string

const (
	FieldCampus          Field = "campus"
	FieldCampusName      Field = "campus_name"
	FieldLocation        Field = "location"
	FieldBuilding        Field = "building"
	FieldBuildingName    Field = "building_name"
	FieldRoom            Field = "room"
	FieldRoomCapacity    Field = "room_capacity"
	FieldInstructorID    Field = "instructor_id"
	FieldInstructorName  Field = "instructor_name"
	FieldInstructorEmail Field = "instructor_email"
	FieldTermYear        Field = "term_year"
	FieldSemester        Field = "semester"
	FieldBlock           Field = "block"
	FieldBlockName       Field = "block_name"
	FieldBlockStart      Field = "block_start"
	FieldBlockEnd        Field = "block_end"
	FieldSubject         Field = "subject"
	FieldSubjectTitle    Field = "subject_title"
	FieldCourseNumber    Field = "course_number"
	FieldCourseTitle     Field = "course_title"
	FieldCRN             Field = "crn"
	FieldSectionNumber   Field = "section_number"
	FieldDays            Field = "days"
	FieldStartTime       Field = "start_time"
	FieldEndTime         Field = "end_time"
	FieldStartDate       Field = "start_date"
	FieldEndDate         Field = "end_date"
	FieldStatus          Field = "status"
	FieldMaxEnrollment   Field = "max_enrollment"
	FieldEnrolled        Field = "enrolled"
)

var AllFields = []Field{
	FieldCampus, FieldCampusName,
	FieldLocation, FieldBuilding, FieldBuildingName, FieldRoom, FieldRoomCapacity,
	FieldInstructorID, FieldInstructorName, FieldInstructorEmail,
	FieldTermYear, FieldSemester, FieldBlock, FieldBlockName, FieldBlockStart, FieldBlockEnd,
	FieldSubject, FieldSubjectTitle, FieldCourseNumber, FieldCourseTitle,
	FieldCRN, FieldSectionNumber, FieldDays, FieldStartTime, FieldEndTime,
	FieldStartDate, FieldEndDate, FieldStatus, FieldMaxEnrollment, FieldEnrolled,
}

// DateFields hold calendar dates; spreadsheet drivers convert serial numbers in them.
var DateFields = []Field{FieldBlockStart, FieldBlockEnd, FieldStartDate, FieldEndDate}

// RequiredFields must be present in every source, apart from the location
// columns which depend on the variant.
var RequiredFields = []Field{
	FieldCampus,
	FieldInstructorID,
	FieldTermYear, FieldSemester, FieldBlock, FieldBlockStart, FieldBlockEnd,
	FieldSubject, FieldCourseNumber,
	FieldCRN,
}

func (f Field) valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// FieldLine holds the 1-based line of the source record a row came from. Drivers
// set it; it is never mapped to a column.
const FieldLine Field = "_line"

// Row is one source record keyed by logical field.
type Row map[Field]any

// Line returns the source line recorded for the row, or 0.
func (r Row) Line() int {
	n, _ := r[FieldLine].(int)
	return n
}
