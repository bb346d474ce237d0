package importer

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
)

// Base implements the cursor and the entity constructors of Driver. Variants
// embed it and add Source, LoadRawData and Init.
type Base struct {
	Cursor

	parse    LocationParser
	validate *validator.Validate

	loc    Location
	locGen uint64
	locOK  bool
}

func NewBase(parse LocationParser) *Base {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("field")
	})
	return &Base{parse: parse, validate: v}
}

func (b *Base) Count() int {
	return b.Len()
}

func (b *Base) ParseBuilding() (Location, error) {
	if b.locOK && b.locGen == b.gen {
		return b.loc, nil
	}
	row, ok := b.Current()
	if !ok {
		return Location{}, b.rowError("", ErrNoCurrentRow)
	}
	loc, err := b.parse(row)
	if err != nil {
		return Location{}, b.rowError(FieldLocation, err)
	}
	b.loc, b.locGen, b.locOK = loc, b.gen, true
	return loc, nil
}

type campusFields struct {
	ShortName string `field:"campus" validate:"required"`
	Name      string `field:"campus_name"`
}

func (b *Base) CreateCampus() (*entity.Campus, error) {
	var f campusFields
	if err := b.read(&f, map[Field]*string{
		FieldCampus:     &f.ShortName,
		FieldCampusName: &f.Name,
	}); err != nil {
		return nil, err
	}
	return entity.NewCampus(f.ShortName, f.Name), nil
}

type buildingFields struct {
	ShortName string `field:"building" validate:"required"`
	Name      string `field:"building_name"`
}

func (b *Base) CreateBuilding(campus *entity.Campus) (*entity.Building, error) {
	if campus == nil {
		var err error
		if campus, err = b.CreateCampus(); err != nil {
			return nil, err
		}
	}
	loc, err := b.ParseBuilding()
	if err != nil {
		return nil, err
	}
	f := buildingFields{ShortName: loc.Building}
	if err := b.read(&f, map[Field]*string{FieldBuildingName: &f.Name}); err != nil {
		return nil, err
	}
	return entity.NewBuilding(campus, f.ShortName, f.Name), nil
}

type roomFields struct {
	Number string `field:"room" validate:"required"`
}

func (b *Base) CreateRoom(building *entity.Building) (*entity.Room, error) {
	if building == nil {
		var err error
		if building, err = b.CreateBuilding(nil); err != nil {
			return nil, err
		}
	}
	loc, err := b.ParseBuilding()
	if err != nil {
		return nil, err
	}
	f := roomFields{Number: loc.Room}
	if err := b.read(&f, nil); err != nil {
		return nil, err
	}
	capacity, err := b.optionalInt(FieldRoomCapacity)
	if err != nil {
		return nil, err
	}
	return entity.NewRoom(building, f.Number, capacity), nil
}

type instructorFields struct {
	Identifier string `field:"instructor_id" validate:"required"`
	Name       string `field:"instructor_name"`
	Email      string `field:"instructor_email" validate:"omitempty,email"`
}

func (b *Base) CreateInstructor() (*entity.Instructor, error) {
	var f instructorFields
	if err := b.read(&f, map[Field]*string{
		FieldInstructorID:    &f.Identifier,
		FieldInstructorName:  &f.Name,
		FieldInstructorEmail: &f.Email,
	}); err != nil {
		return nil, err
	}
	return entity.NewInstructor(f.Identifier, f.Name, f.Email), nil
}

type termFields struct {
	Year      string `field:"term_year" validate:"required"`
	Semester  string `field:"semester" validate:"required"`
	ShortName string `field:"block" validate:"required"`
	Name      string `field:"block_name"`
}

func (b *Base) CreateTerm() (*entity.TermBlock, error) {
	var f termFields
	if err := b.read(&f, map[Field]*string{
		FieldTermYear:  &f.Year,
		FieldSemester:  &f.Semester,
		FieldBlock:     &f.ShortName,
		FieldBlockName: &f.Name,
	}); err != nil {
		return nil, err
	}
	year, err := asInt(f.Year)
	if err != nil {
		return nil, b.rowError(FieldTermYear, err)
	}
	start, err := b.date(FieldBlockStart)
	if err != nil {
		return nil, err
	}
	end, err := b.date(FieldBlockEnd)
	if err != nil {
		return nil, err
	}
	term := entity.NewTerm(year, strings.ToUpper(f.Semester))
	return entity.NewTermBlock(term, f.ShortName, f.Name, start, end), nil
}

type subjectFields struct {
	Name  string `field:"subject" validate:"required"`
	Title string `field:"subject_title"`
}

func (b *Base) CreateSubject() (*entity.Subject, error) {
	var f subjectFields
	if err := b.read(&f, map[Field]*string{
		FieldSubject:      &f.Name,
		FieldSubjectTitle: &f.Title,
	}); err != nil {
		return nil, err
	}
	return entity.NewSubject(f.Name, f.Title), nil
}

type courseFields struct {
	Number string `field:"course_number" validate:"required"`
	Title  string `field:"course_title"`
}

func (b *Base) CreateCourse(subject *entity.Subject) (*entity.Course, error) {
	if subject == nil {
		var err error
		if subject, err = b.CreateSubject(); err != nil {
			return nil, err
		}
	}
	var f courseFields
	if err := b.read(&f, map[Field]*string{
		FieldCourseNumber: &f.Number,
		FieldCourseTitle:  &f.Title,
	}); err != nil {
		return nil, err
	}
	return entity.NewCourse(subject, f.Number, f.Title), nil
}

type sectionFields struct {
	CRN    string `field:"crn" validate:"required"`
	Number string `field:"section_number"`
	Days   string `field:"days"`
	Status string `field:"status"`
}

func (b *Base) CreateSection(course *entity.Course) (*entity.Section, error) {
	if course == nil {
		var err error
		if course, err = b.CreateCourse(nil); err != nil {
			return nil, err
		}
	}
	var f sectionFields
	if err := b.read(&f, map[Field]*string{
		FieldCRN:           &f.CRN,
		FieldSectionNumber: &f.Number,
		FieldDays:          &f.Days,
		FieldStatus:        &f.Status,
	}); err != nil {
		return nil, err
	}
	attrs := entity.SectionAttrs{
		CRN:       f.CRN,
		Number:    f.Number,
		Days:      f.Days,
		Status:    f.Status,
		StartTime: NormalizeTime(b.Field(FieldStartTime)),
		EndTime:   NormalizeTime(b.Field(FieldEndTime)),
	}
	var err error
	if attrs.StartDate, err = b.optionalDate(FieldStartDate); err != nil {
		return nil, err
	}
	if attrs.EndDate, err = b.optionalDate(FieldEndDate); err != nil {
		return nil, err
	}
	if attrs.MaxEnrollment, err = b.optionalInt(FieldMaxEnrollment); err != nil {
		return nil, err
	}
	if attrs.Enrolled, err = b.optionalInt(FieldEnrolled); err != nil {
		return nil, err
	}
	return entity.NewSection(course, attrs), nil
}

// read copies the mapped fields of the current row as strings into dst and
// validates rec.
func (b *Base) read(rec any, dst map[Field]*string) error {
	row, ok := b.Current()
	if !ok {
		return b.rowError("", ErrNoCurrentRow)
	}
	for f, p := range dst {
		*p = asString(row[f])
	}
	if err := b.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return b.rowError(Field(fe.Field()), ErrMissingField)
			}
			return b.rowError(Field(fe.Field()), fe)
		}
		return b.rowError("", err)
	}
	return nil
}

func (b *Base) date(f Field) (time.Time, error) {
	v := b.Field(f)
	if IsBlank(v) {
		return time.Time{}, b.rowError(f, ErrMissingField)
	}
	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, b.rowError(f, err)
	}
	return t, nil
}

func (b *Base) optionalDate(f Field) (time.Time, error) {
	if IsBlank(b.Field(f)) {
		return time.Time{}, nil
	}
	return b.date(f)
}

func (b *Base) optionalInt(f Field) (int, error) {
	v := b.Field(f)
	if IsBlank(v) {
		return 0, nil
	}
	n, err := asInt(v)
	if err != nil {
		return 0, b.rowError(f, err)
	}
	return n, nil
}

func (b *Base) rowError(f Field, err error) *RowError {
	re := &RowError{Position: b.Position(), Field: f, Err: err}
	if row, ok := b.Current(); ok {
		re.Line = row.Line()
	}
	return re
}
