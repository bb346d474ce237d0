package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type UpdateLog struct {
	ID        uuid.UUID `db:"id"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

type Campus struct {
	ID        uuid.UUID `db:"id"`
	ShortName string    `db:"short_name"`
	Name      string    `db:"name"`
}

type Building struct {
	ID        uuid.UUID `db:"id"`
	CampusID  uuid.UUID `db:"campus_id"`
	ShortName string    `db:"short_name"`
	Name      string    `db:"name"`
}

type Room struct {
	ID         uuid.UUID `db:"id"`
	BuildingID uuid.UUID `db:"building_id"`
	Number     string    `db:"number"`
	Capacity   int       `db:"capacity"`
}

type Instructor struct {
	ID         uuid.UUID `db:"id"`
	Identifier string    `db:"identifier"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
}

type Term struct {
	ID       uuid.UUID `db:"id"`
	Year     int       `db:"year"`
	Semester string    `db:"semester"`
}

type TermBlock struct {
	ID        uuid.UUID `db:"id"`
	TermID    uuid.UUID `db:"term_id"`
	ShortName string    `db:"short_name"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

type Subject struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Title string    `db:"title"`
}

type Course struct {
	ID        uuid.UUID `db:"id"`
	SubjectID uuid.UUID `db:"subject_id"`
	Number    string    `db:"number"`
	Title     string    `db:"title"`
}

type Section struct {
	ID            uuid.UUID     `db:"id"`
	UpdateLogID   uuid.NullUUID `db:"update_log_id"`
	CRN           string        `db:"crn"`
	Number        string        `db:"number"`
	Days          string        `db:"days"`
	StartTime     string        `db:"start_time"`
	EndTime       string        `db:"end_time"`
	StartDate     sql.NullTime  `db:"start_date"`
	EndDate       sql.NullTime  `db:"end_date"`
	Status        string        `db:"status"`
	MaxEnrollment int           `db:"max_enrollment"`
	Enrolled      int           `db:"enrolled"`
	CampusID      uuid.NullUUID `db:"campus_id"`
	BuildingID    uuid.NullUUID `db:"building_id"`
	RoomID        uuid.NullUUID `db:"room_id"`
	TermBlockID   uuid.NullUUID `db:"term_block_id"`
	InstructorID  uuid.NullUUID `db:"instructor_id"`
	SubjectID     uuid.NullUUID `db:"subject_id"`
	CourseID      uuid.NullUUID `db:"course_id"`
}
