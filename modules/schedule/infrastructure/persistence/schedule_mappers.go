package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence/models"
)

func toDBUpdateLog(ul *entity.UpdateLog) *models.UpdateLog {
	return &models.UpdateLog{
		ID:        ul.ID(),
		Source:    string(ul.Source()),
		CreatedAt: ul.CreatedAt(),
	}
}

func toDomainUpdateLog(dbLog *models.UpdateLog) *entity.UpdateLog {
	return entity.HydrateUpdateLog(dbLog.ID, entity.SourceKind(dbLog.Source), dbLog.CreatedAt.UTC())
}

func toDBCampus(c *entity.Campus) *models.Campus {
	return &models.Campus{
		ID:        c.ID(),
		ShortName: c.ShortName(),
		Name:      c.Name(),
	}
}

func toDBBuilding(b *entity.Building) *models.Building {
	return &models.Building{
		ID:        b.ID(),
		CampusID:  b.Campus().ID(),
		ShortName: b.ShortName(),
		Name:      b.Name(),
	}
}

func toDBRoom(r *entity.Room) *models.Room {
	return &models.Room{
		ID:         r.ID(),
		BuildingID: r.Building().ID(),
		Number:     r.Number(),
		Capacity:   r.Capacity(),
	}
}

func toDBInstructor(i *entity.Instructor) *models.Instructor {
	return &models.Instructor{
		ID:         i.ID(),
		Identifier: i.Identifier(),
		Name:       i.Name(),
		Email:      i.Email(),
	}
}

func toDBTerm(t *entity.Term) *models.Term {
	return &models.Term{
		ID:       t.ID(),
		Year:     t.Year(),
		Semester: t.Semester(),
	}
}

func toDBTermBlock(b *entity.TermBlock) *models.TermBlock {
	return &models.TermBlock{
		ID:        b.ID(),
		TermID:    b.Term().ID(),
		ShortName: b.ShortName(),
		Name:      b.Name(),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
	}
}

func toDBSubject(s *entity.Subject) *models.Subject {
	return &models.Subject{
		ID:    s.ID(),
		Name:  s.Name(),
		Title: s.Title(),
	}
}

func toDBCourse(c *entity.Course) *models.Course {
	return &models.Course{
		ID:        c.ID(),
		SubjectID: c.Subject().ID(),
		Number:    c.Number(),
		Title:     c.Title(),
	}
}

func toDBSection(s *entity.Section, updateLogID uuid.NullUUID) *models.Section {
	attrs := s.Attrs()
	return &models.Section{
		ID:            s.ID(),
		UpdateLogID:   updateLogID,
		CRN:           attrs.CRN,
		Number:        attrs.Number,
		Days:          attrs.Days,
		StartTime:     attrs.StartTime,
		EndTime:       attrs.EndTime,
		StartDate:     nullTime(attrs.StartDate),
		EndDate:       nullTime(attrs.EndDate),
		Status:        attrs.Status,
		MaxEnrollment: attrs.MaxEnrollment,
		Enrolled:      attrs.Enrolled,
		CampusID:      nullID(s.Campus()),
		BuildingID:    nullID(s.Building()),
		RoomID:        nullID(s.Room()),
		TermBlockID:   nullID(s.Block()),
		InstructorID:  nullID(s.Instructor()),
		SubjectID:     nullID(s.Subject()),
		CourseID:      nullID(s.Course()),
	}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullID[T interface {
	*E
	ID() uuid.UUID
}, E any](e T) uuid.NullUUID {
	if e == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: e.ID(), Valid: true}
}
