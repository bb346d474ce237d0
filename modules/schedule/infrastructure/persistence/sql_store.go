package persistence

import (
	"context"
	"errors"
	"fmt"
	"slices"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence/models"
)

var (
	ErrDuplicate        = errors.New("entity already stored")
	ErrMissingReference = errors.New("referenced entity not stored")
)

const (
	insertUpdateLogQuery  = `INSERT INTO schedule_update_logs (id, source, created_at) VALUES (:id, :source, :created_at)`
	insertCampusQuery     = `INSERT INTO schedule_campuses (id, short_name, name) VALUES (:id, :short_name, :name)`
	insertBuildingQuery   = `INSERT INTO schedule_buildings (id, campus_id, short_name, name) VALUES (:id, :campus_id, :short_name, :name)`
	insertRoomQuery       = `INSERT INTO schedule_rooms (id, building_id, number, capacity) VALUES (:id, :building_id, :number, :capacity)`
	insertInstructorQuery = `INSERT INTO schedule_instructors (id, identifier, name, email) VALUES (:id, :identifier, :name, :email)`
	insertTermQuery       = `INSERT INTO schedule_terms (id, year, semester) VALUES (:id, :year, :semester)`
	insertSubjectQuery    = `INSERT INTO schedule_subjects (id, name, title) VALUES (:id, :name, :title)`
	insertCourseQuery     = `INSERT INTO schedule_courses (id, subject_id, number, title) VALUES (:id, :subject_id, :number, :title)`

	insertTermBlockQuery = `
		INSERT INTO schedule_term_blocks (id, term_id, short_name, name, start_date, end_date)
		VALUES (:id, :term_id, :short_name, :name, :start_date, :end_date)`

	insertSectionQuery = `
		INSERT INTO schedule_sections (
			id, update_log_id, crn, number, days, start_time, end_time, start_date, end_date, status,
			max_enrollment, enrolled, campus_id, building_id, room_id, term_block_id, instructor_id, subject_id, course_id
		) VALUES (
			:id, :update_log_id, :crn, :number, :days, :start_time, :end_time, :start_date, :end_date, :status,
			:max_enrollment, :enrolled, :campus_id, :building_id, :room_id, :term_block_id, :instructor_id, :subject_id, :course_id
		)`

	selectUpdateLogsQuery = `SELECT id, source, created_at FROM schedule_update_logs ORDER BY created_at, id`
)

// purgeTables lists every schedule table, children first.
var purgeTables = []string{
	"schedule_sections",
	"schedule_courses",
	"schedule_subjects",
	"schedule_term_blocks",
	"schedule_terms",
	"schedule_instructors",
	"schedule_rooms",
	"schedule_buildings",
	"schedule_campuses",
	"schedule_update_logs",
}

// SQLStore buffers persisted entities and writes them on Flush in one
// transaction, parents before children.
type SQLStore struct {
	db        *sqlx.DB
	pending   []entity.Entity
	updateLog uuid.NullUUID
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Persist(_ context.Context, e entity.Entity) error {
	if e == nil {
		return gerrors.New("persist nil entity")
	}
	s.pending = append(s.pending, e)
	return nil
}

func (s *SQLStore) Flush(ctx context.Context) (err error) {
	if len(s.pending) == 0 {
		return nil
	}
	batch := slices.Clone(s.pending)
	slices.SortStableFunc(batch, func(a, b entity.Entity) int {
		return rank(a.Kind()) - rank(b.Kind())
	})

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return gerrors.Wrap(err, "begin flush")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	updateLog := s.updateLog
	for _, e := range batch {
		query, arg := s.insertArgs(e, &updateLog)
		if _, err := tx.NamedExecContext(ctx, query, arg); err != nil {
			return gerrors.Wrapf(mapPgError(err), "insert %s %s", e.Kind(), e.ID())
		}
	}
	if err := tx.Commit(); err != nil {
		return gerrors.Wrap(mapPgError(err), "commit flush")
	}
	s.pending = s.pending[:0]
	s.updateLog = updateLog
	return nil
}

func (s *SQLStore) UpdateLogs(ctx context.Context) ([]*entity.UpdateLog, error) {
	var rows []models.UpdateLog
	if err := s.db.SelectContext(ctx, &rows, selectUpdateLogsQuery); err != nil {
		return nil, gerrors.Wrap(mapPgError(err), "select update logs")
	}
	out := make([]*entity.UpdateLog, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainUpdateLog(&rows[i]))
	}
	return out, nil
}

// Purge deletes every stored schedule row, update logs included.
func (s *SQLStore) Purge(ctx context.Context) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return gerrors.Wrap(err, "begin purge")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range purgeTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return gerrors.Wrapf(mapPgError(err), "purge %s", table)
		}
	}
	if err := tx.Commit(); err != nil {
		return gerrors.Wrap(err, "commit purge")
	}
	s.updateLog = uuid.NullUUID{}
	return nil
}

// insertArgs picks the statement for e. Sections are stamped with the most
// recent update log written by this store.
func (s *SQLStore) insertArgs(e entity.Entity, updateLog *uuid.NullUUID) (string, any) {
	switch v := e.(type) {
	case *entity.UpdateLog:
		*updateLog = uuid.NullUUID{UUID: v.ID(), Valid: true}
		return insertUpdateLogQuery, toDBUpdateLog(v)
	case *entity.Campus:
		return insertCampusQuery, toDBCampus(v)
	case *entity.Building:
		return insertBuildingQuery, toDBBuilding(v)
	case *entity.Room:
		return insertRoomQuery, toDBRoom(v)
	case *entity.Instructor:
		return insertInstructorQuery, toDBInstructor(v)
	case *entity.Term:
		return insertTermQuery, toDBTerm(v)
	case *entity.TermBlock:
		return insertTermBlockQuery, toDBTermBlock(v)
	case *entity.Subject:
		return insertSubjectQuery, toDBSubject(v)
	case *entity.Course:
		return insertCourseQuery, toDBCourse(v)
	case *entity.Section:
		return insertSectionQuery, toDBSection(v, *updateLog)
	}
	panic(fmt.Sprintf("persistence: unexpected entity %T", e))
}

// rank orders kinds for insertion. Update logs go first, then Kinds order.
func rank(k entity.Kind) int {
	if k == entity.KindUpdateLog {
		return 0
	}
	return slices.Index(entity.Kinds, k) + 1
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w (%s): %w", ErrMissingReference, pgErr.ConstraintName, err)
	default:
		return err
	}
}
