package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/pkg/logging"
)

var tracer = otel.Tracer("github.com/iota-uz/schedule-import/modules/schedule/services")

const progressEvery = 1000

// RowResult is the outcome of resolving one source row.
type RowResult struct {
	Position int
	Section  *entity.Section
	// Created holds the instances first seen on this row, parents first.
	Created []entity.Entity
	Reused  []entity.Kind
}

type Summary struct {
	Source   entity.SourceKind
	Rows     int
	Sections int
	Created  map[entity.Kind]int
	Reused   map[entity.Kind]int
	Flushes  int
	Duration time.Duration
}

func newSummary(source entity.SourceKind) *Summary {
	return &Summary{
		Source:  source,
		Created: make(map[entity.Kind]int),
		Reused:  make(map[entity.Kind]int),
	}
}

type GraphBuilderOption func(*GraphBuilder)

// WithBatchSize flushes the repository every n rows. Zero flushes only at the end.
func WithBatchSize(n int) GraphBuilderOption {
	return func(g *GraphBuilder) { g.batchSize = n }
}

func WithLogger(log *logrus.Entry) GraphBuilderOption {
	return func(g *GraphBuilder) { g.log = log }
}

// GraphBuilder walks a driver's rows and resolves each one into the shared
// cache, so every natural entity exists once per run.
type GraphBuilder struct {
	driver    importer.Driver
	cache     *Cache
	repo      entity.Repository
	batchSize int
	log       *logrus.Entry
}

func NewGraphBuilder(driver importer.Driver, cache *Cache, repo entity.Repository, opts ...GraphBuilderOption) *GraphBuilder {
	g := &GraphBuilder{driver: driver, cache: cache, repo: repo}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logging.Nop()
	}
	return g
}

// Run processes every row from the first and flushes the repository in
// batches. The first error aborts the run; rows before it stay resolved.
func (g *GraphBuilder) Run(ctx context.Context) (sum *Summary, err error) {
	ctx, span := tracer.Start(ctx, "schedule.graph.run")
	start := time.Now()
	sum = newSummary(g.driver.Source())
	defer func() {
		sum.Duration = time.Since(start)
		runDurationSeconds.WithLabelValues(string(sum.Source), resultLabel(err)).Observe(sum.Duration.Seconds())
		span.SetAttributes(
			attribute.Int("schedule.rows", sum.Rows),
			attribute.Int("schedule.sections", sum.Sections),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	source := string(sum.Source)
	for _, ok := g.driver.First(); ok; _, ok = g.driver.Next() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := g.ProcessRow()
		if err != nil {
			rowsTotal.WithLabelValues(source, "failed").Inc()
			return sum, err
		}
		if err := g.persist(ctx, res); err != nil {
			return sum, err
		}
		rowsTotal.WithLabelValues(source, "ok").Inc()
		sum.add(res)

		if g.batchSize > 0 && sum.Rows%g.batchSize == 0 {
			if err := g.flush(ctx, sum); err != nil {
				return sum, err
			}
		}
		if sum.Rows%progressEvery == 0 {
			g.log.WithFields(logrus.Fields{
				"rows":   sum.Rows,
				"cached": g.cache.Len(),
			}).Debug("schedule import progress")
		}
	}
	if err := g.flush(ctx, sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// ProcessRow resolves the driver's current row. On error nothing from the row
// reaches the cache or any child collection.
func (g *GraphBuilder) ProcessRow() (*RowResult, error) {
	scope := g.cache.Scope()
	res, err := g.resolveRow(scope)
	if err != nil {
		scope.Discard()
		return nil, err
	}
	if err := scope.Commit(); err != nil {
		return nil, err
	}
	for _, e := range res.Created {
		entitiesTotal.WithLabelValues(e.Kind().String(), "created").Inc()
	}
	for _, k := range res.Reused {
		entitiesTotal.WithLabelValues(k.String(), "reused").Inc()
	}
	return res, nil
}

func (g *GraphBuilder) resolveRow(s *Scope) (*RowResult, error) {
	res := &RowResult{Position: g.driver.Position()}

	campusCandidate, err := g.driver.CreateCampus()
	if err != nil {
		return nil, err
	}
	campus, err := track(s, res, campusCandidate)
	if err != nil {
		return nil, err
	}

	buildingCandidate, err := g.driver.CreateBuilding(campus)
	if err != nil {
		return nil, err
	}
	building, err := trackChild(s, res, buildingCandidate, campus.AddBuilding)
	if err != nil {
		return nil, err
	}

	roomCandidate, err := g.driver.CreateRoom(building)
	if err != nil {
		return nil, err
	}
	room, err := trackChild(s, res, roomCandidate, building.AddRoom)
	if err != nil {
		return nil, err
	}

	instructorCandidate, err := g.driver.CreateInstructor()
	if err != nil {
		return nil, err
	}
	instructor, err := track(s, res, instructorCandidate)
	if err != nil {
		return nil, err
	}

	block, err := g.resolveBlock(s, res)
	if err != nil {
		return nil, err
	}

	subjectCandidate, err := g.driver.CreateSubject()
	if err != nil {
		return nil, err
	}
	subject, err := track(s, res, subjectCandidate)
	if err != nil {
		return nil, err
	}

	courseCandidate, err := g.driver.CreateCourse(subject)
	if err != nil {
		return nil, err
	}
	course, err := trackChild(s, res, courseCandidate, subject.AddCourse)
	if err != nil {
		return nil, err
	}

	section, err := g.driver.CreateSection(course)
	if err != nil {
		return nil, err
	}
	section.Bind(entity.SectionRefs{
		Campus:     campus,
		Building:   building,
		Room:       room,
		Block:      block,
		Instructor: instructor,
		Subject:    subject,
		Course:     course,
	})
	s.Link(func() { course.AddSection(section) })
	res.Section = section
	return res, nil
}

// resolveBlock resolves the term before its block. A block built against a
// term that is already cached is rebound to the cached instance.
func (g *GraphBuilder) resolveBlock(s *Scope, res *RowResult) (*entity.TermBlock, error) {
	candidate, err := g.driver.CreateTerm()
	if err != nil {
		return nil, err
	}
	if candidate.Term() == nil {
		return nil, fmt.Errorf("row %d: %w", res.Position+1, entity.ErrMissingParent)
	}
	term, err := track(s, res, candidate.Term())
	if err != nil {
		return nil, err
	}
	if term != candidate.Term() {
		candidate = candidate.WithTerm(term)
	}
	return trackChild(s, res, candidate, term.AddBlock)
}

func track[T entity.Entity](s *Scope, res *RowResult, candidate T) (T, error) {
	e, _, isNew, err := resolveAs(s, candidate)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("row %d: %w", res.Position+1, err)
	}
	if isNew {
		res.Created = append(res.Created, e)
	} else {
		res.Reused = append(res.Reused, e.Kind())
	}
	return e, nil
}

// trackChild resolves candidate and, when it is new, records its append to
// the parent collection.
func trackChild[T entity.Entity](s *Scope, res *RowResult, candidate T, add func(T)) (T, error) {
	n := len(res.Created)
	e, err := track(s, res, candidate)
	if err != nil {
		return e, err
	}
	if len(res.Created) > n {
		s.Link(func() { add(e) })
	}
	return e, nil
}

func (g *GraphBuilder) persist(ctx context.Context, res *RowResult) error {
	for _, e := range res.Created {
		if err := g.repo.Persist(ctx, e); err != nil {
			return fmt.Errorf("row %d: persist %s: %w", res.Position+1, e.Kind(), err)
		}
	}
	if err := g.repo.Persist(ctx, res.Section); err != nil {
		return fmt.Errorf("row %d: persist section: %w", res.Position+1, err)
	}
	return nil
}

func (g *GraphBuilder) flush(ctx context.Context, sum *Summary) error {
	ctx, span := tracer.Start(ctx, "schedule.graph.flush")
	defer span.End()
	if err := g.repo.Flush(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("flush after %d rows: %w", sum.Rows, err)
	}
	flushesTotal.Inc()
	sum.Flushes++
	return nil
}

func (s *Summary) add(res *RowResult) {
	s.Rows++
	s.Sections++
	s.Created[entity.KindSection]++
	for _, e := range res.Created {
		s.Created[e.Kind()]++
	}
	for _, k := range res.Reused {
		s.Reused[k]++
	}
}
