package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/effectiveness"
	"skillpath/internal/domain/feedback"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
)

type effectivenessKey struct {
	kind effectiveness.Kind
	id   uuid.UUID
}

type enrollmentKey struct {
	profileID uuid.UUID
	pathID    uuid.UUID
}

// MemoryStore implements every repository interface in process. It is used for library
// embedding and tests and keeps the same atomicity guarantees as the Postgres store.
type MemoryStore struct {
	mu sync.Mutex

	profiles      map[uuid.UUID]profile.SkillProfile
	jobs          map[uuid.UUID]catalog.Job
	roles         map[uuid.UUID]catalog.Role
	courses       map[uuid.UUID]catalog.Course
	effectiveness map[effectivenessKey]effectiveness.Record

	feedback      map[uuid.UUID]feedback.Record
	feedbackOrder []uuid.UUID

	paths       map[uuid.UUID]learningpath.Path
	enrollments map[enrollmentKey]learningpath.Enrollment
	attempts    map[uuid.UUID]AssessmentAttempt

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:      map[uuid.UUID]profile.SkillProfile{},
		jobs:          map[uuid.UUID]catalog.Job{},
		roles:         map[uuid.UUID]catalog.Role{},
		courses:       map[uuid.UUID]catalog.Course{},
		effectiveness: map[effectivenessKey]effectiveness.Record{},
		feedback:      map[uuid.UUID]feedback.Record{},
		paths:         map[uuid.UUID]learningpath.Path{},
		enrollments:   map[enrollmentKey]learningpath.Enrollment{},
		attempts:      map[uuid.UUID]AssessmentAttempt{},
		now:           time.Now,
	}
}

func (s *MemoryStore) PutJob(j catalog.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.Requirements.TargetID = j.ID
	s.jobs[j.ID] = j
}

func (s *MemoryStore) PutRole(r catalog.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Requirements.TargetID = r.ID
	s.roles[r.ID] = r
}

func (s *MemoryStore) PutCourse(c catalog.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

// profiles

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (profile.SkillProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return profile.SkillProfile{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, p profile.SkillProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Clone()
	p.UpdatedAt = s.now().UTC()
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryStore) UpsertSkill(ctx context.Context, profileID uuid.UUID, sk profile.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p = p.Clone()
	p.Upsert(sk)
	p.UpdatedAt = s.now().UTC()
	s.profiles[profileID] = p
	return nil
}

func (s *MemoryStore) VerifySkills(ctx context.Context, profileID uuid.UUID, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileID]
	if !ok {
		return nil
	}
	p = p.Clone()
	for _, n := range names {
		target := skill.Normalize(n)
		for i := range p.Skills {
			if skill.Normalize(p.Skills[i].Name) == target {
				p.Skills[i].Verified = true
			}
		}
	}
	s.profiles[profileID] = p
	return nil
}

// catalog

func (s *MemoryStore) FindRequirement(ctx context.Context, targetID uuid.UUID) (catalog.RequirementSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[targetID]; ok {
		return copySet(j.Requirements), nil
	}
	if r, ok := s.roles[targetID]; ok {
		return copySet(r.Requirements), nil
	}
	return catalog.RequirementSet{}, ErrNotFound
}

func (s *MemoryStore) FindCourses(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := map[string]struct{}{}
	for _, n := range filter.Skills {
		if v := skill.Normalize(n); v != "" {
			want[v] = struct{}{}
		}
	}

	out := make([]catalog.Course, 0)
	for _, c := range s.courses {
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		if len(want) > 0 && !teachesAny(c, want) {
			continue
		}
		out = append(out, s.withCourseEffectiveness(c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) FindCourse(ctx context.Context, id uuid.UUID) (catalog.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return catalog.Course{}, ErrNotFound
	}
	return s.withCourseEffectiveness(c), nil
}

func (s *MemoryStore) FindJob(ctx context.Context, id uuid.UUID) (catalog.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return catalog.Job{}, ErrNotFound
	}
	return s.withJobEffectiveness(j), nil
}

func (s *MemoryStore) ListJobs(ctx context.Context, limit, offset int) ([]catalog.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	ids := make([]uuid.UUID, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	out := make([]catalog.Job, 0, limit)
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		if i < 0 {
			continue
		}
		out = append(out, s.withJobEffectiveness(s.jobs[ids[i]]))
	}
	return out, nil
}

func (s *MemoryStore) withCourseEffectiveness(c catalog.Course) catalog.Course {
	if rec, ok := s.effectiveness[effectivenessKey{effectiveness.KindCourse, c.ID}]; ok {
		c.Effectiveness = rec
	}
	c.SkillsTaught = append([]string(nil), c.SkillsTaught...)
	return c
}

func (s *MemoryStore) withJobEffectiveness(j catalog.Job) catalog.Job {
	if rec, ok := s.effectiveness[effectivenessKey{effectiveness.KindJob, j.ID}]; ok {
		j.Effectiveness = rec
	}
	j.Requirements = copySet(j.Requirements)
	j.Categories = append([]string(nil), j.Categories...)
	return j
}

func teachesAny(c catalog.Course, want map[string]struct{}) bool {
	for _, t := range c.SkillsTaught {
		if _, ok := want[skill.Normalize(t)]; ok {
			return true
		}
	}
	return false
}

func copySet(s catalog.RequirementSet) catalog.RequirementSet {
	out := catalog.RequirementSet{TargetID: s.TargetID, Requirements: make([]catalog.Requirement, len(s.Requirements))}
	copy(out.Requirements, s.Requirements)
	return out
}

// effectiveness

func (s *MemoryStore) Fold(ctx context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := map[uuid.UUID]struct{}{}
	for _, id := range agg.FeedbackIDs() {
		if rec, ok := s.feedback[id]; ok && !rec.IsProcessed() {
			keep[id] = struct{}{}
		}
	}
	claimed := agg.Restrict(keep)
	if claimed.Count() == 0 || claimed.Count() < minSample {
		return effectiveness.FoldDeferred, nil
	}

	at := s.now().UTC()
	for id := range keep {
		rec := s.feedback[id]
		_ = rec.MarkProcessed(at)
		s.feedback[id] = rec
	}
	k := effectivenessKey{agg.Kind, agg.EntityID}
	s.effectiveness[k] = s.effectiveness[k].Fold(claimed, at)
	return effectiveness.FoldCommitted, nil
}

func (s *MemoryStore) EffectivenessOf(ctx context.Context, kind effectiveness.Kind, entityID uuid.UUID) (effectiveness.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.effectiveness[effectivenessKey{kind, entityID}]
	if !ok {
		return effectiveness.Record{}, ErrNotFound
	}
	return rec, nil
}

// feedback

func (s *MemoryStore) Create(ctx context.Context, rec feedback.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.feedback[rec.ID]; !ok {
		s.feedbackOrder = append(s.feedbackOrder, rec.ID)
	}
	s.feedback[rec.ID] = rec
	return nil
}

func (s *MemoryStore) FetchUnprocessed(ctx context.Context, limit int) ([]feedback.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 500
	}
	out := make([]feedback.Record, 0)
	for _, id := range s.feedbackOrder {
		rec := s.feedback[id]
		if rec.IsProcessed() {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) FetchReady(ctx context.Context, limit, minSample int) ([]feedback.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 500
	}
	if minSample < 1 {
		minSample = 1
	}

	type group struct {
		kind feedback.Type
		id   uuid.UUID
	}
	folded := func(rec feedback.Record) (group, bool) {
		if rec.RelatedEntityID == uuid.Nil {
			return group{}, false
		}
		if rec.Type != feedback.TypeCourseEffectiveness && rec.Type != feedback.TypePlacementOutcome {
			return group{}, false
		}
		return group{rec.Type, rec.RelatedEntityID}, true
	}

	pending := make([]feedback.Record, 0)
	counts := map[group]int{}
	for _, id := range s.feedbackOrder {
		rec := s.feedback[id]
		if rec.IsProcessed() {
			continue
		}
		pending = append(pending, rec)
		if g, ok := folded(rec); ok {
			counts[g]++
		}
	}

	// each unit is one unfolded record or every record of one ready entity
	units := make([][]feedback.Record, 0)
	unitOf := map[group]int{}
	for _, rec := range pending {
		g, ok := folded(rec)
		if !ok {
			units = append(units, []feedback.Record{rec})
			continue
		}
		if counts[g] < minSample {
			continue
		}
		i, seen := unitOf[g]
		if !seen {
			i = len(units)
			unitOf[g] = i
			units = append(units, nil)
		}
		units[i] = append(units[i], rec)
	}

	out := make([]feedback.Record, 0)
	for _, u := range units {
		for _, rec := range u {
			if len(out) == limit {
				return out, nil
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkProcessed(ctx context.Context, ids []uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now().UTC()
	n := 0
	for _, id := range ids {
		rec, ok := s.feedback[id]
		if !ok {
			continue
		}
		if err := rec.MarkProcessed(at); err != nil {
			continue
		}
		s.feedback[id] = rec
		n++
	}
	return n, nil
}

// FeedbackRecord returns the stored record, processed or not.
func (s *MemoryStore) FeedbackRecord(id uuid.UUID) (feedback.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.feedback[id]
	return rec, ok
}

// learning paths and enrollments

func (s *MemoryStore) SavePath(ctx context.Context, p learningpath.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[p.ID] = p
	return nil
}

func (s *MemoryStore) GetPath(ctx context.Context, id uuid.UUID) (learningpath.Path, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.paths[id]
	if !ok {
		return learningpath.Path{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) GetEnrollment(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentKey{profileID, pathID}]
	if !ok {
		return learningpath.Enrollment{}, ErrNotFound
	}
	e.CompletedModules = append([]uuid.UUID(nil), e.CompletedModules...)
	return e, nil
}

func (s *MemoryStore) SaveEnrollment(ctx context.Context, e learningpath.Enrollment) (learningpath.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := enrollmentKey{e.ProfileID, e.PathID}
	cur, exists := s.enrollments[k]
	switch {
	case e.Version == 0 && exists:
		return learningpath.Enrollment{}, ErrVersionConflict
	case e.Version != 0 && (!exists || cur.Version != e.Version):
		return learningpath.Enrollment{}, ErrVersionConflict
	}
	e.Version++
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = s.now().UTC()
	}
	e.CompletedModules = append([]uuid.UUID(nil), e.CompletedModules...)
	s.enrollments[k] = e
	return e, nil
}

// assessments

func (s *MemoryStore) StartAttempt(ctx context.Context, a AssessmentAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.attempts {
		if cur.ProfileID == a.ProfileID && cur.AssessmentID == a.AssessmentID && cur.Status == AttemptInProgress {
			return ErrAttemptInProgress
		}
	}
	a.Status = AttemptInProgress
	s.attempts[a.ID] = a
	return nil
}

func (s *MemoryStore) FinishAttempt(ctx context.Context, id uuid.UUID, status AttemptStatus, score float64, at time.Time) (AssessmentAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok || a.Status != AttemptInProgress {
		return AssessmentAttempt{}, ErrNotFound
	}
	t := at.UTC()
	a.Status = status
	a.Score = score
	a.FinishedAt = &t
	s.attempts[id] = a
	return a, nil
}

func (s *MemoryStore) CountAttempts(ctx context.Context, profileID, assessmentID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.attempts {
		if a.ProfileID == profileID && a.AssessmentID == assessmentID {
			n++
		}
	}
	return n, nil
}

// Enrollments adapts the store to EnrollmentRepository, whose Get and Save names collide
// with the profile methods.
func (s *MemoryStore) Enrollments() EnrollmentRepository {
	return memoryEnrollments{s}
}

// Effectiveness adapts the store to EffectivenessRepository.
func (s *MemoryStore) Effectiveness() EffectivenessRepository {
	return memoryEffectiveness{s}
}

type memoryEnrollments struct{ s *MemoryStore }

func (m memoryEnrollments) SavePath(ctx context.Context, p learningpath.Path) error {
	return m.s.SavePath(ctx, p)
}

func (m memoryEnrollments) GetPath(ctx context.Context, id uuid.UUID) (learningpath.Path, error) {
	return m.s.GetPath(ctx, id)
}

func (m memoryEnrollments) Get(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	return m.s.GetEnrollment(ctx, profileID, pathID)
}

func (m memoryEnrollments) Save(ctx context.Context, e learningpath.Enrollment) (learningpath.Enrollment, error) {
	return m.s.SaveEnrollment(ctx, e)
}

type memoryEffectiveness struct{ s *MemoryStore }

func (m memoryEffectiveness) Fold(ctx context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error) {
	return m.s.Fold(ctx, agg, minSample)
}

func (m memoryEffectiveness) Get(ctx context.Context, kind effectiveness.Kind, entityID uuid.UUID) (effectiveness.Record, error) {
	return m.s.EffectivenessOf(ctx, kind, entityID)
}

var (
	_ ProfileRepository    = (*MemoryStore)(nil)
	_ CatalogRepository    = (*MemoryStore)(nil)
	_ FeedbackRepository   = (*MemoryStore)(nil)
	_ AssessmentRepository = (*MemoryStore)(nil)

	_ ProfileRepository       = (*PostgresProfileRepository)(nil)
	_ CatalogRepository       = (*PostgresCatalogRepository)(nil)
	_ CatalogRepository       = (*CachedCatalogRepository)(nil)
	_ EffectivenessRepository = (*PostgresEffectivenessRepository)(nil)
	_ FeedbackRepository      = (*PostgresFeedbackRepository)(nil)
	_ EnrollmentRepository    = (*PostgresEnrollmentRepository)(nil)
	_ AssessmentRepository    = (*PostgresAssessmentRepository)(nil)
)
