package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/relayvision/visionlog/internal/model"
)

var (
	// ErrRejected marks a request the backend answered with an error.
	// Transports wrap their API errors so that errors.Is(err, ErrRejected) holds.
	ErrRejected = errors.New("rejected by backend")

	// ErrEmptyResponse marks a call that succeeded without returning the row it stored.
	ErrEmptyResponse = errors.New("backend returned no data")

	ErrEmptyThought    = errors.New("thought needs text or media")
	ErrEmptyTask       = errors.New("mission task is required")
	ErrEmptyTitle      = errors.New("goal title is required")
	ErrEmptyVision     = errors.New("vision content is required")
	ErrEmptyCheer      = errors.New("cheer note is required")
	ErrMissionNotFound = errors.New("mission not found")
)

// DefaultTimeout bounds every backend call made by the store.
const DefaultTimeout = 15 * time.Second

// Backend is the table API the store mirrors. Updates return only an error:
// the store merges its own locally computed patch on success.
type Backend interface {
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	CreateThought(ctx context.Context, in model.ThoughtInput) (*model.Thought, error)
	UpdateThought(ctx context.Context, id string, patch model.ThoughtPatch) error
	DeleteThought(ctx context.Context, id string) error

	CreateMission(ctx context.Context, in model.MissionInput) (*model.Mission, error)
	ToggleMission(ctx context.Context, id string, action Action) error
	CheerMission(ctx context.Context, id, note string) error
	DeleteMission(ctx context.Context, id string) error
	RolloverMissions(ctx context.Context) error

	CreateGoal(ctx context.Context, title, color string, private bool) (*model.Goal, error)
	SetGoalPrivate(ctx context.Context, id string, private bool) error
	DeleteGoal(ctx context.Context, id string) error

	CreateVision(ctx context.Context, in model.VisionInput) (*model.Vision, error)
	UpdateVision(ctx context.Context, id string, in model.VisionInput) error
	UpdateVisionCurrent(ctx context.Context, id string, current float64) error
	DeleteVision(ctx context.Context, id string) error
}

// Outcome is how a mutation ended.
type Outcome int

const (
	// Applied: the backend accepted the change and the cache reflects it.
	Applied Outcome = iota
	// Rejected: the change was refused (locally or by the backend); the cache is unchanged.
	Rejected
	// Unknown: the call failed in transit or timed out; the backend may or may not
	// have applied it. The cache is unchanged and marked stale.
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result reports a mutation outcome.
type Result struct {
	Outcome Outcome
	Err     error
}

func (r Result) OK() bool {
	return r.Outcome == Applied
}

func applied() Result {
	return Result{Outcome: Applied}
}

func rejected(err error) Result {
	return Result{Outcome: Rejected, Err: err}
}

// classify maps a backend error onto an outcome.
func classify(err error) Result {
	if err == nil {
		return applied()
	}
	if errors.Is(err, ErrRejected) {
		return Result{Outcome: Rejected, Err: err}
	}
	// Timeouts, cancellations and transport failures leave the backend state undetermined.
	return Result{Outcome: Unknown, Err: err}
}

// Store is the client-side cache of the backend tables for one signed-in user.
// Reads return copies; every write goes through reconcile.
type Store struct {
	backend Backend
	timeout time.Duration

	mu              sync.RWMutex
	profile         model.Profile
	partner         *model.Profile
	thoughts        []model.Thought
	missions        []model.Mission
	goals           []model.Goal
	visions         []model.Vision
	partnerThoughts []model.Thought
	partnerMissions []model.Mission
	partnerGoals    []model.Goal
	stale           bool
	loaded          bool
}

type StoreOption func(*Store)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.timeout = d
	}
}

func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// Reconciliation
// ============================================================================

type op int

const (
	opReplaceAll op = iota
	opInsert
	opUpdate
	opDelete
)

// change is one reconciliation step. Exactly one of the row fields is set for
// insert and update; id is set for update and delete.
type change struct {
	op       op
	table    string
	id       string
	partner  bool
	snapshot *model.Snapshot
	thought  *model.Thought
	mission  *model.Mission
	goal     *model.Goal
	vision   *model.Vision
	profile  *model.Profile
}

// reconcile merges one change into the cache. Inserts prepend thoughts and
// visions (newest first) and append missions and goals; updates keep position.
func (s *Store) reconcile(c change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.op == opReplaceAll {
		snap := c.snapshot
		s.profile = snap.Profile
		s.partner = snap.Partner
		s.thoughts = slices.Clone(snap.Thoughts)
		s.missions = slices.Clone(snap.Missions)
		s.goals = slices.Clone(snap.Goals)
		s.visions = slices.Clone(snap.Visions)
		s.partnerThoughts = slices.Clone(snap.PartnerThoughts)
		s.partnerMissions = slices.Clone(snap.PartnerMissions)
		s.partnerGoals = slices.Clone(snap.PartnerGoals)
		s.stale = false
		s.loaded = true
		return
	}

	switch c.table {
	case model.TableThoughts:
		s.thoughts = mergeRow(s.thoughts, c.op, c.id, c.thought, true, thoughtID)
	case model.TableMissions:
		if c.partner {
			s.partnerMissions = mergeRow(s.partnerMissions, c.op, c.id, c.mission, false, missionID)
			return
		}
		s.missions = mergeRow(s.missions, c.op, c.id, c.mission, false, missionID)
	case model.TableGoals:
		s.goals = mergeRow(s.goals, c.op, c.id, c.goal, false, goalID)
	case model.TableVisions:
		s.visions = mergeRow(s.visions, c.op, c.id, c.vision, true, visionID)
	case model.TableProfiles:
		if c.profile != nil {
			s.profile = *c.profile
		}
	}
}

func thoughtID(t model.Thought) string { return t.ID }
func missionID(m model.Mission) string { return m.ID }
func goalID(g model.Goal) string       { return g.ID }
func visionID(v model.Vision) string   { return v.ID }

// mergeRow returns a new slice so callers holding earlier copies never observe a write.
func mergeRow[T any](rows []T, o op, id string, row *T, prepend bool, key func(T) string) []T {
	switch o {
	case opInsert:
		if row == nil {
			return rows
		}
		out := make([]T, 0, len(rows)+1)
		if prepend {
			out = append(out, *row)
			out = append(out, rows...)
			return out
		}
		out = append(out, rows...)
		return append(out, *row)
	case opUpdate:
		if row == nil {
			return rows
		}
		out := slices.Clone(rows)
		for i := range out {
			if key(out[i]) == id {
				out[i] = *row
				return out
			}
		}
		return rows
	case opDelete:
		return slices.DeleteFunc(slices.Clone(rows), func(r T) bool {
			return key(r) == id
		})
	}
	return rows
}

// call runs fn with the store timeout and classifies the error.
func (s *Store) call(ctx context.Context, name string, fn func(ctx context.Context) error) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := classify(fn(ctx))
	switch res.Outcome {
	case Rejected:
		slog.Warn("mutation rejected", "op", name, "error", res.Err)
	case Unknown:
		slog.Warn("mutation outcome unknown", "op", name, "error", res.Err)
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
	}
	return res
}

// callRow is call for requests that answer with a row. A missing row leaves
// the outcome unknown.
func callRow[T any](ctx context.Context, s *Store, name string, fn func(ctx context.Context) (*T, error)) (*T, Result) {
	var row *T
	res := s.call(ctx, name, func(ctx context.Context) error {
		var err error
		row, err = fn(ctx)
		if err == nil && row == nil {
			return ErrEmptyResponse
		}
		return err
	})
	return row, res
}

// Refresh refetches everything and replaces the cache.
func (s *Store) Refresh(ctx context.Context) Result {
	snap, res := callRow(ctx, s, "refresh", s.backend.Snapshot)
	if !res.OK() {
		return res
	}
	s.reconcile(change{op: opReplaceAll, snapshot: snap})
	return res
}

// ============================================================================
// Reads
// ============================================================================

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Stale reports whether a mutation ended with an unknown outcome since the last refresh.
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

func (s *Store) Profile() model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.UserID
}

func (s *Store) PartnerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Partner()
}

func (s *Store) Partner() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.partner == nil {
		return nil
	}
	p := *s.partner
	return &p
}

func (s *Store) Thoughts() []model.Thought {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.thoughts)
}

func (s *Store) Missions() []model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.missions)
}

// ActiveMissions returns today's board in display order.
func (s *Store) ActiveMissions() []model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Mission
	for _, m := range s.missions {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.goals)
}

func (s *Store) Visions() []model.Vision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visions)
}

func (s *Store) PartnerThoughts() []model.Thought {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.partnerThoughts)
}

func (s *Store) PartnerMissions() []model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.partnerMissions)
}

func (s *Store) PartnerGoals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.partnerGoals)
}

// GoalLabel resolves a goal reference against own and partner goals.
func (s *Store) GoalLabel(goalID *string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := append(slices.Clone(s.goals), s.partnerGoals...)
	return model.GoalLabel(all, goalID)
}

// ActivityTimes returns the creation time of every own entry.
func (s *Store) ActivityTimes() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	times := make([]time.Time, 0, len(s.thoughts)+len(s.missions)+len(s.visions))
	for _, t := range s.thoughts {
		times = append(times, t.CreatedAt)
	}
	for _, m := range s.missions {
		times = append(times, m.CreatedAt)
	}
	for _, v := range s.visions {
		times = append(times, v.CreatedAt)
	}
	return times
}

// Streak is the number of distinct local days with any activity.
func (s *Store) Streak(loc *time.Location) int {
	return Streak(s.ActivityTimes(), loc)
}

func (s *Store) findMission(id string) (model.Mission, bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.missions {
		if m.ID == id {
			return m, false, true
		}
	}
	for _, m := range s.partnerMissions {
		if m.ID == id {
			return m, true, true
		}
	}
	return model.Mission{}, false, false
}

// ============================================================================
// Thoughts
// ============================================================================

// CaptureThought creates a thought. Empty text without media is rejected
// before any request is made.
func (s *Store) CaptureThought(ctx context.Context, in model.ThoughtInput) (model.Thought, Result) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" && !in.HasMedia() {
		return model.Thought{}, rejected(ErrEmptyThought)
	}

	created, res := callRow(ctx, s, "thought.create", func(ctx context.Context) (*model.Thought, error) {
		return s.backend.CreateThought(ctx, in)
	})
	if !res.OK() {
		return model.Thought{}, res
	}
	s.reconcile(change{op: opInsert, table: model.TableThoughts, thought: created})
	return *created, res
}

func (s *Store) updateThought(ctx context.Context, id string, patch model.ThoughtPatch) Result {
	res := s.call(ctx, "thought.update", func(ctx context.Context) error {
		return s.backend.UpdateThought(ctx, id, patch)
	})
	if !res.OK() {
		return res
	}

	s.mu.RLock()
	var updated *model.Thought
	for _, t := range s.thoughts {
		if t.ID == id {
			row := t
			if patch.Ignited != nil {
				row.Ignited = *patch.Ignited
			}
			if patch.Archived != nil {
				row.Archived = *patch.Archived
			}
			updated = &row
			break
		}
	}
	s.mu.RUnlock()

	s.reconcile(change{op: opUpdate, table: model.TableThoughts, id: id, thought: updated})
	return res
}

// ToggleIgnite flips the ignited flag of a thought.
func (s *Store) ToggleIgnite(ctx context.Context, id string) Result {
	t, ok := s.thought(id)
	if !ok {
		return rejected(fmt.Errorf("thought %s not found", id))
	}
	v := !t.Ignited
	return s.updateThought(ctx, id, model.ThoughtPatch{Ignited: &v})
}

// ToggleArchive flips the archived flag of a thought.
func (s *Store) ToggleArchive(ctx context.Context, id string) Result {
	t, ok := s.thought(id)
	if !ok {
		return rejected(fmt.Errorf("thought %s not found", id))
	}
	v := !t.Archived
	return s.updateThought(ctx, id, model.ThoughtPatch{Archived: &v})
}

func (s *Store) DeleteThought(ctx context.Context, id string) Result {
	res := s.call(ctx, "thought.delete", func(ctx context.Context) error {
		return s.backend.DeleteThought(ctx, id)
	})
	if res.OK() {
		s.reconcile(change{op: opDelete, table: model.TableThoughts, id: id})
	}
	return res
}

func (s *Store) thought(id string) (model.Thought, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.thoughts {
		if t.ID == id {
			return t, true
		}
	}
	return model.Thought{}, false
}

// ============================================================================
// Missions
// ============================================================================

func (s *Store) AddMission(ctx context.Context, in model.MissionInput) (model.Mission, Result) {
	in.Task = strings.TrimSpace(in.Task)
	if in.Task == "" {
		return model.Mission{}, rejected(ErrEmptyTask)
	}

	created, res := callRow(ctx, s, "mission.create", func(ctx context.Context) (*model.Mission, error) {
		return s.backend.CreateMission(ctx, in)
	})
	if !res.OK() {
		return model.Mission{}, res
	}
	s.reconcile(change{op: opInsert, table: model.TableMissions, mission: created})
	return *created, res
}

// ToggleMission applies a complete/crush toggle and returns the cue to play.
// The cue is only returned when the backend accepted the change.
func (s *Store) ToggleMission(ctx context.Context, id string, action Action) (Cue, Result) {
	m, isPartner, ok := s.findMission(id)
	if !ok || isPartner {
		return CueNone, rejected(ErrMissionNotFound)
	}

	patch := ApplyToggle(m, action)
	cue := CueFor(s.ActiveMissions(), m, patch)

	res := s.call(ctx, "mission.toggle", func(ctx context.Context) error {
		return s.backend.ToggleMission(ctx, id, action)
	})
	if !res.OK() {
		return CueNone, res
	}

	patch.Apply(&m)
	s.reconcile(change{op: opUpdate, table: model.TableMissions, id: id, mission: &m})
	return cue, res
}

// Cheer writes a note onto one of the partner's missions.
func (s *Store) Cheer(ctx context.Context, id, note string) Result {
	note = strings.TrimSpace(note)
	if note == "" {
		return rejected(ErrEmptyCheer)
	}
	m, isPartner, ok := s.findMission(id)
	if !ok || !isPartner {
		return rejected(ErrMissionNotFound)
	}

	res := s.call(ctx, "mission.cheer", func(ctx context.Context) error {
		return s.backend.CheerMission(ctx, id, note)
	})
	if !res.OK() {
		return res
	}

	m.CheerNote = &note
	s.reconcile(change{op: opUpdate, table: model.TableMissions, id: id, mission: &m, partner: true})
	return res
}

func (s *Store) DeleteMission(ctx context.Context, id string) Result {
	res := s.call(ctx, "mission.delete", func(ctx context.Context) error {
		return s.backend.DeleteMission(ctx, id)
	})
	if res.OK() {
		s.reconcile(change{op: opDelete, table: model.TableMissions, id: id})
	}
	return res
}

// Rollover archives today's board. The missions stay cached as history.
func (s *Store) Rollover(ctx context.Context) Result {
	res := s.call(ctx, "mission.rollover", func(ctx context.Context) error {
		return s.backend.RolloverMissions(ctx)
	})
	if !res.OK() {
		return res
	}
	for _, m := range s.ActiveMissions() {
		m.IsActive = false
		s.reconcile(change{op: opUpdate, table: model.TableMissions, id: m.ID, mission: &m})
	}
	return res
}

// ============================================================================
// Goals
// ============================================================================

func (s *Store) AddGoal(ctx context.Context, title, color string, private bool) (model.Goal, Result) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Goal{}, rejected(ErrEmptyTitle)
	}

	created, res := callRow(ctx, s, "goal.create", func(ctx context.Context) (*model.Goal, error) {
		return s.backend.CreateGoal(ctx, title, color, private)
	})
	if !res.OK() {
		return model.Goal{}, res
	}
	s.reconcile(change{op: opInsert, table: model.TableGoals, goal: created})
	return *created, res
}

func (s *Store) SetGoalPrivate(ctx context.Context, id string, private bool) Result {
	res := s.call(ctx, "goal.private", func(ctx context.Context) error {
		return s.backend.SetGoalPrivate(ctx, id, private)
	})
	if !res.OK() {
		return res
	}
	for _, g := range s.Goals() {
		if g.ID == id {
			g.IsPrivate = private
			s.reconcile(change{op: opUpdate, table: model.TableGoals, id: id, goal: &g})
			break
		}
	}
	return res
}

func (s *Store) DeleteGoal(ctx context.Context, id string) Result {
	res := s.call(ctx, "goal.delete", func(ctx context.Context) error {
		return s.backend.DeleteGoal(ctx, id)
	})
	if res.OK() {
		s.reconcile(change{op: opDelete, table: model.TableGoals, id: id})
	}
	return res
}

// ============================================================================
// Visions
// ============================================================================

func (s *Store) AddVision(ctx context.Context, in model.VisionInput) (model.Vision, Result) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return model.Vision{}, rejected(ErrEmptyVision)
	}

	created, res := callRow(ctx, s, "vision.create", func(ctx context.Context) (*model.Vision, error) {
		return s.backend.CreateVision(ctx, in)
	})
	if !res.OK() {
		return model.Vision{}, res
	}
	s.reconcile(change{op: opInsert, table: model.TableVisions, vision: created})
	return *created, res
}

func (s *Store) EditVision(ctx context.Context, id string, in model.VisionInput) Result {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return rejected(ErrEmptyVision)
	}

	res := s.call(ctx, "vision.update", func(ctx context.Context) error {
		return s.backend.UpdateVision(ctx, id, in)
	})
	if !res.OK() {
		return res
	}
	for _, v := range s.Visions() {
		if v.ID == id {
			v.Content = in.Content
			v.MetricStart = in.MetricStart
			v.MetricCurrent = in.MetricCurrent
			v.MetricTarget = in.MetricTarget
			v.MetricUnit = in.MetricUnit
			s.reconcile(change{op: opUpdate, table: model.TableVisions, id: id, vision: &v})
			break
		}
	}
	return res
}

// UpdateVisionCurrent is the quick progress update.
func (s *Store) UpdateVisionCurrent(ctx context.Context, id string, current float64) Result {
	res := s.call(ctx, "vision.current", func(ctx context.Context) error {
		return s.backend.UpdateVisionCurrent(ctx, id, current)
	})
	if !res.OK() {
		return res
	}
	for _, v := range s.Visions() {
		if v.ID == id {
			v.MetricCurrent = current
			s.reconcile(change{op: opUpdate, table: model.TableVisions, id: id, vision: &v})
			break
		}
	}
	return res
}

func (s *Store) DeleteVision(ctx context.Context, id string) Result {
	res := s.call(ctx, "vision.delete", func(ctx context.Context) error {
		return s.backend.DeleteVision(ctx, id)
	})
	if res.OK() {
		s.reconcile(change{op: opDelete, table: model.TableVisions, id: id})
	}
	return res
}

// SetProfile replaces the cached profile after an out-of-band change such as an avatar upload.
func (s *Store) SetProfile(p model.Profile) {
	s.reconcile(change{op: opUpdate, table: model.TableProfiles, profile: &p})
}
