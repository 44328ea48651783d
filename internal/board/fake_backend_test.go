package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/relayvision/visionlog/internal/model"
)

// fakeBackend is an in-memory Backend. Setting err makes every call fail with it;
// setting block makes every call wait for the context. Setting empty makes calls
// that answer with a row succeed without one.
type fakeBackend struct {
	mu    sync.Mutex
	snap  model.Snapshot
	err   error
	block bool
	empty bool
	calls []string
	seq   int
}

func (f *fakeBackend) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err, block := f.err, f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeBackend) noRow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.empty
}

func (f *fakeBackend) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	if err := f.enter(ctx, "snapshot"); err != nil {
		return nil, err
	}
	if f.noRow() {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snap
	return &snap, nil
}

func (f *fakeBackend) CreateThought(ctx context.Context, in model.ThoughtInput) (*model.Thought, error) {
	if err := f.enter(ctx, "thought.create"); err != nil {
		return nil, err
	}
	if f.noRow() {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := model.Thought{ID: f.nextID("t"), UserID: f.snap.Profile.UserID, Text: in.Text, ImageURL: in.ImageURL, CreatedAt: time.Now()}
	f.snap.Thoughts = append([]model.Thought{t}, f.snap.Thoughts...)
	return &t, nil
}

func (f *fakeBackend) UpdateThought(ctx context.Context, id string, patch model.ThoughtPatch) error {
	return f.enter(ctx, "thought.update")
}

func (f *fakeBackend) DeleteThought(ctx context.Context, id string) error {
	return f.enter(ctx, "thought.delete")
}

func (f *fakeBackend) CreateMission(ctx context.Context, in model.MissionInput) (*model.Mission, error) {
	if err := f.enter(ctx, "mission.create"); err != nil {
		return nil, err
	}
	if f.noRow() {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.Mission{ID: f.nextID("m"), UserID: f.snap.Profile.UserID, Task: in.Task, IsActive: true, CreatedAt: time.Now()}, nil
}

func (f *fakeBackend) ToggleMission(ctx context.Context, id string, action Action) error {
	return f.enter(ctx, "mission.toggle")
}

func (f *fakeBackend) CheerMission(ctx context.Context, id, note string) error {
	return f.enter(ctx, "mission.cheer")
}

func (f *fakeBackend) DeleteMission(ctx context.Context, id string) error {
	return f.enter(ctx, "mission.delete")
}

func (f *fakeBackend) RolloverMissions(ctx context.Context) error {
	return f.enter(ctx, "mission.rollover")
}

func (f *fakeBackend) CreateGoal(ctx context.Context, title, color string, private bool) (*model.Goal, error) {
	if err := f.enter(ctx, "goal.create"); err != nil {
		return nil, err
	}
	if f.noRow() {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.Goal{ID: f.nextID("g"), Title: title, Color: color, IsPrivate: private}, nil
}

func (f *fakeBackend) SetGoalPrivate(ctx context.Context, id string, private bool) error {
	return f.enter(ctx, "goal.private")
}

func (f *fakeBackend) DeleteGoal(ctx context.Context, id string) error {
	return f.enter(ctx, "goal.delete")
}

func (f *fakeBackend) CreateVision(ctx context.Context, in model.VisionInput) (*model.Vision, error) {
	if err := f.enter(ctx, "vision.create"); err != nil {
		return nil, err
	}
	if f.noRow() {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.Vision{ID: f.nextID("v"), Content: in.Content, MetricTarget: in.MetricTarget, MetricUnit: in.MetricUnit}, nil
}

func (f *fakeBackend) UpdateVision(ctx context.Context, id string, in model.VisionInput) error {
	return f.enter(ctx, "vision.update")
}

func (f *fakeBackend) UpdateVisionCurrent(ctx context.Context, id string, current float64) error {
	return f.enter(ctx, "vision.current")
}

func (f *fakeBackend) DeleteVision(ctx context.Context, id string) error {
	return f.enter(ctx, "vision.delete")
}
