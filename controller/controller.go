// Package controller tracks the active screen, the current round and hole, and drives the round store
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/go-generalize/golf-score-memo/auth"
	"github.com/go-generalize/golf-score-memo/export"
	"github.com/go-generalize/golf-score-memo/model"
	"github.com/go-generalize/golf-score-memo/store"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Screen is one of the application screens
type Screen string

const (
	ScreenLoading    Screen = "loading"
	ScreenRoundList  Screen = "roundList"
	ScreenRoundSetup Screen = "roundSetup"
	ScreenHoleEntry  Screen = "holeEntry"
)

// Direction is a hole navigation direction
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Action is the primary action offered on the round list
type Action string

const (
	ActionNewRound Action = "new"
	ActionResume   Action = "resume"
)

// 画面遷移エラー
var (
	ErrInvalidTransition = xerrors.New("action is not available on this screen")
	ErrRoundInProgress   = xerrors.New("a round is already in progress")
	ErrNoRoundInProgress = xerrors.New("no round is in progress")
)

const finishedMessage = "18ホール完了！お疲れ様でした！"

// RoundStore is the part of store.Store the controller uses
type RoundStore interface {
	Subscribe(fn func([]*model.Round)) func()
	Get(id string) (*model.Round, error)
	Save(ctx context.Context, r *model.Round) error
	Remove(ctx context.Context, id string) error
}

// Status is the banner showing the last outcome
type Status struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// RoundSetup holds the editable fields of the setup form. Nil fields are left unchanged.
type RoundSetup struct {
	Date            *string          `json:"date,omitempty"`
	CourseName      *string          `json:"courseName,omitempty"`
	Memo            *string          `json:"memo,omitempty"`
	FrontCourseName *string          `json:"frontCourseName,omitempty"`
	FrontStartHole  *model.StartHole `json:"frontStartHole,omitempty"`
	BackCourseName  *string          `json:"backCourseName,omitempty"`
	BackStartHole   *model.StartHole `json:"backStartHole,omitempty"`
}

// Controller is the screen state machine. All methods are safe for concurrent use.
type Controller struct {
	store  RoundStore
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	screen      Screen
	current     *model.Round
	currentHole int
	draft       model.Hole
	status      Status
	rounds      []*model.Round

	unsubscribe func()
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New returns a controller listening to s. Close releases the listener.
func New(s RoundStore, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		store:       s,
		logger:      logger,
		now:         time.Now,
		screen:      ScreenLoading,
		currentHole: 1,
		draft:       model.DefaultHole(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.unsubscribe = s.Subscribe(c.onRounds)

	return c
}

// Close stops listening to the store
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Controller) onRounds(rounds []*model.Round) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rounds = rounds
	if c.screen == ScreenLoading {
		c.screen = ScreenRoundList
	}
}

// setStatus must be called with mu held
func (c *Controller) setStatus(msg string, isErr bool) {
	c.status = Status{Message: msg, Error: isErr}
}

// fail logs err, shows it on the banner and returns it. mu must be held.
func (c *Controller) fail(action string, err error) error {
	c.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
	c.setStatus(Message(err), true)
	return err
}

// persist runs a store write with mu released. Store listeners re-enter onRounds.
func (c *Controller) persist(action string, write func() error) error {
	err := write()
	if err == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fail(action, err)
}

func (c *Controller) expect(action string, screens ...Screen) error {
	for _, s := range screens {
		if c.screen == s {
			return nil
		}
	}
	return c.fail(action, xerrors.Errorf("%s on %s: %w", action, c.screen, ErrInvalidTransition))
}

// loadDraft resets the hole form to the saved values of the current hole. mu must be held.
func (c *Controller) loadDraft() {
	c.draft = model.DefaultHole()
	if c.current != nil {
		c.draft = c.current.Hole(c.currentHole)
	}
}

func (c *Controller) inProgressLocked() *model.Round {
	for _, r := range c.rounds {
		if r.InProgress {
			return r
		}
	}
	return nil
}

// NewRound opens the setup form for a fresh round. It is refused while another round is in progress.
func (c *Controller) NewRound() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("new round", ScreenRoundList); err != nil {
		return err
	}
	if r := c.inProgressLocked(); r != nil {
		return c.fail("new round", xerrors.Errorf("round %s: %w", r.ID, ErrRoundInProgress))
	}

	c.current = model.NewRoundAt(c.now())
	c.screen = ScreenRoundSetup
	c.setStatus("", false)

	return nil
}

// UpdateSetup applies form edits to the unsaved round
func (c *Controller) UpdateSetup(edit RoundSetup) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("update setup", ScreenRoundSetup); err != nil {
		return err
	}

	r := c.current
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&r.Date, edit.Date)
	setString(&r.CourseName, edit.CourseName)
	setString(&r.Memo, edit.Memo)
	setString(&r.FrontCourseName, edit.FrontCourseName)
	setString(&r.BackCourseName, edit.BackCourseName)
	if edit.FrontStartHole != nil {
		r.FrontStartHole = *edit.FrontStartHole
	}
	if edit.BackStartHole != nil {
		r.BackStartHole = *edit.BackStartHole
	}

	return nil
}

// CancelSetup discards the unsaved round and returns to the list
func (c *Controller) CancelSetup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("cancel setup", ScreenRoundSetup); err != nil {
		return err
	}

	c.current = nil
	c.screen = ScreenRoundList

	return nil
}

// StartPlay persists the round and moves to hole 1.
// The screen changes even if the write fails; the failure is shown on the banner.
func (c *Controller) StartPlay(ctx context.Context) error {
	c.mu.Lock()
	if err := c.expect("start play", ScreenRoundSetup); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.current.Validate(); err != nil {
		err = c.fail("start play", err)
		c.mu.Unlock()
		return err
	}

	c.current.InProgress = true
	c.current.UpdatedAt = c.now()
	c.currentHole = 1
	c.loadDraft()
	c.screen = ScreenHoleEntry
	c.setStatus("", false)
	saved := c.current.Clone()
	c.mu.Unlock()

	return c.persist("start play", func() error {
		return c.store.Save(ctx, saved)
	})
}

// Resume continues the in-progress round at its first unsaved hole
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("resume", ScreenRoundList); err != nil {
		return err
	}

	r := c.inProgressLocked()
	if r == nil {
		return c.fail("resume", ErrNoRoundInProgress)
	}

	c.current = r.Clone()
	c.currentHole = r.FirstIncompleteHole()
	c.loadDraft()
	c.screen = ScreenHoleEntry
	c.setStatus("", false)

	return nil
}

// EditHole merges edits into the unsaved hole form
func (c *Controller) EditHole(edits model.HoleEdit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("edit hole", ScreenHoleEntry); err != nil {
		return err
	}

	c.draft = model.MergeHole(c.draft, edits)

	return nil
}

// SaveHole marks the current hole completed and persists the round.
// Holes 1-17 advance to the next hole; hole 18 finishes the round and returns to the list.
func (c *Controller) SaveHole(ctx context.Context) error {
	c.mu.Lock()
	if err := c.expect("save hole", ScreenHoleEntry); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.draft.Validate(); err != nil {
		err = c.fail("save hole", err)
		c.mu.Unlock()
		return err
	}

	h := c.draft
	h.Completed = true
	c.current.SetHole(c.currentHole, h)
	c.current.UpdatedAt = c.now()

	finished := c.currentHole >= model.HoleCount
	if finished {
		c.current.InProgress = false
	}
	saved := c.current.Clone()

	if finished {
		c.current = nil
		c.currentHole = 1
		c.screen = ScreenRoundList
		c.setStatus(finishedMessage, false)
	} else {
		c.currentHole++
		c.loadDraft()
		c.setStatus("", false)
	}
	c.mu.Unlock()

	return c.persist("save hole", func() error {
		return c.store.Save(ctx, saved)
	})
}

// Navigate moves to the previous or next hole without saving, discarding unsaved edits
func (c *Controller) Navigate(dir Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("navigate", ScreenHoleEntry); err != nil {
		return err
	}

	switch dir {
	case Prev:
		if c.currentHole > 1 {
			c.currentHole--
		}
	case Next:
		if c.currentHole < model.HoleCount {
			c.currentHole++
		}
	default:
		return c.fail("navigate", xerrors.Errorf("unknown direction %q: %w", dir, ErrInvalidTransition))
	}
	c.loadDraft()

	return nil
}

// ShowList returns to the round list. Saved holes are kept.
func (c *Controller) ShowList() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect("show list", ScreenHoleEntry, ScreenRoundList); err != nil {
		return err
	}

	c.current = nil
	c.currentHole = 1
	c.screen = ScreenRoundList

	return nil
}

// DeleteRound removes a round. Callers confirm with the user first; there is no undo.
func (c *Controller) DeleteRound(ctx context.Context, id string) error {
	c.mu.Lock()
	err := c.expect("delete round", ScreenRoundList)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if err := c.persist("delete round", func() error {
		if _, err := c.store.Get(id); err != nil {
			return xerrors.Errorf("round %s: %w", id, err)
		}
		return c.store.Remove(ctx, id)
	}); err != nil {
		return err
	}

	c.mu.Lock()
	c.setStatus("削除しました。", false)
	c.mu.Unlock()

	return nil
}

// Export returns the CSV file name for now and the contents for the completed rounds
func (c *Controller) Export(now time.Time) (string, []byte) {
	return export.FileName(now), export.CSV(c.Rounds())
}

// Rounds returns the rounds as last delivered by the store
func (c *Controller) Rounds() []*model.Round {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := make([]*model.Round, len(c.rounds))
	for i, r := range c.rounds {
		res[i] = r.Clone()
	}
	return res
}

// State is a snapshot of the controller for rendering
type State struct {
	Screen        Screen       `json:"screen"`
	PrimaryAction Action       `json:"primaryAction"`
	Round         *model.Round `json:"round,omitempty"`
	CurrentHole   int          `json:"currentHole"`
	CourseName    string       `json:"courseName"`
	Draft         model.Hole   `json:"draft"`
	Approach      int          `json:"approach"`
	Status        Status       `json:"status"`
	RoundCount    int          `json:"roundCount"`
	Exportable    bool         `json:"exportable"`
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Screen:        c.screen,
		PrimaryAction: ActionNewRound,
		Round:         c.current.Clone(),
		CurrentHole:   c.currentHole,
		Draft:         c.draft,
		Approach:      c.draft.Approach(),
		Status:        c.status,
		RoundCount:    len(c.rounds),
		Exportable:    len(export.Completed(c.rounds)) > 0,
	}
	if c.inProgressLocked() != nil {
		st.PrimaryAction = ActionResume
	}
	if c.current != nil {
		st.CourseName = c.current.CourseNameFor(c.currentHole)
	}

	return st
}

// Message returns the banner text for err
func Message(err error) string {
	switch {
	case xerrors.Is(err, model.ErrValidation):
		return "入力内容を確認してください。"
	case xerrors.Is(err, ErrRoundInProgress):
		return "プレイ中のラウンドがあります。"
	case xerrors.Is(err, ErrNoRoundInProgress):
		return "プレイ中のラウンドはありません。"
	case xerrors.Is(err, ErrInvalidTransition):
		return "この画面では操作できません。"
	case xerrors.Is(err, store.ErrNotFound):
		return "ラウンドが見つかりません。"
	case xerrors.Is(err, auth.ErrNotSignedIn):
		return auth.Message(err)
	}
	return "保存に失敗しました。もう一度お試しください。"
}
