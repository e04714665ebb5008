// Package engine is the session orchestrator. It owns the session graph
// and enforces room gating, item application, draws and the win condition.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/gacha-rooms/internal/content"
	"github.com/tatianab/gacha-rooms/internal/gacha"
	"github.com/tatianab/gacha-rooms/internal/gameerr"
	"github.com/tatianab/gacha-rooms/internal/hint"
	"github.com/tatianab/gacha-rooms/internal/history"
	"github.com/tatianab/gacha-rooms/internal/models"
	"github.com/tatianab/gacha-rooms/internal/random"
	"github.com/tatianab/gacha-rooms/internal/validate"
)

// ErrNoSession is returned by operations that need a game in progress.
var ErrNoSession = errors.New("no game in progress")

// ErrNoStore is returned by save and load when no store is configured.
var ErrNoStore = errors.New("no save store configured")

// Store persists whole sessions. Load returns (nil, nil) when nothing is saved.
type Store interface {
	Exists() bool
	Save(state *models.GameState) error
	Load() (*models.GameState, error)
}

// Recorder keeps the draw ledger, partitioned by GameState.ID.
type Recorder interface {
	RecordDraw(ctx context.Context, rec history.Record) error
	Recent(ctx context.Context, session string, limit int) ([]history.Record, error)
	Truncate(ctx context.Context, session string, keep int) error
}

// DefaultStartingCoins is the balance of a new player.
const DefaultStartingCoins = 100

// Engine is one explicitly owned game session.
type Engine struct {
	state *models.GameState

	store    Store
	recorder Recorder
	hints    hint.Provider
	src      gacha.Source
	rooms    func() ([]*models.Room, error)
	logger   *log.Logger
	now      func() time.Time

	capacity      int
	startingCoins int
}

// Option configures an Engine.
type Option func(*Engine)

func WithStore(s Store) Option              { return func(e *Engine) { e.store = s } }
func WithRecorder(r Recorder) Option        { return func(e *Engine) { e.recorder = r } }
func WithHints(p hint.Provider) Option      { return func(e *Engine) { e.hints = p } }
func WithSource(src gacha.Source) Option    { return func(e *Engine) { e.src = src } }
func WithLogger(l *log.Logger) Option       { return func(e *Engine) { e.logger = l } }
func WithInventoryCapacity(n int) Option    { return func(e *Engine) { e.capacity = n } }
func WithStartingCoins(n int) Option        { return func(e *Engine) { e.startingCoins = n } }
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithRooms replaces the built-in room list used by NewGame.
func WithRooms(build func() ([]*models.Room, error)) Option {
	return func(e *Engine) { e.rooms = build }
}

// NewEngine creates an engine with no game in progress.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		hints:         hint.Static{},
		rooms:         content.DefaultRooms,
		logger:        log.Default(),
		now:           time.Now,
		capacity:      models.DefaultInventoryCapacity,
		startingCoins: DefaultStartingCoins,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		seed, err := random.NewSeed()
		if err != nil {
			seed = time.Now().UnixNano()
		}
		e.src = gacha.NewSource(seed)
	}
	return e
}

// NewGame replaces any session with a fresh one under a new ID: a new
// player, every room locked except the first, and the first room current.
// Draws of earlier games stay in the ledger under their own IDs.
func (e *Engine) NewGame(name string) error {
	rooms, err := e.rooms()
	if err != nil {
		return fmt.Errorf("build rooms: %w", err)
	}
	if len(rooms) == 0 {
		return fmt.Errorf("build rooms: no rooms")
	}
	for _, r := range rooms {
		r.Lock()
	}
	rooms[0].Unlock()

	state := &models.GameState{
		ID:          uuid.NewString(),
		Player:      models.NewPlayer(name, e.startingCoins, e.capacity),
		Rooms:       rooms,
		CurrentRoom: 0,
	}
	if e.state == nil {
		e.state = state
	} else {
		e.state.ReplaceWith(state)
	}
	return nil
}

// Started reports whether a game is in progress.
func (e *Engine) Started() bool { return e.state != nil }

// State returns the live session graph, or nil before a game starts.
func (e *Engine) State() *models.GameState { return e.state }

// SaveExists reports whether the store holds a save.
func (e *Engine) SaveExists() bool {
	return e.store != nil && e.store.Exists()
}

// Save persists the whole session.
func (e *Engine) Save() error {
	if e.store == nil {
		return ErrNoStore
	}
	if e.state == nil {
		return ErrNoSession
	}
	return e.store.Save(e.state)
}

// Load replaces the session with the saved one. It reports false with a nil
// error when there is no save. On any failure the current session is left
// as it was.
func (e *Engine) Load() (bool, error) {
	if e.store == nil {
		return false, ErrNoStore
	}
	loaded, err := e.store.Load()
	if err != nil {
		return false, err
	}
	if loaded == nil {
		return false, nil
	}
	if issues := validate.Check(loaded); len(issues) > 0 {
		return false, gameerr.SaveCorrupted("validate", "", errors.New(strings.Join(issues, "; ")))
	}
	if e.state == nil {
		e.state = &models.GameState{}
	}
	e.state.ReplaceWith(loaded)
	if e.recorder != nil {
		// Draws made after this save was written no longer happened.
		if err := e.recorder.Truncate(context.Background(), loaded.ID, loaded.Player.TotalDraws()); err != nil {
			e.logger.Printf("trim draw history: %v", err)
		}
	}
	return true, nil
}

// Validate audits the live session.
func (e *Engine) Validate() []string {
	return validate.Check(e.state)
}

// Player returns the current player, or nil before a game starts.
func (e *Engine) Player() *models.Player {
	if e.state == nil {
		return nil
	}
	return e.state.Player
}

// Rooms returns the rooms in order.
func (e *Engine) Rooms() []*models.Room {
	if e.state == nil {
		return nil
	}
	out := make([]*models.Room, len(e.state.Rooms))
	copy(out, e.state.Rooms)
	return out
}

// CurrentRoomIndex returns the 0-based index of the current room.
func (e *Engine) CurrentRoomIndex() int {
	if e.state == nil {
		return 0
	}
	return e.state.CurrentRoom
}

// CurrentRoom returns the room the player is in.
func (e *Engine) CurrentRoom() *models.Room {
	if e.state == nil {
		return nil
	}
	return e.state.Current()
}

// AvailablePuzzles returns the unsolved puzzles of the current room.
func (e *Engine) AvailablePuzzles() []*models.Puzzle {
	room := e.CurrentRoom()
	if room == nil {
		return nil
	}
	return room.UnsolvedPuzzles()
}

// CurrentRoomProgress returns the solved fraction of the current room.
func (e *Engine) CurrentRoomProgress() float64 {
	room := e.CurrentRoom()
	if room == nil {
		return 0
	}
	return room.Progress()
}

// CurrentMachine returns the current room's draw machine.
func (e *Engine) CurrentMachine() *models.DrawMachine {
	room := e.CurrentRoom()
	if room == nil {
		return nil
	}
	return room.Machine()
}

// CanAffordPull reports whether the player can pay for one draw here.
func (e *Engine) CanAffordPull() bool {
	m := e.CurrentMachine()
	if m == nil || e.state.Player == nil {
		return false
	}
	return e.state.Player.CanAfford(m.Cost())
}

// MoveToRoom makes an unlocked room current.
func (e *Engine) MoveToRoom(index int) error {
	if e.state == nil {
		return ErrNoSession
	}
	room := e.state.Room(index)
	if room == nil {
		return gameerr.WithMetadata(gameerr.CodeInvalidRoom,
			fmt.Sprintf("no room at index %d", index),
			map[string]string{gameerr.KeyRoom: strconv.Itoa(index + 1)})
	}
	if room.Locked() {
		return gameerr.RoomLocked(room.Number, room.Name)
	}
	e.state.CurrentRoom = index
	return nil
}

// MoveToNextRoom unlocks the room after the current one and enters it. The
// current room must be complete.
func (e *Engine) MoveToNextRoom() error {
	if e.state == nil {
		return ErrNoSession
	}
	cur := e.state.Current()
	if cur == nil {
		return ErrNoSession
	}
	if !cur.Complete() {
		return gameerr.WithMetadata(gameerr.CodeRoomIncomplete,
			fmt.Sprintf("room %d (%s) has %d unsolved puzzle(s)", cur.Number, cur.Name, len(cur.UnsolvedPuzzles())),
			map[string]string{gameerr.KeyRoom: strconv.Itoa(cur.Number), gameerr.KeyRoomName: cur.Name})
	}
	next := e.state.Room(e.state.CurrentRoom + 1)
	if next == nil {
		return gameerr.New(gameerr.CodeNoNextRoom, fmt.Sprintf("room %d (%s) is the last room", cur.Number, cur.Name))
	}
	next.Unlock()
	e.state.CurrentRoom++
	if e.WinCondition() {
		e.logger.Printf("all %d rooms complete", len(e.state.Rooms))
	}
	return nil
}

// accessibleRoom returns the current room if mutations may touch it.
func (e *Engine) accessibleRoom() (*models.Room, error) {
	if e.state == nil || e.state.Player == nil {
		return nil, ErrNoSession
	}
	room := e.state.Current()
	if room == nil {
		return nil, ErrNoSession
	}
	if room.Locked() {
		return nil, gameerr.RoomLocked(room.Number, room.Name)
	}
	return room, nil
}

// ApplyItem uses an inventory item on a puzzle of the current room. A
// solved puzzle credits its reward once. A key that opens a lock is used up.
func (e *Engine) ApplyItem(item *models.Item, puzzle *models.Puzzle) (models.UseResult, error) {
	room, err := e.accessibleRoom()
	if err != nil {
		return models.ResultNoEffect, err
	}
	player := e.state.Player
	if item == nil || !player.HasItem(item) {
		return models.ResultNoEffect, gameerr.New(gameerr.CodeItemNotOwned, "item is not in the inventory")
	}
	if puzzle == nil || !room.HasPuzzle(puzzle) {
		return models.ResultNoEffect, gameerr.New(gameerr.CodePuzzleNotFound,
			fmt.Sprintf("puzzle is not in room %d", room.Number))
	}
	if puzzle.Solved() {
		return models.ResultNoEffect, nil
	}

	res := item.Use(puzzle)
	switch res {
	case models.ResultWrongItem:
		return res, gameerr.WrongItem(item.Name, puzzle.Description)
	case models.ResultSolved:
		e.credit(room, puzzle)
		if item.Kind() == models.KindKey {
			player.RemoveItem(item)
		}
	}
	return res, nil
}

// AnswerPuzzle submits an answer to a riddle or code puzzle of the current
// room and reports whether it was right.
func (e *Engine) AnswerPuzzle(puzzle *models.Puzzle, answer string) (bool, error) {
	room, err := e.accessibleRoom()
	if err != nil {
		return false, err
	}
	if puzzle == nil || !room.HasPuzzle(puzzle) {
		return false, gameerr.New(gameerr.CodePuzzleNotFound,
			fmt.Sprintf("puzzle is not in room %d", room.Number))
	}
	if !puzzle.SubmitAnswer(answer) {
		return false, nil
	}
	e.credit(room, puzzle)
	return true, nil
}

func (e *Engine) credit(room *models.Room, puzzle *models.Puzzle) {
	player := e.state.Player
	player.Earn(puzzle.Reward())
	player.RecordPuzzleSolved()
	if room.Complete() {
		player.RecordRoomCompleted()
	}
}

// Draw pulls once from the current room's machine and puts the item in the
// inventory. When the inventory is full the paid-for item is lost: the
// draw is returned together with an inventory-full error and nothing is
// refunded. A machine with an empty pool returns a draw with a nil item.
func (e *Engine) Draw() (gacha.Draw, error) {
	room, err := e.accessibleRoom()
	if err != nil {
		return gacha.Draw{}, err
	}
	m := room.Machine()
	if m == nil {
		return gacha.Draw{}, nil
	}
	d, err := gacha.Pull(m, e.state.Player, e.src)
	if err != nil || d.Item == nil {
		return d, err
	}
	addErr := e.AddItem(d.Item)
	e.record(room, d, addErr != nil)
	return d, addErr
}

func (e *Engine) record(room *models.Room, d gacha.Draw, lost bool) {
	if e.recorder == nil {
		return
	}
	rec := history.Record{
		Session:   e.state.ID,
		Seq:       e.state.Player.TotalDraws(),
		Room:      room.Number,
		Machine:   room.Machine().RoomID(),
		ItemID:    d.Item.ID(),
		ItemName:  d.Item.Name,
		Rarity:    d.Item.Rarity().String(),
		Cost:      d.Cost,
		PityAfter: d.PityAfter,
		Forced:    d.Forced,
		Lost:      lost,
		DrawnAt:   e.now(),
	}
	if err := e.recorder.RecordDraw(context.Background(), rec); err != nil {
		e.logger.Printf("record draw: %v", err)
	}
}

// AddItem puts an item in the inventory, or fails with inventory-full.
func (e *Engine) AddItem(item *models.Item) error {
	if e.state == nil || e.state.Player == nil {
		return ErrNoSession
	}
	player := e.state.Player
	if item == nil {
		return fmt.Errorf("add item: nil item")
	}
	if player.HasItem(item) {
		return nil
	}
	if player.InventoryFull() {
		return gameerr.InventoryFull(len(player.Inventory()), player.Capacity(), item.Name)
	}
	player.AddItem(item)
	return nil
}

// DiscardItem removes an item from the inventory for good.
func (e *Engine) DiscardItem(item *models.Item) error {
	if e.state == nil || e.state.Player == nil {
		return ErrNoSession
	}
	if !e.state.Player.RemoveItem(item) {
		return gameerr.New(gameerr.CodeItemNotOwned, "item is not in the inventory")
	}
	return nil
}

// Hint asks the hint provider about a puzzle of the current room.
func (e *Engine) Hint(ctx context.Context, puzzle *models.Puzzle) (string, error) {
	room, err := e.accessibleRoom()
	if err != nil {
		return "", err
	}
	if puzzle == nil || !room.HasPuzzle(puzzle) {
		return "", gameerr.New(gameerr.CodePuzzleNotFound,
			fmt.Sprintf("puzzle is not in room %d", room.Number))
	}
	return e.hints.Hint(ctx, puzzle)
}

// RecentDraws returns up to limit ledger entries of the live game, newest
// first.
func (e *Engine) RecentDraws(ctx context.Context, limit int) ([]history.Record, error) {
	if e.recorder == nil {
		return nil, nil
	}
	if e.state == nil {
		return nil, ErrNoSession
	}
	return e.recorder.Recent(ctx, e.state.ID, limit)
}
