package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/gameerr"
	"github.com/tatianab/gacha-rooms/internal/models"
)

const helpText = "Commands: /draw, /use <item> <puzzle>, /answer <puzzle> <text>, /hint <puzzle>, " +
	"/next, /go <room>, /discard <item>, /history, /save, /load, /restart, /quit"

// errQuit asks the program to exit.
var errQuit = errors.New("quit")

// errRestart asks the program to go back to the name prompt.
var errRestart = errors.New("restart")

// runCommand executes one typed command against the engine and returns the
// text to show. Item and puzzle numbers are 1-based positions in the
// inventory and in the list of unsolved puzzles.
func runCommand(ctx context.Context, eng *engine.Engine, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/quit":
		return "", errQuit
	case "/restart":
		return "", errRestart
	case "/help":
		return helpText, nil

	case "/draw":
		d, err := eng.Draw()
		if d.Item == nil && err == nil {
			return "The machine is empty.", nil
		}
		if err != nil && d.Item == nil {
			return "", err
		}
		msg := fmt.Sprintf("You drew %s (pity %d/%d).", d.Item, d.PityAfter, models.PityThreshold)
		if d.Forced {
			msg = "Pity! " + msg
		}
		if err != nil {
			return msg, err
		}
		return msg, nil

	case "/use":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: /use <item> <puzzle>")
		}
		item, err := itemAt(eng, args[0])
		if err != nil {
			return "", err
		}
		puzzle, err := puzzleAt(eng, args[1])
		if err != nil {
			return "", err
		}
		res, err := eng.ApplyItem(item, puzzle)
		if err != nil {
			return "", err
		}
		switch res {
		case models.ResultSolved:
			return fmt.Sprintf("Solved! +%d coins.", puzzle.Reward()), nil
		case models.ResultProgress:
			return describeProgress(puzzle), nil
		default:
			return fmt.Sprintf("%s has no effect.", item.Name), nil
		}

	case "/answer":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: /answer <puzzle> <text>")
		}
		puzzle, err := puzzleAt(eng, args[0])
		if err != nil {
			return "", err
		}
		ok, err := eng.AnswerPuzzle(puzzle, strings.Join(args[1:], " "))
		if err != nil {
			return "", err
		}
		if !ok {
			return "That is not it.", nil
		}
		return fmt.Sprintf("Correct! +%d coins.", puzzle.Reward()), nil

	case "/hint":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: /hint <puzzle>")
		}
		puzzle, err := puzzleAt(eng, args[0])
		if err != nil {
			return "", err
		}
		return eng.Hint(ctx, puzzle)

	case "/next":
		if err := eng.MoveToNextRoom(); err != nil {
			return "", err
		}
		msg := fmt.Sprintf("You enter %s.", eng.CurrentRoom().Name)
		if eng.WinCondition() {
			msg += " " + eng.WinConditionDetail().Message
		}
		return msg, nil

	case "/go":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: /go <room>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("room must be a number")
		}
		if err := eng.MoveToRoom(n - 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("You walk back to %s.", eng.CurrentRoom().Name), nil

	case "/discard":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: /discard <item>")
		}
		item, err := itemAt(eng, args[0])
		if err != nil {
			return "", err
		}
		if err := eng.DiscardItem(item); err != nil {
			return "", err
		}
		return fmt.Sprintf("Discarded %s.", item.Name), nil

	case "/history":
		draws, err := eng.RecentDraws(ctx, 10)
		if err != nil {
			return "", err
		}
		if len(draws) == 0 {
			return "No draws yet.", nil
		}
		var b strings.Builder
		for _, d := range draws {
			lost := ""
			if d.Lost {
				lost = " (lost: inventory full)"
			}
			forced := ""
			if d.Forced {
				forced = " [pity]"
			}
			fmt.Fprintf(&b, "room %d: %s (%s)%s%s\n", d.Room, d.ItemName, d.Rarity, forced, lost)
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case "/save":
		if err := eng.Save(); err != nil {
			return "", err
		}
		return "Game saved.", nil

	case "/load":
		ok, err := eng.Load()
		if err != nil {
			return "", err
		}
		if !ok {
			return "There is no saved game.", nil
		}
		return fmt.Sprintf("Welcome back, %s.", eng.Player().Name()), nil
	}

	return "", fmt.Errorf("unknown command %q; try /help", cmd)
}

func itemAt(eng *engine.Engine, arg string) (*models.Item, error) {
	items := eng.Player().Inventory()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		return nil, fmt.Errorf("no item %s (you hold %d)", arg, len(items))
	}
	return items[n-1], nil
}

func puzzleAt(eng *engine.Engine, arg string) (*models.Puzzle, error) {
	puzzles := eng.AvailablePuzzles()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(puzzles) {
		return nil, fmt.Errorf("no puzzle %s (%d unsolved here)", arg, len(puzzles))
	}
	return puzzles[n-1], nil
}

func describeProgress(p *models.Puzzle) string {
	switch p.Kind() {
	case models.KindRiddle:
		return "A hint appears: " + p.Hint
	case models.KindCode:
		return "You make out the first digits: " + p.RevealedDigits()
	}
	return "Something shifts."
}

// describeError turns classified errors into player-facing text.
func describeError(err error) string {
	var gerr *gameerr.Error
	if !errors.As(err, &gerr) {
		return err.Error()
	}
	switch gerr.Code {
	case gameerr.CodeInsufficientFunds:
		return fmt.Sprintf("Not enough coins: a pull costs %d, you have %d.",
			gerr.Int(gameerr.KeyRequired), gerr.Int(gameerr.KeyAvailable))
	case gameerr.CodeInventoryFull:
		return fmt.Sprintf("Your bag is full (%d/%d). %s was lost.",
			gerr.Int(gameerr.KeyCurrent), gerr.Int(gameerr.KeyMax), gerr.Get(gameerr.KeyItem))
	case gameerr.CodeRoomLocked:
		return fmt.Sprintf("Room %s (%s) is still locked.", gerr.Get(gameerr.KeyRoom), gerr.Get(gameerr.KeyRoomName))
	case gameerr.CodeSaveCorrupted:
		return fmt.Sprintf("Save problem at %s (recovery: %s): %v",
			gerr.Get(gameerr.KeyStep), gerr.Get(gameerr.KeyRecovery), gerr.Cause)
	}
	return gerr.Error()
}
