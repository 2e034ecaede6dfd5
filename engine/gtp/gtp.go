// Package gtp drives a Go engine that speaks the Go Text Protocol, such as
// GnuGo, and exposes it as a move source for the game loop.
package gtp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"termzero/engine"
	"termzero/log"
	"termzero/types"
)

// Engine proposes Go moves by asking a GTP engine to genmove.
// The engine's board is kept in step with the game history before every
// request.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.Writer
	stdout *bufio.Reader

	size   int
	synced int // moves of the game history the engine has seen

	mu sync.Mutex
}

// Start launches cfg.EnginePath in GTP mode and sets up an empty board.
func Start(cfg engine.GameConfig) (*Engine, error) {
	args := []string{
		"--mode", "gtp",
		"--level", fmt.Sprintf("%d", cfg.EngineLevel),
		"--quiet",
	}
	cmd := exec.Command(cfg.EnginePath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	// Discard stderr to prevent blocking
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cfg.EnginePath, err)
	}

	e, err := NewEngine(stdin, stdout, cfg.BoardSize, cfg.Komi)
	if err != nil {
		stdin.Close()
		cmd.Wait()
		return nil, err
	}
	e.cmd = cmd
	return e, nil
}

// NewEngine talks GTP over an already connected pair of streams.
func NewEngine(stdin io.Writer, stdout io.Reader, size int, komi float64) (*Engine, error) {
	e := &Engine{
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		size:   size,
	}
	if _, err := e.sendCommand(fmt.Sprintf("boardsize %d", size)); err != nil {
		return nil, fmt.Errorf("failed to set board size: %w", err)
	}
	if _, err := e.sendCommand("clear_board"); err != nil {
		return nil, fmt.Errorf("failed to clear board: %w", err)
	}
	if _, err := e.sendCommand(fmt.Sprintf("komi %.1f", komi)); err != nil {
		return nil, fmt.Errorf("failed to set komi: %w", err)
	}
	return e, nil
}

// Propose asks the engine for a move for the side to move on board.
// The engine plays the move on its own board; a resignation is played as a pass.
func (e *Engine) Propose(ctx context.Context, board engine.Board) (types.Move, error) {
	if board.Variant() != types.Go {
		return types.Move{}, fmt.Errorf("gtp engines only play Go, not %s", board.Variant())
	}
	if board.Size() != e.size {
		return types.Move{}, fmt.Errorf("engine board is %d, game board is %d", e.size, board.Size())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.syncHistory(board.History()); err != nil {
		return types.Move{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Move{}, err
	}

	color := colorToGTP(board.Player())
	response, err := e.sendCommand("genmove " + color)
	if err != nil {
		return types.Move{}, fmt.Errorf("genmove failed: %w", err)
	}
	response = strings.TrimSpace(strings.ToUpper(response))

	if response == "RESIGN" {
		log.Info("engine resigned, playing a pass")
		if _, err := e.sendCommand(fmt.Sprintf("play %s pass", color)); err != nil {
			return types.Move{}, fmt.Errorf("failed to pass after resignation: %w", err)
		}
		e.synced++
		return types.PassMove(), nil
	}

	m, err := engine.ParseDisplay(response, e.size)
	if err != nil {
		return types.Move{}, fmt.Errorf("unexpected genmove response %q: %w", response, err)
	}
	e.synced++
	return m, nil
}

// syncHistory plays every move the engine has not seen yet. If the history is
// shorter than what was sent, the engine board is rebuilt from scratch.
func (e *Engine) syncHistory(history []types.Move) error {
	if len(history) < e.synced {
		if _, err := e.sendCommand("clear_board"); err != nil {
			return fmt.Errorf("failed to clear board: %w", err)
		}
		e.synced = 0
	}
	for i := e.synced; i < len(history); i++ {
		// Black moves first and turns alternate, passes included.
		player := types.PlayerOne
		if i%2 == 1 {
			player = types.PlayerTwo
		}
		vertex := engine.MoveToDisplay(history[i], e.size)
		if _, err := e.sendCommand(fmt.Sprintf("play %s %s", colorToGTP(player), vertex)); err != nil {
			return fmt.Errorf("engine rejected move %d (%s): %w", i+1, vertex, err)
		}
		e.synced = i + 1
	}
	return nil
}

// FinalScore returns the engine's own scoring of board, for example "W+6.5".
// Moves the engine has not seen yet, such as a closing pass, are sent first.
func (e *Engine) FinalScore(board engine.Board) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.syncHistory(board.History()); err != nil {
		return "", err
	}
	score, err := e.sendCommand("final_score")
	if err != nil {
		return "", fmt.Errorf("final_score failed: %w", err)
	}
	return score, nil
}

// sendCommand sends a GTP command and returns the response.
func (e *Engine) sendCommand(cmd string) (string, error) {
	log.Trace("gtp: sending '%s'", cmd)

	if _, err := fmt.Fprintf(e.stdin, "%s\n", cmd); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	var response strings.Builder
	for {
		line, err := e.stdout.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read response: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")

		// Empty line signals end of response
		if line == "" {
			if response.Len() == 0 {
				continue
			}
			break
		}

		if response.Len() > 0 {
			response.WriteString("\n")
		}
		response.WriteString(line)
	}

	result := response.String()
	log.Trace("gtp: response '%s'", result)

	// Check for error response (starts with '?')
	if strings.HasPrefix(result, "?") {
		return "", fmt.Errorf("GTP error: %s", strings.TrimSpace(strings.TrimPrefix(result, "?")))
	}

	// Success response starts with '='
	return strings.TrimSpace(strings.TrimPrefix(result, "=")), nil
}

// Close asks the engine to quit and waits for the process to exit.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sendCommand("quit")
	if c, ok := e.stdin.(io.Closer); ok {
		c.Close()
	}
	if e.cmd != nil && e.cmd.Process != nil {
		return e.cmd.Wait()
	}
	return nil
}

func colorToGTP(p types.Player) string {
	if p == types.PlayerTwo {
		return "white"
	}
	return "black"
}
