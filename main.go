// termzero plays Ataxx and Go in the terminal against a tree search policy or GnuGo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"termzero/config"
	"termzero/engine"
	"termzero/engine/gtp"
	"termzero/game"
	"termzero/log"
	"termzero/model"
	"termzero/search"
	"termzero/sgf"
	"termzero/store"
	"termzero/types"
	"termzero/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagGame       = flag.String("game", "", "Game to play (ataxx or go)")
	flagSize       = flag.Int("size", 0, "Board size (Ataxx 4-8, Go 5-19)")
	flagHuman      = flag.String("human", "", "Side you play: 1, 2 or none to watch")
	flagIterations = flag.Int("iterations", 0, "Search iterations per move")
	flagKomi       = flag.Float64("komi", -1, "Komi value (Go)")
	flagModel      = flag.String("model", "", "Model weights file")
	flagPolicy     = flag.String("policy", "", "Opponent policy (mcts or gnugo)")
	flagLevel      = flag.Int("level", 0, "GnuGo difficulty level (1-10)")
	flagHeadless   = flag.Bool("headless", false, "Play on stdin/stdout without the board UI")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagHistory    = flag.Bool("history", false, "Browse recorded games (with -headless, print them and recent results)")
	flagReplay     = flag.String("replay", "", "Replay an SGF record and print the final position")
	flagResult     = flag.String("result", "", "Show a saved result by id (see -history -headless)")
	flagColors     = flag.Bool("colors", false, "Edit the Ataxx and Go board colours")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termzero %s\n", Version)
		return 0
	}

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// The board owns the terminal, so a missing log file must not fall back
	// to stderr there.
	var logFallback io.Writer
	if !*flagHeadless {
		logFallback = io.Discard
	}
	logFile, err := log.OpenDebugFile(logFallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Debug log disabled: %s\n", err)
	} else {
		defer logFile.Close()
	}
	level, _ := log.ParseLogLevel(cfg.LogLevel)
	log.SetLevel(level)

	switch {
	case *flagHistory && !*flagHeadless:
		if err := ui.RunHistoryBrowser(historyDir(cfg), cfg.Theme); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case *flagHistory:
		return printHistory(cfg)
	case *flagColors:
		if err := ui.RunThemeEditor(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case *flagReplay != "":
		return replay(*flagReplay)
	case *flagResult != "":
		return showResult(cfg, *flagResult)
	}

	gameCfg, err := buildGameConfigFromFlags(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	quickStart := *flagQuickStart || flagsGiven()
	if !gameCfg.Headless && !quickStart {
		chosen, ok, err := ui.RunSetup(gameCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %s\n", err)
			return 1
		}
		if !ok {
			return 0
		}
		gameCfg = chosen
		rememberSetup(cfg, gameCfg)
	}

	if err := playGame(cfg, gameCfg); err != nil {
		if errors.Is(err, game.ErrQuit) || errors.Is(err, context.Canceled) {
			log.Info("game abandoned")
			return 0
		}
		log.Error("game ended with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// flagsGiven reports whether any game setting was given on the command line.
func flagsGiven() bool {
	given := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "game", "size", "human", "iterations", "komi", "model", "policy", "level":
			given = true
		}
	})
	return given
}

// buildGameConfigFromFlags creates a GameConfig from the config file defaults
// with command-line flags on top.
func buildGameConfigFromFlags(cfg *config.Config) (engine.GameConfig, error) {
	gameCfg := cfg.GameConfig()

	if *flagGame != "" {
		v, err := types.ParseVariant(*flagGame)
		if err != nil {
			return gameCfg, err
		}
		if v != gameCfg.Variant {
			gameCfg.Variant = v
			gameCfg.BoardSize, _ = engine.SizeLimits(v)
		}
	}
	if *flagSize > 0 {
		gameCfg.BoardSize = *flagSize
	}

	switch strings.ToLower(*flagHuman) {
	case "":
	case "1", "one", "black", "b":
		gameCfg.HumanPlayer = types.PlayerOne
	case "2", "two", "white", "w":
		gameCfg.HumanPlayer = types.PlayerTwo
	case "none", "0", "watch":
		gameCfg.HumanPlayer = types.Empty
	default:
		return gameCfg, fmt.Errorf("unknown side %q", *flagHuman)
	}

	if *flagIterations > 0 {
		gameCfg.Iterations = *flagIterations
	}
	if *flagKomi >= 0 {
		gameCfg.Komi = *flagKomi
	}
	if *flagPolicy != "" {
		gameCfg.Policy = strings.ToLower(*flagPolicy)
	}
	if *flagLevel >= 1 && *flagLevel <= 10 {
		gameCfg.EngineLevel = *flagLevel
	}
	gameCfg.ModelPath = *flagModel
	gameCfg.Headless = *flagHeadless

	return gameCfg, gameCfg.Validate()
}

// rememberSetup stores the settings picked in the setup form as the new
// defaults.
func rememberSetup(cfg *config.Config, gameCfg engine.GameConfig) {
	cfg.Game.Variant = strings.ToLower(gameCfg.Variant.String())
	cfg.Game.BoardSize = gameCfg.BoardSize
	cfg.Game.Iterations = gameCfg.Iterations
	cfg.Game.Komi = gameCfg.Komi
	if err := cfg.Save(); err != nil {
		log.Warn("failed to save config: %v", err)
	}
}

// policy is an automated move source with a display name for records.
type policy struct {
	game.MoveSource
	name  string
	close func() error
	// finalScore is the policy's own scoring of a finished game, if it has one.
	finalScore func(engine.Board) (string, error)
}

func newPolicy(cfg *config.Config, gameCfg engine.GameConfig, board engine.Board) (*policy, error) {
	if gameCfg.Policy == "gnugo" {
		eng, err := gtp.Start(gameCfg)
		if err != nil {
			return nil, fmt.Errorf("GnuGo not available (install gnugo or set TERMZERO_GNUGO): %w", err)
		}
		return &policy{
			MoveSource: eng,
			name:       fmt.Sprintf("GnuGo %d", gameCfg.EngineLevel),
			close:      eng.Close,
			finalScore: eng.FinalScore,
		}, nil
	}

	path := gameCfg.ModelPath
	if path == "" {
		path = cfg.ModelPath(model.Key(board.Variant(), board.Size()))
	}
	var net *model.Network
	if path != "" {
		var err error
		if net, err = model.Load(path, board); err != nil {
			return nil, err
		}
		log.Info("loaded model %s from %s", net.Key(), path)
	} else {
		net = model.New(board)
		log.Warn("no model for %s, using untrained networks", model.Key(board.Variant(), board.Size()))
	}

	mcts := search.New(net, search.DefaultConfig())
	return &policy{
		MoveSource: game.NewSearchPolicy(mcts, gameCfg.Iterations),
		name:       fmt.Sprintf("Search %d", gameCfg.Iterations),
		close:      func() error { return nil },
	}, nil
}

func playGame(cfg *config.Config, gameCfg engine.GameConfig) error {
	board, err := engine.New(gameCfg)
	if err != nil {
		return err
	}
	log.Info("starting %s %dx%d, human plays %s, policy %s", gameCfg.Variant, gameCfg.BoardSize, gameCfg.BoardSize, gameCfg.HumanPlayer, gameCfg.Policy)

	pol, err := newPolicy(cfg, gameCfg, board)
	if err != nil {
		return err
	}
	defer pol.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		view      game.View
		human     game.MoveSource
		recorders []game.Recorder
		screen    *ui.Screen
	)
	if gameCfg.Headless {
		text := ui.NewTextView(os.Stdout)
		view = text
		human = game.NewTextSource(os.Stdin, os.Stdout, text)
	} else {
		rc := ui.NewRenderConfig(gameCfg.Variant, gameCfg.BoardSize, gameCfg.BoardSize, cfg.Theme)
		screen, err = ui.OpenScreen(rc)
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer screen.Close()
		view = screen
		human = &game.Interactive{Geometry: rc.Geometry(), Events: screen, View: screen}
		recorders = append(recorders, screen)
	}

	one, two := game.AutomatedSeat(pol), game.AutomatedSeat(pol)
	nameOne, nameTwo := pol.name, pol.name
	switch gameCfg.HumanPlayer {
	case types.PlayerOne:
		one, nameOne = game.HumanSeat(human), "Player"
	case types.PlayerTwo:
		two, nameTwo = game.HumanSeat(human), "Player"
	}

	var recordPath string
	rec, err := sgf.NewGameRecord(historyDir(cfg), gameCfg.Variant, gameCfg.BoardSize, gameCfg.Komi, nameOne, nameTwo)
	if err != nil {
		log.Warn("game will not be recorded: %v", err)
	} else {
		defer rec.Close()
		recordPath = rec.FilePath
		recorders = append(recorders, rec)
	}

	results, err := openStore(ctx, cfg)
	if err != nil {
		log.Warn("results will not be saved: %v", err)
	} else {
		defer results.Close()
		recorders = append(recorders, store.NewResultRecorder(ctx, results, gameCfg.Variant, gameCfg.BoardSize, nameOne, nameTwo, recordPath))
	}

	// Nobody reads input while two policies play, so watch for quit here.
	var watching chan struct{}
	if screen != nil && gameCfg.HumanPlayer == types.Empty {
		watching = make(chan struct{})
		go func() {
			for screen.AwaitEvent().Kind != game.EventQuit {
			}
			cancel()
			close(watching)
		}()
	}

	orch := game.NewOrchestrator(board, view, one, two, recorders...)
	outcome, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("result: %s", outcome)
	if rec != nil && pol.finalScore != nil {
		recordEngineScore(rec, pol, board)
	}

	switch {
	case watching != nil:
		<-watching
	case screen != nil:
		screen.WaitKey()
	}
	return nil
}

// recordEngineScore asks the policy to score the finished game and notes its
// verdict in the record next to the board's result.
func recordEngineScore(rec *sgf.GameRecord, pol *policy, board engine.Board) {
	score, err := pol.finalScore(board)
	if err != nil {
		log.Warn("%s could not score the game: %v", pol.name, err)
		return
	}
	if err := rec.SetEngineResult(pol.name, score); err != nil {
		log.Warn("failed to record engine score: %v", err)
		return
	}
	if ours := sgf.ResultString(board.State()); !strings.EqualFold(ours, strings.TrimSpace(score)) {
		log.Info("%s scores %s, board scores %s", pol.name, score, ours)
	}
}

func historyDir(cfg *config.Config) string {
	if cfg.HistoryDir != "" {
		return cfg.HistoryDir
	}
	return filepath.Join(xdg.DataHome, "termzero", "history")
}

func openStore(ctx context.Context, cfg *config.Config) (*store.SQLiteStore, error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		if path, err = xdg.DataFile(filepath.Join("termzero", "results.db")); err != nil {
			return nil, err
		}
	}
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func printHistory(cfg *config.Config) int {
	games, err := sgf.ListGames(historyDir(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("Recorded games:")
	if len(games) == 0 {
		fmt.Println("  none")
	}
	for _, g := range games {
		fmt.Printf("  %-32s %-5s %2dx%-2d %3d moves  %-8s %s vs %s\n",
			g.FileName, g.Variant, g.BoardSize, g.BoardSize, g.MoveCount, g.Result, g.PlayerBlack, g.PlayerWhite)
	}

	ctx := context.Background()
	s, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()
	results, err := s.ListResults(ctx, 20)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("\nRecent results:")
	if len(results) == 0 {
		fmt.Println("  none")
	}
	for _, r := range results {
		fmt.Printf("  %s  %s %-5s %2dx%-2d %-14s %g - %g  %s vs %s\n",
			r.ID, r.PlayedAt.Format("2006-01-02 15:04"), r.Variant, r.BoardSize, r.BoardSize,
			r.Outcome, r.Score[0], r.Score[1], r.PlayerOne, r.PlayerTwo)
	}
	return 0
}

// showResult prints one stored result and, when its record is still on disk,
// the final position.
func showResult(cfg *config.Config, arg string) int {
	id, err := uuid.Parse(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid result id %q: %s\n", arg, err)
		return 2
	}

	ctx := context.Background()
	s, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	r, err := s.GetResult(ctx, id)
	if store.IsNotFound(err) {
		fmt.Fprintf(os.Stderr, "no result with id %s\n", id)
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("%s %dx%d played %s\n", r.Variant, r.BoardSize, r.BoardSize, r.PlayedAt.Format("2006-01-02 15:04"))
	fmt.Printf("%s vs %s: %s (%g - %g) after %d moves\n", r.PlayerOne, r.PlayerTwo, r.Outcome, r.Score[0], r.Score[1], r.Moves)
	if r.Record == "" {
		return 0
	}
	if _, err := os.Stat(r.Record); err != nil {
		fmt.Printf("record %s is gone\n", r.Record)
		return 0
	}
	return replay(r.Record)
}

func replay(path string) int {
	board, err := sgf.Replay(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	view := ui.NewTextView(os.Stdout)
	state := board.State()
	view.DrawBoard(state)
	if state.Finished() {
		view.DrawOutcome(state)
	}
	return 0
}
