// Package sgf writes and reads SGF FF[4] game records. Go games use GM[1];
// Ataxx games are tagged GN[Ataxx] and store a transfer as two point values.
package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"termzero/types"
)

// GameRecord tracks a game in progress and writes it as SGF.
// It implements game.Recorder.
type GameRecord struct {
	FilePath    string
	Variant     types.Variant
	BoardSize   int
	Komi        float64
	PlayerBlack string // player one
	PlayerWhite string // player two
	Date        string
	Result      string
	Comment     string // root C[] text, e.g. an engine's own verdict
	moves       []string // ";B[cd]", ";W[aa][bb]", ...
	file        *os.File
}

// NewGameRecord creates a new SGF file in dir and writes the initial header.
func NewGameRecord(dir string, variant types.Variant, boardSize int, komi float64, playerOne, playerTwo string) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s_%s%d.sgf", now.Format("2006-01-02_150405"), variant.Code(), boardSize)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sgf file: %w", err)
	}

	rec := &GameRecord{
		FilePath:    path,
		Variant:     variant,
		BoardSize:   boardSize,
		Komi:        komi,
		PlayerBlack: playerOne,
		PlayerWhite: playerTwo,
		Date:        now.Format("2006-01-02"),
		Result:      "?",
		file:        f,
	}

	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}

	return rec, nil
}

// sgfCoord converts a grid cell to an SGF letter pair, column first.
// (0,0) -> "aa", row 4 col 3 -> "de".
func sgfCoord(c types.Cell) string {
	return string(rune('a'+c.Col)) + string(rune('a'+c.Row))
}

func colorChar(p types.Player) string {
	if p == types.PlayerTwo {
		return "W"
	}
	return "B"
}

// moveNode renders one move. A pass has an empty value.
func moveNode(p types.Player, m types.Move) string {
	switch m.Kind {
	case types.Pass:
		return fmt.Sprintf(";%s[]", colorChar(p))
	case types.Transfer:
		return fmt.Sprintf(";%s[%s][%s]", colorChar(p), sgfCoord(m.From), sgfCoord(m.To))
	}
	return fmt.Sprintf(";%s[%s]", colorChar(p), sgfCoord(m.To))
}

// AddMove appends a move to the record.
func (r *GameRecord) AddMove(p types.Player, m types.Move) error {
	r.moves = append(r.moves, moveNode(p, m))
	return r.flush()
}

// MoveApplied implements game.Recorder.
func (r *GameRecord) MoveApplied(p types.Player, m types.Move, _ *types.BoardState) error {
	return r.AddMove(p, m)
}

// Finished implements game.Recorder by writing the result.
func (r *GameRecord) Finished(state *types.BoardState) error {
	return r.SetResult(ResultString(state))
}

// ResultString formats a finished game as an SGF RE value: "B+3.5" when
// player one wins by 3.5, "0" for a draw.
func ResultString(state *types.BoardState) string {
	margin := state.Score[types.PlayerOne] - state.Score[types.PlayerTwo]
	if margin < 0 {
		margin = -margin
	}
	switch state.Outcome {
	case types.PlayerOneWins:
		return fmt.Sprintf("B+%g", margin)
	case types.PlayerTwoWins:
		return fmt.Sprintf("W+%g", margin)
	case types.Draw:
		return "0"
	}
	return "?"
}

// SetResult parses a game outcome string and sets the SGF RE property.
// Accepts engine output like "White wins by 5.5 points" or "Black wins by resign"
// as well as already-formatted SGF like "W+5.5", "B+R".
func (r *GameRecord) SetResult(outcome string) error {
	r.Result = parseResult(outcome)
	return r.flush()
}

// SetEngineResult notes an engine's own scoring of the game in the root
// comment. outcome is normalised like SetResult; RE keeps the board's result.
func (r *GameRecord) SetEngineResult(name, outcome string) error {
	r.Comment = fmt.Sprintf("%s scores %s", name, parseResult(outcome))
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete SGF file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	var b strings.Builder

	// Root node
	if r.Variant == types.Go {
		b.WriteString("(;GM[1]FF[4]CA[UTF-8]")
	} else {
		b.WriteString("(;FF[4]CA[UTF-8]GN[Ataxx]")
	}
	b.WriteString("AP[termzero:1.0]")
	b.WriteString(fmt.Sprintf("SZ[%d]", r.BoardSize))
	if r.Variant == types.Go {
		b.WriteString(fmt.Sprintf("KM[%.1f]", r.Komi))
	}
	b.WriteString(fmt.Sprintf("PB[%s]", escapeText(r.PlayerBlack)))
	b.WriteString(fmt.Sprintf("PW[%s]", escapeText(r.PlayerWhite)))
	b.WriteString(fmt.Sprintf("DT[%s]", r.Date))
	b.WriteString(fmt.Sprintf("RE[%s]", r.Result))
	if r.Comment != "" {
		b.WriteString(fmt.Sprintf("C[%s]", escapeText(r.Comment)))
	}
	b.WriteString("\n")

	for _, m := range r.moves {
		b.WriteString(m)
	}

	b.WriteString(")\n")

	// Rewrite file from start
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(b.String()); err != nil {
		return err
	}
	return r.file.Sync()
}

// parseResult converts various outcome formats to SGF RE[] value.
func parseResult(outcome string) string {
	o := strings.TrimSpace(outcome)

	if isValidSGFResult(o) {
		return o
	}

	low := strings.ToLower(o)

	var winner string
	switch {
	case strings.HasPrefix(low, "white wins"):
		winner = "W"
	case strings.HasPrefix(low, "black wins"):
		winner = "B"
	default:
		return "?"
	}

	byIdx := strings.Index(low, " by ")
	if byIdx == -1 {
		return winner + "+?"
	}
	rest := strings.TrimSpace(low[byIdx+4:])

	if strings.HasPrefix(rest, "resign") {
		return winner + "+R"
	}
	if strings.HasPrefix(rest, "time") {
		return winner + "+T"
	}
	if strings.HasPrefix(rest, "forfeit") {
		return winner + "+F"
	}

	if parts := strings.Fields(rest); len(parts) > 0 && isScore(parts[0]) {
		return winner + "+" + parts[0]
	}
	return winner + "+?"
}

// isScore reports whether s is a non-negative decimal like "5" or "5.5".
func isScore(s string) bool {
	dotSeen := false
	for _, ch := range s {
		if ch == '.' {
			if dotSeen {
				return false
			}
			dotSeen = true
		} else if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(s) > 0
}

// isValidSGFResult checks if a string is already a valid SGF result.
func isValidSGFResult(s string) bool {
	if s == "?" || s == "Jigo" || s == "Void" || s == "0" {
		return true
	}
	if len(s) < 3 {
		return false
	}
	if (s[0] != 'B' && s[0] != 'W') || s[1] != '+' {
		return false
	}
	rest := s[2:]
	if rest == "R" || rest == "T" || rest == "F" || rest == "?" {
		return true
	}
	return isScore(rest)
}

var textEscaper = strings.NewReplacer(`\`, `\\`, "]", `\]`)

// escapeText escapes a property value for SGF text.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
