package sgf

import (
	"os"
	"path/filepath"
	"testing"

	"termzero/types"
)

const testSGF = `(;GM[1]FF[4]CA[UTF-8]AP[termzero:1.0]SZ[9]KM[6.5]PB[Player]PW[Search 50]DT[2026-01-15]RE[B+3.5]
;B[ee];W[cc];B[gg];W[cg];B[gc])`

const ataxxSGF = `(;FF[4]CA[UTF-8]GN[Ataxx]AP[termzero:1.0]SZ[4]PB[Search 50]PW[Player]DT[2026-01-16]RE[?]
;B[aa][bb];W[da][db];B[bb][bd])`

func writeTempSGF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp sgf: %v", err)
	}
	return path
}

func TestParseHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSGF(t, dir, "test.sgf", testSGF)

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if info.Variant != types.Go {
		t.Errorf("Variant = %s, want Go", info.Variant)
	}
	if info.BoardSize != 9 {
		t.Errorf("BoardSize = %d, want 9", info.BoardSize)
	}
	if info.Komi != 6.5 {
		t.Errorf("Komi = %f, want 6.5", info.Komi)
	}
	if info.PlayerBlack != "Player" {
		t.Errorf("PlayerBlack = %q, want %q", info.PlayerBlack, "Player")
	}
	if info.PlayerWhite != "Search 50" {
		t.Errorf("PlayerWhite = %q, want %q", info.PlayerWhite, "Search 50")
	}
	if info.Date != "2026-01-15" {
		t.Errorf("Date = %q, want %q", info.Date, "2026-01-15")
	}
	if info.Result != "B+3.5" {
		t.Errorf("Result = %q, want %q", info.Result, "B+3.5")
	}
	if info.MoveCount != 5 {
		t.Errorf("MoveCount = %d, want 5", info.MoveCount)
	}
	if info.FileName != "test.sgf" {
		t.Errorf("FileName = %q, want test.sgf", info.FileName)
	}
}

func TestParseHeaderAtaxx(t *testing.T) {
	path := writeTempSGF(t, t.TempDir(), "ataxx.sgf", ataxxSGF)

	info, err := ParseHeader(path)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.Variant != types.Ataxx {
		t.Errorf("Variant = %s, want Ataxx", info.Variant)
	}
	if info.BoardSize != 4 || info.MoveCount != 3 {
		t.Errorf("BoardSize, MoveCount = %d, %d, want 4, 3", info.BoardSize, info.MoveCount)
	}
}

func TestParseHeaderMissingFile(t *testing.T) {
	_, err := ParseHeader("/nonexistent/file.sgf")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseMoveNode(t *testing.T) {
	tests := []struct {
		node string
		want RecordedMove
		ok   bool
	}{
		{";B[ee]", RecordedMove{types.PlayerOne, types.PlaceAt(4, 4)}, true},
		{";W[]", RecordedMove{types.PlayerTwo, types.PassMove()}, true},
		{";B[aa][bc]", RecordedMove{types.PlayerOne, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 2, Col: 1})}, true},
		{";C[comment]", RecordedMove{}, false},
		{";B[e]", RecordedMove{}, false},
		{";B[aa][bb][cc]", RecordedMove{}, false},
		{"B[aa]", RecordedMove{}, false},
	}
	for _, tt := range tests {
		got, ok := parseMoveNode(tt.node)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseMoveNode(%q) = %v, %v, want %v, %v", tt.node, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReplayGo(t *testing.T) {
	path := writeTempSGF(t, t.TempDir(), "test.sgf", testSGF)

	board, err := Replay(path)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	if n := len(board.History()); n != 5 {
		t.Errorf("history length = %d, want 5", n)
	}
	state := board.State()
	checks := []struct {
		row, col int
		want     types.Player
	}{
		{4, 4, types.PlayerOne}, // B[ee]
		{2, 2, types.PlayerTwo}, // W[cc]
		{6, 6, types.PlayerOne}, // B[gg]
		{6, 2, types.PlayerTwo}, // W[cg]
		{2, 6, types.PlayerOne}, // B[gc]
	}
	for _, c := range checks {
		if got := state.At(types.Cell{Row: c.row, Col: c.col}); got != c.want {
			t.Errorf("(%d,%d) = %s, want %s", c.row, c.col, got, c.want)
		}
	}
	if board.Player() != types.PlayerTwo {
		t.Errorf("player to move = %s, want player 2", board.Player())
	}
}

func TestReplayWithCaptures(t *testing.T) {
	// Black surrounds the white stone at ba on the top edge.
	sgf := `(;GM[1]FF[4]SZ[9]KM[6.5]PB[B]PW[W]DT[2026-01-01]RE[?]
;B[aa];W[ba];B[ca];W[ee];B[bb])`

	path := writeTempSGF(t, t.TempDir(), "capture.sgf", sgf)
	board, err := Replay(path)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	state := board.State()
	if got := state.At(types.Cell{Row: 0, Col: 1}); got != types.Empty {
		t.Errorf("ba = %s, want empty (captured)", got)
	}
	if got := state.At(types.Cell{Row: 4, Col: 4}); got != types.PlayerTwo {
		t.Errorf("ee = %s, want player 2", got)
	}
}

func TestReplayWithPassesFinishes(t *testing.T) {
	sgf := `(;GM[1]FF[4]SZ[9]KM[6.5]PB[B]PW[W]DT[2026-01-01]RE[?]
;B[ee];W[];B[])`

	board, err := Replay(writeTempSGF(t, t.TempDir(), "pass.sgf", sgf))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !board.Finished() {
		t.Error("two passes should finish the game")
	}
}

func TestReplayAtaxx(t *testing.T) {
	board, err := Replay(writeTempSGF(t, t.TempDir(), "ataxx.sgf", ataxxSGF))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	state := board.State()
	// The jump from bb to db empties bb.
	if got := state.At(types.Cell{Row: 1, Col: 1}); got != types.Empty {
		t.Errorf("bb = %s, want empty after the jump", got)
	}
	if got := state.At(types.Cell{Row: 3, Col: 1}); got != types.PlayerOne {
		t.Errorf("bd = %s, want player 1", got)
	}
	if got := state.At(types.Cell{Row: 0, Col: 0}); got != types.PlayerOne {
		t.Errorf("aa = %s, want player 1 (cloned from)", got)
	}
}

func TestReplayRejectsIllegalMoves(t *testing.T) {
	tests := map[string]string{
		"occupied": `(;GM[1]SZ[9];B[ee];W[ee])`,
		"out of turn": `(;GM[1]SZ[9];B[ee];B[cc])`,
		"bad size": `(;GM[1]SZ[3];B[aa])`,
		"too far": `(;GN[Ataxx]SZ[4];B[aa][da])`,
	}
	for name, content := range tests {
		if _, err := Replay(writeTempSGF(t, t.TempDir(), "bad.sgf", content)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Ataxx, 4, 0, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	played := []RecordedMove{
		{types.PlayerOne, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 0, Col: 1})},
		{types.PlayerTwo, types.TransferFrom(types.Cell{Row: 3, Col: 0}, types.Cell{Row: 1, Col: 0})},
	}
	for _, m := range played {
		rec.AddMove(m.Player, m.Move)
	}
	rec.Close()

	moves, err := ParseMoves(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	if len(moves) != len(played) {
		t.Fatalf("got %d moves, want %d", len(moves), len(played))
	}
	for i := range played {
		if moves[i] != played[i] {
			t.Errorf("move %d = %v, want %v", i, moves[i], played[i])
		}
	}
}

func TestListGames(t *testing.T) {
	dir := t.TempDir()
	writeTempSGF(t, dir, "2026-01-15_120000_G9.sgf", testSGF)
	writeTempSGF(t, dir, "2026-01-16_120000_A4.sgf", ataxxSGF)
	writeTempSGF(t, dir, "notes.txt", "not sgf")

	games, err := ListGames(dir)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	// Newest first.
	if games[0].Variant != types.Ataxx || games[1].Variant != types.Go {
		t.Errorf("order = %s, %s, want Ataxx, Go", games[0].Variant, games[1].Variant)
	}
}

func TestListGamesMissingDir(t *testing.T) {
	games, err := ListGames(filepath.Join(t.TempDir(), "missing"))
	if err != nil || games != nil {
		t.Errorf("ListGames on a missing dir = %v, %v, want nil, nil", games, err)
	}
}
