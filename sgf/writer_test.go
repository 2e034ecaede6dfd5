package sgf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"termzero/types"
)

func readRecord(t *testing.T, rec *GameRecord) string {
	t.Helper()
	content, err := os.ReadFile(rec.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(content)
}

func TestSgfCoord(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "aa"},
		{4, 3, "de"},
		{18, 18, "ss"},
		{3, 15, "pd"},
		{15, 3, "dp"},
	}
	for _, tt := range tests {
		got := sgfCoord(types.Cell{Row: tt.row, Col: tt.col})
		if got != tt.want {
			t.Errorf("sgfCoord(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Already SGF format
		{"W+5.5", "W+5.5"},
		{"B+R", "B+R"},
		{"B+3.5", "B+3.5"},
		{"?", "?"},
		{"0", "0"},

		// GnuGo output
		{"White wins by 5.5 points", "W+5.5"},
		{"Black wins by 3.5 points", "B+3.5"},
		{"White wins by resign", "W+R"},
		{"Black wins by resignation", "B+R"},
		{"White wins by time", "W+T"},
		{"Black wins by forfeit", "B+F"},

		// Edge cases
		{"Black wins", "B+?"},
		{"Black wins by a lot", "B+?"},
		{"something else", "?"},
		{"", "?"},
	}
	for _, tt := range tests {
		got := parseResult(tt.input)
		if got != tt.want {
			t.Errorf("parseResult(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		outcome types.Outcome
		score   [3]float64
		want    string
	}{
		{types.PlayerOneWins, [3]float64{0, 10, 6}, "B+4"},
		{types.PlayerTwoWins, [3]float64{0, 20, 26.5}, "W+6.5"},
		{types.Draw, [3]float64{0, 8, 8}, "0"},
		{types.InProgress, [3]float64{}, "?"},
	}
	for _, tt := range tests {
		got := ResultString(&types.BoardState{Outcome: tt.outcome, Score: tt.score})
		if got != tt.want {
			t.Errorf("ResultString(%s) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestNewGameRecordGo(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 7.5, "Player", "Search 50")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	s := readRecord(t, rec)
	for _, prop := range []string{"GM[1]", "FF[4]", "SZ[9]", "KM[7.5]", "PB[Player]", "PW[Search 50]", "RE[?]"} {
		if !strings.Contains(s, prop) {
			t.Errorf("SGF missing property %s in:\n%s", prop, s)
		}
	}
	if !strings.HasPrefix(s, "(;") {
		t.Error("SGF should start with '(;'")
	}
}

func TestNewGameRecordAtaxx(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Ataxx, 5, 6.5, "Search 50", "Player")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	s := readRecord(t, rec)
	if !strings.Contains(s, "GN[Ataxx]") {
		t.Errorf("Ataxx record should be tagged GN[Ataxx]:\n%s", s)
	}
	if strings.Contains(s, "GM[1]") || strings.Contains(s, "KM[") {
		t.Errorf("Ataxx record should carry neither GM[1] nor komi:\n%s", s)
	}
}

func TestAddMove(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Ataxx, 4, 0, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.AddMove(types.PlayerOne, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 1, Col: 1}))
	rec.AddMove(types.PlayerTwo, types.TransferFrom(types.Cell{Row: 0, Col: 3}, types.Cell{Row: 2, Col: 3}))

	s := readRecord(t, rec)
	for _, move := range []string{";B[aa][bb]", ";W[da][dc]"} {
		if !strings.Contains(s, move) {
			t.Errorf("SGF missing move %s in:\n%s", move, s)
		}
	}
}

func TestAddMovePass(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 6.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.AddMove(types.PlayerOne, types.PlaceAt(4, 4))
	rec.AddMove(types.PlayerTwo, types.PassMove())
	rec.AddMove(types.PlayerOne, types.PassMove())

	s := readRecord(t, rec)
	if !strings.Contains(s, ";B[ee]") {
		t.Error("Missing first move")
	}
	if strings.Count(s, ";W[]") != 1 {
		t.Error("Should have exactly one white pass")
	}
	if strings.Count(s, ";B[]") != 1 {
		t.Error("Should have exactly one black pass")
	}
}

func TestRecorderWritesResult(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 5, 0.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	if err := rec.MoveApplied(types.PlayerOne, types.PlaceAt(2, 2), nil); err != nil {
		t.Fatalf("MoveApplied: %v", err)
	}
	state := &types.BoardState{Outcome: types.PlayerOneWins, Score: [3]float64{0, 25, 0.5}}
	if err := rec.Finished(state); err != nil {
		t.Fatalf("Finished: %v", err)
	}

	s := readRecord(t, rec)
	if !strings.Contains(s, "RE[B+24.5]") {
		t.Errorf("Expected RE[B+24.5] in:\n%s", s)
	}
	if !strings.Contains(s, ";B[cc]") {
		t.Errorf("Expected ;B[cc] in:\n%s", s)
	}
}

func TestSetResult(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 19, 6.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.SetResult("White wins by 5.5 points")

	s := readRecord(t, rec)
	if !strings.Contains(s, "RE[W+5.5]") {
		t.Errorf("Expected RE[W+5.5] in:\n%s", s)
	}
}

func TestFilenameFormat(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 13, 6.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	base := filepath.Base(rec.FilePath)
	if !strings.HasSuffix(base, "_G13.sgf") {
		t.Errorf("Filename should end with _G13.sgf, got %s", base)
	}
	if !strings.HasPrefix(base, "20") {
		t.Errorf("Filename should start with year, got %s", base)
	}
}

func TestCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 6.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}

	rec.Close()
	rec.Close() // Should not panic
	if err := rec.AddMove(types.PlayerOne, types.PassMove()); err == nil {
		t.Error("AddMove after Close should fail")
	}
}

func TestCrashSafety(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 6.5, "a", "b")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.AddMove(types.PlayerOne, types.PlaceAt(4, 4))
	rec.AddMove(types.PlayerTwo, types.PlaceAt(2, 2))

	// The file is complete SGF after every move, without Close.
	s := readRecord(t, rec)
	if !strings.HasPrefix(s, "(;") || !strings.HasSuffix(strings.TrimSpace(s), ")") {
		t.Errorf("File should be valid SGF even without Close():\n%s", s)
	}
	if !strings.Contains(s, ";B[ee];W[cc]") {
		t.Error("File should contain moves even without Close()")
	}
}

func TestSetEngineResult(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 6.5, "Player", "GnuGo 5")
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	defer rec.Close()

	rec.SetResult("B+3.5")
	if err := rec.SetEngineResult("GnuGo 5", "White wins by 5.5 points"); err != nil {
		t.Fatalf("SetEngineResult: %v", err)
	}

	s := readRecord(t, rec)
	if !strings.Contains(s, "C[GnuGo 5 scores W+5.5]") {
		t.Errorf("Expected engine verdict in root comment:\n%s", s)
	}
	if !strings.Contains(s, "RE[B+3.5]") {
		t.Errorf("The board's result should stay in RE:\n%s", s)
	}

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.Comment != "GnuGo 5 scores W+5.5" {
		t.Errorf("Comment = %q", info.Comment)
	}
	if info.Result != "B+3.5" {
		t.Errorf("Result = %q, want B+3.5", info.Result)
	}
}

func TestEscapedNamesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewGameRecord(dir, types.Go, 9, 6.5, `odd]name;)`, `back\slash`)
	if err != nil {
		t.Fatalf("NewGameRecord: %v", err)
	}
	rec.AddMove(types.PlayerOne, types.PlaceAt(4, 4))
	rec.Close()

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.PlayerBlack != `odd]name;)` || info.PlayerWhite != `back\slash` {
		t.Errorf("players = %q, %q", info.PlayerBlack, info.PlayerWhite)
	}
	if info.BoardSize != 9 || info.MoveCount != 1 {
		t.Errorf("BoardSize, MoveCount = %d, %d, want 9, 1", info.BoardSize, info.MoveCount)
	}
}
