package sgf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"termzero/engine"
	"termzero/types"
)

// GameInfo holds metadata parsed from an SGF file header.
type GameInfo struct {
	FilePath    string
	FileName    string
	Variant     types.Variant
	BoardSize   int
	Komi        float64
	PlayerBlack string
	PlayerWhite string
	Date        string
	Result      string
	Comment     string
	MoveCount   int
}

// RecordedMove is a move node read back from a record.
type RecordedMove struct {
	Player types.Player
	Move   types.Move
}

// ParseHeader reads an SGF file and extracts metadata from the root node.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	content := string(data)
	info := headerInfo(content)
	info.FilePath = filePath
	info.FileName = filepath.Base(filePath)
	info.MoveCount = countMoves(content)
	return info, nil
}

func headerInfo(content string) *GameInfo {
	props := parseProperties(content)

	variant := types.Go
	if props["GM"] != "1" && strings.EqualFold(props["GN"], "ataxx") {
		variant = types.Ataxx
	}

	boardSize := 19
	if v, ok := props["SZ"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			boardSize = n
		}
	}

	komi := 0.0
	if v, ok := props["KM"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			komi = f
		}
	}

	return &GameInfo{
		Variant:     variant,
		BoardSize:   boardSize,
		Komi:        komi,
		PlayerBlack: props["PB"],
		PlayerWhite: props["PW"],
		Date:        props["DT"],
		Result:      props["RE"],
		Comment:     props["C"],
	}
}

// ParseMoves returns every move node in the record, in order.
func ParseMoves(filePath string) ([]RecordedMove, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var moves []RecordedMove
	for _, node := range parseNodes(string(data)) {
		if rm, ok := parseMoveNode(node); ok {
			moves = append(moves, rm)
		}
	}
	return moves, nil
}

// Replay rebuilds the game in filePath on a fresh board, checking every move.
func Replay(filePath string) (engine.Board, error) {
	info, err := ParseHeader(filePath)
	if err != nil {
		return nil, err
	}
	moves, err := ParseMoves(filePath)
	if err != nil {
		return nil, err
	}

	cfg := engine.DefaultConfig()
	cfg.Variant = info.Variant
	cfg.BoardSize = info.BoardSize
	cfg.Komi = info.Komi
	board, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.FileName, err)
	}

	for i, rm := range moves {
		if rm.Player != board.Player() || !board.ValidMove(rm.Move) {
			return nil, fmt.Errorf("%s: move %d (%s %s) is not legal", info.FileName, i+1, rm.Player, rm.Move)
		}
		board.Move(rm.Move)
		board.NextPlayer()
		board.CheckFinish()
	}
	return board, nil
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)
	// Find the root node: starts after "(;"
	start := strings.Index(content, "(;")
	if start == -1 {
		return props
	}
	start += 2 // skip "(;"

	// Root node ends at the next ";" or ")" outside a value.
	end := len(content)
	for i := start; i < len(content); {
		if content[i] == '[' {
			_, i = readValue(content, i)
			continue
		}
		if content[i] == ';' || content[i] == ')' {
			end = i
			break
		}
		i++
	}

	extractProps(content[start:end], props)
	return props
}

// extractProps parses KEY[value] pairs from a node string into the map.
func extractProps(node string, props map[string]string) {
	i := 0
	for i < len(node) {
		// Skip whitespace
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		for i < len(node) && node[i] == '[' {
			val, next := readValue(node, i)
			props[key] = unescapeText(val) // last value wins for simple props
			i = next
		}
	}
}

// readValue reads the bracketed value starting at node[i] == '[' and returns
// it with the index just past the closing bracket.
func readValue(node string, i int) (string, int) {
	i++ // skip '['
	valStart := i
	for i < len(node) && node[i] != ']' {
		if node[i] == '\\' && i+1 < len(node) {
			i++ // skip escaped char
		}
		i++
	}
	val := node[valStart:i]
	if i < len(node) {
		i++ // skip ']'
	}
	return val, i
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\]`, "]")

func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}

// countMoves counts the number of move nodes (;B[...] or ;W[...]) in the SGF.
func countMoves(content string) int {
	count := 0
	for i := 0; i+2 < len(content); i++ {
		if content[i] == ';' && (content[i+1] == 'B' || content[i+1] == 'W') && content[i+2] == '[' {
			count++
		}
	}
	return count
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}
	i := start + 2

	// Skip the root node.
	for i < len(content) && content[i] != ';' {
		if content[i] == '[' {
			_, i = readValue(content, i)
			continue
		}
		i++
	}

	for i < len(content) {
		if content[i] != ';' {
			i++
			continue
		}
		nodeStart := i
		i++
		for i < len(content) && content[i] != ';' && content[i] != ')' {
			if content[i] == '[' {
				_, i = readValue(content, i)
				continue
			}
			i++
		}
		nodes = append(nodes, content[nodeStart:i])
	}

	return nodes
}

// parseMoveNode reads a move node. ";B[cd]" is a placement, ";W[aa][bb]" a
// transfer and ";B[]" a pass.
func parseMoveNode(node string) (RecordedMove, bool) {
	node = strings.TrimSpace(node)
	if len(node) < 3 || node[0] != ';' || node[2] != '[' {
		return RecordedMove{}, false
	}

	var player types.Player
	switch node[1] {
	case 'B':
		player = types.PlayerOne
	case 'W':
		player = types.PlayerTwo
	default:
		return RecordedMove{}, false
	}

	var values []string
	for i := 2; i < len(node) && node[i] == '['; {
		var v string
		v, i = readValue(node, i)
		values = append(values, v)
	}

	switch {
	case len(values) == 1 && values[0] == "":
		return RecordedMove{player, types.PassMove()}, true
	case len(values) == 1:
		c, ok := parseCoord(values[0])
		if !ok {
			return RecordedMove{}, false
		}
		return RecordedMove{player, types.PlaceAt(c.Row, c.Col)}, true
	case len(values) == 2:
		from, ok1 := parseCoord(values[0])
		to, ok2 := parseCoord(values[1])
		if !ok1 || !ok2 {
			return RecordedMove{}, false
		}
		return RecordedMove{player, types.TransferFrom(from, to)}, true
	}
	return RecordedMove{}, false
}

func parseCoord(s string) (types.Cell, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'z' || s[1] < 'a' || s[1] > 'z' {
		return types.Cell{}, false
	}
	return types.Cell{Row: int(s[1] - 'a'), Col: int(s[0] - 'a')}, true
}

// ListGames scans a directory for .sgf files and returns their parsed headers,
// sorted newest-first (by filename, which contains timestamps).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sgf") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}

	return games, nil
}
