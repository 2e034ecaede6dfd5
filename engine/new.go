package engine

import "termzero/types"

// New creates the board for cfg.Variant in its starting position.
func New(cfg GameConfig) (Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Variant == types.Ataxx {
		return NewAtaxxBoard(cfg.BoardSize), nil
	}
	return NewGoBoard(cfg.BoardSize, cfg.Komi), nil
}
