// Package model holds the learned evaluation behind the search policy:
// a policy network over the action space and a value network, both
// feed-forward go-deep networks.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/patrikeh/go-deep"

	"termzero/engine"
	"termzero/types"
)

// hiddenLayouts are the hidden layer widths per game and board size.
var hiddenLayouts = map[string][]int{
	"A4": {64, 64},
	"A5": {128, 64},
	"A6": {128, 128},
	"G7": {128, 128},
	"G9": {256, 128},
}

var fallbackLayout = []int{128}

// Key names a model by game and board size, e.g. "A4" or "G9".
func Key(v types.Variant, size int) string {
	return v.Code() + strconv.Itoa(size)
}

// HiddenLayout returns the hidden layer widths used for key.
func HiddenLayout(key string) []int {
	if l, ok := hiddenLayouts[key]; ok {
		return l
	}
	return fallbackLayout
}

// File is the on-disk model format.
type File struct {
	Key    string        `json:"key"`
	Policy [][][]float64 `json:"policy"`
	Value  [][][]float64 `json:"value"`
}

// Network evaluates positions of one game and board size.
// go-deep networks keep activations on the neurons, so Predict calls are
// serialised.
type Network struct {
	mu      sync.Mutex
	key     string
	size    int
	actions int
	policy  *deep.Neural
	value   *deep.Neural
}

// New creates freshly initialised networks for board.
func New(board engine.Board) *Network {
	size := board.Size()
	key := Key(board.Variant(), size)
	inputs := 3 * size * size
	hidden := HiddenLayout(key)

	policyLayout := append(append([]int{}, hidden...), board.ActionSize())
	valueLayout := append(append([]int{}, hidden...), 1)

	return &Network{
		key:     key,
		size:    size,
		actions: board.ActionSize(),
		policy: deep.NewNeural(&deep.Config{
			Inputs:     inputs,
			Layout:     policyLayout,
			Activation: deep.ActivationReLU,
			Mode:       deep.ModeMultiClass,
			Weight:     deep.NewNormal(0.1, 0.0),
			Bias:       true,
		}),
		value: deep.NewNeural(&deep.Config{
			Inputs:     inputs,
			Layout:     valueLayout,
			Activation: deep.ActivationReLU,
			Mode:       deep.ModeRegression,
			Weight:     deep.NewNormal(0.1, 0.0),
			Bias:       true,
		}),
	}
}

// Load creates networks for board and applies the weights stored at path.
func Load(path string, board engine.Board) (*Network, error) {
	n := New(board)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if err := n.Apply(f); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return n, nil
}

// Apply replaces the weights with those in f after checking their shapes.
func (n *Network) Apply(f File) error {
	if f.Key != "" && f.Key != n.key {
		return fmt.Errorf("model is for %s, game is %s", f.Key, n.key)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := sameShape(n.policy.Dump().Weights, f.Policy); err != nil {
		return fmt.Errorf("policy weights: %w", err)
	}
	if err := sameShape(n.value.Dump().Weights, f.Value); err != nil {
		return fmt.Errorf("value weights: %w", err)
	}
	n.policy.ApplyWeights(f.Policy)
	n.value.ApplyWeights(f.Value)
	return nil
}

// Save writes the weights to path in the format Load reads.
func (n *Network) Save(path string) error {
	n.mu.Lock()
	f := File{
		Key:    n.key,
		Policy: n.policy.Dump().Weights,
		Value:  n.value.Dump().Weights,
	}
	n.mu.Unlock()

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

func (n *Network) Key() string { return n.key }

// Evaluate returns move priors over the action space and a value in
// [-1, 1], both for the side to move.
func (n *Network) Evaluate(board engine.Board) ([]float64, float64) {
	in := Features(board.State())

	n.mu.Lock()
	policy := n.policy.Predict(in)
	value := n.value.Predict(in)
	n.mu.Unlock()

	return policy, math.Tanh(value[0])
}

// Features encodes a position as three planes seen from the side to move:
// own pieces, opponent pieces and empty cells.
func Features(state *types.BoardState) []float64 {
	h, w := state.Height(), state.Width()
	cells := h * w
	out := make([]float64, 3*cells)
	me := state.PlayerToMove
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			i := r*w + c
			switch state.Board[r][c] {
			case types.Empty:
				out[2*cells+i] = 1
			case me:
				out[i] = 1
			default:
				out[cells+i] = 1
			}
		}
	}
	return out
}

func sameShape(want, got [][][]float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("expected %d layers, got %d", len(want), len(got))
	}
	for l := range want {
		if len(want[l]) != len(got[l]) {
			return fmt.Errorf("layer %d: expected %d neurons, got %d", l, len(want[l]), len(got[l]))
		}
		for j := range want[l] {
			if len(want[l][j]) != len(got[l][j]) {
				return fmt.Errorf("layer %d neuron %d: expected %d weights, got %d", l, j, len(want[l][j]), len(got[l][j]))
			}
		}
	}
	return nil
}
