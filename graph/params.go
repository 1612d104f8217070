package graph

import (
	"errors"
	"fmt"
)

// Model types.
const (
	ModelSkipGram = "skipgram"
	ModelCBOW     = "cbow"
)

// Embedding types select which trained matrix is written back.
const (
	EmbeddingCentral    = "central"
	EmbeddingContextual = "contextual"
)

// ErrInvalidParams is returned when Params fail validation.
var ErrInvalidParams = errors.New("graph: invalid params")

// Params is the keyword-argument record of a node2vec run.
type Params struct {
	Directed          bool    `json:"is_directed"`
	WalkLength        uint64  `json:"walk_length"`
	NumWalks          uint32  `json:"num_of_walks"`
	P                 float32 `json:"p"` // return parameter
	Q                 float32 `json:"q"` // in-out parameter
	MaxNeighbors      *uint32 `json:"max_neighbors"`
	NormalizeByDegree bool    `json:"normalize_by_degree"`
	ModelType         string  `json:"model_type"`
	EmbeddingSize     uint32  `json:"embedding_size"`
	WindowSize        uint32  `json:"window_size"`
	EmbeddingType     string  `json:"embedding_type"`
	RandomState       uint32  `json:"random_state"`
	Verbose           bool    `json:"verbose"`
}

// DefaultParams returns the defaults of a node2vec run.
func DefaultParams() Params {
	return Params{
		WalkLength:    10,
		NumWalks:      8,
		P:             1,
		Q:             1,
		ModelType:     ModelSkipGram,
		EmbeddingSize: 64,
		WindowSize:    5,
		EmbeddingType: EmbeddingCentral,
		RandomState:   42,
	}
}

// ReturnWeight is the walk weight for stepping back to the previous node.
func (p Params) ReturnWeight() float32 { return 1 / p.P }

// ExploreWeight is the walk weight for moving away from the previous node.
func (p Params) ExploreWeight() float32 { return 1 / p.Q }

// Validate checks every field a trainer relies on.
func (p Params) Validate() error {
	switch {
	case p.WalkLength == 0:
		return fmt.Errorf("%w: walk_length must be positive", ErrInvalidParams)
	case p.NumWalks == 0:
		return fmt.Errorf("%w: num_of_walks must be positive", ErrInvalidParams)
	case !(p.P > 0) || !(p.Q > 0):
		return fmt.Errorf("%w: p and q must be positive, got p=%g q=%g", ErrInvalidParams, p.P, p.Q)
	case p.MaxNeighbors != nil && *p.MaxNeighbors == 0:
		return fmt.Errorf("%w: max_neighbors must be positive when set", ErrInvalidParams)
	case p.ModelType != ModelSkipGram && p.ModelType != ModelCBOW:
		return fmt.Errorf("%w: model_type '%s' is unsupported, expected %q or %q", ErrInvalidParams, p.ModelType, ModelSkipGram, ModelCBOW)
	case p.EmbeddingSize == 0:
		return fmt.Errorf("%w: embedding_size must be positive", ErrInvalidParams)
	case p.WindowSize == 0:
		return fmt.Errorf("%w: window_size must be positive", ErrInvalidParams)
	case p.EmbeddingType != EmbeddingCentral && p.EmbeddingType != EmbeddingContextual:
		return fmt.Errorf("%w: embedding_type '%s' is unsupported, expected %q or %q", ErrInvalidParams, p.EmbeddingType, EmbeddingCentral, EmbeddingContextual)
	}
	return nil
}
