package plugin

import (
	"context"
	"fmt"

	"github.com/hupe1980/sparsevec"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/graph"
	"github.com/hupe1980/sparsevec/stem"
)

// Built-in symbol names.
const (
	// FromList encodes a dense list column. It takes no keyword arguments.
	FromList = "from_list"

	// Normalize rescales a sparse column by its column Lp norms. Its keyword
	// record is sparsevec.NormalizeConfig; an absent "how" means "vertical"
	// and an absent "p" means 2.
	Normalize = "normalize"

	// SnowballStem stems a string column. "language" is required.
	SnowballStem = "snowball_stem"

	// Node2Vec embeds graph nodes. Its keyword record is graph.Params;
	// absent fields keep graph.DefaultParams.
	Node2Vec = "node2vec"
)

// StemConfig is the keyword-argument record of snowball_stem.
type StemConfig struct {
	Language string `json:"language"`
}

func fromList(engine *sparsevec.Engine) Function {
	return Function{
		Name:      FromList,
		MinInputs: 1,
		MaxInputs: 1,
		OutputField: func(inputs []column.Field, _ Kwargs) (column.Field, error) {
			return sparsevec.EncodeField(inputs[0])
		},
		Call: func(_ context.Context, inputs []column.Array, _ Kwargs) (column.Array, error) {
			return engine.Encode(inputs[0])
		},
	}
}

func normalizeConfig(k Kwargs) (sparsevec.NormalizeConfig, error) {
	cfg, err := Decode(k, sparsevec.DefaultNormalizeConfig())
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", sparsevec.ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

func normalize(engine *sparsevec.Engine) Function {
	return Function{
		Name:      Normalize,
		MinInputs: 1,
		MaxInputs: 1,
		OutputField: func(inputs []column.Field, k Kwargs) (column.Field, error) {
			if _, err := normalizeConfig(k); err != nil {
				return column.Field{}, err
			}
			return sparsevec.NormalizeField(inputs[0])
		},
		Call: func(_ context.Context, inputs []column.Array, k Kwargs) (column.Array, error) {
			cfg, err := normalizeConfig(k)
			if err != nil {
				return nil, err
			}
			return engine.Normalize(inputs[0], cfg)
		},
	}
}

func stemConfig(k Kwargs) (StemConfig, error) {
	cfg, err := Decode(k, StemConfig{})
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", sparsevec.ErrInvalidConfig, err)
	}
	if !stem.Supported(cfg.Language) {
		return cfg, fmt.Errorf("%w: language '%s' unsupported for snowball stemming", sparsevec.ErrInvalidConfig, cfg.Language)
	}
	return cfg, nil
}

func snowballStem() Function {
	return Function{
		Name:      SnowballStem,
		MinInputs: 1,
		MaxInputs: 1,
		OutputField: func(inputs []column.Field, k Kwargs) (column.Field, error) {
			if _, err := stemConfig(k); err != nil {
				return column.Field{}, err
			}
			if inputs[0].Type.Kind != column.KindString {
				return column.Field{}, fmt.Errorf("%w: %s expects str, got %s", sparsevec.ErrUnsupportedType, SnowballStem, inputs[0].Type)
			}
			return inputs[0], nil
		},
		Call: func(_ context.Context, inputs []column.Array, k Kwargs) (column.Array, error) {
			cfg, err := stemConfig(k)
			if err != nil {
				return nil, err
			}
			words, ok := inputs[0].(*column.Strings)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects str, got %s", sparsevec.ErrUnsupportedType, SnowballStem, inputs[0].DataType())
			}
			out, err := stem.Stem(words, cfg.Language)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

func node2vec(trainer graph.Trainer) Function {
	return Function{
		Name:      Node2Vec,
		MinInputs: 2,
		MaxInputs: 3,
		OutputField: func(inputs []column.Field, k Kwargs) (column.Field, error) {
			params, err := Decode(k, graph.DefaultParams())
			if err != nil {
				return column.Field{}, fmt.Errorf("%w: %w", sparsevec.ErrInvalidConfig, err)
			}
			if err := params.Validate(); err != nil {
				return column.Field{}, err
			}
			return column.Field{Name: inputs[0].Name, Type: column.ListOf(column.Primitive(column.KindFloat32))}, nil
		},
		Call: func(ctx context.Context, inputs []column.Array, k Kwargs) (column.Array, error) {
			params, err := Decode(k, graph.DefaultParams())
			if err != nil {
				return nil, fmt.Errorf("%w: %w", sparsevec.ErrInvalidConfig, err)
			}
			src, ok := inputs[0].(*column.Strings)
			if !ok {
				return nil, fmt.Errorf("%w: %s source must be str, got %s", sparsevec.ErrUnsupportedType, Node2Vec, inputs[0].DataType())
			}
			neighbors, ok := inputs[1].(*column.StringList)
			if !ok {
				return nil, fmt.Errorf("%w: %s neighbors must be list[str], got %s", sparsevec.ErrUnsupportedType, Node2Vec, inputs[1].DataType())
			}
			var weights column.Array
			if len(inputs) == 3 {
				weights = inputs[2]
			}
			out, err := graph.Embed(ctx, src, neighbors, weights, trainer, params)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}
