// Package plugin exposes the column functions to a host through a registry
// of named entry points.
//
// A host resolves a symbol, asks for the output field before running
// anything, then calls the function with positional input columns and a
// serialized keyword-argument record:
//
//	reg := plugin.NewRegistry(sparsevec.New())
//	field, _ := reg.OutputField("normalize", []column.Field{in.Field()}, kwargs)
//	out, _ := reg.Call(ctx, "normalize", []column.Array{in}, kwargs)
//
// Keyword arguments are decoded with the registry's codec.Codec; fields
// absent from the record keep their defaults.
package plugin
