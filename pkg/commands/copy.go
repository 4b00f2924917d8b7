package commands

import (
	"strings"

	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Copy copies the source frame to the target anchor, keeping relative
// offsets. It is Replace without pairs.
func Copy(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	src, err := primary(grammar.CmdCopy, sources)
	if err != nil {
		return nil, err
	}
	replace(src, target, nil)
	return nil, nil
}

// Replace copies the source frame to the target anchor. Each pair is applied
// in order with replace-all semantics to every non-empty cell.
func Replace(sources []resolver.Frame, target resolver.Frame, args grammar.Args) (any, error) {
	src, err := primary(grammar.CmdReplace, sources)
	if err != nil {
		return nil, err
	}

	var pairs grammar.Pairs
	switch a := args.(type) {
	case grammar.Pairs:
		pairs = a
	case grammar.NoArgs, nil:
	default:
		return nil, argumentError(grammar.CmdReplace, "expected match:replacement pairs, got %T", args)
	}
	replace(src, target, pairs)
	return nil, nil
}

func replace(src, target resolver.Frame, pairs grammar.Pairs) {
	sub := src.Sub()
	if len(pairs) > 0 {
		sub.Apply(func(v string) string {
			if v == "" {
				return v
			}
			for _, kv := range pairs {
				v = strings.ReplaceAll(v, kv[0], kv[1])
			}
			return v
		})
	}
	target.Data().CopyFrom(sub, target.Origin)
}

// Join requires exactly two equally shaped source frames. Every cell of the
// second frame is prefixed with the separator, then appended to the matching
// cell of the first frame, and the result is written to the target anchor.
func Join(sources []resolver.Frame, target resolver.Frame, args grammar.Args) (any, error) {
	if len(sources) != 2 {
		return nil, argumentError(grammar.CmdJoin, "requires exactly 2 source frames, got %d", len(sources))
	}
	sep, ok := args.(grammar.Literal)
	if !ok {
		return nil, argumentError(grammar.CmdJoin, "expected a separator literal, got %T", args)
	}

	first := sources[0].Sub()
	second := sources[1].Sub()
	second.Apply(func(v string) string {
		return string(sep) + v
	})
	if err := first.Add(second); err != nil {
		return nil, argumentError(grammar.CmdJoin, "%v", err)
	}

	target.Data().CopyFrom(first, target.Origin)
	return nil, nil
}

// Transform copies the source frame to the target anchor through one of the
// named text transforms.
func Transform(sources []resolver.Frame, target resolver.Frame, args grammar.Args) (any, error) {
	src, err := primary(grammar.CmdTransform, sources)
	if err != nil {
		return nil, err
	}
	name, ok := args.(grammar.Literal)
	if !ok {
		return nil, argumentError(grammar.CmdTransform, "expected a transform name, got %T", args)
	}
	fn, ok := LookupTransform(string(name))
	if !ok {
		return nil, argumentError(grammar.CmdTransform, "unknown transform %q (available: %s)",
			string(name), strings.Join(TransformNames(), ", "))
	}

	sub := src.Sub()
	sub.Apply(func(v string) string {
		if v == "" {
			return v
		}
		return fn(v)
	})
	target.Data().CopyFrom(sub, target.Origin)
	return nil, nil
}
