package runtime

import (
	"context"
	"strings"

	"github.com/risor-io/risor/object"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/signature"
)

// makeDescriptorFn creates the "descriptor" host function, which builds a
// feed-shaped descriptor map.
//
// descriptor(alias, extractors) → {"bowername": alias, "extractors": {"func": extractors}}
//
// alias may be a string, a list of strings, or nil for no alias.
func makeDescriptorFn() *object.Builtin {
	return object.NewBuiltin("descriptor", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("descriptor", 2, len(args))
		}

		fields := make(map[string]object.Object, 2)
		switch alias := args[0].(type) {
		case *object.NilType:
		case *object.String:
			fields["bowername"] = alias
		case *object.List:
			if err := checkStrings(alias); err != nil {
				return object.Errorf("descriptor: alias: %v", err)
			}
			fields["bowername"] = alias
		default:
			return object.Errorf("descriptor: alias must be a string, list or nil, got %s", args[0].Type())
		}

		funcs, ok := args[1].(*object.List)
		if !ok {
			return object.Errorf("descriptor: extractors must be a list, got %s", args[1].Type())
		}
		if err := checkStrings(funcs); err != nil {
			return object.Errorf("descriptor: extractors: %v", err)
		}
		fields["extractors"] = object.NewMap(map[string]object.Object{"func": funcs})

		return object.NewMap(fields)
	})
}

// makeDeniedFn creates "denied", reporting whether a feed key would be
// dropped by the normalizer.
//
// denied(key) → bool
func makeDeniedFn() *object.Builtin {
	return object.NewBuiltin("denied", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("denied", 1, len(args))
		}
		key, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("denied: key must be a string, got %s", args[0].Type())
		}
		return object.NewBool(strings.EqualFold(key.Value(), signature.DeniedKey))
	})
}

// logObject provides log.info/warn/error methods for Risor scripts.
type logObject struct {
	logger *zap.SugaredLogger
}

func (l *logObject) Info(msg string) {
	l.logger.Infow(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warnw(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Errorw(msg, "source", "script")
}
