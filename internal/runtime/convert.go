package runtime

import (
	"github.com/cockroachdb/errors"
	"github.com/risor-io/risor/object"
)

// toGo converts a Risor value into plain Go values that encoding/json can
// marshal. Only data types are accepted.
func toGo(obj object.Object) (any, error) {
	switch v := obj.(type) {
	case nil, *object.NilType:
		return nil, nil
	case *object.String:
		return v.Value(), nil
	case *object.Int:
		return v.Value(), nil
	case *object.Float:
		return v.Value(), nil
	case *object.Bool:
		return v.Value(), nil
	case *object.List:
		items := v.Value()
		out := make([]any, 0, len(items))
		for i, item := range items {
			g, err := toGo(item)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			out = append(out, g)
		}
		return out, nil
	case *object.Map:
		items := v.Value()
		out := make(map[string]any, len(items))
		for key, item := range items {
			g, err := toGo(item)
			if err != nil {
				return nil, errors.Wrapf(err, "%q", key)
			}
			out[key] = g
		}
		return out, nil
	default:
		return nil, errors.Newf("unsupported value of type %s", obj.Type())
	}
}

func checkStrings(list *object.List) error {
	for i, item := range list.Value() {
		if _, ok := item.(*object.String); !ok {
			return errors.Newf("item %d is %s, want string", i, item.Type())
		}
	}
	return nil
}
