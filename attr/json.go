package attr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// The JSON form of a value is the familiar single-key tagged object:
// {"S": "hello"}, {"N": "42"}, {"B": "<base64>"}, {"BOOL": true},
// {"NULL": true}, {"M": {...}}, {"L": [...]}, {"SS": [...]},
// {"NS": [...]}, {"BS": ["<base64>", ...]}. It exists for the CLI and
// for test fixtures; the binary codec remains the storage format.

// MarshalJSONValue renders v in the tagged-object JSON form.
func MarshalJSONValue(v Value) ([]byte, error) {
	obj, err := toJSONObject(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// MarshalJSONItem renders item as a JSON object mapping attribute names
// to tagged-object values, in canonical key order.
func MarshalJSONItem(item M) ([]byte, error) {
	obj, err := itemToJSONObject(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

func itemToJSONObject(item M) (*orderedObject, error) {
	out := &orderedObject{}
	for _, e := range item.Canonical() {
		v, err := toJSONObject(e.Value)
		if err != nil {
			return nil, err
		}
		out.add(e.Key, v)
	}
	return out, nil
}

func toJSONObject(v Value) (*orderedObject, error) {
	out := &orderedObject{}
	switch x := v.(type) {
	case S:
		out.add("S", string(x))
	case N:
		out.add("N", string(x))
	case B:
		out.add("B", base64.StdEncoding.EncodeToString(x))
	case Bool:
		out.add("BOOL", bool(x))
	case Null:
		out.add("NULL", true)
	case M:
		inner, err := itemToJSONObject(x)
		if err != nil {
			return nil, err
		}
		out.add("M", inner)
	case L:
		elems := make([]interface{}, len(x))
		for i, e := range x {
			inner, err := toJSONObject(e)
			if err != nil {
				return nil, err
			}
			elems[i] = inner
		}
		out.add("L", elems)
	case SS:
		out.add("SS", []string(x))
	case NS:
		out.add("NS", []string(x))
	case BS:
		elems := make([]string, len(x))
		for i, b := range x {
			elems[i] = base64.StdEncoding.EncodeToString(b)
		}
		out.add("BS", elems)
	default:
		return nil, fmt.Errorf("attr: cannot marshal %T", v)
	}
	return out, nil
}

// orderedObject is a JSON object that marshals its keys in insertion
// order, so item output follows the canonical attribute order instead
// of Go's randomized map iteration.
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

func (o *orderedObject) add(key string, value interface{}) {
	if o.values == nil {
		o.values = map[string]interface{}{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSONValue parses a tagged-object JSON value.
func UnmarshalJSONValue(data []byte) (Value, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("attr: invalid value JSON: %w", err)
	}
	return fromJSONObject(raw)
}

// UnmarshalJSONItem parses a JSON object of attribute-name to
// tagged-object value pairs into a canonical item.
func UnmarshalJSONItem(data []byte) (M, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("attr: invalid item JSON: %w", err)
	}
	item := make(M, 0, len(raw))
	for name, rv := range raw {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(rv, &inner); err != nil {
			return nil, fmt.Errorf("attr: attribute %q: %w", name, err)
		}
		v, err := fromJSONObject(inner)
		if err != nil {
			return nil, fmt.Errorf("attr: attribute %q: %w", name, err)
		}
		item = append(item, MEntry{Key: name, Value: v})
	}
	return item.Canonical(), nil
}

func fromJSONObject(raw map[string]json.RawMessage) (Value, error) {
	if len(raw) != 1 {
		return nil, fmt.Errorf("attr: value object must have exactly one type key, got %d", len(raw))
	}
	var tag string
	var body json.RawMessage
	for k, v := range raw {
		tag, body = k, v
	}

	switch tag {
	case "S":
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		return S(s), nil
	case "N":
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		return N(s), nil
	case "B":
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("attr: invalid base64 in B value: %w", err)
		}
		return B(b), nil
	case "BOOL":
		var b bool
		if err := json.Unmarshal(body, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "NULL":
		return Null{}, nil
	case "M":
		return UnmarshalJSONItem(body)
	case "L":
		var elems []json.RawMessage
		if err := json.Unmarshal(body, &elems); err != nil {
			return nil, err
		}
		list := make(L, 0, len(elems))
		for _, e := range elems {
			v, err := UnmarshalJSONValue(e)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case "SS":
		items, err := unmarshalStrings(body)
		if err != nil {
			return nil, err
		}
		return NewSS(items)
	case "NS":
		items, err := unmarshalStrings(body)
		if err != nil {
			return nil, err
		}
		return NewNS(items)
	case "BS":
		items, err := unmarshalStrings(body)
		if err != nil {
			return nil, err
		}
		decoded := make([][]byte, len(items))
		for i, s := range items {
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("attr: invalid base64 in BS element: %w", err)
			}
			decoded[i] = b
		}
		return NewBS(decoded)
	default:
		return nil, fmt.Errorf("attr: unknown value type %q", tag)
	}
}

func unmarshalStrings(body json.RawMessage) ([]string, error) {
	var items []string
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}
