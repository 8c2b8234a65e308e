package update

import "github.com/pradoz/nosquealdb/attr"

// Apply runs expr's actions left-to-right against item, returning the
// resulting item. Each action observes the result of every prior
// action. On the first failing action, Apply returns the original,
// unmodified item alongside the error.
func Apply(expr Expression, item attr.M) (attr.M, error) {
	working := item
	for _, action := range expr {
		var err error
		switch a := action.(type) {
		case Set:
			working, err = setAtPath(working, a.Path, a.Value)
		case SetIfNotExists:
			if _, ok := attr.Resolve(working, a.Path); !ok {
				working, err = setAtPath(working, a.Path, a.Value)
			}
		case Remove:
			working, err = removeAtPath(working, a.Path)
		case Add:
			working, err = applyAdd(working, a.Path, a.Value)
		case Delete:
			working, err = applyDelete(working, a.Path, a.Value)
		default:
			err = errf("unknown update action")
		}
		if err != nil {
			return item, err
		}
	}
	return working, nil
}

func setAtPath(root attr.M, path attr.Path, value attr.Value) (attr.M, error) {
	if len(path) == 0 {
		return root, errf("path must not be empty")
	}
	updated, err := setRecursive(root, []attr.Segment(path), value)
	if err != nil {
		return root, err
	}
	m, ok := updated.(attr.M)
	if !ok {
		return root, errf("internal: root must remain a map")
	}
	return m, nil
}

func setRecursive(cur attr.Value, path []attr.Segment, value attr.Value) (attr.Value, error) {
	seg := path[0]
	rest := path[1:]

	if seg.IsIndex() {
		list, ok := cur.(attr.L)
		if !ok {
			if cur != nil {
				return nil, errf("path segment [%d] expects a list", seg.Index())
			}
			list = attr.L{}
		}
		idx := seg.Index()
		if idx > len(list) {
			return nil, errf("list index %d out of bounds (len=%d)", idx, len(list))
		}
		var child attr.Value
		if idx < len(list) {
			child = list[idx]
		}
		var result attr.Value
		if len(rest) == 0 {
			result = value
		} else {
			var err error
			base := child
			if base == nil {
				base = attr.M{}
			}
			result, err = setRecursive(base, rest, value)
			if err != nil {
				return nil, err
			}
		}
		newList := append(attr.L{}, list...)
		if idx == len(list) {
			newList = append(newList, result)
		} else {
			newList[idx] = result
		}
		return newList, nil
	}

	m, ok := cur.(attr.M)
	if !ok {
		if cur != nil {
			return nil, errf("path segment %q expects a map", seg.Name())
		}
		m = attr.M{}
	}
	if len(rest) == 0 {
		return m.Set(seg.Name(), value), nil
	}
	child, _ := m.Get(seg.Name())
	if child == nil {
		child = attr.M{}
	}
	updatedChild, err := setRecursive(child, rest, value)
	if err != nil {
		return nil, err
	}
	return m.Set(seg.Name(), updatedChild), nil
}

func removeAtPath(root attr.M, path attr.Path) (attr.M, error) {
	updated, err := removeRecursive(root, []attr.Segment(path))
	if err != nil {
		return root, err
	}
	m, ok := updated.(attr.M)
	if !ok {
		return root, errf("internal: root must remain a map")
	}
	return m, nil
}

func removeRecursive(cur attr.Value, path []attr.Segment) (attr.Value, error) {
	seg := path[0]
	rest := path[1:]

	if seg.IsIndex() {
		list, ok := cur.(attr.L)
		if !ok {
			return cur, nil
		}
		idx := seg.Index()
		if idx < 0 || idx >= len(list) {
			return cur, nil
		}
		if len(rest) == 0 {
			newList := append(attr.L{}, list[:idx]...)
			return append(newList, list[idx+1:]...), nil
		}
		updatedChild, err := removeRecursive(list[idx], rest)
		if err != nil {
			return nil, err
		}
		newList := append(attr.L{}, list...)
		newList[idx] = updatedChild
		return newList, nil
	}

	m, ok := cur.(attr.M)
	if !ok {
		return cur, nil
	}
	child, found := m.Get(seg.Name())
	if !found {
		return cur, nil
	}
	if len(rest) == 0 {
		return m.Remove(seg.Name()), nil
	}
	updatedChild, err := removeRecursive(child, rest)
	if err != nil {
		return nil, err
	}
	return m.Set(seg.Name(), updatedChild), nil
}

func applyAdd(root attr.M, path attr.Path, value attr.Value) (attr.M, error) {
	current, ok := attr.Resolve(root, path)
	if !ok {
		return setAtPath(root, path, value)
	}
	switch cv := current.(type) {
	case attr.N:
		nv, ok := value.(attr.N)
		if !ok {
			return root, errf("Add requires an N operand for numeric attribute %s", path)
		}
		sum, err := attr.AddNumeric(cv, nv)
		if err != nil {
			return root, errf("Add: %v", err)
		}
		return setAtPath(root, path, sum)
	case attr.SS:
		nv, ok := value.(attr.SS)
		if !ok {
			return root, errf("Add requires an SS operand for SS attribute %s", path)
		}
		union, err := attr.NewSS(unionStrings([]string(cv), []string(nv)))
		if err != nil {
			return root, errf("Add: %v", err)
		}
		return setAtPath(root, path, union)
	case attr.NS:
		nv, ok := value.(attr.NS)
		if !ok {
			return root, errf("Add requires an NS operand for NS attribute %s", path)
		}
		union, err := attr.NewNS(unionStrings([]string(cv), []string(nv)))
		if err != nil {
			return root, errf("Add: %v", err)
		}
		return setAtPath(root, path, union)
	case attr.BS:
		nv, ok := value.(attr.BS)
		if !ok {
			return root, errf("Add requires a BS operand for BS attribute %s", path)
		}
		union, err := attr.NewBS(unionBytes([][]byte(cv), [][]byte(nv)))
		if err != nil {
			return root, errf("Add: %v", err)
		}
		return setAtPath(root, path, union)
	default:
		return root, errf("Add is not supported for attribute type %s", cv.Kind())
	}
}

func applyDelete(root attr.M, path attr.Path, value attr.Value) (attr.M, error) {
	current, ok := attr.Resolve(root, path)
	if !ok {
		return root, nil
	}
	switch cv := current.(type) {
	case attr.SS:
		nv, ok := value.(attr.SS)
		if !ok {
			return root, errf("Delete requires an SS operand for SS attribute %s", path)
		}
		diff := diffStrings([]string(cv), []string(nv))
		if len(diff) == 0 {
			return removeAtPath(root, path)
		}
		ss, _ := attr.NewSS(diff)
		return setAtPath(root, path, ss)
	case attr.NS:
		nv, ok := value.(attr.NS)
		if !ok {
			return root, errf("Delete requires an NS operand for NS attribute %s", path)
		}
		diff := diffStrings([]string(cv), []string(nv))
		if len(diff) == 0 {
			return removeAtPath(root, path)
		}
		ns, _ := attr.NewNS(diff)
		return setAtPath(root, path, ns)
	case attr.BS:
		nv, ok := value.(attr.BS)
		if !ok {
			return root, errf("Delete requires a BS operand for BS attribute %s", path)
		}
		diff := diffBytes([][]byte(cv), [][]byte(nv))
		if len(diff) == 0 {
			return removeAtPath(root, path)
		}
		bs, _ := attr.NewBS(diff)
		return setAtPath(root, path, bs)
	default:
		return root, errf("Delete is not supported for attribute type %s", cv.Kind())
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func diffStrings(a, b []string) []string {
	remove := make(map[string]bool, len(b))
	for _, s := range b {
		remove[s] = true
	}
	out := make([]string, 0, len(a))
	for _, s := range a {
		if !remove[s] {
			out = append(out, s)
		}
	}
	return out
}

func unionBytes(a, b [][]byte) [][]byte {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([][]byte, 0, len(a)+len(b))
	for _, v := range a {
		k := string(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		k := string(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

func diffBytes(a, b [][]byte) [][]byte {
	remove := make(map[string]bool, len(b))
	for _, v := range b {
		remove[string(v)] = true
	}
	out := make([][]byte, 0, len(a))
	for _, v := range a {
		if !remove[string(v)] {
			out = append(out, v)
		}
	}
	return out
}
