package estimator

import "strings"

// Sep separates the segments of a parameter path: "clf.degree" names the
// degree parameter of the sub-component clf.
const Sep = "."

// JoinPath joins path segments with Sep.
func JoinPath(elems ...string) string {
	return strings.Join(elems, Sep)
}

// SplitPath splits a parameter path into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, Sep)
}

// SplitHead splits off the first segment of a path. For an undotted name it
// returns the name itself and an empty rest.
func SplitHead(path string) (head, rest string) {
	if i := strings.Index(path, Sep); i >= 0 {
		return path[:i], path[i+len(Sep):]
	}
	return path, ""
}

// GroupByHead partitions an assignment into undotted names and, for dotted
// paths, per-head sub-assignments with the head stripped. Composites use it
// to apply direct replacements before routing into sub-components.
func GroupByHead(params Params) (direct Params, nested map[string]Params) {
	direct = make(Params)
	nested = make(map[string]Params)
	for k, v := range params {
		head, rest := SplitHead(k)
		if rest == "" {
			direct[head] = v
			continue
		}
		sub, ok := nested[head]
		if !ok {
			sub = make(Params)
			nested[head] = sub
		}
		sub[rest] = v
	}
	return direct, nested
}
