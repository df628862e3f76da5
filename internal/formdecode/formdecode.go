package formdecode

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// Pair is one submitted form field in submission order.
type Pair struct {
	Key   string
	Value string
}

// ParseQuery splits an application/x-www-form-urlencoded body into pairs,
// keeping their order.
func ParseQuery(raw string) ([]Pair, error) {
	var pairs []Pair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("formdecode: key %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("formdecode: value of %q: %w", k, err)
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs, nil
}

// FromValues converts url.Values to pairs with keys in natural order.
func FromValues(values url.Values) []Pair {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Sort(natural.StringSlice(keys))
	var pairs []Pair
	for _, key := range keys {
		for _, value := range values[key] {
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
	}
	return pairs
}

// Decode nests bracketed keys: a[b][0][c]=v becomes
// {"a": {"b": {"0": {"c": "v"}}}}. Empty brackets append under the next free
// index. A later scalar for the same path replaces an earlier one.
func Decode(pairs []Pair) (map[string]any, error) {
	root := map[string]any{}
	for _, pair := range pairs {
		path, err := SplitKey(pair.Key)
		if err != nil {
			return nil, err
		}
		if err := assign(root, path, pair.Value); err != nil {
			return nil, fmt.Errorf("formdecode: %q: %w", pair.Key, err)
		}
	}
	return root, nil
}

// SplitKey breaks "a[b][]" into ["a", "b", ""].
func SplitKey(key string) ([]string, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if key == "" {
			return nil, fmt.Errorf("formdecode: empty key")
		}
		return []string{key}, nil
	}
	if open == 0 {
		return nil, fmt.Errorf("formdecode: key %q has no name", key)
	}
	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("formdecode: malformed key %q", key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("formdecode: unterminated bracket in %q", key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func assign(node map[string]any, path []string, value string) error {
	key := path[0]
	if key == "" {
		key = nextIndex(node)
	}
	if len(path) == 1 {
		node[key] = value
		return nil
	}
	child, ok := node[key].(map[string]any)
	if !ok {
		if _, scalar := node[key]; scalar {
			return fmt.Errorf("%q is both a value and a container", key)
		}
		child = map[string]any{}
		node[key] = child
	}
	return assign(child, path[1:], value)
}

func nextIndex(node map[string]any) string {
	next := 0
	for key := range node {
		if n, err := strconv.Atoi(key); err == nil && n >= next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}

// Rows returns the records of a repeatable value in display order. Sequences
// are returned as-is; maps are ordered by natural key order, so row "10"
// follows row "9".
func Rows(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		out := make([]any, len(typed))
		for i, row := range typed {
			out[i] = row
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Sort(natural.StringSlice(keys))
		out := make([]any, 0, len(keys))
		for _, key := range keys {
			out = append(out, typed[key])
		}
		return out
	}
	return nil
}
