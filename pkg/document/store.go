package document

import (
	"fmt"
	"os"
	"sync"

	"dario.cat/mergo"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Store is the shared mutable dataset. The zero value from New is an
// unset store: every operation on it fails with UnavailableError.
type Store struct {
	mu     sync.RWMutex
	root   []any
	loaded bool
}

// New returns an unset store.
func New() *Store {
	return &Store{}
}

// FromData returns a store over the given array. The store takes
// ownership of the slice.
func FromData(root []any) *Store {
	return &Store{root: root, loaded: true}
}

// LoadFile reads a data file and returns a store over its contents.
// The file must hold a JSON array.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	root, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("data file %s must contain a JSON array", path)
	}
	return FromData(root), nil
}

// Ready reports whether the store holds a dataset.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Len returns the number of top-level items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.root)
}

// All serializes the whole dataset.
func (s *Store) All() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, &UnavailableError{}
	}
	return []byte(oj.JSON(s.root)), nil
}

// One resolves the query to a single node and serializes it. The first
// match wins; no match is a NotFoundError.
func (s *Store) One(query string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, &UnavailableError{}
	}
	x, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	nodes := x.Get(s.root)
	if len(nodes) == 0 {
		return nil, &NotFoundError{Query: query}
	}
	return []byte(oj.JSON(nodes[0])), nil
}

// Many resolves the query to zero or more nodes and serializes them as an
// array. An empty result is not an error.
func (s *Store) Many(query string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, &UnavailableError{}
	}
	x, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	nodes := x.Get(s.root)
	if nodes == nil {
		nodes = []any{}
	}
	return []byte(oj.JSON(nodes)), nil
}

// Append parses the body as JSON and appends it to the dataset. A body
// that fails to parse leaves the dataset untouched.
func (s *Store) Append(body []byte) error {
	item, err := oj.Parse(body)
	if err != nil {
		return &BodyError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return &UnavailableError{}
	}
	s.root = append(s.root, item)
	return nil
}

// Replace resolves the query to one node and replaces it wholesale with
// the parsed body.
func (s *Store) Replace(query string, body []byte) error {
	val, err := oj.Parse(body)
	if err != nil {
		return &BodyError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return &UnavailableError{}
	}
	path, err := s.locateFirst(query)
	if err != nil {
		return err
	}
	return s.setAt(path, val)
}

// Merge resolves the query to one node and deep-merges the parsed body
// into it. Both the node and the body must be JSON objects; body values
// override node values on conflict.
func (s *Store) Merge(query string, body []byte) error {
	val, err := oj.Parse(body)
	if err != nil {
		return &BodyError{Err: err}
	}
	patch, ok := val.(map[string]any)
	if !ok {
		return &MutationError{Msg: "merge requires a JSON object body"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return &UnavailableError{}
	}
	path, err := s.locateFirst(query)
	if err != nil {
		return err
	}
	node, ok := path.First(s.root).(map[string]any)
	if !ok {
		return &MutationError{Msg: fmt.Sprintf("node at %q is not a JSON object", query)}
	}
	if err := mergo.Merge(&node, patch, mergo.WithOverride); err != nil {
		return &MutationError{Msg: fmt.Sprintf("merge failed: %v", err)}
	}
	return nil
}

// Remove resolves the query to one node and removes it from its parent
// container.
func (s *Store) Remove(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return &UnavailableError{}
	}
	path, err := s.locateFirst(query)
	if err != nil {
		return err
	}
	return s.removeAt(path)
}

// parseQuery compiles a query expression, mapping parse failures to
// QueryError.
func parseQuery(query string) (jp.Expr, error) {
	x, err := jp.ParseString(query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return x, nil
}

// locateFirst resolves the query to the normalized path of its first
// match. Callers hold the write lock.
func (s *Store) locateFirst(query string) (jp.Expr, error) {
	x, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	locs := x.Locate(s.root, 1)
	if len(locs) == 0 {
		return nil, &NotFoundError{Query: query}
	}
	return locs[0], nil
}

// setAt writes val at a normalized path. The path's parent container is
// mutated in place.
func (s *Store) setAt(path jp.Expr, val any) error {
	if len(path) < 2 {
		return &MutationError{Msg: "cannot replace the document root"}
	}

	parent := path[:len(path)-1].First(s.root)
	switch p := parent.(type) {
	case map[string]any:
		key, ok := path[len(path)-1].(jp.Child)
		if !ok {
			return &MutationError{Msg: "mismatched path fragment for object parent"}
		}
		p[string(key)] = val
	case []any:
		i, ok := path[len(path)-1].(jp.Nth)
		if !ok || int(i) < 0 || int(i) >= len(p) {
			return &MutationError{Msg: "mismatched path fragment for array parent"}
		}
		p[int(i)] = val
	default:
		return &MutationError{Msg: fmt.Sprintf("cannot set node inside %T", parent)}
	}
	return nil
}

// removeAt removes the node at a normalized path from its parent.
// Removing from an array shrinks it, so the shrunk slice is written back
// into the grandparent; the dataset root is reassigned directly.
func (s *Store) removeAt(path jp.Expr) error {
	if len(path) < 2 {
		return &MutationError{Msg: "cannot remove the document root"}
	}

	parentPath := path[:len(path)-1]
	parent := parentPath.First(s.root)
	switch p := parent.(type) {
	case map[string]any:
		key, ok := path[len(path)-1].(jp.Child)
		if !ok {
			return &MutationError{Msg: "mismatched path fragment for object parent"}
		}
		delete(p, string(key))
	case []any:
		i, ok := path[len(path)-1].(jp.Nth)
		if !ok || int(i) < 0 || int(i) >= len(p) {
			return &MutationError{Msg: "mismatched path fragment for array parent"}
		}
		shrunk := append(p[:int(i):int(i)], p[int(i)+1:]...)
		if len(parentPath) < 2 {
			s.root = shrunk
			return nil
		}
		return s.setAt(parentPath, shrunk)
	default:
		return &MutationError{Msg: fmt.Sprintf("cannot remove node from %T", parent)}
	}
	return nil
}
