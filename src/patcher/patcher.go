// Package patcher injects and clears named options on the single
// constructor call inside a JavaScript build-config file. It edits by
// byte offset against a tree-sitter parse, so every byte outside the
// targeted property values survives unchanged.
package patcher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// PatchError means the expected constructor call or its options object
// could not be located. The config shape is static across scenarios,
// so callers treat this as fatal for the whole run.
type PatchError struct {
	Msg string
}

func (e *PatchError) Error() string { return "patch: " + e.Msg }

func patchErrf(format string, args ...any) error {
	return &PatchError{Msg: fmt.Sprintf(format, args...)}
}

// Patcher rewrites option properties on `new <Constructor>(...)`.
type Patcher struct {
	Constructor string
}

// New creates a patcher anchored on the given constructor name.
func New(constructor string) *Patcher {
	return &Patcher{Constructor: constructor}
}

// edit replaces src[start:end) with text. Inserts have start == end.
type edit struct {
	start, end uint32
	text       string
}

// ApplyOverrides sets each override key on the options object: existing
// properties get their value replaced with the JSON-serialized override,
// missing properties are inserted. All unrelated source text is
// preserved byte-for-byte.
func (p *Patcher) ApplyOverrides(src []byte, overrides map[string]any) ([]byte, error) {
	if len(overrides) == 0 {
		return src, nil
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return p.patch(src, func(obj *sitter.Node) ([]edit, error) {
		var edits []edit
		inserted := 0
		// Reverse order: same-position inserts are applied last-first,
		// which leaves the final properties in ascending key order.
		for i := len(keys) - 1; i >= 0; i-- {
			key := keys[i]
			val, err := json.Marshal(overrides[key])
			if err != nil {
				return nil, patchErrf("serializing override %q: %v", key, err)
			}
			if pair := findPair(src, obj, key); pair != nil {
				v := pair.ChildByFieldName("value")
				if v == nil {
					return nil, patchErrf("property %q has no value node", key)
				}
				edits = append(edits, edit{v.StartByte(), v.EndByte(), string(val)})
			} else {
				// The insert applied first into an empty object needs no
				// trailing comma; every later one does.
				needComma := obj.NamedChildCount() > 0 || inserted > 0
				edits = append(edits, insertPair(obj, key, string(val), needComma))
				inserted++
			}
		}
		return edits, nil
	})
}

// ClearOverrides resets each named property on the options object to an
// empty-object literal. Keys not present are ignored, which makes the
// reset idempotent.
func (p *Patcher) ClearOverrides(src []byte, keys []string) ([]byte, error) {
	if len(keys) == 0 {
		return src, nil
	}

	return p.patch(src, func(obj *sitter.Node) ([]edit, error) {
		var edits []edit
		for _, key := range keys {
			pair := findPair(src, obj, key)
			if pair == nil {
				continue
			}
			v := pair.ChildByFieldName("value")
			if v == nil {
				return nil, patchErrf("property %q has no value node", key)
			}
			edits = append(edits, edit{v.StartByte(), v.EndByte(), "{}"})
		}
		return edits, nil
	})
}

// patch parses src, locates the options object, and applies the edits
// produced by fn back-to-front so earlier offsets stay valid. The
// result is built fully in memory; on any error src is returned
// untouched and nothing is partially rewritten.
func (p *Patcher) patch(src []byte, fn func(obj *sitter.Node) ([]edit, error)) ([]byte, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, patchErrf("parsing config source: %v", err)
	}
	defer tree.Close()

	obj, err := p.optionsObject(src, tree.RootNode())
	if err != nil {
		return nil, err
	}

	edits, err := fn(obj)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	out := src
	for _, e := range edits {
		out = splice(out, e.start, e.end, e.text)
	}
	return out, nil
}

// optionsObject finds the single object literal passed to the single
// `new <Constructor>(...)` call. Zero or multiple matches of either is
// a configuration error.
func (p *Patcher) optionsObject(src []byte, root *sitter.Node) (*sitter.Node, error) {
	var calls []*sitter.Node
	walk(root, func(n *sitter.Node) {
		if n.Type() != "new_expression" {
			return
		}
		c := n.ChildByFieldName("constructor")
		if c != nil && nodeText(src, c) == p.Constructor {
			calls = append(calls, n)
		}
	})

	if len(calls) == 0 {
		return nil, patchErrf("no `new %s(...)` call found", p.Constructor)
	}
	if len(calls) > 1 {
		return nil, patchErrf("found %d `new %s(...)` calls, expected exactly one", len(calls), p.Constructor)
	}

	args := calls[0].ChildByFieldName("arguments")
	if args == nil {
		return nil, patchErrf("`new %s` has no argument list", p.Constructor)
	}

	var objects []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if a := args.NamedChild(i); a.Type() == "object" {
			objects = append(objects, a)
		}
	}
	if len(objects) != 1 {
		return nil, patchErrf("`new %s` has %d object-literal arguments, expected exactly one", p.Constructor, len(objects))
	}
	return objects[0], nil
}

// findPair returns the property of the object literal whose key matches,
// or nil.
func findPair(src []byte, obj *sitter.Node, key string) *sitter.Node {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		if child.Type() != "pair" {
			continue
		}
		k := child.ChildByFieldName("key")
		if k != nil && propertyName(src, k) == key {
			return child
		}
	}
	return nil
}

// insertPair builds an insertion of a new property right after the
// object's opening brace.
func insertPair(obj *sitter.Node, key, val string, needComma bool) edit {
	pos := obj.StartByte() + 1
	if needComma {
		return edit{pos, pos, fmt.Sprintf(" '%s': %s,", key, val)}
	}
	return edit{pos, pos, fmt.Sprintf(" '%s': %s ", key, val)}
}

// propertyName normalizes a property key node: quoted string keys drop
// their quotes, identifier keys are used as-is.
func propertyName(src []byte, key *sitter.Node) string {
	text := nodeText(src, key)
	if key.Type() == "string" {
		return strings.Trim(text, `'"`)
	}
	return text
}

func nodeText(src []byte, n *sitter.Node) string {
	return string(src[n.StartByte():n.EndByte()])
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}

func splice(b []byte, start, end uint32, text string) []byte {
	out := make([]byte, 0, len(b)-int(end-start)+len(text))
	out = append(out, b[:start]...)
	out = append(out, text...)
	out = append(out, b[end:]...)
	return out
}
