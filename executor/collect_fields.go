/**
 * Copyright (c) 2024, The riverql Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// fieldGroup collects every *ast.Field in a selection set that shares a response key (the field's
// alias, or its name when unaliased). A key may be requested more than once with different
// sub-selections, which are merged at completion time.
type fieldGroup struct {
	ResponseKey string
	Nodes       []*ast.Field
}

// collectFields walks a selection set into an ordered list of fieldGroups, preserving the order
// in which each response key was first requested. Fragments are an explicit non-goal: a
// *ast.FragmentSpread or *ast.InlineFragment anywhere in the set makes collectFields return an
// error, which its caller reports in the response, rather than being silently skipped or expanded.
func collectFields(selectionSet ast.SelectionSet) ([]fieldGroup, error) {
	var order []string
	byKey := make(map[string]*fieldGroup)

	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *ast.Field:
			key := sel.Alias
			if key == "" {
				key = sel.Name
			}
			group, ok := byKey[key]
			if !ok {
				group = &fieldGroup{ResponseKey: key}
				byKey[key] = group
				order = append(order, key)
			}
			group.Nodes = append(group.Nodes, sel)

		case *ast.FragmentSpread:
			return nil, fmt.Errorf("fragment spread %q is not supported", sel.Name)

		case *ast.InlineFragment:
			return nil, fmt.Errorf("inline fragments are not supported")

		default:
			return nil, fmt.Errorf("unsupported selection of type %T", sel)
		}
	}

	groups := make([]fieldGroup, len(order))
	for i, key := range order {
		groups[i] = *byKey[key]
	}
	return groups, nil
}
