package pysrc

import (
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// FreeNames returns the identifiers the unit reads but does not bind
// locally, sorted for deterministic output.
//
// Bound (and therefore excluded): parameters, assignment targets of any
// shape (plain, augmented, multi-target, starred, walrus), for/with/
// except capture targets, comprehension targets, names bound by
// function-local imports, and the names of nested definitions. Python
// function-scope semantics apply: a name assigned anywhere in the body
// is local everywhere in the body.
//
// Free: plain identifier reads, the base name of dotted access
// (`obj.method()` depends on `obj` only), decorator names, default
// argument and annotation expressions (evaluated in the enclosing
// scope), and the free names of nested scopes that the outer scope does
// not bind. Names declared `global` are forced free.
func (u *Unit) FreeNames() []string {
	w := &nameWalker{source: u.Module.Source}
	free := w.unitFree(u.defNode, u.declNode, u.Kind)

	names := make([]string, 0, len(free))
	for n := range free {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// exprFreeNames returns the identifiers an expression reads, sorted.
// Used for the right-hand side of module-level assignments, which
// evaluate in module scope and bind nothing themselves.
func exprFreeNames(node *tree_sitter.Node, source []byte) []string {
	w := &nameWalker{source: source}
	uses := nameSet{}
	w.collectLoads(node, uses)

	names := make([]string, 0, len(uses))
	for n := range uses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type nameWalker struct {
	source []byte
}

type nameSet map[string]bool

func (s nameSet) merge(other nameSet) {
	for n := range other {
		s[n] = true
	}
}

// unitFree computes the free names of one function or class scope.
func (w *nameWalker) unitFree(def, decl *tree_sitter.Node, kind UnitKind) nameSet {
	bound := nameSet{}
	uses := nameSet{}
	forced := nameSet{}

	// Decorators evaluate in the enclosing scope.
	if decl != nil && decl.Kind() == "decorated_definition" {
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			child := decl.NamedChild(i)
			if child != nil && child.Kind() == "decorator" {
				w.collectLoads(child, uses)
			}
		}
	}

	if kind == UnitFunction {
		// Defaults and annotations evaluate in the enclosing scope;
		// the parameter names themselves are bound inside.
		if params := def.ChildByFieldName("parameters"); params != nil {
			w.collectParams(params, bound, uses)
		}
		if ret := def.ChildByFieldName("return_type"); ret != nil {
			w.collectLoads(ret, uses)
		}
	} else {
		// Base classes evaluate in the enclosing scope.
		if supers := def.ChildByFieldName("superclasses"); supers != nil {
			w.collectLoads(supers, uses)
		}
	}

	if body := def.ChildByFieldName("body"); body != nil {
		w.collectBindings(body, bound, forced)
		w.collectLoads(body, uses)
	}

	free := nameSet{}
	for n := range uses {
		if !bound[n] || forced[n] {
			free[n] = true
		}
	}
	for n := range forced {
		free[n] = true
	}
	return free
}

// collectParams records parameter names as bound and default/annotation
// expressions as uses of the enclosing scope.
func (w *nameWalker) collectParams(params *tree_sitter.Node, bound, uses nameSet) {
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "identifier":
			bound[p.Utf8Text(w.source)] = true

		case "typed_parameter":
			if t := p.ChildByFieldName("type"); t != nil {
				w.collectLoads(t, uses)
			}
			w.bindTargets(p.NamedChild(0), bound)

		case "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				w.bindTargets(name, bound)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				w.collectLoads(t, uses)
			}
			if v := p.ChildByFieldName("value"); v != nil {
				w.collectLoads(v, uses)
			}

		case "list_splat_pattern", "dictionary_splat_pattern":
			w.bindTargets(p, bound)
		}
	}
}

// collectBindings walks a statement block recording every name the
// scope binds. It does not descend into nested scopes; nested
// definitions only contribute their own name.
func (w *nameWalker) collectBindings(node *tree_sitter.Node, bound, forced nameSet) {
	switch node.Kind() {
	case "function_definition", "class_definition", "lambda",
		"list_comprehension", "set_comprehension",
		"dictionary_comprehension", "generator_expression":
		if name := node.ChildByFieldName("name"); name != nil {
			bound[name.Utf8Text(w.source)] = true
		}
		return

	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			if name := def.ChildByFieldName("name"); name != nil {
				bound[name.Utf8Text(w.source)] = true
			}
		}
		return

	case "assignment", "augmented_assignment":
		if left := node.ChildByFieldName("left"); left != nil {
			w.bindTargets(left, bound)
		}
		if right := node.ChildByFieldName("right"); right != nil {
			w.collectBindings(right, bound, forced)
		}
		return

	case "named_expression":
		if name := node.ChildByFieldName("name"); name != nil {
			bound[name.Utf8Text(w.source)] = true
		}
		if value := node.ChildByFieldName("value"); value != nil {
			w.collectBindings(value, bound, forced)
		}
		return

	case "for_statement":
		if left := node.ChildByFieldName("left"); left != nil {
			w.bindTargets(left, bound)
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			if left := node.ChildByFieldName("left"); left != nil && child.Id() == left.Id() {
				continue
			}
			w.collectBindings(child, bound, forced)
		}
		return

	case "as_pattern":
		if alias := node.ChildByFieldName("alias"); alias != nil {
			w.bindTargets(alias, bound)
		}
		if expr := node.NamedChild(0); expr != nil {
			w.collectBindings(expr, bound, forced)
		}
		return

	case "import_statement", "import_from_statement":
		w.bindImportNames(node, bound)
		return

	case "global_statement":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if id := node.NamedChild(i); id != nil && id.Kind() == "identifier" {
				forced[id.Utf8Text(w.source)] = true
			}
		}
		return

	case "nonlocal_statement":
		// Bound by the enclosing function chain; never free at module level.
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if id := node.NamedChild(i); id != nil && id.Kind() == "identifier" {
				bound[id.Utf8Text(w.source)] = true
			}
		}
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			w.collectBindings(child, bound, forced)
		}
	}
}

// bindTargets records the identifiers bound by an assignment-target
// pattern. Attribute and subscript targets bind nothing; their base
// objects are reads, picked up by collectLoads.
func (w *nameWalker) bindTargets(node *tree_sitter.Node, bound nameSet) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		bound[node.Utf8Text(w.source)] = true
	case "attribute", "subscript":
		return
	default:
		for i := uint(0); i < node.NamedChildCount(); i++ {
			w.bindTargets(node.NamedChild(i), bound)
		}
	}
}

// bindImportNames records the local names a function-body import binds.
func (w *nameWalker) bindImportNames(node *tree_sitter.Node, bound nameSet) {
	fromImport := node.Kind() == "import_from_statement"
	moduleNode := node.ChildByFieldName("module_name")

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if moduleNode != nil && child.Id() == moduleNode.Id() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			text := child.Utf8Text(w.source)
			if text == "" {
				continue
			}
			if fromImport {
				bound[text] = true
			} else {
				// `import a.b` binds the root package name.
				root := text
				for j := 0; j < len(text); j++ {
					if text[j] == '.' {
						root = text[:j]
						break
					}
				}
				bound[root] = true
			}
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				bound[alias.Utf8Text(w.source)] = true
			}
		}
	}
}

// collectLoads walks an expression or statement block recording every
// identifier read. Nested scopes contribute their own free names.
func (w *nameWalker) collectLoads(node *tree_sitter.Node, uses nameSet) {
	switch node.Kind() {
	case "identifier":
		uses[node.Utf8Text(w.source)] = true
		return

	case "attribute":
		// Only the base object is a dependency.
		if obj := node.ChildByFieldName("object"); obj != nil {
			w.collectLoads(obj, uses)
		}
		return

	case "keyword_argument":
		if value := node.ChildByFieldName("value"); value != nil {
			w.collectLoads(value, uses)
		}
		return

	case "function_definition":
		uses.merge(w.unitFree(node, nil, UnitFunction))
		return

	case "class_definition":
		uses.merge(w.unitFree(node, nil, UnitClass))
		return

	case "decorated_definition":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child != nil && child.Kind() == "decorator" {
				w.collectLoads(child, uses)
			}
		}
		if def := node.ChildByFieldName("definition"); def != nil {
			kind := UnitFunction
			if def.Kind() == "class_definition" {
				kind = UnitClass
			}
			uses.merge(w.unitFree(def, nil, kind))
		}
		return

	case "lambda":
		uses.merge(w.lambdaFree(node))
		return

	case "list_comprehension", "set_comprehension",
		"dictionary_comprehension", "generator_expression":
		uses.merge(w.comprehensionFree(node))
		return

	case "import_statement", "import_from_statement",
		"global_statement", "nonlocal_statement", "dotted_name":
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			w.collectLoads(child, uses)
		}
	}
}

// lambdaFree computes the free names of a lambda expression.
func (w *nameWalker) lambdaFree(node *tree_sitter.Node) nameSet {
	bound := nameSet{}
	uses := nameSet{}
	if params := node.ChildByFieldName("parameters"); params != nil {
		w.collectParams(params, bound, uses)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		bodyUses := nameSet{}
		w.collectLoads(body, bodyUses)
		for n := range bodyUses {
			if !bound[n] {
				uses[n] = true
			}
		}
	}
	return uses
}

// comprehensionFree computes the free names of a comprehension, which
// is its own scope in Python 3: its targets are bound inside and never
// leak out.
func (w *nameWalker) comprehensionFree(node *tree_sitter.Node) nameSet {
	bound := nameSet{}
	uses := nameSet{}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "for_in_clause" {
			if left := child.ChildByFieldName("left"); left != nil {
				w.bindTargets(left, bound)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				w.collectLoads(right, uses)
			}
			continue
		}
		w.collectLoads(child, uses)
	}

	free := nameSet{}
	for n := range uses {
		if !bound[n] {
			free[n] = true
		}
	}
	return free
}
