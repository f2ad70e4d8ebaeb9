package annotation

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Entry is a test declaration found in a source file.
type Entry struct {
	Name string
	// Receiver is the suite type of a method, empty for top-level tests.
	Receiver string
	Doc      string
	File     string
	Line     int
}

// Registry maps test names to their doc comments.
//
// Top-level functions are registered by name and methods as "Type.Method".
// A top-level test whose body calls suite.Run(t, new(Type)) or
// suite.Run(t, &Type{}) is recorded as the runner of Type, so that
// "TestTypeSuite/TestMethod" resolves to Type.TestMethod. Bare method names
// are kept as aliases and only resolve while a single suite declares them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	methods map[string][]*Entry
	runners map[string]string
	decls   []*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		methods: make(map[string][]*Entry),
		runners: make(map[string]string),
	}
}

// Register adds a top-level test with its documentation. An existing entry
// with the same name is replaced.
func (r *Registry) Register(name, doc string) {
	r.declare(&Entry{Name: name, Doc: doc})
}

// declare records e and indexes it by name, and by bare method name for
// methods.
func (r *Registry) declare(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Name] = e
	r.decls = append(r.decls, e)

	if e.Receiver == "" {
		return
	}
	method := strings.TrimPrefix(e.Name, e.Receiver+".")
	candidates := r.methods[method]
	for i, c := range candidates {
		if c.Name == e.Name {
			candidates[i] = e
			return
		}
	}
	r.methods[method] = append(candidates, e)
}

func (r *Registry) setRunner(runner, suite string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[runner] = suite
}

// Lookup returns the doc comment of the named test. ok is false when no
// such test was registered.
func (r *Registry) Lookup(name string) (doc string, ok bool) {
	e, ok := r.Entry(name)
	if !ok {
		return "", false
	}
	return e.Doc, true
}

// Entry returns the entry registered under name, either a top-level test
// or "Type.Method".
func (r *Registry) Entry(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// SuiteOf returns the suite type run by the top-level test runner.
func (r *Registry) SuiteOf(runner string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	suite, ok := r.runners[runner]
	return suite, ok
}

// method returns the only declaration of a bare method name. Names
// declared by more than one suite are ambiguous and never resolve.
func (r *Registry) method(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := r.methods[name]
	if len(candidates) != 1 {
		return nil, false
	}
	return candidates[0], true
}

// Resolve finds the entry for a runner-reported test name such as
// "TestLogin", "TestLogin/case_1" or "TestUserSuite/TestCreate/case_1".
//
// The full name is tried first. A known suite runner resolves its second
// segment as a method of its suite. Otherwise the first segment names the
// top-level test, and subtest names below it are ignored. When the first
// segment is unknown, the second segment is tried as an unambiguous
// method alias.
func (r *Registry) Resolve(testName string) (*Entry, bool) {
	if e, ok := r.Entry(testName); ok {
		return e, true
	}

	segments := strings.Split(testName, "/")
	runner := segments[0]
	if len(segments) > 1 {
		if suite, ok := r.SuiteOf(runner); ok {
			if e, ok := r.Entry(suite + "." + segments[1]); ok {
				return e, true
			}
		}
	}
	if e, ok := r.Entry(runner); ok && e.Receiver == "" {
		return e, true
	}

	method := segments[0]
	if len(segments) > 1 {
		method = segments[1]
	}
	return r.method(method)
}

// Entries returns every declaration in the order it was registered.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Entry, len(r.decls))
	copy(result, r.decls)
	return result
}

// Len returns the number of declarations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.decls)
}

// ScanDir builds a registry from every *_test.go file in dir.
func ScanDir(dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*_test.go"))
	if err != nil {
		return nil, fmt.Errorf("listing test files: %w", err)
	}
	sort.Strings(files)

	r := NewRegistry()
	for _, file := range files {
		if err := r.ScanFile(file); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ScanFile registers the test functions declared in a Go source file.
func (r *Registry) ScanFile(path string) error {
	return r.ScanSource(path, nil)
}

// ScanSource registers the test functions declared in src. If src is nil
// the file at filename is read.
func (r *Registry) ScanSource(filename string, src any) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isTestName(fn.Name.Name) {
			continue
		}

		doc := ""
		if fn.Doc != nil {
			doc = fn.Doc.Text()
		}
		pos := fset.Position(fn.Pos())

		if fn.Recv == nil || len(fn.Recv.List) == 0 {
			r.declare(&Entry{Name: fn.Name.Name, Doc: doc, File: filename, Line: pos.Line})
			if suite := runSuiteType(fn.Body); suite != "" {
				r.setRunner(fn.Name.Name, suite)
			}
			continue
		}

		recv := typeName(fn.Recv.List[0].Type)
		if recv == "" {
			continue
		}
		r.declare(&Entry{
			Name:     recv + "." + fn.Name.Name,
			Receiver: recv,
			Doc:      doc,
			File:     filename,
			Line:     pos.Line,
		})
	}
	return nil
}

func isTestName(name string) bool {
	return strings.HasPrefix(name, "Test") && name != "TestMain"
}

// runSuiteType returns the suite type passed to a Run(t, suite) call in
// body, such as suite.Run(t, new(UserSuite)). Local variables assigned a
// suite value earlier in the body are followed.
func runSuiteType(body *ast.BlockStmt) string {
	if body == nil {
		return ""
	}

	locals := make(map[string]string)
	found := ""
	ast.Inspect(body, func(n ast.Node) bool {
		if found != "" {
			return false
		}
		switch node := n.(type) {
		case *ast.AssignStmt:
			if len(node.Lhs) != len(node.Rhs) {
				return true
			}
			for i, lhs := range node.Lhs {
				if id, ok := lhs.(*ast.Ident); ok {
					if suite := suiteValueType(node.Rhs[i], locals); suite != "" {
						locals[id.Name] = suite
					}
				}
			}
		case *ast.ValueSpec:
			for i, id := range node.Names {
				if i < len(node.Values) {
					if suite := suiteValueType(node.Values[i], locals); suite != "" {
						locals[id.Name] = suite
					}
				}
			}
		case *ast.CallExpr:
			sel, ok := node.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Run" || len(node.Args) != 2 {
				return true
			}
			if _, isPkg := sel.X.(*ast.Ident); !isPkg {
				return true
			}
			found = suiteValueType(node.Args[1], locals)
		}
		return true
	})
	return found
}

// suiteValueType returns the type name of new(T), &T{}, T{} or a local
// variable holding one of them.
func suiteValueType(expr ast.Expr, locals map[string]string) string {
	switch e := expr.(type) {
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok && id.Name == "new" && len(e.Args) == 1 {
			return typeName(e.Args[0])
		}
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return suiteValueType(e.X, locals)
		}
	case *ast.CompositeLit:
		return typeName(e.Type)
	case *ast.Ident:
		return locals[e.Name]
	}
	return ""
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	}
	return ""
}
