package chunk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// AST Parsing Tests
// ============================================================================

func TestParser_ParseGoFile_ReturnsAST(t *testing.T) {
	source := []byte(`package main

func hello() {
	fmt.Println("Hello")
}

func goodbye() {
	fmt.Println("Bye")
}
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "go")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.NotNil(t, tree.Root)
	assert.Equal(t, "go", tree.Language)

	funcNodes := findNodes(tree.Root, "function_declaration")
	assert.Len(t, funcNodes, 2, "should find 2 function declarations")
}

func TestParser_ParseTypeScript_ReturnsAST(t *testing.T) {
	source := []byte(`interface User {
	name: string;
	age: number;
}

function greet(user: User): string {
	return "Hello, " + user.name;
}

const add = (a: number, b: number): number => a + b;
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "typescript")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "typescript", tree.Language)

	interfaceNodes := findNodes(tree.Root, "interface_declaration")
	funcNodes := findNodes(tree.Root, "function_declaration")
	arrowNodes := findNodes(tree.Root, "arrow_function")

	assert.Len(t, interfaceNodes, 1, "should find 1 interface declaration")
	assert.Len(t, funcNodes, 1, "should find 1 function declaration")
	assert.Len(t, arrowNodes, 1, "should find 1 arrow function")
}

func TestParser_HandleSyntaxError_ReturnsPartialAST(t *testing.T) {
	source := []byte(`package main

func broken( {
	// missing closing paren
}
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "go")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.True(t, tree.Root.HasError, "tree should indicate parse errors")
}

func TestParser_ParseJavaScript_ReturnsAST(t *testing.T) {
	source := []byte(`function greet(name) {
	return "Hello, " + name;
}

class Person {
	constructor(name) {
		this.name = name;
	}

	sayHello() {
		return greet(this.name);
	}
}

const arrow = (x) => x * 2;
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "javascript")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "javascript", tree.Language)

	funcNodes := findNodes(tree.Root, "function_declaration")
	classNodes := findNodes(tree.Root, "class_declaration")
	arrowNodes := findNodes(tree.Root, "arrow_function")

	assert.Len(t, funcNodes, 1)
	assert.Len(t, classNodes, 1)
	assert.Len(t, arrowNodes, 1)
}

func TestParser_ParseRust_ReturnsAST(t *testing.T) {
	source := []byte(`struct Point {
	x: i32,
	y: i32,
}

impl Point {
	fn new(x: i32, y: i32) -> Self {
		Point { x, y }
	}
}

fn main() {
	let p = Point::new(1, 2);
}
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "rust")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "rust", tree.Language)

	structNodes := findNodes(tree.Root, "struct_item")
	implNodes := findNodes(tree.Root, "impl_item")
	fnNodes := findNodes(tree.Root, "function_item")

	assert.Len(t, structNodes, 1)
	assert.Len(t, implNodes, 1)
	assert.Len(t, fnNodes, 2, "new() and main()")
}

func TestParser_ParseC_ReturnsAST(t *testing.T) {
	source := []byte(`#include <stdio.h>
#define MAX(a, b) ((a) > (b) ? (a) : (b))

struct point {
	int x;
	int y;
};

int add(int a, int b) {
	return a + b;
}
`)

	parser := NewParser()
	defer parser.Close()

	tree, err := parser.Parse(context.Background(), source, "c")

	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "c", tree.Language)

	fnNodes := findNodes(tree.Root, "function_definition")
	structNodes := findNodes(tree.Root, "struct_specifier")
	macroNodes := findNodes(tree.Root, "preproc_function_def")

	assert.Len(t, fnNodes, 1)
	assert.Len(t, structNodes, 1)
	assert.Len(t, macroNodes, 1)
}

// ============================================================================
// Language Registry Tests
// ============================================================================

func TestLanguageRegistry_GetByExtension(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		wantLang  string
		wantOK    bool
	}{
		{"Go file", ".go", "go", true},
		{"TypeScript file", ".ts", "typescript", true},
		{"TSX file", ".tsx", "tsx", true},
		{"JavaScript file", ".js", "javascript", true},
		{"JSX file", ".jsx", "jsx", true},
		{"MJS file", ".mjs", "javascript", true},
		{"Python file", ".py", "python", true},
		{"Rust file", ".rs", "rust", true},
		{"C file", ".c", "c", true},
		{"C header", ".h", "c", true},
	}

	registry := NewLanguageRegistry()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, ok := registry.GetByExtension(tt.extension)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantLang, config.Name)
			}
		})
	}
}

func TestLanguageRegistry_UnsupportedLanguage(t *testing.T) {
	extension := ".ex"

	registry := NewLanguageRegistry()
	config, ok := registry.GetByExtension(extension)

	assert.False(t, ok)
	assert.Nil(t, config)
}

// ============================================================================
// Parser Lifecycle Tests
// ============================================================================

func TestParser_Lifecycle_CreateParseClose(t *testing.T) {
	parser := NewParser()

	source := []byte(`package main`)
	tree, err := parser.Parse(context.Background(), source, "go")

	require.NoError(t, err)
	require.NotNil(t, tree)

	parser.Close()
}

func TestParser_MultipleParses(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	sources := []struct {
		code     []byte
		language string
	}{
		{[]byte(`package main`), "go"},
		{[]byte(`def foo(): pass`), "python"},
		{[]byte(`function bar() {}`), "javascript"},
	}

	for _, src := range sources {
		tree, err := parser.Parse(context.Background(), src.code, src.language)
		require.NoError(t, err)
		require.NotNil(t, tree)
		assert.Equal(t, src.language, tree.Language)
	}
}

func TestParser_UnsupportedLanguage_ReturnsError(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	_, err := parser.Parse(context.Background(), []byte("whatever"), "cobol")
	require.Error(t, err)
}

// ============================================================================
// Performance Tests
// ============================================================================

func TestParser_Performance_Parse1000LOC(t *testing.T) {
	var code string
	for i := 0; i < 125; i++ {
		code += `func function` + string(rune('A'+i%26)) + `() {
	// Some code here
	x := 1
	y := 2
	z := x + y
	fmt.Println(z)
}

`
	}
	source := []byte("package main\n\n" + code)

	parser := NewParser()
	defer parser.Close()

	start := time.Now()
	tree, err := parser.Parse(context.Background(), source, "go")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.LessOrEqual(t, elapsed.Milliseconds(), int64(50), "parsing 1000+ LOC should take <= 50ms")
}

// ============================================================================
// Helper Functions
// ============================================================================

// findNodes recursively finds all nodes of the given type.
func findNodes(node *Node, nodeType string) []*Node {
	var result []*Node
	if node == nil {
		return result
	}

	if node.Type == nodeType {
		result = append(result, node)
	}

	for _, child := range node.Children {
		result = append(result, findNodes(child, nodeType)...)
	}

	return result
}
