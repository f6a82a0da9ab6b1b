package chunk

import "context"

// Kind identifies the structural role a chunk plays in its source file.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindContainer Kind = "container" // impl/class/trait/interface/module header
	KindType      Kind = "type"      // struct/enum/type-alias
	KindConstant  Kind = "constant"
	KindImport    Kind = "import"
	KindMacro     Kind = "macro" // C preprocessor: #define, function-like macros
	KindRaw       Kind = "raw"   // unsupported language or parse failure fallback
)

// ContainerPreviewLines bounds how much of a container's body (impl/class/
// trait/interface block) is captured in its own signature-only chunk; the
// rest of the container's members are emitted as independent child chunks.
const ContainerPreviewLines = 3

// Chunk is one structural unit extracted from a source file.
type Chunk struct {
	FilePath string
	Language string
	Kind     Kind

	// Name is the symbol identifier, e.g. a function or type name. Empty
	// for raw chunks and for imports whose target could not be derived.
	Name string

	// Occurrence distinguishes chunks that share the same (FilePath, Kind,
	// Name) tuple, e.g. two same-named methods on different containers.
	// 0 for the first occurrence.
	Occurrence int

	// Signature is the declaration head: the text from declaration start
	// up to (but not including) the first opening brace, which for
	// functions/methods stops before the body, for brace-delimited
	// containers gives the header, and for types stops at the field/body
	// region. A declaration with no brace (Python def/class, C macros,
	// Rust trait method signatures) keeps its whole trimmed text, body
	// included. Empty for imports and raw chunks.
	Signature string

	// Content is the chunk's exact source span (or, for containers, the
	// first ContainerPreviewLines lines of the container).
	Content string

	StartLine int // 1-indexed, inclusive
	EndLine   int // 1-indexed, inclusive
	StartByte uint32
	EndByte   uint32
}

// FileInput is the input to a Chunker.
type FileInput struct {
	Path     string
	Content  []byte
	Language string // registry language name; empty or unknown triggers raw fallback
}

// Chunker splits a file into structural chunks.
type Chunker interface {
	Chunk(ctx context.Context, file *FileInput) ([]*Chunk, error)
	SupportedExtensions() []string
}

// Tree is a parsed AST.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
}

// Node is a node in the AST, decoupled from the underlying tree-sitter
// bindings so extraction logic never touches *sitter.Node directly.
type Node struct {
	Type       string
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
	Children   []*Node
	HasError   bool
}

// Point is a position in the source.
type Point struct {
	Row    uint32 // 0-indexed
	Column uint32
}

// GetContent returns the node's exact source span.
func (n *Node) GetContent(source []byte) string {
	if n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

// FindChildByType returns the first direct child with the given type.
func (n *Node) FindChildByType(nodeType string) *Node {
	for _, child := range n.Children {
		if child.Type == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType returns all direct children with the given type.
func (n *Node) FindChildrenByType(nodeType string) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Type == nodeType {
			result = append(result, child)
		}
	}
	return result
}

// FindAllByType recursively finds all descendant nodes (including n itself)
// with the given type.
func (n *Node) FindAllByType(nodeType string) []*Node {
	var result []*Node
	if n.Type == nodeType {
		result = append(result, n)
	}
	for _, child := range n.Children {
		result = append(result, child.FindAllByType(nodeType)...)
	}
	return result
}

// Walk traverses the tree depth-first, calling fn for each node. fn returns
// false to stop descending into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// LanguageConfig holds the per-language node-type table a Chunker uses to
// classify tree-sitter nodes into chunk kinds.
type LanguageConfig struct {
	Name       string
	Extensions []string

	FunctionTypes  []string // top-level function-like nodes
	MethodTypes    []string // function-like nodes found inside a container
	ContainerTypes []string // impl/class/trait/interface/module blocks
	TypeTypes      []string // struct/enum/type-alias declarations
	ConstantTypes  []string // top-level constant declarations (Go only)
	ImportTypes    []string // use/import/require/include statements
	MacroTypes     []string // preprocessor macro definitions (C only)

	// NameExtractor pulls the declared symbol name out of a matched node.
	// Required for every kind except raw fallback.
	NameExtractor func(n *Node, source []byte) string

	// ImportNameExtractor pulls the imported identifier/path out of an
	// import node, when derivable.
	ImportNameExtractor func(n *Node, source []byte) string

	// FunctionMatcher further filters a FunctionTypes/MethodTypes match,
	// for node types that only sometimes hold a function (JS/TS
	// `const foo = () => {}` is a lexical_declaration, most of which are
	// not functions at all). Nil means every matched node qualifies.
	FunctionMatcher func(n *Node) bool
}
