package chunk

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// LanguageRegistry manages supported languages and their configurations.
type LanguageRegistry struct {
	mu          sync.RWMutex
	configs     map[string]*LanguageConfig
	extToLang   map[string]string
	tsLanguages map[string]*sitter.Language
}

// NewLanguageRegistry creates a registry with every built-in grammar
// registered.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		configs:     make(map[string]*LanguageConfig),
		extToLang:   make(map[string]string),
		tsLanguages: make(map[string]*sitter.Language),
	}

	r.registerGo()
	r.registerRust()
	r.registerPython()
	r.registerJavaScript()
	r.registerTypeScript()
	r.registerC()

	return r
}

// GetByExtension returns the language configuration for a file extension.
func (r *LanguageRegistry) GetByExtension(ext string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	langName, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	config, ok := r.configs[langName]
	return config, ok
}

// GetByName returns the language configuration by registry name.
func (r *LanguageRegistry) GetByName(name string) (*LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[name]
	return config, ok
}

// GetTreeSitterLanguage returns the tree-sitter grammar for a language name.
func (r *LanguageRegistry) GetTreeSitterLanguage(name string) (*sitter.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.tsLanguages[name]
	return lang, ok
}

// SupportedExtensions returns every registered extension.
func (r *LanguageRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

func (r *LanguageRegistry) registerLanguage(config *LanguageConfig, tsLang *sitter.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[config.Name] = config
	r.tsLanguages[config.Name] = tsLang
	for _, ext := range config.Extensions {
		r.extToLang[ext] = config.Name
	}
}

// firstChildOfType walks n's direct children and returns the content of the
// first child matching any of the given types.
func firstChildOfType(n *Node, source []byte, types ...string) string {
	for _, child := range n.Children {
		for _, t := range types {
			if child.Type == t {
				return child.GetContent(source)
			}
		}
	}
	return ""
}

func (r *LanguageRegistry) registerGo() {
	config := &LanguageConfig{
		Name:           "go",
		Extensions:     []string{".go"},
		FunctionTypes:  []string{"function_declaration"},
		MethodTypes:    []string{"method_declaration"},
		ContainerTypes: nil, // Go has no impl/class containers
		TypeTypes:      []string{"type_declaration"},
		ConstantTypes:  []string{"const_declaration"},
		ImportTypes:    []string{"import_spec"},
		NameExtractor: func(n *Node, source []byte) string {
			switch n.Type {
			case "function_declaration":
				return firstChildOfType(n, source, "identifier")
			case "method_declaration":
				return firstChildOfType(n, source, "field_identifier")
			case "type_declaration":
				if spec := n.FindChildByType("type_spec"); spec != nil {
					return firstChildOfType(spec, source, "type_identifier")
				}
				return ""
			case "const_declaration":
				if spec := n.FindChildByType("const_spec"); spec != nil {
					return firstChildOfType(spec, source, "identifier")
				}
				return ""
			}
			return ""
		},
		ImportNameExtractor: func(n *Node, source []byte) string {
			if path := n.FindChildByType("interpreted_string_literal"); path != nil {
				return strings.Trim(path.GetContent(source), `"`)
			}
			return ""
		},
	}
	r.registerLanguage(config, golang.GetLanguage())
}

func (r *LanguageRegistry) registerRust() {
	config := &LanguageConfig{
		Name:           "rust",
		Extensions:     []string{".rs"},
		FunctionTypes:  []string{"function_item"},
		MethodTypes:    []string{"function_item", "function_signature_item"},
		ContainerTypes: []string{"impl_item", "trait_item"},
		TypeTypes:      []string{"struct_item", "enum_item"},
		ImportTypes:    []string{"use_declaration"},
		NameExtractor: func(n *Node, source []byte) string {
			switch n.Type {
			case "function_item", "function_signature_item":
				return firstChildOfType(n, source, "identifier")
			case "impl_item":
				// `impl Trait for Type` or `impl Type`; the type being
				// implemented is the last type_identifier child.
				var last string
				for _, child := range n.Children {
					if child.Type == "type_identifier" || child.Type == "generic_type" {
						last = child.GetContent(source)
					}
				}
				return last
			case "trait_item", "struct_item", "enum_item":
				return firstChildOfType(n, source, "type_identifier")
			}
			return ""
		},
		ImportNameExtractor: func(n *Node, source []byte) string {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(n.GetContent(source), ";"), "use"))
		},
	}
	r.registerLanguage(config, rust.GetLanguage())
}

func (r *LanguageRegistry) registerPython() {
	config := &LanguageConfig{
		Name:           "python",
		Extensions:     []string{".py", ".pyi"},
		FunctionTypes:  []string{"function_definition"},
		MethodTypes:    []string{"function_definition"},
		ContainerTypes: []string{"class_definition"},
		ImportTypes:    []string{"import_statement", "import_from_statement"},
		NameExtractor: func(n *Node, source []byte) string {
			return firstChildOfType(n, source, "identifier")
		},
		ImportNameExtractor: func(n *Node, source []byte) string {
			return strings.TrimSpace(n.GetContent(source))
		},
	}
	r.registerLanguage(config, python.GetLanguage())
}

func jsLikeConfig(name string, extensions []string) *LanguageConfig {
	return &LanguageConfig{
		Name:           name,
		Extensions:     extensions,
		FunctionTypes:  []string{"function_declaration", "lexical_declaration", "variable_declaration"},
		MethodTypes:    []string{"method_definition"},
		ContainerTypes: []string{"class_declaration"},
		ImportTypes:    []string{"import_statement"},
		NameExtractor: func(n *Node, source []byte) string {
			if n.Type == "lexical_declaration" || n.Type == "variable_declaration" {
				if decl := n.FindChildByType("variable_declarator"); decl != nil {
					return firstChildOfType(decl, source, "identifier")
				}
				return ""
			}
			return firstChildOfType(n, source, "identifier", "type_identifier", "property_identifier")
		},
		ImportNameExtractor: func(n *Node, source []byte) string {
			if src := n.FindChildByType("string"); src != nil {
				return strings.Trim(src.GetContent(source), `"'`)
			}
			return ""
		},
		FunctionMatcher: func(n *Node) bool {
			if n.Type != "lexical_declaration" && n.Type != "variable_declaration" {
				return true
			}
			decl := n.FindChildByType("variable_declarator")
			if decl == nil {
				return false
			}
			return decl.FindChildByType("arrow_function") != nil || decl.FindChildByType("function_expression") != nil
		},
	}
}

func (r *LanguageRegistry) registerJavaScript() {
	r.registerLanguage(jsLikeConfig("javascript", []string{".js", ".mjs"}), javascript.GetLanguage())
	r.registerLanguage(jsLikeConfig("jsx", []string{".jsx"}), javascript.GetLanguage())
}

func (r *LanguageRegistry) registerTypeScript() {
	ts := jsLikeConfig("typescript", []string{".ts"})
	ts.TypeTypes = []string{"interface_declaration", "type_alias_declaration"}
	r.registerLanguage(ts, typescript.GetLanguage())

	tsxCfg := jsLikeConfig("tsx", []string{".tsx"})
	tsxCfg.TypeTypes = []string{"interface_declaration", "type_alias_declaration"}
	r.registerLanguage(tsxCfg, tsx.GetLanguage())
}

func (r *LanguageRegistry) registerC() {
	config := &LanguageConfig{
		Name:          "c",
		Extensions:    []string{".c", ".h"},
		FunctionTypes: []string{"function_definition"},
		TypeTypes:     []string{"struct_specifier", "enum_specifier"},
		ImportTypes:   []string{"preproc_include"},
		MacroTypes:    []string{"preproc_def", "preproc_function_def"},
		NameExtractor: func(n *Node, source []byte) string {
			switch n.Type {
			case "function_definition":
				if decl := n.FindChildByType("function_declarator"); decl != nil {
					return cDeclaratorName(decl, source)
				}
				// pointer return type: function_declarator nested inside
				// pointer_declarator
				for _, child := range n.Children {
					if name := cDeclaratorName(child, source); name != "" {
						return name
					}
				}
				return ""
			case "struct_specifier", "enum_specifier":
				return firstChildOfType(n, source, "type_identifier")
			case "preproc_def", "preproc_function_def":
				return firstChildOfType(n, source, "identifier")
			}
			return ""
		},
		ImportNameExtractor: func(n *Node, source []byte) string {
			if path := n.FindChildByType("string_literal"); path != nil {
				return strings.Trim(path.GetContent(source), `"`)
			}
			if path := n.FindChildByType("system_lib_string"); path != nil {
				return strings.Trim(path.GetContent(source), "<>")
			}
			return ""
		},
	}
	r.registerLanguage(config, c.GetLanguage())
}

// cDeclaratorName recursively unwraps pointer_declarator/function_declarator
// nesting (e.g. `char *foo(int x)`) to find the innermost identifier.
func cDeclaratorName(n *Node, source []byte) string {
	if n.Type == "identifier" {
		return n.GetContent(source)
	}
	for _, child := range n.Children {
		if name := cDeclaratorName(child, source); name != "" {
			return name
		}
	}
	return ""
}

var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the process-wide language registry.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
