package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// newCppParser creates a tree-sitter parser configured for C++.
func newCppParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	return parser, nil
}

// Node types used when reading function declarations.
const (
	nodeFunctionDeclarator = "function_declarator"
	nodeParameterList      = "parameter_list"
	nodeQualifiedID        = "qualified_identifier"
	nodeTemplateFunction   = "template_function"
	nodeError              = "ERROR"
)

// paramNodeTypes are the parameter_list children that declare a parameter.
// A bare "..." is an anonymous token and is not counted.
var paramNodeTypes = map[string]bool{
	"parameter_declaration":          true,
	"optional_parameter_declaration": true,
	"variadic_parameter_declaration": true,
}

// declaratorName returns the unqualified name declared by a function
// declarator's "declarator" field.
func declaratorName(r *ParseResult, node *sitter.Node) string {
	for node != nil {
		switch node.Type() {
		case "identifier", "field_identifier", "destructor_name", "operator_name":
			return r.NodeText(node)
		case nodeQualifiedID, nodeTemplateFunction:
			node = node.ChildByFieldName("name")
		case "pointer_declarator", "reference_declarator", "parenthesized_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

// countParams counts declared parameters. A list holding only "void" is
// empty.
func countParams(r *ParseResult, list *sitter.Node) int {
	if list == nil {
		return 0
	}
	var params []*sitter.Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		if paramNodeTypes[child.Type()] {
			params = append(params, child)
		}
	}
	if len(params) == 1 && params[0].Type() == "parameter_declaration" &&
		params[0].ChildByFieldName("declarator") == nil &&
		r.NodeText(params[0].ChildByFieldName("type")) == "void" {
		return 0
	}
	return len(params)
}
