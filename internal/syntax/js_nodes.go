// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

// JavaScript tree-sitter node type constants. The Extractor dispatches
// on these via node.Type() comparisons rather than tree-sitter query
// strings, so every node shape it cares about is named here.
const (
	JSProgram                     = "program"
	JSExpressionStatement         = "expression_statement"
	JSCallExpression              = "call_expression"
	JSMemberExpression            = "member_expression"
	JSSubscriptExpression         = "subscript_expression"
	JSNewExpression               = "new_expression"
	JSIdentifier                  = "identifier"
	JSPropertyIdentifier          = "property_identifier"
	JSShorthandPropertyIdentifier = "shorthand_property_identifier"
	JSThis                        = "this"
	JSString                      = "string"
	JSStringFragment              = "string_fragment"
	JSTemplateString              = "template_string"
	JSNumber                      = "number"
	JSTrue                        = "true"
	JSFalse                       = "false"
	JSNull                        = "null"
	JSUndefined                   = "undefined"
	JSArguments                   = "arguments"
	JSArray                       = "array"
	JSObject                      = "object"
	JSPair                        = "pair"
	JSSpreadElement               = "spread_element"
	JSRestPattern                 = "rest_pattern"
	JSFunction                    = "function"
	JSFunctionExpression          = "function_expression"
	JSFunctionDeclaration         = "function_declaration"
	JSArrowFunction               = "arrow_function"
	JSFormalParameters            = "formal_parameters"
	JSVariableDeclaration         = "variable_declaration"
	JSLexicalDeclaration          = "lexical_declaration"
	JSVariableDeclarator          = "variable_declarator"
	JSAssignmentExpression        = "assignment_expression"
	JSClass                       = "class"
	JSClassDeclaration            = "class_declaration"
	JSClassBody                   = "class_body"
	JSMethodDefinition            = "method_definition"
	JSFieldDefinition             = "field_definition"
	JSPropertyIdentifierField     = "property_identifier"
	JSStatementBlock              = "statement_block"
	JSReturnStatement             = "return_statement"
	JSComment                     = "comment"
	JSProgramError                = "ERROR"
)

// JavaScriptDIArrayShape is the node-type signature of the array-DSL
// dependency injection form:
//
//	['$scope', '$http', function($scope, $http) { ... }]
//
// The last array element is a JSFunction/JSFunctionExpression; every
// element before it is a JSString naming a dependency.
const JavaScriptDIArrayShape = JSArray
