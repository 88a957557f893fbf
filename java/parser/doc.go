// Package parser provides an error-tolerant parser for a subset of Java
// that produces full-fidelity green syntax trees.
//
// # Overview
//
// Parsing runs in two stages. The lexer splits the input into tokens and
// trivia, and the parser reads the tokens with a recursive-descent
// grammar, emitting nodes through a syntax.Builder.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  (tokens,   │     │  (green     │
//	└─────────────┘     │   trivia)   │     │   tree)     │
//	                    └─────────────┘     └─────────────┘
//
// The tree keeps every byte of the input. Whitespace, line breaks and
// comments become trivia attached to tokens: a token owns the trivia
// after it up to and including the first line break, and the next token
// owns the rest.
//
// # Error Recovery
//
// The parser never fails and never panics on malformed input:
//
//  1. A token the grammar requires but the input lacks is inserted as a
//     zero-width missing token carrying an "expected ..." diagnostic.
//  2. Tokens that cannot start anything at the current position are set
//     aside and attached to the next token as SkippedTokensTrivia, with
//     an "unexpected ..." diagnostic.
//  3. A class or interface without an opening brace gets no body, so a
//     following declaration is not swallowed as a member.
//
// For example, "class class A { }" parses as two class declarations, the
// first with a missing name, missing braces and no members.
//
// # Grammar
//
// The accepted subset covers package and import declarations, classes
// with extends, interfaces, fields, methods and constructors; block,
// local variable, expression, return, if/else and while statements; and
// assignment, binary, unary, call, field access, new, parenthesized,
// literal, name and this expressions.
//
// Documentation comments (/** ... */) are parsed into DocComment nodes
// held in DocCommentTrivia, splitting out block tags such as @param.
//
// # Example Usage
//
//	green := parser.Parse("class Main { int x = 1; }")
//	root := syntax.NewRoot(green)
//	for _, d := range root.Diagnostics() {
//	    fmt.Println(d)
//	}
package parser
