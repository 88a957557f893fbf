package syntax

// Kind identifies the syntactic category of a green node. Kinds are laid out
// in three contiguous ranges: trivia, tokens, then nodes.
type Kind uint16

const (
	KindNone Kind = iota

	// Trivia
	KindWhitespaceTrivia
	KindEndOfLineTrivia
	KindLineCommentTrivia
	KindBlockCommentTrivia
	KindDocCommentTrivia
	KindSkippedTokensTrivia
	kindLastTrivia

	// Tokens
	KindEOF
	KindBadToken
	KindIdentifier
	KindIntLiteral
	KindFloatLiteral
	KindCharLiteral
	KindStringLiteral
	KindTrue
	KindFalse
	KindNull

	// Keywords
	KindAbstract
	KindBoolean
	KindChar
	KindClass
	KindDouble
	KindElse
	KindExtends
	KindFinal
	KindIf
	KindImplements
	KindImport
	KindInt
	KindInterface
	KindLong
	KindNew
	KindPackage
	KindPrivate
	KindProtected
	KindPublic
	KindReturn
	KindStatic
	KindThis
	KindVoid
	KindWhile

	// Punctuation and operators
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindSemicolon
	KindComma
	KindDot
	KindAssign
	KindEQ
	KindNE
	KindLT
	KindLE
	KindGT
	KindGE
	KindAnd
	KindOr
	KindNot
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent

	// Documentation comment tokens, found inside DocComment structures
	KindDocCommentStart
	KindDocCommentEnd
	KindDocText
	KindDocTagName
	kindLastToken

	// Nodes
	KindList
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindQualifiedName
	KindClassDecl
	KindInterfaceDecl
	KindExtendsClause
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindParameters
	KindParameter
	KindType
	KindArrayType
	KindVariableDeclarator
	KindInitializer
	KindBlock
	KindLocalVarDecl
	KindExprStmt
	KindReturnStmt
	KindIfStmt
	KindElseClause
	KindWhileStmt
	KindEmptyStmt
	KindAssignExpr
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindArguments
	KindFieldAccess
	KindNewExpr
	KindParenExpr
	KindLiteral
	KindName
	KindThisExpr
	KindDocComment
	KindSkippedTokens
	kindLastNode
)

var kindNames = map[Kind]string{
	KindNone:                "None",
	KindWhitespaceTrivia:    "WhitespaceTrivia",
	KindEndOfLineTrivia:     "EndOfLineTrivia",
	KindLineCommentTrivia:   "LineCommentTrivia",
	KindBlockCommentTrivia:  "BlockCommentTrivia",
	KindDocCommentTrivia:    "DocCommentTrivia",
	KindSkippedTokensTrivia: "SkippedTokensTrivia",
	KindEOF:                 "EOF",
	KindBadToken:            "BadToken",
	KindIdentifier:          "Identifier",
	KindIntLiteral:          "IntLiteral",
	KindFloatLiteral:        "FloatLiteral",
	KindCharLiteral:         "CharLiteral",
	KindStringLiteral:       "StringLiteral",
	KindTrue:                "true",
	KindFalse:               "false",
	KindNull:                "null",
	KindAbstract:            "abstract",
	KindBoolean:             "boolean",
	KindChar:                "char",
	KindClass:               "class",
	KindDouble:              "double",
	KindElse:                "else",
	KindExtends:             "extends",
	KindFinal:               "final",
	KindIf:                  "if",
	KindImplements:          "implements",
	KindImport:              "import",
	KindInt:                 "int",
	KindInterface:           "interface",
	KindLong:                "long",
	KindNew:                 "new",
	KindPackage:             "package",
	KindPrivate:             "private",
	KindProtected:           "protected",
	KindPublic:              "public",
	KindReturn:              "return",
	KindStatic:              "static",
	KindThis:                "this",
	KindVoid:                "void",
	KindWhile:               "while",
	KindLParen:              "(",
	KindRParen:              ")",
	KindLBrace:              "{",
	KindRBrace:              "}",
	KindLBracket:            "[",
	KindRBracket:            "]",
	KindSemicolon:           ";",
	KindComma:               ",",
	KindDot:                 ".",
	KindAssign:              "=",
	KindEQ:                  "==",
	KindNE:                  "!=",
	KindLT:                  "<",
	KindLE:                  "<=",
	KindGT:                  ">",
	KindGE:                  ">=",
	KindAnd:                 "&&",
	KindOr:                  "||",
	KindNot:                 "!",
	KindPlus:                "+",
	KindMinus:               "-",
	KindStar:                "*",
	KindSlash:               "/",
	KindPercent:             "%",
	KindDocCommentStart:     "DocCommentStart",
	KindDocCommentEnd:       "DocCommentEnd",
	KindDocText:             "DocText",
	KindDocTagName:          "DocTagName",
	KindList:                "List",
	KindCompilationUnit:     "CompilationUnit",
	KindPackageDecl:         "PackageDecl",
	KindImportDecl:          "ImportDecl",
	KindQualifiedName:       "QualifiedName",
	KindClassDecl:           "ClassDecl",
	KindInterfaceDecl:       "InterfaceDecl",
	KindExtendsClause:       "ExtendsClause",
	KindFieldDecl:           "FieldDecl",
	KindMethodDecl:          "MethodDecl",
	KindConstructorDecl:     "ConstructorDecl",
	KindParameters:          "Parameters",
	KindParameter:           "Parameter",
	KindType:                "Type",
	KindArrayType:           "ArrayType",
	KindVariableDeclarator:  "VariableDeclarator",
	KindInitializer:         "Initializer",
	KindBlock:               "Block",
	KindLocalVarDecl:        "LocalVarDecl",
	KindExprStmt:            "ExprStmt",
	KindReturnStmt:          "ReturnStmt",
	KindIfStmt:              "IfStmt",
	KindElseClause:          "ElseClause",
	KindWhileStmt:           "WhileStmt",
	KindEmptyStmt:           "EmptyStmt",
	KindAssignExpr:          "AssignExpr",
	KindBinaryExpr:          "BinaryExpr",
	KindUnaryExpr:           "UnaryExpr",
	KindCallExpr:            "CallExpr",
	KindArguments:           "Arguments",
	KindFieldAccess:         "FieldAccess",
	KindNewExpr:             "NewExpr",
	KindParenExpr:           "ParenExpr",
	KindLiteral:             "Literal",
	KindName:                "Name",
	KindThisExpr:            "ThisExpr",
	KindDocComment:          "DocComment",
	KindSkippedTokens:       "SkippedTokens",
}

// variadic marks kinds whose slot count is not fixed.
const variadic = -1

// kindSlots is the slot arity of each node kind. Nodes built with a
// different number of slots violate the construction contract.
var kindSlots = map[Kind]int{
	KindList:               variadic,
	KindCompilationUnit:    4, // package, imports, types, eof
	KindPackageDecl:        3, // package, name, ;
	KindImportDecl:         4, // import, static, name, ;
	KindQualifiedName:      3, // left, ., right
	KindClassDecl:          7, // modifiers, class, name, extends, {, members, }
	KindInterfaceDecl:      6, // modifiers, interface, name, {, members, }
	KindExtendsClause:      2, // extends, type
	KindFieldDecl:          4, // modifiers, type, declarators, ;
	KindMethodDecl:         5, // modifiers, type, name, parameters, body
	KindConstructorDecl:    4, // modifiers, name, parameters, body
	KindParameters:         3, // (, list, )
	KindParameter:          3, // modifiers, type, name
	KindType:               1, // keyword or name
	KindArrayType:          3, // element, [, ]
	KindVariableDeclarator: 2, // name, initializer
	KindInitializer:        2, // =, expr
	KindBlock:              3, // {, statements, }
	KindLocalVarDecl:       3, // type, declarators, ;
	KindExprStmt:           2, // expr, ;
	KindReturnStmt:         3, // return, expr, ;
	KindIfStmt:             6, // if, (, cond, ), then, else
	KindElseClause:         2, // else, stmt
	KindWhileStmt:          5, // while, (, cond, ), body
	KindEmptyStmt:          1, // ;
	KindAssignExpr:         3, // left, =, right
	KindBinaryExpr:         3, // left, op, right
	KindUnaryExpr:          2, // op, operand
	KindCallExpr:           2, // callee, arguments
	KindArguments:          3, // (, list, )
	KindFieldAccess:        3, // expr, ., name
	KindNewExpr:            3, // new, type, arguments
	KindParenExpr:          3, // (, expr, )
	KindLiteral:            1,
	KindName:               1,
	KindThisExpr:           1,
	KindDocComment:         3, // /**, elements, */
	KindSkippedTokens:      variadic,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k Kind) IsTrivia() bool {
	return k > KindNone && k < kindLastTrivia
}

func (k Kind) IsToken() bool {
	return k > kindLastTrivia && k < kindLastToken
}

func (k Kind) IsNode() bool {
	return k > kindLastToken && k < kindLastNode
}

// IsStructuredTrivia reports whether trivia of this kind carries a node.
func (k Kind) IsStructuredTrivia() bool {
	return k == KindDocCommentTrivia || k == KindSkippedTokensTrivia
}

func (k Kind) IsKeyword() bool {
	return k >= KindAbstract && k <= KindWhile
}

// Arity returns the number of slots nodes of this kind have, or -1 when
// the kind accepts any number of slots.
func (k Kind) Arity() int {
	if n, ok := kindSlots[k]; ok {
		return n
	}
	return variadic
}

var keywords = map[string]Kind{
	"abstract":   KindAbstract,
	"boolean":    KindBoolean,
	"char":       KindChar,
	"class":      KindClass,
	"double":     KindDouble,
	"else":       KindElse,
	"extends":    KindExtends,
	"final":      KindFinal,
	"if":         KindIf,
	"implements": KindImplements,
	"import":     KindImport,
	"int":        KindInt,
	"interface":  KindInterface,
	"long":       KindLong,
	"new":        KindNew,
	"package":    KindPackage,
	"private":    KindPrivate,
	"protected":  KindProtected,
	"public":     KindPublic,
	"return":     KindReturn,
	"static":     KindStatic,
	"this":       KindThis,
	"void":       KindVoid,
	"while":      KindWhile,
	"true":       KindTrue,
	"false":      KindFalse,
	"null":       KindNull,
}

// LookupKeyword returns the keyword kind for ident, or KindIdentifier.
func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdentifier
}

// FixedText returns the text every token of kind k has, or "" when tokens
// of that kind carry arbitrary text. Missing tokens use it for display only.
func (k Kind) FixedText() string {
	if k.IsKeyword() || (k >= KindLParen && k <= KindPercent) || k == KindTrue || k == KindFalse || k == KindNull {
		return kindNames[k]
	}
	return ""
}
