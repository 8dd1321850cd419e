package domain

// SyntaxNode is a read-only view of one node in a parsed syntax tree.
// Lines are 1-based.
type SyntaxNode interface {
	Kind() string
	StartLine() int
	EndLine() int
	StartColumn() int
	Text() string
	Children() []SyntaxNode
	// Field returns the child stored under a grammar field name, or nil.
	Field(name string) SyntaxNode
	// Span returns the node's byte offsets; it identifies the node within its tree.
	Span() (start, end int)
}

// SyntaxTree is a parsed source file.
type SyntaxTree struct {
	File   string
	Source []byte
	Root   SyntaxNode
	// SyntaxError is set when the parser had to recover from invalid input.
	SyntaxError *SyntaxError
}

// SyntaxError locates the first parse error in a file.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string { return e.Message }
