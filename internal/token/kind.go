package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier or keyword (including raw identifiers r#name).
	Ident
	// Lifetime represents a lifetime or label such as 'a.
	Lifetime

	// IntLit represents an integer literal, optionally suffixed (1u8).
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents "..." and b"..." literals.
	StringLit
	// RawStringLit represents r"..." / r#"..."# and br"..." literals.
	RawStringLit
	// CharLit represents '...' and b'...' literals.
	CharLit

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Caret      // ^
	Bang       // !
	Amp        // &
	Pipe       // |
	AndAnd     // &&
	OrOr       // ||
	Shl        // <<
	Shr        // >>
	PlusEq     // +=
	MinusEq    // -=
	StarEq     // *=
	SlashEq    // /=
	PercentEq  // %=
	CaretEq    // ^=
	AmpEq      // &=
	PipeEq     // |=
	ShlEq      // <<=
	ShrEq      // >>=
	Eq         // =
	EqEq       // ==
	BangEq     // !=
	Gt         // >
	Lt         // <
	GtEq       // >=
	LtEq       // <=
	At         // @
	Underscore // _
	Dot        // .
	DotDot     // ..
	DotDotDot  // ...
	DotDotEq   // ..=
	Comma      // ,
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Arrow      // ->
	FatArrow   // =>
	Pound      // #
	Dollar     // $
	Question   // ?
	Tilde      // ~

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	Lifetime:     "Lifetime",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",
	RawStringLit: "RawStringLit",
	CharLit:      "CharLit",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Caret:        "^",
	Bang:         "!",
	Amp:          "&",
	Pipe:         "|",
	AndAnd:       "&&",
	OrOr:         "||",
	Shl:          "<<",
	Shr:          ">>",
	PlusEq:       "+=",
	MinusEq:      "-=",
	StarEq:       "*=",
	SlashEq:      "/=",
	PercentEq:    "%=",
	CaretEq:      "^=",
	AmpEq:        "&=",
	PipeEq:       "|=",
	ShlEq:        "<<=",
	ShrEq:        ">>=",
	Eq:           "=",
	EqEq:         "==",
	BangEq:       "!=",
	Gt:           ">",
	Lt:           "<",
	GtEq:         ">=",
	LtEq:         "<=",
	At:           "@",
	Underscore:   "_",
	Dot:          ".",
	DotDot:       "..",
	DotDotDot:    "...",
	DotDotEq:     "..=",
	Comma:        ",",
	Semicolon:    ";",
	Colon:        ":",
	ColonColon:   "::",
	Arrow:        "->",
	FatArrow:     "=>",
	Pound:        "#",
	Dollar:       "$",
	Question:     "?",
	Tilde:        "~",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	LBracket:     "[",
	RBracket:     "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsOpenDelim reports whether k opens a delimited group.
func (k Kind) IsOpenDelim() bool {
	return k == LParen || k == LBrace || k == LBracket
}

// IsCloseDelim reports whether k closes a delimited group.
func (k Kind) IsCloseDelim() bool {
	return k == RParen || k == RBrace || k == RBracket
}

// Closer returns the closing delimiter matching an opening one, or Invalid.
func (k Kind) Closer() Kind {
	switch k {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	default:
		return Invalid
	}
}
