package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006

	// Синтаксис вызовов макросов
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectDelimiter   Code = 2003
	SynUnbalancedClose   Code = 2004

	// Раскрытие макросов
	ExpInfo            Code = 6000
	ExpUnexpectedToken Code = 6001
	ExpUnresolved      Code = 6002
	ExpUserMacro       Code = 6003
	ExpTimings         Code = 6004
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexTokenTooLong:             "Token too long",
	LexUnterminatedChar:         "Unterminated character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectDelimiter:          "Expected delimited macro arguments",
	SynUnbalancedClose:          "Unbalanced closing delimiter",
	ExpInfo:                     "Expansion information",
	ExpUnexpectedToken:          "Macro invocation lacks required arguments",
	ExpUnresolved:               "Unresolved macro",
	ExpUserMacro:                "User macro left unexpanded",
	ExpTimings:                  "Expansion timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("EXP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
