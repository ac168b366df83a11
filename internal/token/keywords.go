package token

var keywords = map[string]struct{}{
	"as": {}, "async": {}, "await": {}, "break": {}, "const": {}, "continue": {}, "crate": {},
	"dyn": {}, "else": {}, "enum": {}, "extern": {}, "false": {}, "fn": {}, "for": {}, "if": {},
	"impl": {}, "in": {}, "let": {}, "loop": {}, "match": {}, "mod": {}, "move": {}, "mut": {},
	"pub": {}, "ref": {}, "return": {}, "self": {}, "Self": {}, "static": {}, "struct": {},
	"super": {}, "trait": {}, "true": {}, "type": {}, "unsafe": {}, "use": {}, "where": {},
	"while": {},
}

// LookupKeyword сообщает, является ли идентификатор строгим ключевым словом.
// Регистр важен; сырые идентификаторы (r#fn) ключевыми словами не считаются.
func LookupKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
