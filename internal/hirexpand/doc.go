// Package hirexpand resolves macro call sites and expands the builtin
// function-like macros line!, column!, file! and stringify!.
//
// Builtins are recognised by name through a fixed registry (FindBuiltinMacro)
// and expanded directly into token trees, without any pattern-matching
// engine. Every builtin output is an undelimited subtree holding exactly one
// literal.
//
// Expansion is pure: all state (call interning, parse trees, memoized results)
// lives behind the AstDatabase interface implemented by internal/db.
package hirexpand
