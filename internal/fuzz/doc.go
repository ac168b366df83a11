// Package fuzztests houses Go fuzz harnesses for the expansion pipeline
// (source -> lexer -> parser -> resolve -> builtin expansion). They guard
// against panics and hangs on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер и
// раскрытие встроенных макросов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
