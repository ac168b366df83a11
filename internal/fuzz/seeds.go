package fuzztests

import "testing"

// maxFuzzInput ограничивает размер входа, чтобы прогон не упирался в память.
const maxFuzzInput = 1 << 16 // 64 KiB

var seeds = []string{
	"",
	"line!()",
	"column![]",
	"file!{}",
	"stringify!(a + b)",
	"std::stringify!(  spaced  )",
	"let bad = line!;",
	"macro_rules! line { () => { 0 } }\nline!()",
	"stringify!(unclosed",
	"m!(a ] b)",
	"r#line!() ::core::file!()",
	"fn main() {\n    println!(\"{}\", line!());\n}\n",
	"let s = \"line!()\"; // column!()\n/* file!() */",
	"let c = 'x'; let l = 'a; br\"x\" r#\"raw\"#",
	"stringify!(💥 ü)",
	"\xff\xfe line!()",
}

func addSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
