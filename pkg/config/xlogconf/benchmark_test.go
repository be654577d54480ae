package xlogconf

import (
	"testing"
)

func BenchmarkParseDocument(b *testing.B) {
	data := []byte(sampleYAML)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseDocument(data, FormatYAML); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble(b *testing.B) {
	doc := &Document{
		Formatters: []FormatterSettings{{ID: "plain", Kind: FormatterText}},
		Appenders:  []AppenderSettings{{ID: "console", Kind: AppenderConsole, FormatterID: "plain"}},
		Loggers:    []LoggerSettings{{Name: "app", Level: "Info", AppenderIDs: []string{"console"}}},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := Assemble(doc)
		if err != nil {
			b.Fatal(err)
		}
		if err := a.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
