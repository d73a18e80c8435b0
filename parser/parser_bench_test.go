package parser

import (
	"context"
	"os"
	"testing"
)

func BenchmarkLexExample(b *testing.B) {
	data, err := os.ReadFile("testdata/example.beancount")
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseExample(b *testing.B) {
	data, err := os.ReadFile("testdata/example.beancount")
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseBytes(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}
