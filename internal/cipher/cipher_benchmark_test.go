package cipher

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"
)

func benchText(n int) string {
	raw := make([]byte, n)
	rand.Read(raw)
	for i := range raw {
		raw[i] = 'A' + raw[i]%26
	}
	return string(raw)
}

// BenchmarkTransform benchmarks single-stage throughput per kind
func BenchmarkTransform(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"1KB", 1024},
		{"64KB", 64 * 1024},
		{"1MB", 1024 * 1024},
	}

	kinds := []struct {
		kind Kind
		key  string
	}{
		{KindCaesar, "7"},
		{KindVigenere, "LEMON"},
		{KindPlayfair, "MONARCHY"},
	}

	for _, k := range kinds {
		for _, size := range sizes {
			b.Run(string(k.kind)+"/"+size.name, func(b *testing.B) {
				text := benchText(size.size)
				c, err := New(k.kind, k.key)
				if err != nil {
					b.Fatalf("failed to build cipher: %v", err)
				}

				b.SetBytes(int64(size.size))
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					c.Transform(text, ModeEncrypt)
				}
			})
		}
	}
}

// BenchmarkCaesarWorkers benchmarks the chunked caesar stage across
// worker counts
func BenchmarkCaesarWorkers(b *testing.B) {
	const size = 1024 * 1024
	text := benchText(size)

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			p, err := NewPipeline([]Stage{{Kind: KindCaesar, Key: "7"}}, Options{Workers: workers})
			if err != nil {
				b.Fatalf("failed to build pipeline: %v", err)
			}

			b.SetBytes(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := p.Run(context.Background(), text, ModeEncrypt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkPipelineThreeStages benchmarks a full three-cipher pipeline
func BenchmarkPipelineThreeStages(b *testing.B) {
	const size = 64 * 1024
	text := benchText(size)

	p, err := NewPipeline([]Stage{
		{Kind: KindVigenere, Key: "LEMON"},
		{Kind: KindPlayfair, Key: "MONARCHY"},
		{Kind: KindCaesar, Key: "7"},
	}, Options{})
	if err != nil {
		b.Fatalf("failed to build pipeline: %v", err)
	}

	b.SetBytes(size)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := p.Run(context.Background(), text, ModeEncrypt); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNormalize benchmarks input normalization over mixed text
func BenchmarkNormalize(b *testing.B) {
	raw := make([]byte, 64*1024)
	rand.Read(raw)
	// Mix of letters, digits and bytes that normalization drops
	for i := range raw {
		raw[i] = ' ' + raw[i]%95
	}
	text := string(raw)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		Normalize(text)
	}
}
