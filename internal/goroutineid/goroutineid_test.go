package goroutineid

import (
	"sync"
	"testing"
)

func TestCurrent_NonZero(t *testing.T) {
	if id := Current(); id == 0 {
		t.Fatal("Expected non-zero goroutine id")
	}
}

func TestCurrent_StablePerGoroutine(t *testing.T) {
	a := Current()
	b := Current()
	if a != b {
		t.Fatalf("Id changed within one goroutine: %d then %d", a, b)
	}
}

func TestCurrent_DistinctAcrossGoroutines(t *testing.T) {
	main := Current()

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = Current()
		}()
	}
	wg.Wait()

	for i, id := range ids {
		if id == 0 {
			t.Fatalf("Goroutine %d: id not parsed", i)
		}
		if id == main {
			t.Fatalf("Goroutine %d: id collides with main goroutine", i)
		}
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		stack string
		want  int64
	}{
		{"running", "goroutine 42 [running]:\nmain.main()", 42},
		{"large id", "goroutine 123456789 [select]:", 123456789},
		{"no prefix", "panic: something", 0},
		{"empty", "", 0},
		{"prefix only", "goroutine ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseHeader([]byte(tt.stack)); got != tt.want {
				t.Fatalf("parseHeader(%q) = %d, want %d", tt.stack, got, tt.want)
			}
		})
	}
}
