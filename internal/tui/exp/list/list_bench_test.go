package list

import (
	"fmt"
	"testing"
)

type benchData struct{ rev int }

func benchRow(index int, style Style, data *benchData) Row {
	return Row{Content: fmt.Sprintf("This is row %d at revision %d", index, data.rev)}
}

func newBenchList(size int) *list[*benchData] {
	return New(size, 1, benchRow,
		WithSize[*benchData](80, 30),
		WithData(&benchData{}),
	).(*list[*benchData])
}

// BenchmarkListRender benchmarks a render pass where nothing changed
func BenchmarkListRender(b *testing.B) {
	sizes := []int{100, 1002, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l := newBenchList(size)
			l.Init()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.render()
			}
		})
	}
}

// BenchmarkListSetData benchmarks re-rendering every mounted row
func BenchmarkListSetData(b *testing.B) {
	sizes := []int{100, 1002, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l := newBenchList(size)
			l.Init()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.SetData(&benchData{rev: i})
			}
		})
	}
}

// BenchmarkListScroll benchmarks scrolling performance
func BenchmarkListScroll(b *testing.B) {
	sizes := []int{100, 1002, 10000, 100000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			l := newBenchList(size)
			l.Init()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.MoveDown(10)
				l.MoveUp(10)
			}
		})
	}
}

// BenchmarkListMemory benchmarks memory allocation
func BenchmarkListMemory(b *testing.B) {
	sizes := []int{100, 1002, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				l := newBenchList(size)
				l.Init()
				_ = l.View()
			}
		})
	}
}
