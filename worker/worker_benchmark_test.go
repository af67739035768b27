package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

const mailTemplate = "Hello %s,\n\nconfirm your address by opening https://photogram.local/users/confirm?token=%s\n"

func renderMail(_ context.Context, i int) {
	var b strings.Builder
	fmt.Fprintf(&b, mailTemplate, fmt.Sprintf("user%04d", i), "b7b0a9c4-0a8f-4a31-b0a8-5b43f0c1d2e3")
	_ = b.String()
}

func Benchmark_BlockingPool_RenderMail(b *testing.B) {
	for _, size := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("pool_size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			jobs := make(chan int, 256)

			b.ResetTimer()
			go func(n int) {
				for i := range n {
					jobs <- i
				}
				close(jobs)
			}(b.N)

			BlockingPool(context.Background(), size, jobs, renderMail)
		})
	}
}

func Benchmark_Direct_RenderMail(b *testing.B) {
	b.ReportAllocs()
	ctx := context.Background()
	i := 0
	for b.Loop() {
		renderMail(ctx, i)
		i++
	}
}
