package logging

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	const goroutines = 8

	var wg sync.WaitGroup
	got := make([]*zap.SugaredLogger, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
			Info("concurrent logger access", "goroutine", i)
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil {
			t.Fatalf("goroutine %d got a nil logger", i)
		}
		if l != got[0] {
			t.Errorf("goroutine %d got a different logger instance", i)
		}
	}
}
