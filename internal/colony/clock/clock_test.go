package clock

import (
	"testing"
	"time"
)

func TestManual_只能向前拨(t *testing.T) {
	c := NewManual(1000)
	if got := c.Advance(1500 * time.Millisecond); got != 2500 {
		t.Fatalf("now=%d want 2500", got)
	}
	c.Set(2000)
	if got := c.NowMs(); got != 2500 {
		t.Fatalf("回拨应被忽略，now=%d", got)
	}
	c.Advance(-time.Second)
	if got := c.NowMs(); got != 2500 {
		t.Fatalf("负数应被忽略，now=%d", got)
	}
}
