package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected request to be denied once bucket is empty")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 10*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("Expected first request to be allowed")
	}
	if tb.Allow() {
		t.Fatal("Expected second request to be denied")
	}

	time.Sleep(15 * time.Millisecond)

	if !tb.Allow() {
		t.Error("Expected request to be allowed after refill period")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	tb.Allow()
	if tb.Allow() {
		t.Fatal("Expected bucket to be empty")
	}

	tb.Reset()

	if !tb.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestUnlimitedNeverBlocks(t *testing.T) {
	var l Limiter = Unlimited{}

	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("Unlimited limiter should always allow")
		}
	}
	l.Wait()
	l.Reset()
}
