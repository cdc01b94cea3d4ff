package aierrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(KindModelNotFound, "unknown model")
	if KindOf(err) != KindModelNotFound {
		t.Fatalf("unexpected kind: %v", KindOf(err))
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if KindOf(wrapped) != KindModelNotFound {
		t.Fatalf("kind must survive wrapping, got %v", KindOf(wrapped))
	}
	// Foreign errors get classified on the fly.
	if KindOf(errors.New("invalid api key")) != KindAuth {
		t.Fatalf("foreign errors must be classified")
	}
	if KindOf(nil) != Kind("") {
		t.Fatalf("nil must report an empty kind")
	}
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	orig := New(KindAuth, "bad key")
	if got := Classify(orig); got != orig {
		t.Fatalf("classified error must pass through unchanged")
	}
	if Classify(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestClassifyContextErrors(t *testing.T) {
	if KindOf(Classify(context.Canceled)) != KindCancelled {
		t.Fatalf("context.Canceled must classify as cancelled")
	}
	if KindOf(Classify(context.DeadlineExceeded)) != KindTimeout {
		t.Fatalf("context.DeadlineExceeded must classify as timeout")
	}
	wrapped := fmt.Errorf("dispatch: %w", context.Canceled)
	if !IsCancelled(Classify(wrapped)) {
		t.Fatalf("wrapped cancellation must classify as cancelled")
	}
}

func TestClassifyMessagePatterns(t *testing.T) {
	cases := []struct {
		msg  string
		want Kind
	}{
		{"Invalid API key provided", KindAuth},
		{"401 Unauthorized", KindAuth},
		{"upstream gateway timeout", KindTimeout},
		{"request timed out after 30s", KindTimeout},
		{"connection reset by peer", KindRemote},
		{"model overloaded, try again", KindRemote},
	}
	for _, tc := range cases {
		if got := KindOf(Classify(errors.New(tc.msg))); got != tc.want {
			t.Fatalf("Classify(%q) kind = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := errors.New("invalid api key: sk-...")
	classified := Classify(cause)
	if !errors.Is(classified, cause) {
		t.Fatalf("classified error must wrap its cause")
	}
}

func TestHumanMessage(t *testing.T) {
	if HumanMessage(nil) != "" {
		t.Fatalf("nil must render empty")
	}
	got := HumanMessage(New(KindAlreadyInProgress, "slot busy"))
	if got != HumanMessages[KindAlreadyInProgress] {
		t.Fatalf("unexpected message: %q", got)
	}
	// Unclassified errors fall back to the generic string.
	got = HumanMessage(errors.New("weird internal state"))
	if got != HumanMessages[KindUnknown] {
		t.Fatalf("unexpected fallback message: %q", got)
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsTimeout(New(KindTimeout, "t")) {
		t.Fatalf("IsTimeout failed")
	}
	if IsTimeout(New(KindCancelled, "c")) {
		t.Fatalf("IsTimeout must not match cancelled")
	}
	if !IsCancelled(fmt.Errorf("wrap: %w", New(KindCancelled, "c"))) {
		t.Fatalf("IsCancelled must see through wrapping")
	}
}
