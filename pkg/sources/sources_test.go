package sources

import "testing"

func TestExtractSplitsTrailingBlock(t *testing.T) {
	text := "The answer is 42.\n\n**Sources:**\n[1] Hitchhiker's Guide: https://example.com/guide\n[2] Deep Thought: https://example.com/dt"

	cleaned, srcs := Extract(text)
	if cleaned != "The answer is 42." {
		t.Fatalf("unexpected cleaned text: %q", cleaned)
	}
	if len(srcs) != 2 {
		t.Fatalf("expected 2 sources, got %d: %#v", len(srcs), srcs)
	}
	if srcs[0].Title != "Hitchhiker's Guide" || srcs[0].URL != "https://example.com/guide" {
		t.Fatalf("unexpected first source: %#v", srcs[0])
	}
	if srcs[1].Title != "Deep Thought" || srcs[1].URL != "https://example.com/dt" {
		t.Fatalf("unexpected second source: %#v", srcs[1])
	}
}

func TestExtractNoBlock(t *testing.T) {
	text := "Just a plain reply with no citations."
	cleaned, srcs := Extract(text)
	if cleaned != text {
		t.Fatalf("text must pass through unchanged, got %q", cleaned)
	}
	if srcs != nil {
		t.Fatalf("expected nil sources, got %#v", srcs)
	}
}

func TestExtractLineWithoutColonFallsBackToURLToken(t *testing.T) {
	text := "reply\n\n**Sources:**\n[1] Some page https://example.com/p"
	_, srcs := Extract(text)
	if len(srcs) != 1 {
		t.Fatalf("expected 1 source, got %#v", srcs)
	}
	if srcs[0].Title != "Some page" || srcs[0].URL != "https://example.com/p" {
		t.Fatalf("unexpected source: %#v", srcs[0])
	}
}

func TestExtractDropsLinesWithoutURL(t *testing.T) {
	text := "reply\n\n**Sources:**\n[1] no link here\n[2] Real: https://example.com/r"
	_, srcs := Extract(text)
	if len(srcs) != 1 {
		t.Fatalf("expected the url-less line to be dropped, got %#v", srcs)
	}
	if srcs[0].URL != "https://example.com/r" {
		t.Fatalf("unexpected source: %#v", srcs[0])
	}
}

func TestExtractIgnoresNonNumberedLines(t *testing.T) {
	text := "reply\n\n**Sources:**\nsee also https://example.com/x\n[1] A: https://example.com/a"
	_, srcs := Extract(text)
	if len(srcs) != 1 || srcs[0].Title != "A" {
		t.Fatalf("expected only the numbered line, got %#v", srcs)
	}
}

func TestExtractUsesLastBlock(t *testing.T) {
	text := "**Sources:** mentioned early\n\nbody\n\n**Sources:**\n[1] B: https://example.com/b"
	cleaned, srcs := Extract(text)
	if len(srcs) != 1 || srcs[0].Title != "B" {
		t.Fatalf("expected the trailing block to win, got %#v", srcs)
	}
	if cleaned != "**Sources:** mentioned early\n\nbody" {
		t.Fatalf("unexpected cleaned text: %q", cleaned)
	}
}

func TestExtractEmptyBlock(t *testing.T) {
	text := "reply\n\n**Sources:**\n"
	cleaned, srcs := Extract(text)
	if cleaned != text {
		t.Fatalf("expected text untouched without a real block, got %q", cleaned)
	}
	if len(srcs) != 0 {
		t.Fatalf("expected no sources, got %#v", srcs)
	}
}

func TestExtractKeepsTailWhenNoLineParses(t *testing.T) {
	text := "reply\n\n**Sources:** are listed in the appendix below."
	cleaned, srcs := Extract(text)
	if cleaned != text {
		t.Fatalf("expected text untouched, got %q", cleaned)
	}
	if len(srcs) != 0 {
		t.Fatalf("expected no sources, got %#v", srcs)
	}
}
