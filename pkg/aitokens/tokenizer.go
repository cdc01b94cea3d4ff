// Package aitokens estimates prompt sizes for request logging. Token
// ceilings are enforced by the remote APIs, not locally.
package aitokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/promptdeck/promptdeck/pkg/aiprovider"
)

var (
	tokenizerCache   = make(map[string]*tiktoken.Tiktoken)
	tokenizerCacheMu sync.RWMutex
)

// GetTokenizer returns a cached tiktoken encoder for the given model.
func GetTokenizer(model string) (*tiktoken.Tiktoken, error) {
	tokenizerCacheMu.RLock()
	if tkm, ok := tokenizerCache[model]; ok {
		tokenizerCacheMu.RUnlock()
		return tkm, nil
	}
	tokenizerCacheMu.RUnlock()

	tokenizerCacheMu.Lock()
	defer tokenizerCacheMu.Unlock()

	// Double-check after acquiring write lock
	if tkm, ok := tokenizerCache[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fall back to cl100k_base for unknown models
		tkm, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	tokenizerCache[model] = tkm
	return tkm, nil
}

// Token overhead per message, plus a flat cost per attached image.
const (
	tokensPerMessage = 3
	tokensPerImage   = 85
)

// EstimateMessages counts approximate prompt tokens for a message list.
func EstimateMessages(messages []aiprovider.Message, model string) (int, error) {
	tkm, err := GetTokenizer(model)
	if err != nil {
		return 0, err
	}

	numTokens := 0
	for i := range messages {
		msg := &messages[i]
		numTokens += tokensPerMessage
		numTokens += len(tkm.Encode(string(msg.Role), nil, nil))
		for _, part := range msg.Content {
			switch part.Type {
			case aiprovider.ContentTypeText:
				numTokens += len(tkm.Encode(part.Text, nil, nil))
			case aiprovider.ContentTypeImage:
				numTokens += tokensPerImage
			}
		}
	}
	numTokens += 3 // reply priming

	return numTokens, nil
}
