package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "[{\"id\":\"CW\""},
		{Type: "text", Text: ""},
		{Type: "text", Text: ",\"density\":40}]"},
	}}
	assert.Equal(t, "[{\"id\":\"CW\"\n,\"density\":40}]", resp.Text())

	var nilResp *MessageResponse
	assert.Empty(t, nilResp.Text())
}

func TestToSDKMessages_Roles(t *testing.T) {
	out := toSDKMessages([]Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "["},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
}

func TestToSDKSystemBlocks_CacheControl(t *testing.T) {
	out := toSDKSystemBlocks(CachedSystem("instructions"))
	assert.Len(t, out, 1)
	assert.Equal(t, "instructions", out[0].Text)
	assert.Equal(t, "5m", string(out[0].CacheControl.TTL))
}

func TestEstimateCost_Haiku(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
}

func TestEstimateCost_WithCache(t *testing.T) {
	u := TokenUsage{
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}
	// 3.00*1.25 + 3.00*0.1
	assert.InDelta(t, 4.05, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	u := TokenUsage{InputTokens: 1000, OutputTokens: 1000}
	assert.Equal(t, 0.0, u.EstimateCost("gpt-unknown"))
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 50}
	assert.NotPanics(t, func() { u.LogCost("claude-haiku-4-5-20251001", "age") })
}
