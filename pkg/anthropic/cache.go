package anthropic

// CachedSystem builds a single system block with a 5 minute cache
// breakpoint.
func CachedSystem(text string) []SystemBlock {
	return []SystemBlock{
		{
			Text:         text,
			CacheControl: &CacheControl{TTL: "5m"},
		},
	}
}
