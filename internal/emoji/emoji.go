package emoji

// [emoji, fallback]
var emojiMap = map[string][2]string{
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"info":     {"ℹ️", "[INF]"},
	"success":  {"✅", "[OK]"},
	"human":    {"🧑", "[HUMAN]"},
	"ai":       {"🤖", "[AI]"},
	"upload":   {"📄", "[FILE]"},
	"text":     {"📝", "[TEXT]"},
	"image":    {"🖼️", "[IMG]"},
	"chart":    {"📊", "[CHART]"},
	"loading":  {"⏳", "[...]"},
	"watch":    {"👀", "[WATCH]"},
	"note":     {"💡", "[NOTE]"},
	"config":   {"📁", "[CFG]"},
	"target":   {"🎯", "[>]"},
	"help":     {"❓", "[?]"},
	"door":     {"🚪", "[EXIT]"},
	"keyboard": {"⌨️", "[KEY]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}
