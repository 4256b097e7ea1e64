package utils

const (
	// Emojis
	EmojiTick   = "✅"
	EmojiCross  = "❌"
	EmojiWarn   = "⚠️"
	EmojiShield = "🛡️"
	EmojiMuted  = "🔇"
	EmojiTicket = "🎫"
	EmojiLock   = "🔒"
	EmojiUnlock = "🔓"
	EmojiVerify = "☑️"
	EmojiSiren  = "🚨"

	// Colors
	ColorDark   = 0x2f3136
	ColorGreen  = 0x00FF00
	ColorRed    = 0xFF0000
	ColorOrange = 0xFFA500
)
