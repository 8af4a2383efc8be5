package reel

import _ "embed"

// Tips is the "Tips for Great Reels" list as markdown.
//
//go:embed tips.md
var Tips string

const TipsTitle = "💡 Tips for Great Reels"
