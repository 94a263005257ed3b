package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Speech engine name shown in the status bar
	Engine string

	// Source of the transcript, shown in the status bar
	Source string

	// Colour of the word on air
	HighlightColor string `env:"READALONG_HIGHLIGHT_COLOR" envDefault:"#FFA500"`

	// Wrap chips at this width instead of the terminal width; 0 disables
	WrapWidth int `env:"READALONG_WRAP_WIDTH" envDefault:"0"`
}
