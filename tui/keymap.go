package tui

// Key binding constants used in the key handlers.
const (
	KeyQuit      = "q"
	KeyCtrlC     = "ctrl+c"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyJ         = "j"
	KeyK         = "k"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyTab       = "tab"
	KeyShiftTab  = "shift+tab"
	KeyBackspace = "backspace"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyPgUp      = "pgup"
	KeyPgDown    = "pgdown"
	KeyYes       = "y"
	KeyNo        = "n"

	KeyRefresh = "r"
	KeyUpload  = "u"
	KeyDelete  = "d"
	KeyEdit    = "e"
	KeyRemove  = "x"
	KeySubmit  = "s"
	KeyChart   = "c"
	KeyBack    = "b"
)
