package color

import (
	"fmt"

	"github.com/muesli/termenv"
)

const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed = "\033[91m"
)

var colorEnabled = true

func init() {
	if termenv.EnvNoColor() || termenv.EnvColorProfile() == termenv.Ascii {
		colorEnabled = false
	}
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + Reset
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	return Colorize(Bold, text)
}

// Mnemonic highlights an opcode name
func Mnemonic(name string) string {
	return YellowText(name)
}

// Address renders an instruction address the way listings show it
func Address(addr int) string {
	return CyanText(fmt.Sprintf("%04d", addr))
}

// Register renders a register name and value, e.g. "pc3"
func Register(name string, v int) string {
	return GrayText(name) + fmt.Sprintf("%d", v)
}

func Error(message string) string {
	if !colorEnabled {
		return message
	}
	return BrightRedText(BoldText("Error: ")) + message
}

func Warning(message string) string {
	if !colorEnabled {
		return message
	}
	return YellowText("Warning: ") + message
}

// Fault renders a machine fault together with the file it came from
func Fault(file, message string) string {
	if !colorEnabled {
		return fmt.Sprintf("%s: %s", file, message)
	}
	return fmt.Sprintf("%s: %s", BlueText(file), RedText(message))
}
