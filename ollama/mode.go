package ollama

import "strings"

// Mode selects which instruction is sent to the recognition daemon.
type Mode int

const (
	ModeText Mode = iota
	ModeTable
	ModeFigure
)

// ParseMode maps a CLI argument or menu selection to a Mode. Matching is
// substring-based and defaults to text, mirroring the launcher contract.
func ParseMode(arg string) Mode {
	arg = strings.ToLower(arg)
	switch {
	case strings.Contains(arg, "table"):
		return ModeTable
	case strings.Contains(arg, "figure"):
		return ModeFigure
	default:
		return ModeText
	}
}

// Instruction is the prompt sent to the daemon for this mode. It is fixed
// per mode; the model keys its output format off these exact strings.
func (m Mode) Instruction() string {
	switch m {
	case ModeTable:
		return "Table Recognition"
	case ModeFigure:
		return "Figure Recognition"
	default:
		return "Text Recognition"
	}
}

func (m Mode) String() string {
	switch m {
	case ModeTable:
		return "table"
	case ModeFigure:
		return "figure"
	default:
		return "text"
	}
}
