package gui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
)

// Terminal safe color palette is available here
// Themes should be limited to the colors defined in this reference
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

// ErrUnknownTheme is returned when no theme matches the requested name.
var ErrUnknownTheme = errors.New("theme: no theme found")

// Theme is used for dynamically coloring the UI
type Theme struct {
	Name         string      `json:"name"`
	SquareDark   tcell.Color `json:"squareDark"`
	SquareLight  tcell.Color `json:"squareLight"`
	SquareHigh   tcell.Color `json:"squareHigh"`
	SquareHint   tcell.Color `json:"squareHint"`
	SquareCheck  tcell.Color `json:"squareCheck"`
	SquareSelect tcell.Color `json:"squareSelect"`
	SquareTarget tcell.Color `json:"squareTarget"`
	White        tcell.Color `json:"white"`
	Black        tcell.Color `json:"black"`
	Msg          tcell.Color `json:"msg"`
	Good         tcell.Color `json:"good"`
	Bad          tcell.Color `json:"bad"`
	Rank         tcell.Color `json:"rank"`
	File         tcell.Color `json:"file"`
}

// ThemeHex is the config file form of a Theme
type ThemeHex struct {
	Name         string `json:"name"`
	SquareDark   string `json:"squareDark"`
	SquareLight  string `json:"squareLight"`
	SquareHigh   string `json:"squareHigh"`
	SquareHint   string `json:"squareHint"`
	SquareCheck  string `json:"squareCheck"`
	SquareSelect string `json:"squareSelect"`
	SquareTarget string `json:"squareTarget"`
	White        string `json:"white"`
	Black        string `json:"black"`
	Msg          string `json:"msg"`
	Good         string `json:"good"`
	Bad          string `json:"bad"`
	Rank         string `json:"rank"`
	File         string `json:"file"`
}

// fmtHex returns a one character hex for the ColorDefault
// and otherwise it returns a standard hex. This is useful
// because it allows ColorDefault to be imported from the config
// and parsed properly rather than being interpreted as black
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

// Hex converts a Theme to a ThemeHex
func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		Name:         t.Name,
		SquareDark:   fmtHex(t.SquareDark.Hex()),
		SquareLight:  fmtHex(t.SquareLight.Hex()),
		SquareHigh:   fmtHex(t.SquareHigh.Hex()),
		SquareHint:   fmtHex(t.SquareHint.Hex()),
		SquareCheck:  fmtHex(t.SquareCheck.Hex()),
		SquareSelect: fmtHex(t.SquareSelect.Hex()),
		SquareTarget: fmtHex(t.SquareTarget.Hex()),
		White:        fmtHex(t.White.Hex()),
		Black:        fmtHex(t.Black.Hex()),
		Msg:          fmtHex(t.Msg.Hex()),
		Good:         fmtHex(t.Good.Hex()),
		Bad:          fmtHex(t.Bad.Hex()),
		Rank:         fmtHex(t.Rank.Hex()),
		File:         fmtHex(t.File.Hex()),
	}
}

// Theme converts a ThemeHex to a Theme
func (t ThemeHex) Theme() Theme {
	return Theme{
		Name:         t.Name,
		SquareDark:   tcell.GetColor(t.SquareDark),
		SquareLight:  tcell.GetColor(t.SquareLight),
		SquareHigh:   tcell.GetColor(t.SquareHigh),
		SquareHint:   tcell.GetColor(t.SquareHint),
		SquareCheck:  tcell.GetColor(t.SquareCheck),
		SquareSelect: tcell.GetColor(t.SquareSelect),
		SquareTarget: tcell.GetColor(t.SquareTarget),
		White:        tcell.GetColor(t.White),
		Black:        tcell.GetColor(t.Black),
		Msg:          tcell.GetColor(t.Msg),
		Good:         tcell.GetColor(t.Good),
		Bad:          tcell.GetColor(t.Bad),
		Rank:         tcell.GetColor(t.Rank),
		File:         tcell.GetColor(t.File),
	}
}

// ImportThemes returns a converted Theme from a slice of ThemeHex
// entities if its name matches the want argument, falling back to
// the built in themes
func ImportThemes(want string, themes []ThemeHex) (Theme, error) {
	// First check if want is in the provided config (override)
	for _, t := range themes {
		if t.Name == want {
			return t.Theme(), nil
		}
	}
	return LookupTheme(want)
}

// LoadThemes reads a JSON array of ThemeHex from path.
func LoadThemes(path string) ([]ThemeHex, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme: reading %s: %w", path, err)
	}
	var themes []ThemeHex
	if err := json.Unmarshal(b, &themes); err != nil {
		return nil, fmt.Errorf("theme: decoding %s: %w", path, err)
	}
	for i, t := range themes {
		if t.Name == "" {
			return nil, fmt.Errorf("theme: %s: entry %d has no name", path, i)
		}
	}
	return themes, nil
}

// AvailableThemes lists the imported themes followed by the built in ones
// they do not override.
func AvailableThemes(themes []ThemeHex) []Theme {
	out := make([]Theme, 0, len(themes)+len(Themes))
	seen := make(map[string]bool)
	for _, t := range themes {
		if !seen[t.Name] {
			seen[t.Name] = true
			out = append(out, t.Theme())
		}
	}
	for _, t := range Themes {
		if !seen[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

// LookupTheme returns the built in theme called name.
func LookupTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// Themes are the built in palettes.
var Themes = []Theme{ThemeBasic, ThemeGreen}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	Name:         "basic",
	SquareDark:   tcell.Color188,
	SquareLight:  tcell.Color230,
	SquareHigh:   tcell.Color226,
	SquareHint:   tcell.Color223,
	SquareCheck:  tcell.Color218,
	SquareSelect: tcell.Color117,
	SquareTarget: tcell.Color159,
	White:        tcell.Color232,
	Black:        tcell.Color232,
	Msg:          tcell.Color160,
	Good:         tcell.Color34,
	Bad:          tcell.Color160,
	Rank:         tcell.Color247,
	File:         tcell.Color247,
}

// ThemeGreen mimics a tournament board
var ThemeGreen = Theme{
	Name:         "green",
	SquareDark:   tcell.Color65,
	SquareLight:  tcell.Color187,
	SquareHigh:   tcell.Color185,
	SquareHint:   tcell.Color215,
	SquareCheck:  tcell.Color203,
	SquareSelect: tcell.Color110,
	SquareTarget: tcell.Color151,
	White:        tcell.Color255,
	Black:        tcell.Color232,
	Msg:          tcell.Color214,
	Good:         tcell.Color40,
	Bad:          tcell.Color196,
	Rank:         tcell.Color249,
	File:         tcell.Color249,
}
