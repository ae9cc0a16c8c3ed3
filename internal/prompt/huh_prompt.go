package prompt

import (
	"github.com/charmbracelet/huh"
)

// filterThreshold is the option count above which Select offers type-to-filter.
const filterThreshold = 8

// HuhPrompter implements Prompter using the charmbracelet/huh library.
type HuhPrompter struct{}

// NewHuhPrompter creates a new huh-based prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func (p *HuhPrompter) Select(title string, options []string) (int, error) {
	var result int

	opts := make([]huh.Option[int], len(options))
	for i, opt := range options {
		opts[i] = huh.NewOption(opt, i)
	}

	sel := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&result)
	if len(options) > filterThreshold {
		// Long decks: keep the list on one screen and allow filtering by title
		sel = sel.Filtering(true).Height(filterThreshold + 2)
	}

	err := sel.Run()

	return result, err
}

func (p *HuhPrompter) Input(title string, defaultValue string) (string, error) {
	result := defaultValue

	err := huh.NewInput().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Value(&result).
		Run()

	return result, err
}
