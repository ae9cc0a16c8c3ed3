package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// SlidePrefix marks generated slide identifiers.
const SlidePrefix = "slide-"

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(4)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique slide ID.
func Generate() string {
	return SlidePrefix + generator.MustGenerate()
}
