package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/Lucretiel/usefix/pretty"
)

// styleFlag selects the canonical render shape: "flat" or "grouped".
type styleFlag struct {
	value *pretty.Style
}

var _ pflag.Value = (*styleFlag)(nil)

func (f *styleFlag) String() string {
	if f.value != nil && *f.value == pretty.StyleGrouped {
		return "grouped"
	}
	return "flat"
}

func (*styleFlag) Type() string { return "style" }

func (f *styleFlag) Set(val string) error {
	switch val {
	case "flat":
		*f.value = pretty.StyleFlat
	case "grouped":
		*f.value = pretty.StyleGrouped
	default:
		return fmt.Errorf("style must be \"flat\" or \"grouped\", not %q", val)
	}
	return nil
}
