package enums

import "fmt"

// ScriptPlacement is the document position a custom script is injected at.
type ScriptPlacement string

const (
	ScriptPlacementHead      ScriptPlacement = "head"
	ScriptPlacementBodyStart ScriptPlacement = "body_start"
	ScriptPlacementBodyEnd   ScriptPlacement = "body_end"
)

var validScriptPlacements = []ScriptPlacement{
	ScriptPlacementHead,
	ScriptPlacementBodyStart,
	ScriptPlacementBodyEnd,
}

func (p ScriptPlacement) String() string {
	return string(p)
}

func (p ScriptPlacement) IsValid() bool {
	for _, candidate := range validScriptPlacements {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseScriptPlacement converts raw input into a ScriptPlacement.
func ParseScriptPlacement(value string) (ScriptPlacement, error) {
	for _, candidate := range validScriptPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid script placement %q", value)
}
