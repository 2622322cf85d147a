package qoi

import "fmt"

// Tag is the opcode class of a tag byte.
type Tag uint8

const (
	TagNone Tag = iota
	TagRGB
	TagRGBA
	TagIndex
	TagDiff
	TagLuma
	TagRun
)

// Tags lists every opcode class in wire order of their tag bits.
var Tags = [...]Tag{TagIndex, TagDiff, TagLuma, TagRun, TagRGB, TagRGBA}

// Classify maps a tag byte to its opcode class. Every byte has exactly one
// class. The literal tags must be matched before the 2-bit masks since
// 0xFE and 0xFF also match the run pattern.
func Classify(b byte) Tag {
	switch b {
	case opRGB:
		return TagRGB
	case opRGBA:
		return TagRGBA
	}
	switch b & maskOp {
	case opIndex:
		return TagIndex
	case opDiff:
		return TagDiff
	case opLuma:
		return TagLuma
	default:
		return TagRun
	}
}

func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(b []byte) error {
	name := string(b)
	for _, c := range Tags {
		if c.String() == name {
			*t = c
			return nil
		}
	}
	if name == "none" {
		*t = TagNone
		return nil
	}
	return fmt.Errorf("qoi: unknown tag %q", name)
}

func (t Tag) String() string {
	switch t {
	case TagRGB:
		return "rgb"
	case TagRGBA:
		return "rgba"
	case TagIndex:
		return "index"
	case TagDiff:
		return "diff"
	case TagLuma:
		return "luma"
	case TagRun:
		return "run"
	default:
		return "none"
	}
}
