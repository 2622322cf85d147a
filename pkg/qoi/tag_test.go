package qoi

import "testing"

func TestClassifyTotal(t *testing.T) {
	t.Parallel()

	counts := map[Tag]int{}
	for i := 0; i < 256; i++ {
		b := byte(i)
		tag := Classify(b)
		counts[tag]++

		var want Tag
		switch {
		case b == 0xFE:
			want = TagRGB
		case b == 0xFF:
			want = TagRGBA
		case b < 0x40:
			want = TagIndex
		case b < 0x80:
			want = TagDiff
		case b < 0xC0:
			want = TagLuma
		default:
			want = TagRun
		}
		if tag != want {
			t.Fatalf("Classify(%08b): got %s want %s", b, tag, want)
		}
	}

	want := map[Tag]int{TagIndex: 64, TagDiff: 64, TagLuma: 64, TagRun: 62, TagRGB: 1, TagRGBA: 1}
	for tag, n := range want {
		if counts[tag] != n {
			t.Fatalf("%s: got %d bytes want %d", tag, counts[tag], n)
		}
	}
	if counts[TagNone] != 0 {
		t.Fatalf("some bytes were left unclassified")
	}
}

func TestTagString(t *testing.T) {
	t.Parallel()

	for _, tag := range Tags {
		if tag.String() == "none" {
			t.Fatalf("tag %d has no name", tag)
		}
	}
}

func TestTagText(t *testing.T) {
	t.Parallel()

	for _, tag := range append(Tags[:], TagNone) {
		b, err := tag.MarshalText()
		if err != nil {
			t.Fatalf("marshal %s: %v", tag, err)
		}
		var got Tag
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %q: %v", b, err)
		}
		if got != tag {
			t.Fatalf("got %s want %s", got, tag)
		}
	}

	var bad Tag
	if err := bad.UnmarshalText([]byte("jpeg")); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}
