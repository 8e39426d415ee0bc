package imageset

import (
	"errors"
	"image"
	"testing"
)

// createTestImage creates an empty image whose width identifies it
func createTestImage(width int) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, width, 10))
}

func newTestSet(n int) *ImageSet {
	s := New()
	for i := 0; i < n; i++ {
		s.Append(createTestImage(i+1), "/photos/img"+string(rune('a'+i))+".jpg")
	}
	return s
}

func widths(s *ImageSet) []int {
	var out []int
	for _, img := range s.Images() {
		out = append(out, img.Bounds().Dx())
	}
	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAppend(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Fatalf("Expected empty set, got %d entries", s.Len())
	}

	s.Append(createTestImage(1), "a.jpg")
	s.AppendBatch(
		Entry{Image: createTestImage(2), Source: "b.png"},
		Entry{Image: createTestImage(3), Source: "c.webp"},
	)

	if got := widths(s); !equal(got, []int{1, 2, 3}) {
		t.Errorf("Expected insertion order [1 2 3], got %v", got)
	}
}

func TestZeroValue(t *testing.T) {
	var s ImageSet
	s.Append(createTestImage(4), "x.png")
	if s.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", s.Len())
	}
}

func TestRemoveAt(t *testing.T) {
	s := newTestSet(4)

	if err := s.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if got := widths(s); !equal(got, []int{1, 3, 4}) {
		t.Errorf("Expected [1 3 4] after removal, got %v", got)
	}

	if err := s.RemoveAt(2); err != nil {
		t.Fatalf("RemoveAt last failed: %v", err)
	}
	if got := widths(s); !equal(got, []int{1, 3}) {
		t.Errorf("Expected [1 3], got %v", got)
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	s := newTestSet(3)

	for _, index := range []int{-1, 3, 100} {
		err := s.RemoveAt(index)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d): expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
	if got := widths(s); !equal(got, []int{1, 2, 3}) {
		t.Errorf("Set should be unchanged, got %v", got)
	}

	if err := New().RemoveAt(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveAt on empty set: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestSet(3)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Expected empty set after Clear, got %d", s.Len())
	}
	s.Clear()
	s.Append(createTestImage(7), "z.jpg")
	if got := widths(s); !equal(got, []int{7}) {
		t.Errorf("Expected [7], got %v", got)
	}
}

func TestSwapAdjacent(t *testing.T) {
	s := newTestSet(3)

	moved, err := s.SwapAdjacent(1, Up)
	if err != nil || !moved {
		t.Fatalf("SwapAdjacent(1, up) = %v, %v", moved, err)
	}
	if got := widths(s); !equal(got, []int{2, 1, 3}) {
		t.Errorf("Expected [2 1 3], got %v", got)
	}

	moved, err = s.SwapAdjacent(1, Down)
	if err != nil || !moved {
		t.Fatalf("SwapAdjacent(1, down) = %v, %v", moved, err)
	}
	if got := widths(s); !equal(got, []int{2, 3, 1}) {
		t.Errorf("Expected [2 3 1], got %v", got)
	}
}

func TestSwapAdjacentIsItsOwnInverse(t *testing.T) {
	s := newTestSet(5)
	before := widths(s)

	for i := 0; i < 4; i++ {
		s.SwapAdjacent(i, Down)
		s.SwapAdjacent(i+1, Up)
		if got := widths(s); !equal(got, before) {
			t.Fatalf("Swap at %d not undone: %v", i, got)
		}
	}
}

func TestSwapAdjacentBoundaries(t *testing.T) {
	s := newTestSet(3)

	moved, err := s.SwapAdjacent(0, Up)
	if err != nil || moved {
		t.Errorf("SwapAdjacent(0, up) = %v, %v; expected no-op", moved, err)
	}
	moved, err = s.SwapAdjacent(2, Down)
	if err != nil || moved {
		t.Errorf("SwapAdjacent(last, down) = %v, %v; expected no-op", moved, err)
	}
	if got := widths(s); !equal(got, []int{1, 2, 3}) {
		t.Errorf("Set should be unchanged, got %v", got)
	}

	if _, err := s.SwapAdjacent(3, Up); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := s.SwapAdjacent(0, Direction(7)); err == nil {
		t.Error("Expected error for unknown direction")
	}
}

func TestImagesDoesNotCopyPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	s := New()
	s.Append(img, "p.png")

	images := s.Images()
	if images[0] != image.Image(img) {
		t.Error("Images should return the stored handle")
	}

	images[0] = nil
	if s.Images()[0] == nil {
		t.Error("Modifying the returned slice must not change the set")
	}
}

func TestLabels(t *testing.T) {
	s := New()
	s.Append(createTestImage(1), "/home/user/photos/beach.jpg")
	s.Append(createTestImage(1), `C:\pics\cat.png`)
	s.Append(createTestImage(1), "https://example.com/img/dog.webp")
	s.Append(createTestImage(1), "")

	expected := []string{"beach.jpg", "cat.png", "dog.webp", ""}
	labels := s.Labels()
	for i := range expected {
		if labels[i] != expected[i] {
			t.Errorf("Label %d: expected %q, got %q", i, expected[i], labels[i])
		}
	}
}

func TestAt(t *testing.T) {
	s := newTestSet(2)
	e, err := s.At(1)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if e.Size() != image.Pt(2, 10) {
		t.Errorf("Expected size 2x10, got %v", e.Size())
	}
	if _, err := s.At(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("UP"); err != nil || d != Up {
		t.Errorf("ParseDirection(UP) = %v, %v", d, err)
	}
	if d, err := ParseDirection("down"); err != nil || d != Down {
		t.Errorf("ParseDirection(down) = %v, %v", d, err)
	}
	if _, err := ParseDirection("left"); err == nil {
		t.Error("Expected error for left")
	}
}
