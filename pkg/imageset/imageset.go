// Package imageset keeps the ordered list of images that make up a collage.
package imageset

import (
	"errors"
	"fmt"
	"image"
	"path"
	"strings"
)

// ErrIndexOutOfRange is returned when an operation addresses a position
// that does not exist in the set.
var ErrIndexOutOfRange = errors.New("index out of range")

// Direction selects the neighbour an entry is swapped with
type Direction int

const (
	// Up moves an entry towards the top of the collage (lower index)
	Up Direction = iota
	// Down moves an entry towards the bottom of the collage (higher index)
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "up" or "down"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (use up or down)", s)
	}
}

// Entry pairs a decoded image with the source it was loaded from
type Entry struct {
	Image  image.Image
	Source string
}

// Label returns the last element of the source, for display
func (e Entry) Label() string {
	if e.Source == "" {
		return ""
	}
	source := strings.ReplaceAll(e.Source, "\\", "/")
	return path.Base(source)
}

// Size returns the pixel dimensions of the image
func (e Entry) Size() image.Point {
	if e.Image == nil {
		return image.Point{}
	}
	return e.Image.Bounds().Size()
}

// ImageSet is an ordered collection of images. The zero value is an empty
// set ready to use. An ImageSet is not safe for concurrent use.
type ImageSet struct {
	entries []Entry
}

// New creates an empty set
func New() *ImageSet {
	return &ImageSet{}
}

// Len returns the number of entries
func (s *ImageSet) Len() int {
	return len(s.entries)
}

// Append adds an image at the end of the set
func (s *ImageSet) Append(img image.Image, source string) {
	s.entries = append(s.entries, Entry{Image: img, Source: source})
}

// AppendBatch adds entries at the end of the set, keeping their order
func (s *ImageSet) AppendBatch(entries ...Entry) {
	s.entries = append(s.entries, entries...)
}

// At returns the entry at index
func (s *ImageSet) At(index int) (Entry, error) {
	if err := s.checkIndex(index); err != nil {
		return Entry{}, err
	}
	return s.entries[index], nil
}

// RemoveAt removes the entry at index; later entries move up by one.
// The set is left unchanged when index is out of range.
func (s *ImageSet) RemoveAt(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	copy(s.entries[index:], s.entries[index+1:])
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return nil
}

// Clear removes all entries
func (s *ImageSet) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// SwapAdjacent exchanges the entry at index with its neighbour in the given
// direction and reports whether anything moved. Moving the first entry up
// or the last entry down does nothing and is not an error.
func (s *ImageSet) SwapAdjacent(index int, dir Direction) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}

	var other int
	switch dir {
	case Up:
		other = index - 1
	case Down:
		other = index + 1
	default:
		return false, fmt.Errorf("unknown direction %d", int(dir))
	}
	if other < 0 || other >= len(s.entries) {
		return false, nil
	}

	s.entries[index], s.entries[other] = s.entries[other], s.entries[index]
	return true, nil
}

// Images returns the images in collage order. The slice is new; the
// images themselves are shared, not copied.
func (s *ImageSet) Images() []image.Image {
	images := make([]image.Image, len(s.entries))
	for i, e := range s.entries {
		images[i] = e.Image
	}
	return images
}

// Entries returns a copy of the entries in collage order
func (s *ImageSet) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Labels returns the display label of every entry in collage order
func (s *ImageSet) Labels() []string {
	labels := make([]string, len(s.entries))
	for i, e := range s.entries {
		labels[i] = e.Label()
	}
	return labels
}

func (s *ImageSet) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d (set has %d images)", ErrIndexOutOfRange, index, len(s.entries))
	}
	return nil
}
