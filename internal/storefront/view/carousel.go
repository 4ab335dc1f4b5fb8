package view

import "fmt"

// Carousel tracks the image shown on the detail page.
type Carousel struct {
	Images []string
	Index  int
}

// NewCarousel starts at index, or at 0 when index is out of range.
func NewCarousel(images []string, index int) Carousel {
	if index < 0 || index >= len(images) {
		index = 0
	}
	return Carousel{Images: images, Index: index}
}

func (c Carousel) Current() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[c.Index]
}

// Next wraps from the last image to the first.
func (c Carousel) Next() int {
	if len(c.Images) == 0 {
		return 0
	}
	return (c.Index + 1) % len(c.Images)
}

// Prev wraps from the first image to the last.
func (c Carousel) Prev() int {
	if len(c.Images) == 0 {
		return 0
	}
	return (c.Index - 1 + len(c.Images)) % len(c.Images)
}

func (c Carousel) ShowControls() bool {
	return len(c.Images) > 1
}

type Dot struct {
	Index  int
	Active bool
	Label  string
}

func (c Carousel) Dots() []Dot {
	if !c.ShowControls() {
		return nil
	}
	dots := make([]Dot, len(c.Images))
	for i := range c.Images {
		dots[i] = Dot{Index: i, Active: i == c.Index, Label: fmt.Sprintf("Image %d", i+1)}
	}
	return dots
}
