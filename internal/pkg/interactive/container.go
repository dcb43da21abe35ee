package interactive

import (
	"html"
	"slices"
)

// Buffer is an in-memory [Container] with a settable width.
type Buffer struct {
	width   int
	content []byte
	err     error
}

// NewBuffer builds a [Buffer] container of the given width.
func NewBuffer(width int) *Buffer {
	return &Buffer{width: width}
}

// Width of the container.
func (b *Buffer) Width() int {
	return b.width
}

// SetWidth resizes the container. The content is not redrawn.
func (b *Buffer) SetWidth(width int) {
	b.width = width
}

// Replace the content.
func (b *Buffer) Replace(content []byte) {
	b.content = slices.Clone(content)
	b.err = nil
}

// Fail replaces the content with an error message.
func (b *Buffer) Fail(err error) {
	b.err = err
	b.content = []byte(`<div class="graphic-error" role="alert">` + html.EscapeString(err.Error()) + `</div>`)
}

// Bytes returns the current content.
func (b *Buffer) Bytes() []byte {
	return b.content
}

// Err returns the error shown by the container, if any.
func (b *Buffer) Err() error {
	return b.err
}
