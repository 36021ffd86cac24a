package domain

// Block is one typed unit of output consumed by the layout engine.
type Block interface {
	block()
}

// TextBlock is a run of text rendered with a named style
// ("sender", "message", "system", "media", "transcription", "title", "time").
type TextBlock struct {
	Style string
	Text  string
}

// ImageBlock embeds an image by path.
type ImageBlock struct {
	Path     string
	Filename string
}

// SpacerBlock is a fixed vertical space in points.
type SpacerBlock struct {
	Points int
}

func (TextBlock) block()   {}
func (ImageBlock) block()  {}
func (SpacerBlock) block() {}
