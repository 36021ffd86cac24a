package domain

type MediaKind int

const (
	MediaAudio MediaKind = iota
	MediaImage
	MediaDocument
)

func (k MediaKind) String() string {
	switch k {
	case MediaAudio:
		return "audio"
	case MediaImage:
		return "image"
	default:
		return "document"
	}
}

// MediaFile is an extracted file from the export archive, classified by
// extension. A MediaFile attaches to at most one message.
type MediaFile struct {
	Filename     string
	AbsolutePath string
	Kind         MediaKind
}
