package layout

import (
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
)

// Embedded images are capped at a fixed frame; the source export never
// carries dimension metadata worth trusting.
const (
	pictureWidthInches  = 4.0
	pictureHeightInches = 3.0
)

func addPicture(doc *docx.RootDoc, path string) error {
	_, err := doc.AddPicture(path, units.Inch(pictureWidthInches), units.Inch(pictureHeightInches))
	return err
}
