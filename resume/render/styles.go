package render

// RunStyle captures the inline run formatting of a line.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int
	Color  string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	BodyColor    = "333333"
	MetaColor    = "444444"
	HeadingSize  = 24
	NameSize     = 36
	TitleSize    = 26
	BodySize     = 20
)

// StyleMap centralizes the formatting for each line kind. Sizes are in half-points.
var StyleMap = map[LineKind]RunStyle{
	LineName: {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
	},
	LineTitle: {
		Size:  TitleSize,
		Color: MetaColor,
	},
	LineContact: {
		Size:  BodySize,
		Color: MetaColor,
	},
	LineHeading: {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	LineBody: {
		Size:  BodySize,
		Color: BodyColor,
	},
	LineRole: {
		Bold: true,
		Size: 22,
	},
	LineMeta: {
		Italic: true,
		Size:   BodySize,
		Color:  MetaColor,
	},
	LineBullet: {
		Size:  BodySize,
		Color: BodyColor,
	},
}
