package player

import "strconv"

// Quality describes the rendition being played.
type Quality struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bitrate int    `json:"bitrate"`
	Level   string `json:"level,omitempty"`
}

// Equal reports whether q and other describe the same rendition.
// The level label does not take part in the comparison.
func (q *Quality) Equal(other *Quality) bool {
	return QualitiesEqual(q, other)
}

// QualitiesEqual compares width, height and bitrate. Two nils are equal,
// a nil and a non-nil are not.
func QualitiesEqual(a, b *Quality) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Width == b.Width && a.Height == b.Height && a.Bitrate == b.Bitrate
}

type dimensions struct {
	width, height int
	label         string
}

// plyrHeights maps a Plyr quality (vertical resolution) to dimensions.
var plyrHeights = map[int]dimensions{
	2160: {3840, 2160, "4K"},
	1440: {2560, 1440, "1440p"},
	1080: {1920, 1080, "1080p"},
	720:  {1280, 720, "720p"},
	480:  {854, 480, "480p"},
	360:  {640, 360, "360p"},
	240:  {426, 240, "240p"},
}

// vimeoLabels maps a Vimeo quality string to dimensions.
var vimeoLabels = map[string]dimensions{
	"4K":    {3840, 2160, "4K"},
	"2K":    {2560, 1440, "2K"},
	"1080p": {1920, 1080, "1080p"},
	"720p":  {1280, 720, "720p"},
	"540p":  {960, 540, "540p"},
	"360p":  {640, 360, "360p"},
	"240p":  {426, 240, "240p"},
}

// youtubeBuckets maps YouTube playback quality buckets to approximate
// dimensions. The API never exposes literal pixel sizes.
var youtubeBuckets = map[string]dimensions{
	"hd2160": {3840, 2160, "4K"},
	"hd1440": {2560, 1440, "1440p"},
	"hd1080": {1920, 1080, "1080p"},
	"hd720":  {1280, 720, "720p"},
	"large":  {854, 480, "480p"},
	"medium": {640, 360, "360p"},
	"small":  {426, 240, "240p"},
	"tiny":   {256, 144, "144p"},
	"auto":   {0, 0, "Auto"},
}

func plyrQuality(height int) *Quality {
	if d, ok := plyrHeights[height]; ok {
		return &Quality{Width: d.width, Height: d.height, Level: d.label}
	}
	return &Quality{Level: strconv.Itoa(height)}
}

func vimeoQuality(label string) *Quality {
	if d, ok := vimeoLabels[label]; ok {
		return &Quality{Width: d.width, Height: d.height, Level: label}
	}
	if label == "" {
		label = "auto"
	}
	return &Quality{Level: label}
}

func youtubeQuality(bucket string) *Quality {
	if bucket == "" {
		return nil
	}
	if d, ok := youtubeBuckets[bucket]; ok {
		return &Quality{Width: d.width, Height: d.height, Level: d.label}
	}
	return &Quality{Level: bucket}
}

// dimensionQuality builds a quality from raw pixel sizes, nil if either is zero.
func dimensionQuality(width, height int) *Quality {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &Quality{Width: width, Height: height, Level: "auto"}
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
