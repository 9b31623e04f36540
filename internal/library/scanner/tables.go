package scanner

import (
	"fmt"
	"regexp"
	"sort"
)

type category int

const (
	categoryNone category = iota
	categoryResolution
	categorySource
	categoryVideoCodec
	categoryHDR
	categoryAudioCodec
	categoryChannels
	categoryAttribute
)

func (c category) String() string {
	switch c {
	case categoryResolution:
		return "resolution"
	case categorySource:
		return "source"
	case categoryVideoCodec:
		return "videoCodec"
	case categoryHDR:
		return "hdr"
	case categoryAudioCodec:
		return "audioCodec"
	case categoryChannels:
		return "channels"
	case categoryAttribute:
		return "attribute"
	default:
		return "none"
	}
}

// alias is the canonical value a lowercase token spelling maps to.
type alias struct {
	category category
	value    string
}

// Alias tables. Keys are the lowercase concatenation of one or more
// adjacent tokens with their separators removed, so "WEB-DL" is "webdl"
// and "DTS-HD.MA" is "dtshdma".
var (
	resolutionAliases = map[string]string{
		"2160p": "2160p",
		"4k":    "2160p",
		"uhd":   "2160p",
		"1080p": "1080p",
		"720p":  "720p",
		"480p":  "480p",
		"sd":    "480p",
	}

	// "web" on its own is left out: it collides with too many titles.
	sourceAliases = map[string]string{
		"bluray":   "BluRay",
		"bdrip":    "BluRay",
		"brrip":    "BluRay",
		"webdl":    "WEB-DL",
		"webrip":   "WEBRip",
		"hdtv":     "HDTV",
		"dvdrip":   "DVDRip",
		"dvdr":     "DVDRip",
		"dvd":      "DVDRip",
		"sdtv":     "SDTV",
		"pdtv":     "SDTV",
		"dsr":      "SDTV",
		"cam":      "CAM",
		"hdcam":    "CAM",
		"ts":       "CAM",
		"telesync": "CAM",
		"remux":    "REMUX",
		"bdremux":  "REMUX",
	}

	videoCodecAliases = map[string]string{
		"x265":  "x265",
		"h265":  "x265",
		"hevc":  "x265",
		"x264":  "x264",
		"h264":  "x264",
		"avc":   "x264",
		"av1":   "AV1",
		"vp9":   "VP9",
		"xvid":  "XviD",
		"divx":  "DivX",
		"mpeg2": "MPEG2",
	}

	hdrAliases = map[string]string{
		"dv":          "DV",
		"dovi":        "DV",
		"dolbyvision": "DV",
		"hdr10+":      "HDR10+",
		"hdr10plus":   "HDR10+",
		"hdr10":       "HDR10",
		"hdr":         "HDR",
		"hlg":         "HLG",
	}

	audioCodecAliases = map[string]string{
		"atmos":      "Atmos",
		"dolbyatmos": "Atmos",
		"dtsx":       "DTS-X",
		"dts:x":      "DTS-X",
		"dtshd":      "DTS-HD",
		"dtshdma":    "DTS-HD",
		"dtsma":      "DTS-HD",
		"truehd":     "TrueHD",
		"dts":        "DTS",
		"ddp":        "DD+",
		"dd+":        "DD+",
		"eac3":       "DD+",
		"dd":         "DD",
		"ac3":        "DD",
		"aac":        "AAC",
		"flac":       "FLAC",
	}

	channelAliases = map[string]string{
		"2ch": "2.0",
		"6ch": "5.1",
		"8ch": "7.1",
	}

	attributeAliases = map[string]string{
		"proper": "PROPER",
		"repack": "REPACK",
	}
)

// ambiguousAliases are real words too often found in titles. They are only
// classified once a strong tag or a year has been seen.
var ambiguousAliases = map[string]bool{
	"sd":  true,
	"ts":  true,
	"cam": true,
	"dd":  true,
	"dv":  true,
	"dts": true,
	"hdr": true,
	"avc": true,
}

// maxWindow is the widest run of adjacent tokens tried as one alias.
const maxWindow = 3

// TV markers.
var (
	seasonEpisodePattern = regexp.MustCompile(`^s(\d{1,2})e(\d{1,3})(?:e(\d{1,3}))?$`)
	seasonOnlyPattern    = regexp.MustCompile(`^s(\d{1,2})$`)
	crossEpisodePattern  = regexp.MustCompile(`^(\d{1,2})x(\d{2,3})$`)
	seasonNumberPattern  = regexp.MustCompile(`^\d{1,2}$`)
	yearPattern          = regexp.MustCompile(`^\d{4}$`)
)

var (
	// aliases is the union of every table above.
	aliases map[string]alias

	// gluedAudioPrefixes are audio codec spellings that may be directly
	// followed by a channel count ("DDP5.1"), longest first.
	gluedAudioPrefixes []string
)

func init() {
	aliases = make(map[string]alias)
	tables := []struct {
		category category
		table    map[string]string
	}{
		{categoryResolution, resolutionAliases},
		{categorySource, sourceAliases},
		{categoryVideoCodec, videoCodecAliases},
		{categoryHDR, hdrAliases},
		{categoryAudioCodec, audioCodecAliases},
		{categoryChannels, channelAliases},
		{categoryAttribute, attributeAliases},
	}
	for _, t := range tables {
		for key, value := range t.table {
			if existing, ok := aliases[key]; ok {
				panic(fmt.Sprintf("scanner: alias %q is both %s and %s", key, existing.category, t.category))
			}
			aliases[key] = alias{category: t.category, value: value}
		}
	}

	for key := range audioCodecAliases {
		gluedAudioPrefixes = append(gluedAudioPrefixes, key)
	}
	sort.Slice(gluedAudioPrefixes, func(i, j int) bool {
		a, b := gluedAudioPrefixes[i], gluedAudioPrefixes[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}
