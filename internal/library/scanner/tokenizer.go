package scanner

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Token is one piece of a release title.
type Token struct {
	Text  string `json:"text"`
	Sep   string `json:"sep"` // separator run in front of the token, "" for the first
	Index int    `json:"index"`
}

// RawTokens is everything the tokenizer recognised in a title.
type RawTokens struct {
	Tokens []Token

	Title string
	Year  int

	Resolution    string
	Source        string
	VideoCodec    string
	HDRFormats    []string
	AudioCodecs   []string
	AudioChannels []string
	Attributes    []string

	Season       int
	Episode      int
	EndEpisode   int
	IsTV         bool
	IsSeasonPack bool

	ReleaseGroup string
}

// currentYear bounds year detection; replaced in tests.
var currentYear = func() int { return time.Now().Year() }

func isSeparator(r rune) bool {
	switch r {
	case '.', '_', '-', '[', ']', '(', ')', '{', '}':
		return true
	}
	return unicode.IsSpace(r)
}

// Tokenize splits a title on release separators, remembering the separator
// run in front of each token.
func Tokenize(title string) []Token {
	var tokens []Token
	var sep, cur strings.Builder

	emit := func() {
		if cur.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{Text: cur.String(), Sep: sep.String(), Index: len(tokens)})
		cur.Reset()
		sep.Reset()
	}

	for _, r := range title {
		if isSeparator(r) {
			emit()
			sep.WriteRune(r)
			continue
		}
		cur.WriteRune(r)
	}
	emit()

	if len(tokens) > 0 {
		tokens[0].Sep = ""
	}
	return tokens
}

// Extract classifies the tokens of a title. It never fails: anything it
// does not recognise ends up in Title.
func Extract(title string) RawTokens {
	tokens := Tokenize(StripVideoExtension(strings.TrimSpace(title)))

	raw := RawTokens{
		Tokens:        tokens,
		HDRFormats:    []string{},
		AudioCodecs:   []string{},
		AudioChannels: []string{},
		Attributes:    []string{},
	}
	if len(tokens) == 0 {
		return raw
	}

	anchor := findAnchor(tokens)

	classified := make([]bool, len(tokens))
	firstTag := -1
	for i := 0; i < len(tokens); {
		n := raw.classifyAt(tokens, i, i >= anchor)
		if n == 0 {
			i++
			continue
		}
		if firstTag < 0 {
			firstTag = i
		}
		for j := i; j < i+n; j++ {
			classified[j] = true
		}
		i += n
	}

	titleEnd := firstTag
	if titleEnd < 0 {
		titleEnd = len(tokens)
	}
	raw.extractTitle(tokens[:titleEnd])

	last := len(tokens) - 1
	group := -1
	if firstTag >= 0 && last > firstTag && !classified[last] && strings.Contains(tokens[last].Sep, "-") {
		raw.ReleaseGroup = tokens[last].Text
		group = last
	}

	if raw.Year == 0 && firstTag >= 0 {
		raw.Year = trailingYear(tokens, firstTag+1, classified, group)
	}

	return raw
}

// findAnchor returns the index of the first token that surely belongs to
// the tag region: a strong tag or a plausible year after the first token.
// Weak matches before it are title words. len(tokens) when there is none.
func findAnchor(tokens []Token) int {
	maxYear := currentYear() + 5
	var scratch RawTokens
	for i := range tokens {
		if i > 0 && isPlausibleYear(tokens[i].Text, maxYear) {
			return i
		}
		if scratch.classifyAt(tokens, i, false) > 0 {
			return i
		}
	}
	return len(tokens)
}

// trailingYear finds a year that only appears after the first tag
// ("Movie.4K.2020"). Classified tokens and the release group are skipped.
func trailingYear(tokens []Token, from int, classified []bool, group int) int {
	maxYear := currentYear() + 5
	for i := from; i < len(tokens); i++ {
		if classified[i] || i == group {
			continue
		}
		if isPlausibleYear(tokens[i].Text, maxYear) {
			y, _ := strconv.Atoi(tokens[i].Text)
			return y
		}
	}
	return 0
}

func isPlausibleYear(text string, maxYear int) bool {
	if !yearPattern.MatchString(text) {
		return false
	}
	y, _ := strconv.Atoi(text)
	return y >= 1900 && y <= maxYear
}

// isWeakMatch reports whether an alias window could just as well be title
// words: an ambiguous single word, or several words joined without a hyphen
// ("Hd.Tv").
func isWeakMatch(window []Token, key string) bool {
	if len(window) == 1 {
		return ambiguousAliases[key]
	}
	for _, t := range window[1:] {
		if strings.Contains(t.Sep, "-") {
			return false
		}
	}
	return true
}

// classifyAt tries every rule at position i in precedence order and
// returns how many tokens were consumed, 0 when none matched. Weak alias
// matches are only taken when allowWeak is set.
func (raw *RawTokens) classifyAt(tokens []Token, i int, allowWeak bool) int {
	if n := raw.matchTVMarker(tokens, i); n > 0 {
		return n
	}
	if n := raw.matchChannelPair(tokens, i); n > 0 {
		return n
	}
	if n := raw.matchGluedAudio(tokens, i); n > 0 {
		return n
	}

	for w := maxWindow; w >= 1; w-- {
		if i+w > len(tokens) {
			continue
		}
		key := windowKey(tokens[i : i+w])
		a, ok := aliases[key]
		if !ok {
			continue
		}
		if !allowWeak && isWeakMatch(tokens[i:i+w], key) {
			continue
		}
		raw.add(a)
		return w
	}
	return 0
}

func (raw *RawTokens) matchTVMarker(tokens []Token, i int) int {
	lower := strings.ToLower(tokens[i].Text)

	if m := seasonEpisodePattern.FindStringSubmatch(lower); m != nil {
		if !raw.IsTV {
			raw.IsTV = true
			raw.Season, _ = strconv.Atoi(m[1])
			raw.Episode, _ = strconv.Atoi(m[2])
			if m[3] != "" {
				raw.EndEpisode, _ = strconv.Atoi(m[3])
			}
		}
		return 1
	}

	if m := seasonOnlyPattern.FindStringSubmatch(lower); m != nil && i > 0 {
		if !raw.IsTV {
			raw.IsTV = true
			raw.IsSeasonPack = true
			raw.Season, _ = strconv.Atoi(m[1])
		}
		return 1
	}

	if m := crossEpisodePattern.FindStringSubmatch(lower); m != nil && i > 0 {
		if !raw.IsTV {
			raw.IsTV = true
			raw.Season, _ = strconv.Atoi(m[1])
			raw.Episode, _ = strconv.Atoi(m[2])
		}
		return 1
	}

	if lower == "season" && i > 0 && i+1 < len(tokens) && seasonNumberPattern.MatchString(tokens[i+1].Text) {
		if !raw.IsTV {
			raw.IsTV = true
			raw.IsSeasonPack = true
			raw.Season, _ = strconv.Atoi(tokens[i+1].Text)
		}
		return 2
	}

	return 0
}

// matchChannelPair recognises "7.1" style layouts, which the tokenizer
// splits into two single digit tokens joined by a dot.
func (raw *RawTokens) matchChannelPair(tokens []Token, i int) int {
	if i+1 >= len(tokens) || !isSingleDigit(tokens[i].Text) || !isSingleDigit(tokens[i+1].Text) || tokens[i+1].Sep != "." {
		return 0
	}
	raw.AudioChannels = append(raw.AudioChannels, tokens[i].Text+"."+tokens[i+1].Text)
	return 2
}

// matchGluedAudio recognises a codec written straight against its channel
// count, such as "DDP5.1" or "AAC2.0".
func (raw *RawTokens) matchGluedAudio(tokens []Token, i int) int {
	if i+1 >= len(tokens) || !isSingleDigit(tokens[i+1].Text) || tokens[i+1].Sep != "." {
		return 0
	}

	lower := strings.ToLower(tokens[i].Text)
	for _, prefix := range gluedAudioPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := lower[len(prefix):]
		if !isSingleDigit(rest) {
			continue
		}
		raw.AudioCodecs = append(raw.AudioCodecs, audioCodecAliases[prefix])
		raw.AudioChannels = append(raw.AudioChannels, rest+"."+tokens[i+1].Text)
		return 2
	}
	return 0
}

func (raw *RawTokens) add(a alias) {
	switch a.category {
	case categoryResolution:
		if raw.Resolution == "" {
			raw.Resolution = a.value
		}
	case categorySource:
		if a.value == "REMUX" {
			raw.addAttribute("REMUX")
		}
		if raw.Source == "" {
			raw.Source = a.value
		}
	case categoryVideoCodec:
		if raw.VideoCodec == "" {
			raw.VideoCodec = a.value
		}
	case categoryHDR:
		raw.HDRFormats = append(raw.HDRFormats, a.value)
	case categoryAudioCodec:
		raw.AudioCodecs = append(raw.AudioCodecs, a.value)
	case categoryChannels:
		raw.AudioChannels = append(raw.AudioChannels, a.value)
	case categoryAttribute:
		raw.addAttribute(a.value)
	}
}

func (raw *RawTokens) addAttribute(value string) {
	for _, existing := range raw.Attributes {
		if existing == value {
			return
		}
	}
	raw.Attributes = append(raw.Attributes, value)
}

// extractTitle takes the year out of the leading untagged tokens and joins
// what comes before it. The last plausible year wins so that titles
// containing a year ("Blade Runner 2049") keep it.
func (raw *RawTokens) extractTitle(region []Token) {
	maxYear := currentYear() + 5
	yearIdx := -1
	for j := 1; j < len(region); j++ {
		if isPlausibleYear(region[j].Text, maxYear) {
			yearIdx = j
			raw.Year, _ = strconv.Atoi(region[j].Text)
		}
	}

	if yearIdx > 0 {
		region = region[:yearIdx]
	}

	words := make([]string, len(region))
	for j, t := range region {
		words[j] = t.Text
	}
	raw.Title = strings.Join(words, " ")
}

func windowKey(tokens []Token) string {
	if len(tokens) == 1 {
		return strings.ToLower(tokens[0].Text)
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(strings.ToLower(t.Text))
	}
	return b.String()
}

func isSingleDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
