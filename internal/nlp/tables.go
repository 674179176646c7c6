package nlp

import "regexp"

// TablesVersion identifies the word lists and patterns below. Bump when a
// table changes, since keyword and topic output shifts with it.
const TablesVersion = "tables-v1"

// stopWords are filtered out before keyword ranking.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "will": {}, "with": {},
	"this": {}, "these": {}, "those": {}, "they": {}, "them": {},
	"their": {}, "what": {}, "which": {}, "who": {}, "when": {},
	"where": {}, "why": {}, "how": {}, "all": {}, "both": {}, "each": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {},
	"only": {}, "own": {}, "same": {}, "so": {}, "than": {}, "too": {},
	"very": {}, "can": {}, "just": {}, "should": {}, "now": {},
}

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "wonderful": {},
	"fantastic": {}, "love": {}, "perfect": {}, "best": {}, "awesome": {},
	"nice": {}, "super": {}, "happy": {}, "beautiful": {}, "brilliant": {},
	"outstanding": {}, "positive": {}, "success": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "poor": {},
	"worst": {}, "hate": {}, "disappointing": {}, "useless": {},
	"broken": {}, "fail": {}, "wrong": {}, "error": {}, "problem": {},
	"issue": {}, "bug": {}, "crash": {}, "slow": {}, "confusing": {},
	"difficult": {},
}

// topicDictionaries map a topic label to its indicator vocabulary. Affinity is
// the share of the vocabulary present in the text.
var topicDictionaries = map[string]map[string]struct{}{
	"security": {
		"secure": {}, "encrypted": {}, "ssl": {}, "https": {},
		"certificate": {}, "authentication": {}, "authorization": {},
		"vulnerability": {}, "exploit": {}, "injection": {}, "xss": {},
		"csrf": {}, "security": {}, "protection": {}, "firewall": {},
		"antivirus": {}, "malware": {},
	},
	"performance": {
		"fast": {}, "slow": {}, "performance": {}, "speed": {},
		"optimize": {}, "cache": {}, "loading": {}, "responsive": {},
		"efficient": {}, "latency": {}, "bandwidth": {}, "compression": {},
		"minify": {}, "bundle": {}, "lazy": {}, "async": {}, "defer": {},
	},
	"user_experience": {
		"user": {}, "experience": {}, "interface": {}, "design": {},
		"accessibility": {}, "usability": {}, "navigation": {},
		"intuitive": {}, "responsive": {}, "mobile": {}, "desktop": {},
		"tablet": {}, "touchscreen": {}, "gesture": {}, "interaction": {},
	},
}

// entityPattern pairs an output category with its extraction pattern.
type entityPattern struct {
	category string
	re       *regexp.Regexp
}

// entityPatterns run in a fixed order so output categories are stable.
var entityPatterns = []entityPattern{
	{"emails", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	{"urls", regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)},
	{"phone_numbers", regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
	{"dates", regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)},
	{"prices", regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`)},
}

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	nonAlphanumPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	sentenceSplitter   = regexp.MustCompile(`[.!?]+`)
)
