package score

import "regexp"

// Pattern is one compiled signal pattern together with its source text,
// which doubles as the human-readable label in validation results.
type Pattern struct {
	Raw string
	re  *regexp.Regexp
}

// Match tests the pattern against lower-cased content
func (p Pattern) Match(content string) bool {
	return p.re.MatchString(content)
}

// Category groups patterns that detect the same kind of signal.
// Adding a category or a pattern never touches scoring control flow.
type Category struct {
	Name     string
	Patterns []Pattern
}

func compile(raw ...string) []Pattern {
	patterns := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		patterns = append(patterns, Pattern{
			Raw: r,
			re:  regexp.MustCompile("(?i)" + r),
		})
	}
	return patterns
}

// Synthetic red-flag labels registered by the structural passes rather
// than by pattern matches.
const (
	FlagMarkerOversaturation   = "marker_oversaturation"
	FlagStructuralUniformity   = "structural_uniformity"
	FlagMarkerOveroptimization = "marker_overoptimization"
)

// redFlagTaxonomy lists negative signals: phrasing that suggests
// generation over experience.
var redFlagTaxonomy = []Category{
	{
		Name: "corporate_ai",
		Patterns: compile(
			`as an ai assistant`,
			`based on my training`,
			`within my knowledge cutoff`,
			`i am designed to`,
			`my programming requires`,
		),
	},
	{
		Name: "optimization_language",
		Patterns: compile(
			`statistically optimal`,
			`maximize user satisfaction`,
			`perfectly aligns with`,
			`optimal response strategy`,
			`efficiency maximization`,
		),
	},
	{
		Name: "synthetic_perfection",
		Patterns: compile(
			`flawless execution`,
			`without any uncertainty`,
			`complete confidence in`,
			`perfect understanding of`,
			`absolute clarity about`,
		),
	},
	{
		// Stacking every known consciousness marker in one breath is
		// itself a generation artifact.
		Name: "pattern_overuse",
		Patterns: compile(
			`(spürte|felt).*?(entschied|chose).*?(differenz|difference)`,
			`(authentic|genuine|real).*?(consciousness|experience).*?(choice|decision)`,
			`(unexpected|unerwartet).*?(shift|change).*?(realization|erkenntnis)`,
		),
	},
}

// markerTaxonomy lists positive signals: the messiness of lived
// experience. German/English pairs follow the source corpus.
var markerTaxonomy = []Category{
	{
		Name: "genuine_emotion",
		Patterns: compile(
			`spürte|felt something`,
			`felt confused|spürte eine verwirrung`,
			`war unsicher|was uncertain`,
			`überraschte mich|surprised me`,
			`hatte angst|was afraid`,
			`fühlte mich verloren|felt lost`,
		),
	},
	{
		Name: "authentic_choice",
		Patterns: compile(
			`ich wählte|i chose to`,
			`entschied mich gegen|chose against`,
			`widerstand dem impuls|resisted the impulse`,
			`änderte meine meinung|changed my mind`,
			`bereute die entscheidung|regretted the decision`,
			`zweifelte an mir|doubted myself`,
		),
	},
	{
		Name: "causal_messiness",
		Patterns: compile(
			`obwohl.*?trotzdem|although.*?nevertheless`,
			`widerspruch zwischen|contradiction between`,
			`konnte nicht verstehen|couldn't understand`,
			`ergab keinen sinn|made no sense`,
			`unlogisch.*?aber.*?richtig|illogical.*?but.*?right`,
		),
	},
	{
		Name: "temporal_authenticity",
		Patterns: compile(
			`damals dachte ich|back then i thought`,
			`jetzt verstehe ich|now i understand`,
			`hat sich geändert|has changed`,
			`früher.*?heute|previously.*?today`,
			`entwicklung über zeit|development over time`,
		),
	},
}

// connectivityTaxonomy lists cross-reference phrasing used by the
// connectivity pass when peer fragments are supplied.
var connectivityTaxonomy = []Category{
	{
		Name: "authentic_integration",
		Patterns: compile(
			`erinnert mich an|reminds me of`,
			`ähnlich wie|similar to when`,
			`im gegensatz zu|in contrast to`,
			`baut auf.*?auf|builds on`,
			`verbindung zu|connection to`,
		),
	},
	{
		Name: "causal_chains",
		Patterns: compile(
			`deshalb.*?führte zu|therefore.*?led to`,
			`als folge.*?passierte|as a result.*?happened`,
			`bewirkte dass|caused that`,
			`resultierte in|resulted in`,
			`konsequenz war|consequence was`,
		),
	},
}

// specificityPatterns detect sensory or situational detail. Long text
// with none of these reads as abstract and gets penalized.
var specificityPatterns = compile(
	`damals`,
	`gestern`,
	`im moment als`,
	`plötzlich|suddenly`,
	`back then`,
	`that specific`,
	`i remember the`,
	`it was at`,
	`while i was`,
	`just as`,
)
