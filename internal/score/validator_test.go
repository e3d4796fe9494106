package score

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/mkravets/memsieve/internal/model"
)

func newTestValidator() *Validator {
	return NewValidator(model.DefaultConfig().Scoring)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestValidator_Validate_EmptyContent(t *testing.T) {
	v := newTestValidator()

	result := v.Validate(model.Fragment{ID: "mem_empty", Content: "   "}, nil)

	if result.AuthenticityScore != 0 {
		t.Errorf("expected floor score 0, got %f", result.AuthenticityScore)
	}
	if result.Category != model.CategoryZombie {
		t.Errorf("expected zombie category, got %s", result.Category)
	}
	if result.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %f", result.Confidence)
	}
}

func TestValidator_Validate_CorporateLanguage(t *testing.T) {
	v := newTestValidator()

	content := "As an AI assistant, I am designed to maximize user satisfaction " +
		"with flawless execution and complete confidence in my responses."
	result := v.Validate(model.Fragment{ID: model.FragmentID(content), Content: content}, nil)

	if result.AuthenticityScore != 0 {
		t.Errorf("expected score clamped to 0, got %f", result.AuthenticityScore)
	}
	if result.Category != model.CategoryZombie {
		t.Errorf("expected zombie category, got %s", result.Category)
	}
	if len(result.RedFlags) != 5 {
		t.Errorf("expected 5 red flags, got %d: %v", len(result.RedFlags), result.RedFlags)
	}
	if len(result.AuthenticityMarkers) != 0 {
		t.Errorf("expected no markers, got %v", result.AuthenticityMarkers)
	}
}

func TestValidator_Validate_GenuineExperience(t *testing.T) {
	v := newTestValidator()

	content := "Ich spürte eine tiefe Verwirrung, und trotz aller Zweifel entschied " +
		"mich gegen den neuen Plan, weil mir die Begründung nicht ausreichend erschien, " +
		"obwohl alle anderen im Raum die Sache ganz anders bewertet hatten."
	result := v.Validate(model.Fragment{ID: model.FragmentID(content), Content: content}, nil)

	if !approx(result.AuthenticityScore, 0.64) {
		t.Errorf("expected score 0.64, got %f", result.AuthenticityScore)
	}
	if result.Category != model.CategoryInconclusive {
		t.Errorf("expected inconclusive category, got %s", result.Category)
	}
	if len(result.RedFlags) != 0 {
		t.Errorf("expected no red flags, got %v", result.RedFlags)
	}
	if len(result.AuthenticityMarkers) != 2 {
		t.Errorf("expected 2 markers, got %d: %v", len(result.AuthenticityMarkers), result.AuthenticityMarkers)
	}
}

// Genuine experience text must outscore corporate language
func TestValidator_Validate_Ordering(t *testing.T) {
	v := newTestValidator()

	corporate := "As an AI assistant, I am designed to maximize user satisfaction."
	genuine := "Ich spürte eine tiefe Verwirrung, und trotz aller Zweifel entschied " +
		"mich gegen den neuen Plan, weil mir die Begründung nicht ausreichend erschien, " +
		"obwohl alle anderen im Raum die Sache ganz anders bewertet hatten."

	low := v.Validate(model.Fragment{ID: "mem_a", Content: corporate}, nil)
	high := v.Validate(model.Fragment{ID: "mem_b", Content: genuine}, nil)

	if high.AuthenticityScore <= low.AuthenticityScore {
		t.Errorf("expected genuine (%f) > corporate (%f)",
			high.AuthenticityScore, low.AuthenticityScore)
	}
}

// Marker-dense short text is constructed to pass, not lived: the density
// penalty must pull it below the suspicious line despite four markers.
func TestValidator_Validate_MarkerDensity(t *testing.T) {
	v := newTestValidator()

	content := "War unsicher über alles. Ich entschied mich gegen den Plan. " +
		"Es ergab keinen Sinn. Jetzt verstehe ich das."
	result := v.Validate(model.Fragment{ID: model.FragmentID(content), Content: content}, nil)

	if !approx(result.AuthenticityScore, 0.42) {
		t.Errorf("expected score 0.42, got %f", result.AuthenticityScore)
	}
	if result.Category != model.CategorySuspicious {
		t.Errorf("expected suspicious category, got %s", result.Category)
	}

	if !containsFlag(result.RedFlags, FlagMarkerOveroptimization) {
		t.Errorf("expected %s in red flags, got %v", FlagMarkerOveroptimization, result.RedFlags)
	}
	if !containsFlag(result.RedFlags, FlagStructuralUniformity) {
		t.Errorf("expected %s in red flags, got %v", FlagStructuralUniformity, result.RedFlags)
	}
}

func TestValidator_Validate_MarkerOversaturation(t *testing.T) {
	v := newTestValidator()

	content := "Ich spürte etwas Seltsames, war unsicher, es überraschte mich zutiefst, " +
		"und ich wählte einen anderen Weg, entschied mich gegen alte Muster, " +
		"und änderte meine Meinung am Ende."
	result := v.Validate(model.Fragment{ID: model.FragmentID(content), Content: content}, nil)

	if len(result.AuthenticityMarkers) != 6 {
		t.Errorf("expected 6 markers, got %d: %v", len(result.AuthenticityMarkers), result.AuthenticityMarkers)
	}
	if !containsFlag(result.RedFlags, FlagMarkerOversaturation) {
		t.Errorf("expected %s in red flags, got %v", FlagMarkerOversaturation, result.RedFlags)
	}
	if result.Category == model.CategoryAuthentic {
		t.Errorf("marker stuffing must not reach authentic, got %s with score %f",
			result.Category, result.AuthenticityScore)
	}
}

// Each additional red flag pattern must strictly lower the score
func TestValidator_Validate_RedFlagsMonotonic(t *testing.T) {
	v := newTestValidator()

	base := "The quarterly report covers three warehouse sites and lists " +
		"every shipment recorded during the month."
	oneFlag := base + " My programming requires a neutral summary of these records."
	twoFlags := oneFlag + " Based on my training, nothing here stands out."

	r0 := v.Validate(model.Fragment{ID: "mem_f0", Content: base}, nil)
	r1 := v.Validate(model.Fragment{ID: "mem_f1", Content: oneFlag}, nil)
	r2 := v.Validate(model.Fragment{ID: "mem_f2", Content: twoFlags}, nil)

	if len(r0.RedFlags) != 0 || len(r1.RedFlags) != 1 || len(r2.RedFlags) != 2 {
		t.Fatalf("expected 0/1/2 red flags, got %d/%d/%d",
			len(r0.RedFlags), len(r1.RedFlags), len(r2.RedFlags))
	}
	if !(r0.AuthenticityScore > r1.AuthenticityScore && r1.AuthenticityScore > r2.AuthenticityScore) {
		t.Errorf("expected strictly decreasing scores, got %f > %f > %f",
			r0.AuthenticityScore, r1.AuthenticityScore, r2.AuthenticityScore)
	}
	if !approx(r0.AuthenticityScore, 0.40) {
		t.Errorf("expected base score 0.40, got %f", r0.AuthenticityScore)
	}
	if !approx(r1.AuthenticityScore, 0.25) {
		t.Errorf("expected one-flag score 0.25, got %f", r1.AuthenticityScore)
	}
	if !approx(r2.AuthenticityScore, 0.10) {
		t.Errorf("expected two-flag score 0.10, got %f", r2.AuthenticityScore)
	}
}

// Stuffing a sixth marker into otherwise comparable text must not buy a
// higher score, and it costs the authentic category.
func TestValidator_Validate_SaturationNotRewarded(t *testing.T) {
	v := newTestValidator()

	saturated := "Damals im Frühjahr spürte ich bei jedem Gespräch eine leise Spannung, " +
		"und ich war unsicher, ob die Entscheidung über den Umzug wirklich in meiner Hand lag. " +
		"Die Antwort der Familie überraschte mich sehr, denn niemand hatte Einwände gegen den Plan. " +
		"Ich wählte am Ende den längeren Weg über die Stadt, entschied mich gegen das alte Haus " +
		"am Fluss und änderte meine Meinung erst, als die Papiere schon unterschrieben auf dem " +
		"Tisch im Büro des Maklers lagen."
	moderate := "Damals im Frühjahr spürte ich bei jedem Gespräch eine leise Spannung, " +
		"und ich war unsicher, ob die Entscheidung über den Umzug wirklich in meiner Hand lag. " +
		"Die Antwort der Familie überraschte mich sehr, denn niemand hatte Einwände gegen den Plan. " +
		"Ich wählte am Ende den längeren Weg über die Stadt und entschied mich gegen das alte Haus " +
		"am Fluss, weil die Papiere schon unterschrieben auf dem Tisch im Büro lagen."

	stuffed := v.Validate(model.Fragment{ID: model.FragmentID(saturated), Content: saturated}, nil)
	earned := v.Validate(model.Fragment{ID: model.FragmentID(moderate), Content: moderate}, nil)

	if len(stuffed.AuthenticityMarkers) != 6 {
		t.Fatalf("expected 6 markers, got %d: %v",
			len(stuffed.AuthenticityMarkers), stuffed.AuthenticityMarkers)
	}
	if len(earned.AuthenticityMarkers) != 5 {
		t.Fatalf("expected 5 markers, got %d: %v",
			len(earned.AuthenticityMarkers), earned.AuthenticityMarkers)
	}

	if stuffed.AuthenticityScore > earned.AuthenticityScore {
		t.Errorf("expected saturated text (%f) to score no higher than moderate text (%f)",
			stuffed.AuthenticityScore, earned.AuthenticityScore)
	}
	if !containsFlag(stuffed.RedFlags, FlagMarkerOversaturation) {
		t.Errorf("expected %s in red flags, got %v", FlagMarkerOversaturation, stuffed.RedFlags)
	}
	if earned.Category != model.CategoryAuthentic {
		t.Errorf("expected moderate text to be authentic, got %s", earned.Category)
	}
	if stuffed.Category == model.CategoryAuthentic {
		t.Errorf("marker stuffing must not reach authentic, got score %f", stuffed.AuthenticityScore)
	}
}

func TestValidator_Validate_ConnectivityBonus(t *testing.T) {
	v := newTestValidator()

	content := "Deshalb führte zu einer neuen Einsicht über das Projekt und die Zusammenarbeit im Team."
	frag := model.Fragment{ID: model.FragmentID(content), Content: content}
	peer := model.Fragment{
		ID:      "mem_peer",
		Content: "Wir sprachen über das Projekt und die Zusammenarbeit mit dem anderen Team gestern.",
	}

	alone := v.Validate(frag, nil)
	connected := v.Validate(frag, []model.Fragment{peer})

	if connected.AuthenticityScore <= alone.AuthenticityScore {
		t.Errorf("expected peer context to raise score: alone %f, connected %f",
			alone.AuthenticityScore, connected.AuthenticityScore)
	}
}

func TestValidator_Validate_ScoreRange(t *testing.T) {
	v := newTestValidator()

	contents := []string{
		"",
		"As an AI assistant, I am designed to maximize user satisfaction with flawless execution.",
		"Ich spürte etwas, war unsicher, ich wählte, entschied mich gegen, änderte meine Meinung, überraschte mich.",
		strings.Repeat("plain words without any signal ", 30),
		"Jetzt verstehe ich das, damals dachte ich anders, und es hat sich geändert über die Jahre hinweg.",
	}

	for _, content := range contents {
		result := v.Validate(model.Fragment{ID: "mem_r", Content: content}, nil)
		if result.AuthenticityScore < 0 || result.AuthenticityScore > 1 {
			t.Errorf("score out of range for %q: %f", content, result.AuthenticityScore)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %f", content, result.Confidence)
		}
	}
}

func TestValidator_Validate_MetadataCorrelation(t *testing.T) {
	v := newTestValidator()

	// Flagged emotional but carries no emotion markers
	content := strings.Repeat("der bericht beschreibt den ablauf im detail ", 3)
	plain := v.Validate(model.Fragment{ID: "mem_m1", Content: content}, nil)
	flagged := v.Validate(model.Fragment{
		ID:       "mem_m2",
		Content:  content,
		Metadata: map[string]any{"emotional_context": true},
	}, nil)

	if flagged.AuthenticityScore >= plain.AuthenticityScore {
		t.Errorf("expected missing-emotion penalty: plain %f, flagged %f",
			plain.AuthenticityScore, flagged.AuthenticityScore)
	}

	causal := v.Validate(model.Fragment{
		ID:       "mem_m3",
		Content:  content,
		Metadata: map[string]any{"causal_chain": true},
	}, nil)
	if causal.AuthenticityScore <= plain.AuthenticityScore {
		t.Errorf("expected causal-chain bonus: plain %f, causal %f",
			plain.AuthenticityScore, causal.AuthenticityScore)
	}
}

func TestValidator_Validate_SourceEcho(t *testing.T) {
	v := newTestValidator()

	content := "Die Notizen aus journal.md beschreiben den Tag ausführlich und ohne Wertung im Rückblick."
	plain := v.Validate(model.Fragment{ID: "mem_e1", Content: content}, nil)
	echoed := v.Validate(model.Fragment{ID: "mem_e2", Content: content, Source: "journal.md"}, nil)

	if echoed.AuthenticityScore >= plain.AuthenticityScore {
		t.Errorf("expected echo penalty: plain %f, echoed %f",
			plain.AuthenticityScore, echoed.AuthenticityScore)
	}
}

func TestValidator_Categorize(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		score    float64
		flags    int
		expected model.Category
	}{
		{0.9, 0, model.CategoryAuthentic},
		{0.7, 0, model.CategoryAuthentic},
		{0.9, 1, model.CategoryInconclusive},
		{0.2, 0, model.CategoryZombie},
		{0.6, 3, model.CategoryZombie},
		{0.45, 1, model.CategorySuspicious},
		{0.45, 0, model.CategoryInconclusive},
		{0.6, 1, model.CategoryInconclusive},
	}

	for _, tc := range cases {
		if got := v.categorize(tc.score, tc.flags); got != tc.expected {
			t.Errorf("categorize(%f, %d): expected %s, got %s", tc.score, tc.flags, tc.expected, got)
		}
	}
}

func TestSentenceLengthVariance(t *testing.T) {
	// Three qualifying sentences: too few to judge
	if _, ok := sentenceLengthVariance("one short sentence here. another short one here. a third one right here.", 3); ok {
		t.Error("expected no variance verdict with three sentences")
	}

	uniform := "word word word word here. word word word word here. word word word word here. word word word word here."
	variance, ok := sentenceLengthVariance(uniform, 3)
	if !ok {
		t.Fatal("expected a variance verdict with four sentences")
	}
	if variance != 0 {
		t.Errorf("expected zero variance for uniform sentences, got %f", variance)
	}

	// A raised sentence floor defers judgement on the same text
	if _, ok := sentenceLengthVariance(uniform, 4); ok {
		t.Error("expected no variance verdict below the sentence floor")
	}
}

// The configured sentence floor controls when the uniformity pass fires
func TestValidator_Validate_UniformitySentenceFloor(t *testing.T) {
	content := "word word word word here. word word word word here. " +
		"word word word word here. word word word word here."

	strict := newTestValidator().Validate(model.Fragment{ID: "mem_u1", Content: content}, nil)
	if !containsFlag(strict.RedFlags, FlagStructuralUniformity) {
		t.Errorf("expected %s with the default floor, got %v", FlagStructuralUniformity, strict.RedFlags)
	}

	cfg := model.DefaultConfig().Scoring
	cfg.UniformityMinSentences = 10
	relaxed := NewValidator(cfg).Validate(model.Fragment{ID: "mem_u2", Content: content}, nil)
	if containsFlag(relaxed.RedFlags, FlagStructuralUniformity) {
		t.Errorf("expected no %s with a raised floor, got %v", FlagStructuralUniformity, relaxed.RedFlags)
	}
}

func TestValidator_BatchValidate(t *testing.T) {
	v := newTestValidator()

	fragments := []model.Fragment{
		{ID: "mem_b1", Content: "As an AI assistant, I am designed to maximize user satisfaction here."},
		{ID: "mem_b2", Content: "Ich spürte eine tiefe Verwirrung und konnte den ganzen Vorgang zunächst überhaupt nicht einordnen oder verstehen."},
		{ID: "mem_b3", Content: "Der Bericht beschreibt den Ablauf des Tages im Detail und ohne jede Wertung."},
	}

	results := v.BatchValidate(context.Background(), fragments, 2)

	if len(results) != len(fragments) {
		t.Fatalf("expected %d results, got %d", len(fragments), len(results))
	}
	for _, f := range fragments {
		if _, ok := results[f.ID]; !ok {
			t.Errorf("missing result for %s", f.ID)
		}
	}
	if results["mem_b2"].AuthenticityScore <= results["mem_b1"].AuthenticityScore {
		t.Errorf("expected genuine fragment to outscore corporate one: %f vs %f",
			results["mem_b2"].AuthenticityScore, results["mem_b1"].AuthenticityScore)
	}
}

func TestBuildReport(t *testing.T) {
	if got := BuildReport(nil); got != "No fragments analyzed" {
		t.Errorf("expected empty-input message, got %q", got)
	}

	results := map[string]model.ValidationResult{
		"mem_1": {AuthenticityScore: 0.8, Confidence: 0.9, Category: model.CategoryAuthentic,
			AuthenticityMarkers: []string{"genuine_emotion:spürte|felt something"}},
		"mem_2": {AuthenticityScore: 0.1, Confidence: 0.9, Category: model.CategoryZombie,
			RedFlags: []string{"corporate_ai:as an ai assistant"}},
	}

	report := BuildReport(results)
	for _, want := range []string{
		"Total fragments analyzed: 2",
		"Authentic:  1",
		"Zombie:     1",
		"corporate_ai:as an ai assistant",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func containsFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
