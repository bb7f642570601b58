package classify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/civicgo/civicgo/internal/model"
)

// Concept is one label/score pair from a provider response
type Concept struct {
	Label string
	Score float64
}

// categoryKeywords is the canonical keyword-to-category table shared by all
// adapters. It must stay shared so identical labels categorize identically
// regardless of which provider answered.
var categoryKeywords = map[model.Category][]string{
	model.CategoryWater: {
		"water", "leak", "pipe", "flood", "drainage", "drain", "hydrant", "puddle", "tap",
	},
	model.CategoryElectricity: {
		"electric", "power", "wire", "cable", "transformer", "streetlight", "lamp", "pole", "voltage",
	},
	model.CategoryRoads: {
		"road", "pothole", "street", "asphalt", "pavement", "sidewalk", "crack", "highway", "traffic",
	},
	model.CategorySanitation: {
		"garbage", "trash", "waste", "litter", "sewage", "dump", "rubbish", "toilet", "debris",
	},
	model.CategoryInfrastructure: {
		"building", "bridge", "wall", "construction", "fence", "concrete", "structure", "pillar",
	},
}

// titlePhrases maps category-specific sub-keywords to a synthesized title.
// Checked in slice order; first match wins.
var titlePhrases = map[model.Category][]struct {
	keyword string
	title   string
}{
	model.CategoryWater: {
		{"burst", "Burst Water Pipe"},
		{"leak", "Water Leakage"},
		{"flood", "Street Flooding"},
		{"drain", "Blocked Drainage"},
		{"pipe", "Damaged Water Pipe"},
	},
	model.CategoryElectricity: {
		{"wire", "Exposed Electrical Wiring"},
		{"cable", "Exposed Electrical Wiring"},
		{"streetlight", "Broken Streetlight"},
		{"lamp", "Broken Streetlight"},
		{"transformer", "Transformer Fault"},
		{"pole", "Damaged Utility Pole"},
	},
	model.CategoryRoads: {
		{"pothole", "Road Pothole"},
		{"crack", "Cracked Road Surface"},
		{"sidewalk", "Damaged Sidewalk"},
		{"traffic", "Traffic Signal Fault"},
	},
	model.CategorySanitation: {
		{"sewage", "Sewage Overflow"},
		{"dump", "Illegal Dumping"},
		{"litter", "Littered Public Area"},
		{"garbage", "Garbage Accumulation"},
		{"trash", "Garbage Accumulation"},
	},
	model.CategoryInfrastructure: {
		{"bridge", "Damaged Bridge"},
		{"building", "Unsafe Building"},
		{"wall", "Collapsed Wall"},
		{"fence", "Broken Fencing"},
	},
}

// genericTitles is the per-category fallback when no sub-keyword matches
var genericTitles = map[model.Category]string{
	model.CategoryWater:          "Water Supply Issue",
	model.CategoryElectricity:    "Electrical Hazard",
	model.CategoryRoads:          "Road Damage",
	model.CategorySanitation:     "Sanitation Issue",
	model.CategoryInfrastructure: "Infrastructure Damage",
	model.CategoryOthers:         "Civic Issue Report",
}

// priorityKeywords is a best-effort urgency heuristic, not an exhaustive
// rule set. Unmatched text falls through to Medium.
var priorityKeywords = []struct {
	keyword  string
	priority model.Priority
}{
	{"burst", model.PriorityUrgent},
	{"major", model.PriorityUrgent},
	{"severe", model.PriorityUrgent},
	{"collapse", model.PriorityUrgent},
	{"overflow", model.PriorityUrgent},
	{"fire", model.PriorityUrgent},
	{"exposed", model.PriorityUrgent},
	{"broken", model.PriorityHigh},
	{"outage", model.PriorityHigh},
	{"blocked", model.PriorityHigh},
	{"flood", model.PriorityHigh},
	{"minor", model.PriorityLow},
	{"small", model.PriorityLow},
	{"slight", model.PriorityLow},
}

// CategoryForLabel maps a raw provider label to a civic category.
// Unrecognized labels report false; callers map those to Others.
func CategoryForLabel(label string) (model.Category, bool) {
	lower := strings.ToLower(label)
	for _, cat := range model.Categories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat, true
			}
		}
	}
	return model.CategoryOthers, false
}

// TitleForLabel synthesizes a human-readable title from the winning
// category and label, falling back to the generic per-category title
func TitleForLabel(cat model.Category, label string) string {
	lower := strings.ToLower(label)
	for _, phrase := range titlePhrases[cat] {
		if strings.Contains(lower, phrase.keyword) {
			return phrase.title
		}
	}
	return genericTitles[cat]
}

// PriorityForText derives a priority from label text
func PriorityForText(text string) model.Priority {
	lower := strings.ToLower(text)
	for _, rule := range priorityKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.priority
		}
	}
	return model.PriorityMedium
}

// ResultFromConcepts applies the shared mapping rules to a provider's
// label/score pairs: scan the top-K concepts, pick the category whose
// matching concept carries the highest provider-reported score (ties keep
// the first-seen concept), and synthesize title/description/priority from
// the winner. Concepts that match no keyword only count toward the Others
// fallback.
func ResultFromConcepts(provider string, concepts []Concept) (*model.ClassificationResult, error) {
	if len(concepts) == 0 {
		return nil, providerErr(provider, fmt.Errorf("no labels in response"))
	}

	scan := concepts
	if len(scan) > topK {
		scan = scan[:topK]
	}

	var (
		winner   Concept
		category model.Category
		matched  bool
	)
	for _, c := range scan {
		cat, ok := CategoryForLabel(c.Label)
		if !ok {
			continue
		}
		// Strictly-greater keeps first-seen order on ties
		if !matched || c.Score > winner.Score {
			winner = c
			category = cat
			matched = true
		}
	}

	if !matched {
		// Nothing recognizably civic; never leave the category unset
		winner = scan[0]
		category = model.CategoryOthers
	}

	title := TitleForLabel(category, winner.Label)
	desc := fmt.Sprintf("Image analysis detected %q (score %.2f). Categorized as a %s issue.",
		winner.Label, winner.Score, category)
	if len(desc) > 200 {
		// Cut on a rune boundary; provider labels are not always ASCII
		cut := 200
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut]
	}

	return &model.ClassificationResult{
		Title:       title,
		Category:    category,
		Description: desc,
		Confidence:  winner.Score,
		Priority:    PriorityForText(winner.Label),
		Provider:    provider,
	}, nil
}
