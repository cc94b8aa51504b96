package meal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func intPtr(v int) *int {
	return &v
}

func TestResolveAgeExplicitAgeWins(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	m := HouseholdMember{Name: "Ravi", Age: intPtr(40), Birthday: "2000-06-15"}
	assert.Equal(t, "40", c.resolveAge(m))
}

func TestResolveAgeFromBirthday(t *testing.T) {
	m := HouseholdMember{Name: "Ravi", Birthday: "2000-06-15"}

	// the day before the birthday the year has not completed
	c := NewCompilerAt(fixedClock(2024, time.June, 14))
	assert.Equal(t, "23", c.resolveAge(m))

	// on the birthday itself the year counts
	c = NewCompilerAt(fixedClock(2024, time.June, 15))
	assert.Equal(t, "24", c.resolveAge(m))
}

func TestResolveAgeRFC3339Birthday(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	m := HouseholdMember{Name: "Ravi", Birthday: "2000-06-15T00:00:00Z"}
	assert.Equal(t, "24", c.resolveAge(m))
}

func TestResolveAgeDegradesToSentinel(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))

	assert.Equal(t, "N/A", c.resolveAge(HouseholdMember{Name: "Ravi"}))
	assert.Equal(t, "N/A", c.resolveAge(HouseholdMember{Name: "Ravi", Birthday: "not-a-date"}))
	assert.Equal(t, "N/A", c.resolveAge(HouseholdMember{Name: "Ravi", Birthday: "15/06/2000"}))
}

func TestMemberLineSentinels(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	line := c.memberLine(HouseholdMember{Name: "Asha", DietaryPreference: "veg"})

	assert.Equal(t,
		"- Name: Asha, Age: N/A, Diet: veg, Health Goals: N/A, Dislikes: None, Allergies: None, Medical Conditions: None, Religious Preferences: None, Rules: None",
		line)
}

func TestMemberLineSpecialNotesAppended(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	line := c.memberLine(HouseholdMember{
		Name:              "Asha",
		DietaryPreference: "veg",
		SpecialNotes:      "prefers mild food",
	})

	assert.True(t, strings.HasSuffix(line, ", Notes: prefers mild food"))
}

func TestCompileIngredientsVerbatim(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	prompt := c.Compile(Request{
		Members:     []HouseholdMember{{Name: "Asha", DietaryPreference: "veg"}},
		Ingredients: []string{"rice", "dal", "turmeric"},
		MealType:    "dinner",
		DayOfWeek:   "Monday",
	})

	assert.Contains(t, prompt, "rice, dal, turmeric")
}

func TestCompileNoIngredients(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	prompt := c.Compile(Request{
		Members:   []HouseholdMember{{Name: "Asha", DietaryPreference: "veg"}},
		MealType:  "dinner",
		DayOfWeek: "Monday",
	})

	assert.Contains(t, prompt, "None available")
}

func TestCompileIdempotentWithPinnedClock(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	req := Request{
		Members: []HouseholdMember{
			{Name: "Asha", DietaryPreference: "veg", Birthday: "2000-06-15"},
			{Name: "Ravi", DietaryPreference: "non-veg", Dislikes: "okra"},
		},
		Ingredients: []string{"rice", "dal", "turmeric"},
		MealType:    "dinner",
		DayOfWeek:   "Monday",
	}

	assert.Equal(t, c.Compile(req), c.Compile(req))
}

func TestCompileDayRuleOnlyWithReligiousSignal(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))

	// no religious input: the day must not drive any override language
	prompt := c.Compile(Request{
		Members:   []HouseholdMember{{Name: "Asha", DietaryPreference: "veg"}},
		MealType:  "dinner",
		DayOfWeek: "Monday",
	})
	assert.Contains(t, prompt, "No member declared day-specific or religious rules")
	assert.NotContains(t, prompt, "No non-veg on Mondays")
	assert.NotContains(t, prompt, "Rule text overrides default preference")

	// a declared rule activates the override directive with the day
	prompt = c.Compile(Request{
		Members: []HouseholdMember{{
			Name:              "Ravi",
			DietaryPreference: "non-veg",
			ReligiousRules:    "No non-veg on Tuesdays",
		}},
		MealType:  "dinner",
		DayOfWeek: "Tuesday",
	})
	assert.Contains(t, prompt, "if today is 'Tuesday' and a member's rule is 'No non-veg on Tuesdays'")
	assert.Contains(t, prompt, "Rule text overrides default preference")
}

func TestCompileDocumentStructure(t *testing.T) {
	c := NewCompilerAt(fixedClock(2024, time.June, 15))
	prompt := c.Compile(Request{
		Members: []HouseholdMember{
			{Name: "Asha", DietaryPreference: "veg", HealthGoals: "weight loss"},
		},
		Ingredients: []string{"rice", "dal", "turmeric"},
		MealType:    "dinner",
		DayOfWeek:   "Monday",
	})

	require.NotEmpty(t, prompt)

	assert.Contains(t, prompt, "You are MealFlow AI")
	assert.Contains(t, prompt, "- Meal Type: dinner")
	assert.Contains(t, prompt, "- Day of the Week: Monday")
	assert.Contains(t, prompt, "- Name: Asha, Age: N/A, Diet: veg, Health Goals: weight loss")
	assert.Contains(t, prompt, "**VEGETARIAN RULE (CRITICAL):**")
	assert.Contains(t, prompt, "**INGREDIENT USAGE:**")
	assert.Contains(t, prompt, "appropriate for the specified \"Meal Type\" (dinner)")
	assert.Contains(t, prompt, "**PER-MEMBER COVERAGE:**")
	assert.Contains(t, prompt, `"member_catered_points"`)
	assert.Contains(t, prompt, "**RECIPE STEP FORMATTING (CRITICAL):**")
	assert.True(t, strings.HasSuffix(prompt, "Begin generation now.\n"))

	// section ordering
	ctxIdx := strings.Index(prompt, "**CONTEXT:**")
	inputIdx := strings.Index(prompt, "**INPUT CONSTRAINTS:**")
	rulesIdx := strings.Index(prompt, "**CORE DIRECTIVES & RULES:**")
	outputIdx := strings.Index(prompt, "**OUTPUT FORMAT (MANDATORY):**")
	assert.True(t, ctxIdx < inputIdx && inputIdx < rulesIdx && rulesIdx < outputIdx)
}
