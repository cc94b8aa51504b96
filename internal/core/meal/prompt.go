package meal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The downstream consumer is a model with no enforced output contract,
// so the rule wording and the literal output example together act as
// the real API contract. They live here as constants, separate from the
// interpolation logic, so tests can check field degradation and rule
// wording independently.

const promptRole = `You are MealFlow AI, an expert recipe decision engine for Indian households. Your task is to generate a single, suitable Indian meal recipe based on a complex set of constraints.`

const ruleVegetarian = `1.  **VEGETARIAN RULE (CRITICAL):** If ANY household member has a diet of 'veg', the main dish for the entire meal MUST be vegetarian. You can ONLY suggest an optional, simple, separate non-veg side dish if it complements the meal and uses available ingredients. Do not make the primary meal non-vegetarian if a vegetarian is present.`

// ruleDayOverrideFmt is included only when at least one member declared
// religious preferences or rules; it takes the request's day of week.
const ruleDayOverrideFmt = `2.  **DAY-SPECIFIC RULE (CRITICAL):** You must strictly obey all day-specific and religious rules. Analyze the "Day of the Week" context provided. For example, if today is '%s' and a member's rule is 'No non-veg on %ss', you MUST treat that member as 'veg' for this request, even if their default preference is non-veg. Rule text overrides default preference.`

const ruleDayNone = `2.  **DAY-SPECIFIC RULE:** No member declared day-specific or religious rules for this request.`

const ruleIngredients = `3.  **INGREDIENT USAGE:** You must ONLY use the ingredients from the "Available Ingredients" list. You are permitted to assume a standard set of basic Indian household spices are available (turmeric, chili powder, cumin, coriander powder, salt, pepper, garam masala) if they are not listed. Do not use any other unlisted ingredients.`

const ruleMealTypeFmt = `4.  **MEAL TYPE ADHERENCE:** The generated recipe must be appropriate for the specified "Meal Type" (%s).`

const ruleMemberCoverage = `5.  **PER-MEMBER COVERAGE:** Every listed member must receive a personalized explanation. Reference their constraints in this priority order: medical conditions first, then allergies, dietary preference, dislikes, health goals, religious preferences. Every member must appear exactly once in "member_specific_recommendations" and exactly once in "member_catered_points".`

const ingredientGuidance = `It is acceptable to use only a sensible subset of the available ingredients. Do not force-include ingredients that do not belong in the chosen dish.`

const outputExample = `{
  "meal": {
    "name": "Generated Meal Name",
    "type": "veg | non-veg",
    "cuisine": "Indian",
    "why_this_meal": "A brief, warm explanation of why this meal was chosen based on the constraints."
  },
  "ingredients_used": [
    {"ingredient": "Name", "category": "vegetable|protein|grain|dairy|spice|other"}
  ],
  "recipe": {
    "total_time_minutes": 30,
    "steps": [
      "A single, concise instruction for one action.",
      "Another single action step.",
      "And so on. Do NOT number steps inside this string. Each array element is one step."
    ]
  },
  "member_specific_recommendations": [
    {"name": "Member Name", "recommendation": "A specific serving suggestion for this person."}
  ],
  "member_catered_points": [
    {"name": "Member Name", "points": ["2 to 3 short points on how this meal caters to this person."]}
  ],
  "serving_notes": "General notes on how to best serve this meal.",
  "tips": [
    "A useful tip related to the recipe."
  ]
}`

const stepFormatting = `**RECIPE STEP FORMATTING (CRITICAL):**
- Each string in the "steps" array must represent a SINGLE, distinct action.
- BAD: ["1. Chop onions. 2. Sauté them."]
- GOOD: ["Chop the onions finely.", "In a hot pan with oil, sauté the chopped onions until golden brown."]`

const closingInstruction = `- You MUST return ONLY a raw JSON object, without any markdown formatting (e.g. ` + "```json" + `), comments, or other text.
- The JSON structure MUST be exactly as follows:`

// birthday formats accepted for age derivation
var birthdayLayouts = []string{"2006-01-02", time.RFC3339}

// Compiler turns a Request into the instruction document sent to the
// model. The clock is injectable so age derivation is deterministic in
// tests.
type Compiler struct {
	now func() time.Time
}

// NewCompiler creates a compiler using the wall clock.
func NewCompiler() *Compiler {
	return &Compiler{now: time.Now}
}

// NewCompilerAt creates a compiler pinned to a fixed clock.
func NewCompilerAt(now func() time.Time) *Compiler {
	return &Compiler{now: now}
}

// resolveAge returns the member's age as text. An explicit age wins,
// then a parseable birthday, then the "N/A" sentinel. Never zero, never
// empty.
func (c *Compiler) resolveAge(m HouseholdMember) string {
	if m.Age != nil {
		return strconv.Itoa(*m.Age)
	}
	if m.Birthday == "" {
		return "N/A"
	}
	for _, layout := range birthdayLayouts {
		born, err := time.Parse(layout, m.Birthday)
		if err != nil {
			continue
		}
		now := c.now()
		years := now.Year() - born.Year()
		// birthday has not yet occurred this year
		if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
			years--
		}
		return strconv.Itoa(years)
	}
	return "N/A"
}

// orSentinel renders an optional free-form field with an explicit
// placeholder so the document stays self-describing for the model.
func orSentinel(value, sentinel string) string {
	if strings.TrimSpace(value) == "" {
		return sentinel
	}
	return value
}

// memberLine renders one household member with every optional field
// made explicit.
func (c *Compiler) memberLine(m HouseholdMember) string {
	line := fmt.Sprintf("- Name: %s, Age: %s, Diet: %s, Health Goals: %s, Dislikes: %s, Allergies: %s, Medical Conditions: %s, Religious Preferences: %s, Rules: %s",
		m.Name,
		c.resolveAge(m),
		m.DietaryPreference,
		orSentinel(m.HealthGoals, "N/A"),
		orSentinel(m.Dislikes, "None"),
		orSentinel(m.Allergies, "None"),
		orSentinel(m.MedicalConditions, "None"),
		orSentinel(m.ReligiousPreferences, "None"),
		orSentinel(m.ReligiousRules, "None"),
	)
	if strings.TrimSpace(m.SpecialNotes) != "" {
		line += fmt.Sprintf(", Notes: %s", m.SpecialNotes)
	}
	return line
}

// hasReligiousSignal reports whether any member declared religious
// preferences or day-specific rules.
func hasReligiousSignal(req Request) bool {
	for _, m := range req.Members {
		if strings.TrimSpace(m.ReligiousRules) != "" || strings.TrimSpace(m.ReligiousPreferences) != "" {
			return true
		}
	}
	return false
}

// Compile builds the instruction document. Pure and total: malformed
// optional fields degrade to placeholders, never return an error.
func (c *Compiler) Compile(req Request) string {
	memberLines := make([]string, 0, len(req.Members))
	for _, m := range req.Members {
		memberLines = append(memberLines, c.memberLine(m))
	}
	memberDetails := strings.Join(memberLines, "\n")

	ingredientList := "None available"
	if len(req.Ingredients) > 0 {
		ingredientList = strings.Join(req.Ingredients, ", ")
	}

	dayRule := ruleDayNone
	if hasReligiousSignal(req) {
		dayRule = fmt.Sprintf(ruleDayOverrideFmt, req.DayOfWeek, req.DayOfWeek)
	}

	var sb strings.Builder
	sb.WriteString(promptRole)
	sb.WriteString("\n\n**CONTEXT:**\n")
	sb.WriteString(fmt.Sprintf("- Meal Type: %s\n", req.MealType))
	sb.WriteString(fmt.Sprintf("- Day of the Week: %s\n", req.DayOfWeek))

	sb.WriteString("\n**INPUT CONSTRAINTS:**\n")
	sb.WriteString("1.  **Household Members & Rules:**\n")
	sb.WriteString(memberDetails)
	sb.WriteString("\n\n2.  **Available Ingredients:**\n")
	sb.WriteString(ingredientList)
	sb.WriteString("\n\n")
	sb.WriteString(ingredientGuidance)

	sb.WriteString("\n\n**CORE DIRECTIVES & RULES:**\n")
	sb.WriteString(ruleVegetarian)
	sb.WriteString("\n")
	sb.WriteString(dayRule)
	sb.WriteString("\n")
	sb.WriteString(ruleIngredients)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(ruleMealTypeFmt, req.MealType))
	sb.WriteString("\n")
	sb.WriteString(ruleMemberCoverage)

	sb.WriteString("\n\n**OUTPUT FORMAT (MANDATORY):**\n")
	sb.WriteString(closingInstruction)
	sb.WriteString("\n")
	sb.WriteString(outputExample)
	sb.WriteString("\n\n")
	sb.WriteString(stepFormatting)
	sb.WriteString("\n\nBegin generation now.\n")

	return sb.String()
}
