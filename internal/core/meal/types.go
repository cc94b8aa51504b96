package meal

// HouseholdMember is one person in the household. Only Name and
// DietaryPreference are required; everything else degrades to a
// sentinel when absent.
type HouseholdMember struct {
	Name                 string `json:"name" binding:"required"`
	Age                  *int   `json:"age,omitempty"`
	Birthday             string `json:"birthday,omitempty"`
	DietaryPreference    string `json:"dietary_preference" binding:"required"`
	HealthGoals          string `json:"health_goals,omitempty"`
	Dislikes             string `json:"dislikes,omitempty"`
	Allergies            string `json:"allergies,omitempty"`
	MedicalConditions    string `json:"medical_conditions,omitempty"`
	ReligiousPreferences string `json:"religious_preferences,omitempty"`
	SpecialNotes         string `json:"special_notes,omitempty"`
	ReligiousRules       string `json:"religious_rules,omitempty"`
}

// Request is the unit of work for a single meal recommendation.
type Request struct {
	Members     []HouseholdMember `json:"family_members"`
	Ingredients []string          `json:"ingredients"`
	MealType    string            `json:"mealType"`
	DayOfWeek   string            `json:"dayOfWeek"`
}

// Empty reports whether the request carries no usable signal.
func (r *Request) Empty() bool {
	return len(r.Members) == 0 && len(r.Ingredients) == 0
}

// MealInfo describes the chosen dish.
type MealInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "veg" | "non-veg"
	Cuisine     string `json:"cuisine"`
	WhyThisMeal string `json:"why_this_meal"`
}

// IngredientUsed is one ingredient of the dish with its category.
type IngredientUsed struct {
	Ingredient string `json:"ingredient"`
	Category   string `json:"category"` // vegetable|protein|grain|dairy|spice|other
}

// Recipe is the cooking procedure.
type Recipe struct {
	TotalTimeMinutes int      `json:"total_time_minutes"`
	Steps            []string `json:"steps"`
}

// MemberRecommendation is a per-member serving suggestion.
type MemberRecommendation struct {
	Name           string `json:"name"`
	Recommendation string `json:"recommendation"`
}

// MemberCateredPoints lists how the meal caters to one member.
type MemberCateredPoints struct {
	Name   string   `json:"name"`
	Points []string `json:"points"`
}

// GeneratedMeal is the structured output contract. Conformance beyond
// parseability is advisory, enforced only through the compiled prompt.
type GeneratedMeal struct {
	Meal                          MealInfo               `json:"meal"`
	IngredientsUsed               []IngredientUsed       `json:"ingredients_used"`
	Recipe                        Recipe                 `json:"recipe"`
	MemberSpecificRecommendations []MemberRecommendation `json:"member_specific_recommendations"`
	MemberCateredPoints           []MemberCateredPoints  `json:"member_catered_points"`
	ServingNotes                  string                 `json:"serving_notes"`
	Tips                          []string               `json:"tips"`
}
