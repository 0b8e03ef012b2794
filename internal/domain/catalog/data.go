package catalog

var defaultPillars = []Pillar{ //nolint:gochecknoglobals // static data
	{
		ID:   PillarInflammation,
		Name: "Reduce Scalp Inflammation",
		Icon: "🛡️",
		Tasks: []Task{
			{ID: "no_shampoo", Label: "No shampoo (water-only wash)", Daily: true},
			{ID: "sunlight", Label: "15-30 min sunlight exposure", Daily: true},
			{ID: "no_gluten", Label: "Avoided gluten today", Daily: true},
			{ID: "no_processed", Label: "Avoided processed foods", Daily: true},
			{ID: "shower_filter", Label: "Shower filter active", Daily: true, OneTimeSetup: true},
			{ID: "no_hair_products", Label: "No synthetic hair products", Daily: true},
		},
	},
	{
		ID:   PillarBloodFlow,
		Name: "Improve Blood Flow",
		Icon: "💉",
		Tasks: []Task{
			{ID: "morning_massage", Label: "Morning scalp massage", Daily: true, TimerSeconds: 300},
			{ID: "evening_massage", Label: "Evening scalp massage", Daily: true, TimerSeconds: 300},
			{ID: "essential_oils", Label: "Applied rosemary oil", Daily: true},
			{ID: "microneedling", Label: "Microneedling session", Frequency: "Every other day", TimerSeconds: 240, Guide: true},
			{ID: "inversion", Label: "Inversion therapy", Frequency: "4x/week", TimerSeconds: 600},
		},
	},
	{
		ID:   PillarNutrients,
		Name: "Supply Nutrients",
		Icon: "🥗",
		Tasks: []Task{
			{ID: "breakfast_eggs", Label: "3-4 eggs + butter + greens", Daily: true},
			{ID: "lunch_meat", Label: "100g meat + rice + mushrooms", Daily: true},
			{ID: "snack_seeds", Label: "Pumpkin/sunflower seeds", Daily: true},
			{ID: "water", Label: "8 glasses of water", Daily: true, Counter: true},
			{ID: "morning_wheatgrass", Label: "Wheat grass powder (1 tsp)", Daily: true},
			{ID: "morning_kelp", Label: "Kelp powder (1/4 tsp)", Daily: true},
			{ID: "evening_wheatgrass", Label: "Evening wheat grass", Daily: true},
			{ID: "evening_kelp", Label: "Evening kelp", Daily: true},
			{ID: "hair_mask", Label: "Nutrient hair mask (4-7hrs)", Frequency: "2x/week", TimerSeconds: 14400},
		},
	},
}

var defaultMilestones = []Milestone{ //nolint:gochecknoglobals // static data
	{Days: 7, Label: "Week Warrior", Emoji: "🥉"},
	{Days: 30, Label: "Monthly Champion", Emoji: "🥈"},
	{Days: 60, Label: "Halfway Hero", Emoji: "🥇"},
	{Days: 84, Label: "Transformation Complete", Emoji: "🏆"},
}
