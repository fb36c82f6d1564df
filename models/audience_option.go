package models

// AudienceOption is a selectable demographic or interest tag
type AudienceOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AudienceOptionGroup is a named category of options
type AudienceOptionGroup struct {
	Category string           `json:"category"`
	Options  []AudienceOption `json:"options"`
}

// AudienceOptionCatalog is the fixed list of audience tags users can select
var AudienceOptionCatalog = []AudienceOptionGroup{
	{
		Category: "Spending Habits",
		Options: []AudienceOption{
			{Label: "Luxury Shoppers", Value: "urn:audience:spending_habits:luxury_shoppers"},
			{Label: "Bargain Hunters", Value: "urn:audience:spending_habits:bargain_hunters"},
			{Label: "Vintage Apparel", Value: "urn:audience:spending_habits:vintage_apparel"},
			{Label: "Sustainable Buyers", Value: "urn:audience:spending_habits:sustainable_buyers"},
		},
	},
	{
		Category: "Life Stage",
		Options: []AudienceOption{
			{Label: "Students", Value: "urn:audience:life_stage:students"},
			{Label: "New Parents", Value: "urn:audience:life_stage:new_parents"},
			{Label: "Young Professionals", Value: "urn:audience:life_stage:young_professionals"},
			{Label: "Retirees", Value: "urn:audience:life_stage:retirees"},
		},
	},
	{
		Category: "Hobbies and Interests",
		Options: []AudienceOption{
			{Label: "Coffee Enthusiasts", Value: "urn:audience:hobbies_and_interests:coffee"},
			{Label: "Gamers", Value: "urn:audience:hobbies_and_interests:gaming"},
			{Label: "Home Cooks", Value: "urn:audience:hobbies_and_interests:cooking"},
			{Label: "Outdoor Adventurers", Value: "urn:audience:hobbies_and_interests:outdoors"},
			{Label: "Photographers", Value: "urn:audience:hobbies_and_interests:photography"},
		},
	},
	{
		Category: "Lifestyle Preferences",
		Options: []AudienceOption{
			{Label: "Fitness Focused", Value: "urn:audience:lifestyle_preferences_beliefs:fitness"},
			{Label: "Plant Based", Value: "urn:audience:lifestyle_preferences_beliefs:plant_based"},
			{Label: "Frequent Travelers", Value: "urn:audience:lifestyle_preferences_beliefs:travel"},
			{Label: "Pet Owners", Value: "urn:audience:lifestyle_preferences_beliefs:pet_owners"},
		},
	},
	{
		Category: "Political Preferences",
		Options: []AudienceOption{
			{Label: "Progressive", Value: "urn:audience:political_preferences:progressive"},
			{Label: "Moderate", Value: "urn:audience:political_preferences:moderate"},
			{Label: "Conservative", Value: "urn:audience:political_preferences:conservative"},
		},
	},
	{
		Category: "Global Issues",
		Options: []AudienceOption{
			{Label: "Climate Action", Value: "urn:audience:global_issues:climate_action"},
			{Label: "Education Access", Value: "urn:audience:global_issues:education"},
			{Label: "Public Health", Value: "urn:audience:global_issues:public_health"},
		},
	},
	{
		Category: "Investing Interests",
		Options: []AudienceOption{
			{Label: "Crypto", Value: "urn:audience:investing_interests:crypto"},
			{Label: "Real Estate", Value: "urn:audience:investing_interests:real_estate"},
			{Label: "Stock Market", Value: "urn:audience:investing_interests:stocks"},
		},
	},
}

// GenreCatalog is the fixed list of genre tags grouped by medium
var GenreCatalog = []AudienceOptionGroup{
	{
		Category: "Film and TV",
		Options: []AudienceOption{
			{Label: "Action", Value: "urn:tag:genre:media:action"},
			{Label: "Comedy", Value: "urn:tag:genre:media:comedy"},
			{Label: "Drama", Value: "urn:tag:genre:media:drama"},
			{Label: "Documentary", Value: "urn:tag:genre:media:documentary"},
			{Label: "Horror", Value: "urn:tag:genre:media:horror"},
			{Label: "Science Fiction", Value: "urn:tag:genre:media:science_fiction"},
		},
	},
	{
		Category: "Music",
		Options: []AudienceOption{
			{Label: "Pop", Value: "urn:tag:genre:music:pop"},
			{Label: "Hip Hop", Value: "urn:tag:genre:music:hip_hop"},
			{Label: "Rock", Value: "urn:tag:genre:music:rock"},
			{Label: "Jazz", Value: "urn:tag:genre:music:jazz"},
			{Label: "Electronic", Value: "urn:tag:genre:music:electronic"},
		},
	},
	{
		Category: "Books",
		Options: []AudienceOption{
			{Label: "Fantasy", Value: "urn:tag:genre:book:fantasy"},
			{Label: "Mystery", Value: "urn:tag:genre:book:mystery"},
			{Label: "Self Help", Value: "urn:tag:genre:book:self_help"},
			{Label: "Biography", Value: "urn:tag:genre:book:biography"},
		},
	},
}

// OtherOptionCategory groups selected values that are not in a catalog
const OtherOptionCategory = "Other"

// LookupOption finds value in the given catalog and returns its category and option
func LookupOption(catalog []AudienceOptionGroup, value string) (string, AudienceOption, bool) {
	for _, group := range catalog {
		for _, opt := range group.Options {
			if opt.Value == value {
				return group.Category, opt, true
			}
		}
	}
	return "", AudienceOption{}, false
}
