package domain

import "strings"

// PositionOption is a catalog entry offered on step 1.
type PositionOption struct {
	Name        string           `json:"name"`
	Category    PositionCategory `json:"category"`
	Description string           `json:"description"`
}

// HobbyOption is a catalog entry offered on step 3.
type HobbyOption struct {
	Name        string        `json:"name"`
	Category    HobbyCategory `json:"category"`
	Description string        `json:"description"`
	IsPopular   bool          `json:"isPopular,omitempty"`
}

// OnboardingOptions is everything the UI needs to render the pickers.
type OnboardingOptions struct {
	Positions          []PositionOption            `json:"positions"`
	Hobbies            []HobbyOption               `json:"hobbies"`
	PositionCategories map[PositionCategory]string `json:"positionCategories"`
	HobbyCategories    map[HobbyCategory]string    `json:"hobbyCategories"`
	Steps              []StepConfig                `json:"steps"`
	MaxPositions       int                         `json:"maxPositions"`
	MaxHobbies         int                         `json:"maxHobbies"`
	MaxResumeSize      int64                       `json:"maxResumeSize"`
	AllowedResumeTypes []string                    `json:"allowedResumeTypes"`
}

var PositionCategoryLabels = map[PositionCategory]string{
	PositionEngineering: "Engineering",
	PositionData:        "Data & Analytics",
	PositionProduct:     "Product & Design",
	PositionBusiness:    "Business & Operations",
	PositionCreative:    "Creative & Media",
	PositionOther:       "Other",
}

var HobbyCategoryLabels = map[HobbyCategory]string{
	HobbySports:       "Sports & Fitness",
	HobbyCreative:     "Creative Arts",
	HobbyIntellectual: "Intellectual",
	HobbySocial:       "Social Activities",
	HobbyOutdoor:      "Outdoor & Nature",
	HobbyTechnology:   "Technology",
	HobbyOther:        "Other",
}

var PositionOptions = []PositionOption{
	{Name: "Software Engineering", Category: PositionEngineering, Description: "Develop software applications and systems"},
	{Name: "Frontend Development", Category: PositionEngineering, Description: "Build user interfaces and web applications"},
	{Name: "Backend Development", Category: PositionEngineering, Description: "Develop server-side applications and APIs"},
	{Name: "Full Stack Development", Category: PositionEngineering, Description: "Work on both frontend and backend systems"},
	{Name: "DevOps Engineering", Category: PositionEngineering, Description: "Manage infrastructure and deployment processes"},
	{Name: "Mobile Development", Category: PositionEngineering, Description: "Build mobile applications for iOS and Android"},
	{Name: "QA Engineering", Category: PositionEngineering, Description: "Ensure software quality through testing"},

	{Name: "Data Science", Category: PositionData, Description: "Analyze data to extract insights and build models"},
	{Name: "Data Engineering", Category: PositionData, Description: "Build data pipelines and infrastructure"},
	{Name: "Data Analytics", Category: PositionData, Description: "Analyze business data and create reports"},
	{Name: "Machine Learning", Category: PositionData, Description: "Develop AI and ML models"},
	{Name: "Business Intelligence", Category: PositionData, Description: "Create dashboards and data visualizations"},

	{Name: "Product Management", Category: PositionProduct, Description: "Lead product strategy and development"},
	{Name: "UX/UI Design", Category: PositionProduct, Description: "Design user experiences and interfaces"},
	{Name: "Product Design", Category: PositionProduct, Description: "Create product concepts and prototypes"},
	{Name: "Graphic Design", Category: PositionProduct, Description: "Create visual content and branding"},
	{Name: "User Research", Category: PositionProduct, Description: "Conduct user research and usability testing"},

	{Name: "Consulting", Category: PositionBusiness, Description: "Provide strategic advice to organizations"},
	{Name: "Marketing", Category: PositionBusiness, Description: "Develop and execute marketing strategies"},
	{Name: "Sales", Category: PositionBusiness, Description: "Drive revenue through customer relationships"},
	{Name: "Finance", Category: PositionBusiness, Description: "Manage financial planning and analysis"},
	{Name: "Human Resources", Category: PositionBusiness, Description: "Manage talent and organizational development"},
	{Name: "Operations", Category: PositionBusiness, Description: "Optimize business processes and efficiency"},
	{Name: "Project Management", Category: PositionBusiness, Description: "Lead projects and coordinate teams"},
	{Name: "Business Development", Category: PositionBusiness, Description: "Identify and pursue growth opportunities"},

	{Name: "Content Creation", Category: PositionCreative, Description: "Create engaging content for various platforms"},
	{Name: "Video Production", Category: PositionCreative, Description: "Produce video content and multimedia"},
	{Name: "Photography", Category: PositionCreative, Description: "Capture and edit visual content"},
	{Name: "Social Media Management", Category: PositionCreative, Description: "Manage social media presence and strategy"},
	{Name: "Brand Management", Category: PositionCreative, Description: "Develop and maintain brand identity"},

	{Name: "Research", Category: PositionOther, Description: "Conduct academic or industry research"},
	{Name: "Education", Category: PositionOther, Description: "Teach and develop educational content"},
	{Name: "Healthcare", Category: PositionOther, Description: "Work in healthcare and medical fields"},
	{Name: "Legal", Category: PositionOther, Description: "Provide legal services and counsel"},
	{Name: "Non-profit", Category: PositionOther, Description: "Work in non-profit and social impact"},
}

var HobbyOptions = []HobbyOption{
	{Name: "Hiking", Category: HobbySports, Description: "Explore trails and nature", IsPopular: true},
	{Name: "Swimming", Category: HobbySports, Description: "Swim for fitness and recreation"},
	{Name: "Cycling", Category: HobbySports, Description: "Ride bikes for exercise and transport", IsPopular: true},
	{Name: "Running", Category: HobbySports, Description: "Jog or run for fitness", IsPopular: true},
	{Name: "Yoga", Category: HobbySports, Description: "Practice yoga for wellness", IsPopular: true},
	{Name: "Meditation", Category: HobbySports, Description: "Practice mindfulness and meditation"},
	{Name: "Weightlifting", Category: HobbySports, Description: "Build strength through resistance training"},
	{Name: "Tennis", Category: HobbySports, Description: "Play tennis for recreation"},
	{Name: "Basketball", Category: HobbySports, Description: "Play basketball for fun and fitness"},
	{Name: "Soccer", Category: HobbySports, Description: "Play soccer or football"},
	{Name: "Dancing", Category: HobbySports, Description: "Dance for fun and fitness"},
	{Name: "Rock Climbing", Category: HobbySports, Description: "Climb indoor or outdoor routes"},

	{Name: "Painting", Category: HobbyCreative, Description: "Create art with paint and canvas"},
	{Name: "Drawing", Category: HobbyCreative, Description: "Sketch and draw illustrations"},
	{Name: "Sculpting", Category: HobbyCreative, Description: "Create three-dimensional art"},
	{Name: "Photography", Category: HobbyCreative, Description: "Capture moments and scenes", IsPopular: true},
	{Name: "Knitting", Category: HobbyCreative, Description: "Create textiles and clothing"},
	{Name: "Woodworking", Category: HobbyCreative, Description: "Build and craft with wood"},
	{Name: "Pottery", Category: HobbyCreative, Description: "Create ceramic art and vessels"},
	{Name: "Calligraphy", Category: HobbyCreative, Description: "Practice beautiful handwriting"},
	{Name: "Digital Art", Category: HobbyCreative, Description: "Create art using digital tools"},
	{Name: "Cooking", Category: HobbyCreative, Description: "Prepare and experiment with food", IsPopular: true},
	{Name: "Baking", Category: HobbyCreative, Description: "Create breads, pastries, and desserts"},

	{Name: "Reading", Category: HobbyIntellectual, Description: "Read books and literature", IsPopular: true},
	{Name: "Writing", Category: HobbyIntellectual, Description: "Write stories, articles, or blogs", IsPopular: true},
	{Name: "Chess", Category: HobbyIntellectual, Description: "Play strategic board games"},
	{Name: "Puzzles", Category: HobbyIntellectual, Description: "Solve crosswords, sudoku, and brain teasers"},
	{Name: "Learning Languages", Category: HobbyIntellectual, Description: "Study foreign languages"},
	{Name: "Podcasting", Category: HobbyIntellectual, Description: "Create and host audio content"},
	{Name: "Blogging", Category: HobbyIntellectual, Description: "Write and publish online content"},
	{Name: "Vlogging", Category: HobbyIntellectual, Description: "Create and share video content"},
	{Name: "Collecting", Category: HobbyIntellectual, Description: "Collect items of interest"},
	{Name: "Astronomy", Category: HobbyIntellectual, Description: "Study stars and celestial objects"},
	{Name: "Bird Watching", Category: HobbyIntellectual, Description: "Observe and identify birds"},

	{Name: "Volunteering", Category: HobbySocial, Description: "Help others and give back to community", IsPopular: true},
	{Name: "Board Games", Category: HobbySocial, Description: "Play tabletop games with friends"},
	{Name: "Video Games", Category: HobbySocial, Description: "Play digital games for entertainment", IsPopular: true},
	{Name: "Music", Category: HobbySocial, Description: "Listen to or create music", IsPopular: true},
	{Name: "Travel", Category: HobbySocial, Description: "Explore new places and cultures", IsPopular: true},
	{Name: "Networking", Category: HobbySocial, Description: "Build professional relationships"},
	{Name: "Mentoring", Category: HobbySocial, Description: "Guide and support others"},
	{Name: "Public Speaking", Category: HobbySocial, Description: "Present and speak to audiences"},

	{Name: "Gardening", Category: HobbyOutdoor, Description: "Grow plants and maintain gardens"},
	{Name: "Camping", Category: HobbyOutdoor, Description: "Spend time outdoors in nature"},
	{Name: "Fishing", Category: HobbyOutdoor, Description: "Fish for recreation and relaxation"},
	{Name: "Kayaking", Category: HobbyOutdoor, Description: "Paddle on water for adventure"},
	{Name: "Skiing", Category: HobbyOutdoor, Description: "Ski on snow for recreation"},
	{Name: "Surfing", Category: HobbyOutdoor, Description: "Ride waves on a surfboard"},
	{Name: "Mountain Biking", Category: HobbyOutdoor, Description: "Ride bikes on challenging terrain"},

	{Name: "Programming", Category: HobbyTechnology, Description: "Write code and build software"},
	{Name: "3D Printing", Category: HobbyTechnology, Description: "Create objects with 3D printers"},
	{Name: "Robotics", Category: HobbyTechnology, Description: "Build and program robots"},
	{Name: "Arduino", Category: HobbyTechnology, Description: "Work with microcontrollers and electronics"},
	{Name: "AI/ML Projects", Category: HobbyTechnology, Description: "Experiment with artificial intelligence"},
	{Name: "Web Development", Category: HobbyTechnology, Description: "Build websites and web applications"},
	{Name: "Mobile App Development", Category: HobbyTechnology, Description: "Create mobile applications"},

	{Name: "Meditation", Category: HobbyOther, Description: "Practice mindfulness and relaxation"},
	{Name: "Journaling", Category: HobbyOther, Description: "Write personal thoughts and experiences"},
	{Name: "DIY Projects", Category: HobbyOther, Description: "Build and create things yourself"},
	{Name: "Home Improvement", Category: HobbyOther, Description: "Renovate and improve living spaces"},
	{Name: "Car Maintenance", Category: HobbyOther, Description: "Maintain and repair vehicles"},
	{Name: "Pet Care", Category: HobbyOther, Description: "Care for and train pets"},
}

// HobbyKeyword maps a word found in a resume to the hobbies it hints at.
type HobbyKeyword struct {
	Keyword string
	Hobbies []string
}

// ResumeHobbyKeywords is ordered; suggestion order follows it.
var ResumeHobbyKeywords = []HobbyKeyword{
	{Keyword: "leadership", Hobbies: []string{"Volunteering", "Mentoring", "Public Speaking", "Networking"}},
	{Keyword: "team", Hobbies: []string{"Team Sports", "Board Games", "Volunteering", "Mentoring"}},
	{Keyword: "creative", Hobbies: []string{"Writing", "Photography", "Digital Art", "Cooking", "Baking"}},
	{Keyword: "technical", Hobbies: []string{"Programming", "3D Printing", "Arduino", "Web Development"}},
	{Keyword: "analytical", Hobbies: []string{"Chess", "Puzzles", "Reading", "Research"}},
	{Keyword: "outdoor", Hobbies: []string{"Hiking", "Cycling", "Running", "Gardening", "Camping"}},
	{Keyword: "fitness", Hobbies: []string{"Yoga", "Weightlifting", "Swimming", "Running", "Dancing"}},
	{Keyword: "travel", Hobbies: []string{"Travel", "Photography", "Learning Languages"}},
	{Keyword: "music", Hobbies: []string{"Music", "Podcasting", "Vlogging"}},
	{Keyword: "gaming", Hobbies: []string{"Video Games", "Board Games", "Chess"}},
	{Keyword: "art", Hobbies: []string{"Painting", "Drawing", "Photography", "Digital Art"}},
	{Keyword: "cooking", Hobbies: []string{"Cooking", "Baking", "Gardening"}},
	{Keyword: "reading", Hobbies: []string{"Reading", "Writing", "Blogging"}},
	{Keyword: "writing", Hobbies: []string{"Writing", "Blogging", "Journaling"}},
	{Keyword: "photography", Hobbies: []string{"Photography", "Travel", "Digital Art"}},
	{Keyword: "volunteer", Hobbies: []string{"Volunteering", "Mentoring", "Community Service"}},
	{Keyword: "sports", Hobbies: []string{"Team Sports", "Individual Sports", "Fitness Activities"}},
	{Keyword: "technology", Hobbies: []string{"Programming", "Web Development", "AI/ML Projects"}},
	{Keyword: "languages", Hobbies: []string{"Learning Languages", "Travel", "International"}},
	{Keyword: "research", Hobbies: []string{"Research", "Reading", "Analytical Activities"}},
}

// PositionsByCategory filters the position catalog
func PositionsByCategory(category PositionCategory) []PositionOption {
	var out []PositionOption
	for _, option := range PositionOptions {
		if option.Category == category {
			out = append(out, option)
		}
	}
	return out
}

// HobbiesByCategory filters the hobby catalog
func HobbiesByCategory(category HobbyCategory) []HobbyOption {
	var out []HobbyOption
	for _, option := range HobbyOptions {
		if option.Category == category {
			out = append(out, option)
		}
	}
	return out
}

func PopularHobbies() []HobbyOption {
	var out []HobbyOption
	for _, option := range HobbyOptions {
		if option.IsPopular {
			out = append(out, option)
		}
	}
	return out
}

func FindPositionOption(name string) (PositionOption, bool) {
	for _, option := range PositionOptions {
		if strings.EqualFold(option.Name, name) {
			return option, true
		}
	}
	return PositionOption{}, false
}

// FindHobbyOption looks a hobby up by name, case-insensitively.
func FindHobbyOption(name string) (HobbyOption, bool) {
	for _, option := range HobbyOptions {
		if strings.EqualFold(option.Name, name) {
			return option, true
		}
	}
	return HobbyOption{}, false
}

// SuggestHobbies scans text for resume keywords and returns the hinted hobbies,
// de-duplicated, in keyword order, at most limit of them (limit <= 0 means 8).
func SuggestHobbies(text string, limit int) []string {
	if limit <= 0 {
		limit = 8
	}
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	suggestions := []string{}
	for _, entry := range ResumeHobbyKeywords {
		if !strings.Contains(lower, entry.Keyword) {
			continue
		}
		for _, hobby := range entry.Hobbies {
			if seen[hobby] {
				continue
			}
			seen[hobby] = true
			suggestions = append(suggestions, hobby)
			if len(suggestions) == limit {
				return suggestions
			}
		}
	}
	return suggestions
}

// NewOnboardingOptions assembles the catalog response for cfg.
func NewOnboardingOptions(cfg OnboardingConfig) OnboardingOptions {
	return OnboardingOptions{
		Positions:          PositionOptions,
		Hobbies:            HobbyOptions,
		PositionCategories: PositionCategoryLabels,
		HobbyCategories:    HobbyCategoryLabels,
		Steps:              StepConfigs(cfg.MaxPositions),
		MaxPositions:       cfg.MaxPositions,
		MaxHobbies:         cfg.MaxHobbies,
		MaxResumeSize:      cfg.MaxResumeSize,
		AllowedResumeTypes: cfg.AllowedResumeTypes,
	}
}
