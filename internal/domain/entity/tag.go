package entity

// availableTags is the fixed catalog posts can be tagged with, grouped by topic.
var availableTags = []string{
	// Technology & Development
	"Technology", "Web Development", "Mobile Development", "Programming", "AI",
	"Machine Learning", "Robotics", "Cybersecurity", "Blockchain", "Data Science",
	"Cloud Computing", "Software Engineering", "Startups",

	// Science & Education
	"Science", "Astronomy", "Biology", "Physics", "Education", "Research", "Mathematics",

	// Careers & Personal Growth
	"Career", "Entrepreneurship", "Freelancing", "Remote Work", "Productivity",
	"Leadership", "Self-Improvement", "Finance", "Investing",

	// Lifestyle & Health
	"Health", "Fitness", "Nutrition", "Mental Health", "Lifestyle", "Travel", "Food",
	"Parenting", "Relationships",

	// Business & Marketing
	"Business", "Marketing", "E-commerce", "Sales", "Management",

	// Arts & Entertainment
	"Design", "Art", "Music", "Photography", "Fashion", "Gaming", "Movies", "Books", "Culture",

	// News & Social Topics
	"Politics", "Environment", "Climate Change", "Social Media", "Society", "Sports",
}

var tagSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(availableTags))
	for _, t := range availableTags {
		m[t] = struct{}{}
	}
	return m
}()

// AvailableTags returns a copy of the tag catalog.
func AvailableTags() []string {
	out := make([]string, len(availableTags))
	copy(out, availableTags)
	return out
}

// IsKnownTag reports whether tag belongs to the catalog. Matching is exact.
func IsKnownTag(tag string) bool {
	_, ok := tagSet[tag]
	return ok
}
