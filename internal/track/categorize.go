package track

import "strings"

// Category labels assigned to postings for the export sheet.
const (
	CategorySoftware  = "software"
	CategoryData      = "data"
	CategoryProduct   = "product"
	CategoryDesign    = "design"
	CategoryFinance   = "finance"
	CategoryMarketing = "marketing"
	CategoryOther     = "other"
)

// Categories lists every recognized category name, in scan order.
var Categories = []string{
	CategoryData, CategoryProduct, CategoryDesign,
	CategoryFinance, CategoryMarketing, CategorySoftware, CategoryOther,
}

// categoryKeywords is scanned greedily in categoryOrder: the first category
// with a matching keyword wins. Software is intentionally last so data /
// product / design roles that mention "engineer" are not misclassified.
var categoryOrder = []string{
	CategoryData, CategoryProduct, CategoryDesign,
	CategoryFinance, CategoryMarketing, CategorySoftware,
}

var categoryKeywords = map[string][]string{
	CategoryData: {
		"data science", "machine learning", "deep learning",
		"artificial intelligence", "computer vision", "natural language",
		"nlp", "research scientist", "ml engineer", "data engineer",
		"data analyst", "analytics", "data",
	},
	CategoryProduct: {
		"product manager", "product management", "product owner",
		"program manager",
	},
	CategoryDesign: {
		"user experience", "user interface", "ux researcher", "ux designer",
		"ui designer", "graphic designer", "visual designer", "design",
	},
	CategoryFinance: {
		"quantitative", "investment banking", "financial analyst",
		"accounting", "finance", "trading", "quant",
	},
	CategoryMarketing: {
		"digital marketing", "content marketing", "growth marketing", "seo",
		"copywriting", "social media", "marketing",
	},
	CategorySoftware: {
		"software engineer", "software developer", "backend", "frontend",
		"front-end", "back-end", "fullstack", "full-stack", "full stack",
		"devops", "site reliability", "sre", "platform engineer",
		"mobile developer", "ios developer", "android developer",
		"web developer", "api developer", "infrastructure engineer",
		"developer", "engineer",
	},
}

// Categorize returns the best-matching category for the combined
// title + snippet text, or CategoryOther when nothing matches.
func Categorize(title, snippet string) string {
	haystack := strings.ToLower(title + " " + snippet)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(haystack, kw) {
				return cat
			}
		}
	}
	return CategoryOther
}
