package statement

import (
	"strings"

	"github.com/billfold/billfold/internal/expense"
)

// categoryKeywords maps categories to merchant substrings. First match
// wins in the order below, so the more specific spending categories come
// before the catch-all shopping terms.
var categoryKeywords = []struct {
	category expense.Category
	keywords []string
}{
	{expense.CategoryFood, []string{
		"restaurant", "cafe", "coffee", "pizza", "burger", "grocery", "groceries",
		"food", "eat", "dining", "mcdonald", "starbucks", "subway", "uber eats",
		"doordash", "grubhub", "zomato", "swiggy", "supermarket", "bakery",
		"diner", "sushi", "kfc", "domino",
	}},
	{expense.CategoryTransport, []string{
		"uber", "lyft", "taxi", "gas", "fuel", "transit", "metro", "bus", "train",
		"parking", "toll", "ola", "grab", "rapido", "irctc", "airline", "flight",
		"airways", "petrol",
	}},
	{expense.CategoryRent, []string{
		"rent", "lease", "apartment", "housing", "landlord", "mortgage", "property",
	}},
	{expense.CategoryEntertainment, []string{
		"netflix", "spotify", "movie", "cinema", "game", "concert", "hulu",
		"disney", "theater", "youtube", "prime video", "apple tv", "hotstar",
		"zee5", "gaming",
	}},
	{expense.CategoryEducation, []string{
		"book", "tuition", "university", "college", "course", "textbook",
		"library", "school", "udemy", "coursera", "chegg", "kindle", "exam",
	}},
	{expense.CategoryShopping, []string{
		"amazon", "walmart", "target", "shop", "store", "mall", "clothing",
		"ebay", "online", "flipkart", "myntra", "ajio", "zara", "h&m", "ikea",
		"nykaa",
	}},
	{expense.CategoryHealth, []string{
		"pharmacy", "hospital", "doctor", "medical", "health", "gym", "fitness",
		"dental", "cvs", "walgreens", "chemist", "clinic", "apollo", "medplus",
	}},
}

// InferCategory guesses a category from a transaction note by keyword
// match, defaulting to CategoryOther.
func InferCategory(note string) expense.Category {
	lower := strings.ToLower(note)

	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}

	return expense.CategoryOther
}
