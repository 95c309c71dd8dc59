package schemas

// Listing conditions accepted from the autofill model.
var Conditions = []string{"new", "like_new", "good", "fair", "poor"}

// ListingAutofill is the model's draft of a listing built from photos.
type ListingAutofill struct {
	Title       string   `json:"title" jsonschema:"short listing title"`
	Description string   `json:"description" jsonschema:"buyer-facing description of the visible item"`
	Condition   string   `json:"condition" jsonschema:"one of new, like_new, good, fair, poor"`
	Category    Category `json:"category"`
	Brand       string   `json:"brand,omitempty" jsonschema:"brand, only when a logo or label is legible"`
}

// Category is a suggested catalog category.
type Category struct {
	Slug       string  `json:"slug"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence" jsonschema:"0 to 1"`
}

// ChatReply is the help assistant's answer.
type ChatReply struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty" jsonschema:"follow-up questions the user may ask"`
}

// ImageSearchQuery is the catalog query derived from a photo.
type ImageSearchQuery struct {
	Query    string   `json:"query"`
	Keywords []string `json:"keywords,omitempty"`
	Category string   `json:"category,omitempty" jsonschema:"category slug"`
}
