// Package steps defines the fixed stage sequence every keyword passes
// through. The order is load-bearing: each stage depends on the model context
// built up by the previous ones.
package steps

// Definition describes one pipeline step.
type Definition struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Count is the number of steps every keyword passes through.
const Count = 6

// definitions lists the steps in execution order.
var definitions = [Count]Definition{
	{Number: 1, Name: "research", Label: "Researching keyword",
		Description: "Search-grounded research that seeds the model session; its output is not shown to the user."},
	{Number: 2, Name: "ideate", Label: "Generating article idea",
		Description: "Proposes the article concept inside the research session."},
	{Number: 3, Name: "outline", Label: "Creating outline",
		Description: "Derives the section structure from the idea."},
	{Number: 4, Name: "write", Label: "Writing article",
		Description: "Produces the full article with image placeholders, metadata lines, and sources."},
	{Number: 5, Name: "images", Label: "Resolving images",
		Description: "Generates one image per placeholder, in order of appearance, with rate-limit backoff."},
	{Number: 6, Name: "save", Label: "Saving article",
		Description: "Persists the finished article to the history store."},
}

// All returns the step definitions in execution order.
func All() []Definition {
	defs := make([]Definition, Count)
	copy(defs, definitions[:])
	return defs
}

// ByNumber returns the definition for a 1-based step number.
func ByNumber(n int) (Definition, bool) {
	if n < 1 || n > Count {
		return Definition{}, false
	}
	return definitions[n-1], true
}

// ByName returns the definition with the given short name.
func ByName(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
