package llm

type GenerateInput struct {
	Title string
	Body  string
}

type Variants struct {
	Factual        string
	Sensationalist string
	Propaganda     string
}

type Metadata struct {
	TopicTags      []string
	Sentiment      string
	LocationCity   string
	CountryCode    string
	AudienceScores map[string]int
}

type Generation struct {
	Variants      Variants
	Metadata      Metadata
	PromptVersion string
	ModelUsed     string
}

// ArticleWriter produces the three tonal variants plus metadata for one
// source item in a single model call, so all three rewrites are guaranteed
// to describe the same event.
type ArticleWriter interface {
	Generate(input GenerateInput) (*Generation, error)
}
