package markdown

import "strings"

// CategoryRule maps a tag onto a category.
type CategoryRule struct {
	Tag      string
	Category string
}

// CategorySource explains where a category decision came from.
type CategorySource string

const (
	CategoryExplicit CategorySource = "explicit"
	CategoryFromTag  CategorySource = "tag"
	CategoryFallback CategorySource = "fallback"
)

// CategoryDecision is the outcome of Categorizer.Resolve.
type CategoryDecision struct {
	Category string
	Source   CategorySource
	// Tag is the tag that matched when Source is CategoryFromTag.
	Tag string
	// Rejected holds an explicit category that is not in the allowed set.
	Rejected string
}

// Categorizer is the ordered tag decision table with a terminal default.
type Categorizer struct {
	allowed  map[string]string
	byTag    map[string]string
	fallback string
}

// NewCategorizer builds the decision table. Matching is case-insensitive; the
// first rule registered for a tag wins.
func NewCategorizer(categories []string, rules []CategoryRule, fallback string) *Categorizer {
	c := &Categorizer{
		allowed: make(map[string]string, len(categories)),
		byTag:   make(map[string]string, len(rules)),
	}
	for _, category := range categories {
		if key := normalizeKey(category); key != "" {
			c.allowed[key] = strings.TrimSpace(category)
		}
	}
	for _, rule := range rules {
		key := normalizeKey(rule.Tag)
		category, ok := c.allowed[normalizeKey(rule.Category)]
		if key == "" || !ok {
			continue
		}
		if _, exists := c.byTag[key]; !exists {
			c.byTag[key] = category
		}
	}
	c.fallback = strings.TrimSpace(fallback)
	if canonical, ok := c.allowed[normalizeKey(fallback)]; ok {
		c.fallback = canonical
	}
	return c
}

// Resolve picks the category: an explicit allowed category first, then the
// first tag with a rule, then the fallback.
func (c *Categorizer) Resolve(explicit string, tags []string) CategoryDecision {
	decision := CategoryDecision{}
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if canonical, ok := c.allowed[normalizeKey(explicit)]; ok {
			return CategoryDecision{Category: canonical, Source: CategoryExplicit}
		}
		decision.Rejected = explicit
	}
	for _, tag := range tags {
		if category, ok := c.byTag[normalizeKey(tag)]; ok {
			decision.Category = category
			decision.Source = CategoryFromTag
			decision.Tag = tag
			return decision
		}
	}
	decision.Category = c.fallback
	decision.Source = CategoryFallback
	return decision
}

// Allowed reports the canonical category set.
func (c *Categorizer) Allowed() []string {
	out := make([]string, 0, len(c.allowed))
	for _, category := range c.allowed {
		out = append(out, category)
	}
	return out
}

// ResolveTags returns tags unchanged, or a single default tag when tags is
// empty and a default is configured.
func ResolveTags(tags []string, defaultTag string) []string {
	if len(tags) > 0 {
		return append([]string(nil), tags...)
	}
	if tag := strings.TrimSpace(defaultTag); tag != "" {
		return []string{tag}
	}
	return []string{}
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
