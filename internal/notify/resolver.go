package notify

import "strings"

// Resolver turns stored notification messages into human-readable text
// using a translation catalog. Resolution degrades in two steps: a
// structured payload whose key misses the catalog falls back to the
// stored message text, and legacy messages are returned verbatim.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver over the given catalog
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve renders a stored message. fallback is the raw stored message,
// returned unchanged when the message is legacy text or when no catalog
// entry can be found for a structured key.
func (r *Resolver) Resolve(raw string) string {
	decoded := Decode(raw)
	if decoded.Kind == KindLegacy {
		return decoded.Text
	}

	template, ok := r.lookup(decoded.Key)
	if !ok {
		return raw
	}
	return Interpolate(template, decoded.Params)
}

// lookup tries the key directly, then retries with the _title/_body
// suffix swapped. Catalogs that split an entry into title and body
// variants stay resolvable whichever form the payload referenced.
func (r *Resolver) lookup(key string) (string, bool) {
	if template, ok := r.catalog.Lookup(key); ok {
		return template, true
	}

	var alternate string
	switch {
	case strings.HasSuffix(key, "_title"):
		alternate = strings.TrimSuffix(key, "_title") + "_body"
	case strings.HasSuffix(key, "_body"):
		alternate = strings.TrimSuffix(key, "_body") + "_title"
	default:
		return "", false
	}
	return r.catalog.Lookup(alternate)
}

// Interpolate substitutes {param} placeholders in a template. Unknown
// placeholders are left in place rather than dropped.
func Interpolate(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}
	result := template
	for name, value := range params {
		result = strings.ReplaceAll(result, "{"+name+"}", value)
	}
	return result
}
