package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// DefaultAIConfidence is used when the model omits a confidence.
const DefaultAIConfidence = 0.6

const extractionMaxTokens = 1024

// AIExtractor implements StructuredExtractor on top of a Completer.
type AIExtractor struct {
	completer Completer
	schema    *jsonschema.Schema
	system    string
}

// NewAIExtractor compiles the response schema once.
func NewAIExtractor(c Completer) (*AIExtractor, error) {
	schema, err := compileSchema(responseSchema())
	if err != nil {
		return nil, err
	}
	return &AIExtractor{completer: c, schema: schema, system: buildSystemPrompt()}, nil
}

// Extract asks the model for a classification and coerces its answer.
func (x *AIExtractor) Extract(ctx context.Context, rawText string) (extraction.Result, error) {
	resp, err := x.completer.Complete(ctx, domain.CompletionRequest{
		System:    x.system,
		User:      buildUserPrompt(rawText),
		JSON:      true,
		MaxTokens: extractionMaxTokens,
		Purpose:   "extraction",
	})
	if err != nil {
		return extraction.Result{}, fmt.Errorf("ai extract: %w", err)
	}
	return x.parse(resp.Text, rawText)
}

func (x *AIExtractor) parse(text, rawText string) (extraction.Result, error) {
	body, ok := extractJSONObject(text)
	if !ok {
		return extraction.Result{}, fmt.Errorf("no JSON object in response: %w", domain.ErrMalformedResponse)
	}

	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return extraction.Result{}, fmt.Errorf("decode response: %v: %w", err, domain.ErrMalformedResponse)
	}
	if err := x.schema.Validate(v); err != nil {
		return extraction.Result{}, fmt.Errorf("response does not match schema: %v: %w", err, domain.ErrMalformedResponse)
	}
	obj, _ := v.(map[string]any)

	typeStr, _ := obj["type"].(string)
	dt, _ := doctype.Parse(typeStr)

	res := extraction.Result{
		DocumentType: dt,
		Confidence:   coerceConfidence(obj["confidence"]),
		Fields:       coerceFields(obj["extractedData"]),
		RawText:      rawText,
	}
	res.SuggestedDomain = parseDomainField(obj)
	return res, nil
}

// parseDomainField reads "domain", then "suggestedDomain". The first key
// holding a known domain wins.
func parseDomainField(obj map[string]any) *lifedomain.Domain {
	for _, key := range []string{"domain", "suggestedDomain"} {
		ds, isStr := obj[key].(string)
		if !isStr {
			continue
		}
		if d, valid := lifedomain.Parse(ds); valid {
			return &d
		}
	}
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("classification.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("classification.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// extractJSONObject strips code fences and returns the outermost {...} span.
func extractJSONObject(s string) (string, bool) {
	s = stripCodeFence(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func coerceConfidence(v any) float64 {
	switch t := v.(type) {
	case float64:
		return extraction.ClampConfidence(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(t, "%")), 64)
		if err != nil {
			return DefaultAIConfidence
		}
		if strings.HasSuffix(t, "%") {
			f /= 100
		}
		return extraction.ClampConfidence(f)
	default:
		return DefaultAIConfidence
	}
}

// coerceFields keeps scalar values and drops empties and "null" strings.
func coerceFields(v any) map[string]any {
	out := make(map[string]any)
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, val := range m {
		switch t := val.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
				continue
			}
			if k == extraction.FieldAmount {
				if amt, ok := ParseAmount(s); ok {
					out[k] = amt
				}
				continue
			}
			out[k] = s
		case float64:
			if k == extraction.FieldAmount {
				if amt, ok := ParseAmount(strconv.FormatFloat(t, 'f', -1, 64)); ok {
					out[k] = amt
				}
				continue
			}
			out[k] = t
		case bool:
			out[k] = t
		}
	}
	return out
}
