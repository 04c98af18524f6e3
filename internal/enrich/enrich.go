// Package enrich runs the LLM extraction pipeline: evidence gathered by
// the other syncs goes in, confidence-gated structured fields come out.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/assets"
	"github.com/powderlines/resort-cli/internal/cost"
	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/pipeline"
	"github.com/powderlines/resort-cli/internal/store"
	"github.com/powderlines/resort-cli/pkg/anthropic"
)

const systemPrompt = "You are a data analyst extracting structured facts about ski resorts " +
	"from reference text. Return valid JSON only, matching the requested schema. " +
	"Score each field's confidence honestly; use a low score when the text is vague."

const extractPrompt = `Resort: %s (%s, %s)

Reference text:
%s

Extract the following fields where the text supports them:
- description: a 2-3 sentence neutral summary of the resort
- tagline: a short one-line descriptor
- vertical_m: vertical drop in meters (integer)
- lifts_total: number of lifts (integer)
- runs_total: number of runs/pistes (integer)

Return a valid JSON object:
{"fields": [{"name": "<field>", "value": <value>, "confidence": <0.0-1.0>, "source": "wikipedia"}]}`

// Evidence is the gathered input for one resort, today just the
// Wikipedia extract written by the wikipedia sync.
type Evidence struct {
	Extract string `json:"extract"`
	Title   string `json:"title"`
}

// Source lists resorts and loads their evidence blobs from object
// storage. A resort with no gathered evidence maps to pipeline.ErrNoData.
type Source struct {
	store  store.Store
	assets assets.Store
}

func NewSource(st store.Store, as assets.Store) *Source {
	return &Source{store: st, assets: as}
}

func (s *Source) Name() string { return "enrich" }

func (s *Source) List(ctx context.Context) ([]model.Resort, error) {
	return s.store.ListResorts(ctx, store.ListFilter{})
}

func (s *Source) Fetch(ctx context.Context, r model.Resort) (*Evidence, error) {
	key := assets.Key(r.AssetPath, assets.ArtifactWikiData)

	ok, err := s.assets.Exists(ctx, key)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: stat evidence for %s", r.Slug)
	}
	if !ok {
		return nil, pipeline.ErrNoData
	}

	var ev Evidence
	if err := s.assets.ReadJSON(ctx, key, &ev); err != nil {
		return nil, eris.Wrapf(err, "enrich: read evidence for %s", r.Slug)
	}
	if strings.TrimSpace(ev.Extract) == "" {
		return nil, pipeline.ErrNoData
	}
	return &ev, nil
}

// Extractor is the transform stage: one CreateMessage call per resort,
// parsed fail-closed, with usage recorded on the run's cost report.
type Extractor struct {
	client    anthropic.Client
	report    *cost.Report
	model     string
	maxTokens int64
}

func NewExtractor(client anthropic.Client, report *cost.Report, modelName string, maxTokens int64) *Extractor {
	return &Extractor{client: client, report: report, model: modelName, maxTokens: maxTokens}
}

func (e *Extractor) Transform(ctx context.Context, r model.Resort, ev *Evidence) (*model.EnrichmentResult, error) {
	prompt := fmt.Sprintf(extractPrompt, r.Name, r.StateSlug, r.Country, ev.Extract)

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: extract %s", r.Slug)
	}

	fields, err := ParseFields(resp.Text())
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: parse extraction for %s", r.Slug)
	}

	costUSD := e.report.Record(r.Slug, resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	return &model.EnrichmentResult{
		Slug:             r.Slug,
		Model:            resp.Model,
		Fields:           fields,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		CostUSD:          costUSD,
		ExtractedAt:      time.Now().UTC(),
	}, nil
}

// ParseFields parses the model's JSON output fail-closed: anything that
// is not a JSON object with a fields array is an error, never a silent
// empty result. A leading markdown fence is tolerated.
func ParseFields(text string) ([]model.ExtractedField, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out struct {
		Fields []model.ExtractedField `json:"fields"`
	}
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&out); err != nil {
		return nil, eris.Wrap(err, "enrich: invalid model output")
	}
	if out.Fields == nil {
		return nil, eris.New("enrich: model output has no fields array")
	}

	for _, f := range out.Fields {
		if f.Name == "" {
			return nil, eris.New("enrich: field with empty name")
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			return nil, eris.Errorf("enrich: field %s has confidence %v outside [0,1]", f.Name, f.Confidence)
		}
	}
	return out.Fields, nil
}

// Sink applies accepted fields to the resort row and writes the full
// result, including dropped fields, as an audit blob.
type Sink struct {
	store         store.Store
	assets        assets.Store
	minConfidence float64
}

func NewSink(st store.Store, as assets.Store, minConfidence float64) *Sink {
	return &Sink{store: st, assets: as, minConfidence: minConfidence}
}

func (s *Sink) Write(ctx context.Context, r model.Resort, res *model.EnrichmentResult) error {
	accepted := res.Accepted(s.minConfidence)

	updated := applyFields(r, accepted)
	if _, err := s.store.UpsertResort(ctx, updated); err != nil {
		return err
	}

	key := assets.Key(r.AssetPath, assets.ArtifactEnrichedData)
	if err := s.assets.WriteJSON(ctx, key, res); err != nil {
		return eris.Wrapf(err, "enrich: write audit blob for %s", r.Slug)
	}
	return nil
}

func (s *Sink) Remove(context.Context, model.Resort) error {
	// No evidence means nothing to enrich; the row stays as-is.
	return nil
}

// applyFields copies accepted extractions onto the resort record. Unknown
// field names are ignored rather than failing the write.
func applyFields(r model.Resort, fields []model.ExtractedField) model.Resort {
	for _, f := range fields {
		switch f.Name {
		case "description":
			if v, ok := f.Value.(string); ok && v != "" {
				r.Description = v
			}
		case "tagline":
			if v, ok := f.Value.(string); ok && v != "" {
				r.Tagline = v
			}
		case "vertical_m":
			if v, ok := asInt(f.Value); ok && v > 0 {
				r.VerticalM = v
			}
		case "lifts_total":
			if v, ok := asInt(f.Value); ok && v > 0 {
				r.LiftsTotal = v
			}
		case "runs_total":
			if v, ok := asInt(f.Value); ok && v > 0 {
				r.RunsTotal = v
			}
		}
	}
	return r
}

// asInt accepts the numeric shapes JSON decoding can produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
