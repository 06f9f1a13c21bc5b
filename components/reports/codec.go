package reports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ettle/strcase"
)

const tokenSeparator = ","

var (
	// ErrUnknownTag is returned when encoding a tag that has no backend token.
	ErrUnknownTag = errors.New("reports: unknown tag")
	// ErrUnknownToken is returned when decoding a backend token with no internal tag.
	ErrUnknownToken = errors.New("reports: unknown token")
)

// tagAliases maps spellings seen in older payloads onto canonical tags.
var tagAliases = map[string]string{
	"favourites": string(MetricFavorites),
	"favorite":   string(MetricFavorites),
	"graph_line": string(ChartLine),
	"graph_bar":  string(ChartBar),
	"graph_pie":  string(ChartPie),
}

// Codec translates between internal tags and the localized tokens the backend stores.
// Both directions are built from the same table so they cannot drift apart.
type Codec struct {
	metricTokens map[Metric]string
	metricTags   map[string]Metric
	chartTokens  map[Chart]string
	chartTags    map[string]Chart
	periodTokens map[Period]string
	periodTags   map[string]Period
}

// NewCodec builds a codec from the catalog tables.
func NewCodec() *Codec {
	c := &Codec{
		metricTokens: make(map[Metric]string, len(metricCatalog)),
		metricTags:   make(map[string]Metric, len(metricCatalog)),
		chartTokens:  make(map[Chart]string, len(chartCatalog)),
		chartTags:    make(map[string]Chart, len(chartCatalog)),
		periodTokens: make(map[Period]string, len(periodLabels)),
		periodTags:   make(map[string]Period, len(periodLabels)),
	}
	for tag, info := range metricCatalog {
		c.metricTokens[tag] = info.Token
		c.metricTags[normalizeToken(info.Token)] = tag
	}
	for tag, info := range chartCatalog {
		c.chartTokens[tag] = info.Token
		c.chartTags[normalizeToken(info.Token)] = tag
	}
	for tag, label := range periodLabels {
		c.periodTokens[tag] = label
		c.periodTags[normalizeToken(label)] = tag
	}
	return c
}

var defaultCodec = NewCodec()

// DefaultCodec returns the shared codec instance.
func DefaultCodec() *Codec {
	return defaultCodec
}

// NormalizeTag canonicalizes an identifier (camelCase, kebab-case, spaced) into snake_case tag form.
func NormalizeTag(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	tag := strcase.ToSnake(trimmed)
	if alias, ok := tagAliases[tag]; ok {
		return alias
	}
	return tag
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// EncodeMetric returns the backend token for a metric tag.
func (c *Codec) EncodeMetric(m Metric) (string, error) {
	token, ok := c.metricTokens[Metric(NormalizeTag(string(m)))]
	if !ok {
		return "", fmt.Errorf("%w: metric %q", ErrUnknownTag, m)
	}
	return token, nil
}

// DecodeMetric returns the metric tag for a backend token. Canonical tags are accepted as-is.
func (c *Codec) DecodeMetric(token string) (Metric, error) {
	if tag, ok := c.metricTags[normalizeToken(token)]; ok {
		return tag, nil
	}
	if tag := Metric(NormalizeTag(token)); tag.Valid() {
		return tag, nil
	}
	return "", fmt.Errorf("%w: metric %q", ErrUnknownToken, token)
}

// EncodeChart returns the backend token for a chart tag.
func (c *Codec) EncodeChart(ch Chart) (string, error) {
	token, ok := c.chartTokens[Chart(NormalizeTag(string(ch)))]
	if !ok {
		return "", fmt.Errorf("%w: chart %q", ErrUnknownTag, ch)
	}
	return token, nil
}

// DecodeChart returns the chart tag for a backend token. Canonical tags are accepted as-is.
func (c *Codec) DecodeChart(token string) (Chart, error) {
	if tag, ok := c.chartTags[normalizeToken(token)]; ok {
		return tag, nil
	}
	if tag := Chart(NormalizeTag(token)); tag.Valid() {
		return tag, nil
	}
	return "", fmt.Errorf("%w: chart %q", ErrUnknownToken, token)
}

// EncodePeriod returns the backend label for a period.
func (c *Codec) EncodePeriod(p Period) (string, error) {
	token, ok := c.periodTokens[Period(NormalizeTag(string(p)))]
	if !ok {
		return "", fmt.Errorf("%w: period %q", ErrUnknownTag, p)
	}
	return token, nil
}

// DecodePeriod returns the period for a backend label.
func (c *Codec) DecodePeriod(token string) (Period, error) {
	if tag, ok := c.periodTags[normalizeToken(token)]; ok {
		return tag, nil
	}
	if tag := Period(NormalizeTag(token)); tag.Valid() {
		return tag, nil
	}
	return "", fmt.Errorf("%w: period %q", ErrUnknownToken, token)
}

// EncodeMetrics joins the tokens for the given metrics, dropping duplicates.
func (c *Codec) EncodeMetrics(metrics []Metric) (string, error) {
	tokens := make([]string, 0, len(metrics))
	seen := make(map[string]struct{}, len(metrics))
	for _, m := range metrics {
		token, err := c.EncodeMetric(m)
		if err != nil {
			return "", err
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, tokenSeparator), nil
}

// DecodeMetrics splits a token list and decodes each entry. Blank entries are skipped.
func (c *Codec) DecodeMetrics(encoded string) ([]Metric, error) {
	parts := splitTokens(encoded)
	out := make([]Metric, 0, len(parts))
	for _, part := range parts {
		tag, err := c.DecodeMetric(part)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

// EncodeCharts joins the tokens for the given charts, dropping duplicates.
func (c *Codec) EncodeCharts(charts []Chart) (string, error) {
	tokens := make([]string, 0, len(charts))
	seen := make(map[string]struct{}, len(charts))
	for _, ch := range charts {
		token, err := c.EncodeChart(ch)
		if err != nil {
			return "", err
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, tokenSeparator), nil
}

// DecodeCharts splits a token list and decodes each entry. Blank entries are skipped.
func (c *Codec) DecodeCharts(encoded string) ([]Chart, error) {
	parts := splitTokens(encoded)
	out := make([]Chart, 0, len(parts))
	for _, part := range parts {
		tag, err := c.DecodeChart(part)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func splitTokens(encoded string) []string {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	raw := strings.Split(encoded, tokenSeparator)
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
