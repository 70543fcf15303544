package aipoet

import (
	"fmt"
	"strconv"
)

// ParameterSet is one (temperature, top_p) combination under comparison.
type ParameterSet struct {
	Temperature float64
	TopP        float64
	Label       string
}

// DefaultParameterSets returns a fresh copy of the four compared settings.
func DefaultParameterSets() []ParameterSet {
	return []ParameterSet{
		{Temperature: 0.3, TopP: 0.5, Label: "保守创作 (低随机性)"},
		{Temperature: 0.3, TopP: 0.9, Label: "聚焦核心 (低随机性+高多样性)"},
		{Temperature: 1.2, TopP: 0.5, Label: "创意发散 (高随机性+聚焦)"},
		{Temperature: 1.2, TopP: 0.95, Label: "自由创作 (高随机性)"},
	}
}

// Params renders the set the way it is stored in the output document.
func (p ParameterSet) Params() string {
	return fmt.Sprintf("温度=%s, top_p=%s", formatFloat(p.Temperature), formatFloat(p.TopP))
}

func (p ParameterSet) Quadrant() Quadrant {
	return QuadrantOf(p.Temperature, p.TopP)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Quadrant buckets a sampling configuration by low/high temperature and
// low/high top_p.
type Quadrant int

const (
	QuadrantPrecise  Quadrant = iota // low temperature, low top_p
	QuadrantStandard                 // low temperature, high top_p
	QuadrantCreative                 // high temperature, low top_p
	QuadrantFree                     // high temperature, high top_p
)

const (
	temperatureSplit = 0.5
	topPSplit        = 0.7
)

func QuadrantOf(temperature, topP float64) Quadrant {
	lowTemp := temperature < temperatureSplit
	lowTopP := topP < topPSplit
	switch {
	case lowTemp && lowTopP:
		return QuadrantPrecise
	case lowTemp:
		return QuadrantStandard
	case lowTopP:
		return QuadrantCreative
	default:
		return QuadrantFree
	}
}

// Description is the style blurb printed before a streamed poem.
func (q Quadrant) Description() string {
	switch q {
	case QuadrantPrecise:
		return "严谨工整，主题集中（低随机性+高聚焦）"
	case QuadrantStandard:
		return "主题明确，语言规范（低随机性+高多样性）"
	case QuadrantCreative:
		return "创意丰富，表达新颖（高随机性+高聚焦）"
	default:
		return "自由奔放，富有想象力（高随机性+高多样性）"
	}
}
