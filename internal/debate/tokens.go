package debate

import "sync"

// EstimateTokens approximates the token count of text at four characters
// per token, rounding up. The CLI backends do not report usage, so this
// estimate is the only accounting available.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// Pricing converts token counts into dollar cost.
type Pricing struct {
	// InputPerMTok is the dollar cost per million input tokens.
	InputPerMTok float64 `yaml:"input_per_mtok"`

	// OutputPerMTok is the dollar cost per million output tokens.
	OutputPerMTok float64 `yaml:"output_per_mtok"`
}

// Cost returns the dollar cost for the given token counts.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*p.InputPerMTok/1e6 +
		float64(outputTokens)*p.OutputPerMTok/1e6
}

// Usage accumulates estimated token counts and cost for one participant.
type Usage struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

func (u Usage) add(other Usage) Usage {
	return Usage{
		Calls:        u.Calls + other.Calls,
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		Cost:         u.Cost + other.Cost,
	}
}

// Accountant tracks estimated token usage per participant across a debate.
// It is safe for concurrent use; parallel reviewer calls record as they
// complete.
type Accountant struct {
	mu      sync.Mutex
	pricing Pricing
	usage   map[string]Usage
}

// NewAccountant creates an accountant with the given pricing.
func NewAccountant(pricing Pricing) *Accountant {
	return &Accountant{
		pricing: pricing,
		usage:   make(map[string]Usage),
	}
}

// Record estimates tokens for one call's input and output text and adds
// them to the participant's running total.
func (a *Accountant) Record(participant, input, output string) {
	in := EstimateTokens(input)
	out := EstimateTokens(output)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.usage[participant] = a.usage[participant].add(Usage{
		Calls:        1,
		InputTokens:  in,
		OutputTokens: out,
		Cost:         a.pricing.Cost(in, out),
	})
}

// Usage returns a snapshot of per-participant usage.
func (a *Accountant) Usage() map[string]Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]Usage, len(a.usage))
	for k, v := range a.usage {
		out[k] = v
	}
	return out
}

// Totals returns the sum across all participants.
func (a *Accountant) Totals() Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total Usage
	for _, u := range a.usage {
		total = total.add(u)
	}
	return total
}

// Reset clears all recorded usage.
func (a *Accountant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.usage = make(map[string]Usage)
}
