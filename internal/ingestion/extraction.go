package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/campaign-deck/internal/llm"
	"github.com/jonathan/campaign-deck/internal/prompts"
)

// CampaignFacts is the structured summary extracted from a cleaned report
type CampaignFacts struct {
	ClientName   string            `json:"client_name,omitempty"`
	CampaignName string            `json:"campaign_name,omitempty"`
	Period       string            `json:"period,omitempty"`
	Objectives   []string          `json:"objectives,omitempty"`
	KPIs         map[string]string `json:"kpis,omitempty"`
	Channels     []string          `json:"channels,omitempty"`
	Insights     []string          `json:"insights,omitempty"`
}

// ExtractFacts asks the model to pull campaign facts out of cleaned report text
func ExtractFacts(ctx context.Context, client llm.Client, text string) (*CampaignFacts, error) {
	if client == nil {
		return nil, fmt.Errorf("LLM client required for fact extraction")
	}

	prompt, err := prompts.Render("extraction.json", "campaign-facts", map[string]string{"Report": text})
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction prompt: %w", err)
	}

	jsonResp, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	jsonResp = llm.CleanJSONBlock(jsonResp)

	var facts CampaignFacts
	if err := json.Unmarshal([]byte(jsonResp), &facts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w (content: %s)", err, jsonResp)
	}

	return &facts, nil
}

// FormatFacts renders extracted facts as readable prompt text
func FormatFacts(facts *CampaignFacts) string {
	if facts == nil {
		return ""
	}

	var sb strings.Builder
	writeField := func(label, value string) {
		if value != "" {
			sb.WriteString(label + ": " + value + "\n")
		}
	}
	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		for _, item := range items {
			sb.WriteString("- " + item + "\n")
		}
	}

	writeField("Client", facts.ClientName)
	writeField("Campaign", facts.CampaignName)
	writeField("Period", facts.Period)
	writeList("Objectives", facts.Objectives)

	if len(facts.KPIs) > 0 {
		names := make([]string, 0, len(facts.KPIs))
		for name := range facts.KPIs {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("KPIs:\n")
		for _, name := range names {
			sb.WriteString("- " + name + ": " + facts.KPIs[name] + "\n")
		}
	}

	writeList("Channels", facts.Channels)
	writeList("Insights", facts.Insights)

	return sb.String()
}
