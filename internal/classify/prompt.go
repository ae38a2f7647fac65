// Package classify enriches deduplicated leads through batched calls to an
// LLM classification oracle, with checkpointed resume so interrupted runs
// never re-spend API calls on records already processed.
package classify

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// PromptBuilder renders a batch of records into a single classification
// prompt. Implementations carry the domain (distributor fit, warehouse fit);
// the classifier itself never knows which domain it serves.
type PromptBuilder interface {
	// Name identifies the builder in logs and run history.
	Name() string
	// Build returns the prompt for one batch.
	Build(batch []model.Record) string
}

// renderBatch writes the numbered record block shared by all builders.
func renderBatch(b *strings.Builder, batch []model.Record) {
	for i, r := range batch {
		fmt.Fprintf(b, "\n--- Record %d ---\n", i+1)
		fmt.Fprintf(b, "ID: %s\n", orNA(r.ID))
		fmt.Fprintf(b, "Company Name: %s\n", orNA(r.CompanyName))
		fmt.Fprintf(b, "Address: %s\n", orNA(r.FullAddress))
		fmt.Fprintf(b, "Website: %s\n", orNA(r.Website))
		fmt.Fprintf(b, "Phone: %s\n", orNA(r.Phone))
		fmt.Fprintf(b, "Business Types: %s\n", orNA(r.Types))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// HorecaPrompt classifies leads as frozen-poultry suppliers for Asian
// restaurants in the HORECA (hotel/restaurant/catering) channel.
type HorecaPrompt struct{}

func (HorecaPrompt) Name() string { return "horeca" }

func (HorecaPrompt) Build(batch []model.Record) string {
	var b strings.Builder
	b.WriteString(`You are a B2B foodservice analyst. Analyze these businesses and determine if each is a good fit for selling frozen crispy duck/chicken to Asian restaurants (Vietnamese/Chinese) in the HORECA (Hotel/Restaurant/Catering) channel.

Records to analyze:
`)
	renderBatch(&b, batch)
	b.WriteString(`
For EACH record, return a JSON object with these fields:
1. record_index (int): The record number (1, 2, 3...) matching the input.
2. is_horeca_distributor (true/false): Does this appear to supply restaurants/catering/foodservice?
3. is_ethnic_asian (true/false): Is this Vietnamese, Chinese, or pan-Asian food focused?
4. likely_frozen_poultry (true/false): Does it likely stock frozen poultry (duck/chicken)?
5. priority_score (1-10): Overall fit score (10 = perfect fit, 1 = unlikely fit).
6. contact_recommendation (text): Brief recommendation on contacting this company.

Return ONLY a valid JSON ARRAY containing objects for all records. No markdown formatting.
Example:
[
{"record_index": 1, "is_horeca_distributor": true, "is_ethnic_asian": false, "likely_frozen_poultry": true, "priority_score": 7, "contact_recommendation": "..."},
{"record_index": 2, "is_horeca_distributor": false, "is_ethnic_asian": false, "likely_frozen_poultry": false, "priority_score": 2, "contact_recommendation": "..."}
]
`)
	return b.String()
}

// WarehousePrompt classifies leads as cold-storage or frozen-food warehouse
// capacity, ideally with 150+ pallet spaces.
type WarehousePrompt struct{}

func (WarehousePrompt) Name() string { return "warehouse" }

func (WarehousePrompt) Build(batch []model.Record) string {
	var b strings.Builder
	b.WriteString(`You are a logistics and warehouse analyst. Analyze these businesses and determine if each is a frozen food warehouse or cold storage facility, ideally with pallet capacity.

Records to analyze:
`)
	renderBatch(&b, batch)
	b.WriteString(`
For EACH record, return a JSON object with these fields:
1. record_index (int): The record number (1, 2, 3...) matching the input.
2. is_cold_storage_warehouse (true/false): Does this appear to be a cold/frozen storage warehouse?
3. likely_pallet_capacity (none/low/medium/high): Estimate pallet capacity (high = 150+ pallets likely).
4. is_logistics_center (true/false): Is this a logistics/distribution center?
5. priority_score (1-10): Overall fit for a frozen food warehouse with 150+ pallets (10 = perfect fit, 1 = unlikely fit).
6. contact_recommendation (text): Brief recommendation on contacting this company.

Return ONLY a valid JSON ARRAY containing objects for all records. No markdown formatting.
Example:
[
{"record_index": 1, "is_cold_storage_warehouse": true, "likely_pallet_capacity": "high", "is_logistics_center": true, "priority_score": 8, "contact_recommendation": "..."},
{"record_index": 2, "is_cold_storage_warehouse": false, "likely_pallet_capacity": "none", "is_logistics_center": false, "priority_score": 2, "contact_recommendation": "..."}
]
`)
	return b.String()
}

// BuilderFor returns the prompt builder for a plan name.
func BuilderFor(plan string) (PromptBuilder, error) {
	switch plan {
	case "horeca", "":
		return HorecaPrompt{}, nil
	case "warehouse":
		return WarehousePrompt{}, nil
	}
	return nil, eris.Errorf("classify: no prompt builder for plan %q", plan)
}
