package disclosure

// BuildFeeRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is applied at the ingestion boundary so that malformed
// extractor output is rejected before the reconciliation core sees it.
func BuildFeeRecordJSONSchema() map[string]any {
	subLabels := []any{
		string(SubBorrowerAtClosing),
		string(SubBorrowerBeforeClosing),
		string(SubSellerAtClosing),
		string(SubSellerBeforeClosing),
		string(SubPaidByOthers),
	}

	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"label":     map[string]any{"type": "string"},
			"amount":    currencyProp(),
			"sub_label": map[string]any{"type": "string", "enum": subLabels},
			"payer":     map[string]any{"type": "string", "enum": []any{"borrower", "seller", "other"}},
			"timing":    map[string]any{"type": "string", "enum": []any{"at_closing", "before_closing", "n/a"}},
		},
	}

	section := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"label": map[string]any{"type": "string"},
			"total": currencyProp(),
			"items": map[string]any{"type": "array", "items": lineItem},
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"meta": map[string]any{"type": "object"},
			"applicants": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":    map[string]any{"type": "string"},
						"address": map[string]any{"type": "string"},
					},
				},
			},
			"property":   map[string]any{"type": "object"},
			"sale_price": currencyProp(),
			"loan":       map[string]any{"type": "object"},
			"loan_terms": map[string]any{"type": "object"},
			"closing_cost_details": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"loan_costs": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"A":       section,
							"B":       section,
							"C":       section,
							"D_total": currencyProp(),
						},
					},
					"other_costs": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"E":              section,
							"F":              section,
							"G":              section,
							"H":              section,
							"I_total":        currencyProp(),
							"J_total":        currencyProp(),
							"lender_credits": currencyProp(),
						},
					},
				},
			},
		},
	}
}

func currencyProp() map[string]any {
	return map[string]any{
		"type":    []any{"number", "null"},
		"minimum": -1e9,
		"maximum": 1e9,
	}
}
