package ledger

import (
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"

	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Ledger *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method: "GET",
			Path:   "/merchants/{merchantID}/transactions",
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.DateQuery("fromDate"),
				validate.DateQuery("toDate"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:      h.transactions,
			Shape:     shapeTransactions,
		},
	}
}

// transactions forwards the date range with the end bound widened to the end
// of that day, so toDate=2023-01-31 includes the whole of the 31st.
func (h Handlers) transactions(r *pipeline.Request) (any, error) {
	query := url.Values{}
	if from := r.Query.Get("fromDate"); from != "" {
		query.Set("fromDate", from)
	}
	if to := r.Query.Get("toDate"); to != "" {
		query.Set("toDate", to+"T23:59:59")
	}

	raw, err := h.Ledger.GetQuery(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/transactions", query)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// shapeTransactions wraps the raw transaction list with a decimal total so
// clients do not sum floating-point amounts themselves.
func shapeTransactions(r *pipeline.Request, result any) (any, error) {
	raw, ok := result.(json.RawMessage)
	if !ok {
		return result, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		// Not a bare list; some ledger deployments already wrap. Pass through.
		return result, nil
	}

	total := decimal.Zero
	for _, item := range items {
		switch v := item["amount"].(type) {
		case float64:
			total = total.Add(decimal.NewFromFloat(v))
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				total = total.Add(d)
			}
		}
	}

	if items == nil {
		items = []map[string]any{}
	}
	return map[string]any{
		"transactions": items,
		"totalAmount":  total.StringFixed(2),
	}, nil
}
