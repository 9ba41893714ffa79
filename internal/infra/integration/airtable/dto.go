package airtable

// Record is one Airtable row.
type Record struct {
	ID          string                 `json:"id"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime string                 `json:"createdTime,omitempty"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type writeRequest struct {
	Fields   map[string]interface{} `json:"fields"`
	Typecast bool                   `json:"typecast,omitempty"`
}
