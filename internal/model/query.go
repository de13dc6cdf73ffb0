// internal/model/query.go
package model

// ContactQuery holds the resolved filter and pagination parameters of a list request.
type ContactQuery struct {
	Search        string
	FavouriteOnly bool
	Page          int
	Limit         int
}

// ContactPage is one page of the filtered collection.
type ContactPage struct {
	Data       []Contact `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// ContactDocument is the {"contacts": [...]} form used by the JSON store,
// the export endpoint and the seeder.
type ContactDocument struct {
	Contacts []Contact `json:"contacts"`
}
