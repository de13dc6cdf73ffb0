// internal/service/query.go
package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/unclebandit/contacts-backend/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ParseContactQuery decodes the search, favourite, page and limit query
// parameters. Only the literal "true" enables the favourite filter. Page and
// limit fall back to their defaults when absent, non-numeric or below 1.
func ParseContactQuery(values url.Values) model.ContactQuery {
	return model.ContactQuery{
		Search:        values.Get("search"),
		FavouriteOnly: values.Get("favourite") == "true",
		Page:          positiveOr(values.Get("page"), DefaultPage),
		Limit:         positiveOr(values.Get("limit"), DefaultLimit),
	}
}

func positiveOr(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
		return n
	}
	return def
}

// QueryContacts filters all by name substring and favourite flag, then
// returns the requested page. It does not modify all.
func QueryContacts(all []model.Contact, q model.ContactQuery) model.ContactPage {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	needle := strings.ToLower(q.Search)
	filtered := make([]model.Contact, 0, len(all))
	for _, c := range all {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if q.FavouriteOnly && !c.Favourite {
			continue
		}
		filtered = append(filtered, c)
	}

	total := len(filtered)
	start, end := pageBounds(total, q.Page, q.Limit)

	data := make([]model.Contact, end-start)
	copy(data, filtered[start:end])

	totalPages := total / q.Limit
	if total%q.Limit != 0 {
		totalPages++
	}

	return model.ContactPage{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}
}

// pageBounds returns the [start, end) window of page within total items
// without overflowing on very large page or limit values.
func pageBounds(total, page, limit int) (int, int) {
	if page-1 > total/limit {
		return total, total
	}
	start := min((page-1)*limit, total)
	end := total
	if limit < total-start {
		end = start + limit
	}
	return start, end
}
