// Package client talks to the contacts API the way the browser client does:
// plain requests, no retries, non-2xx answers surfaced as *HTTPError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/contacts-backend/internal/model"
)

const DefaultBaseURL = "http://localhost:3001/api"

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! status: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchContacts requests one page. search is omitted when empty and
// favourite only sent when true.
func (c *Client) FetchContacts(ctx context.Context, search string, favourite bool, page, limit int) (*model.ContactPage, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if favourite {
		params.Set("favourite", "true")
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var out model.ContactPage
	if err := c.do(ctx, http.MethodGet, "/contacts?"+params.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	return &out, nil
}

// ExportContacts fetches the whole collection.
func (c *Client) ExportContacts(ctx context.Context) ([]model.Contact, error) {
	var out model.ContactDocument
	if err := c.do(ctx, http.MethodGet, "/contacts/export", nil, &out); err != nil {
		return nil, fmt.Errorf("export contacts: %w", err)
	}
	return out.Contacts, nil
}

func (c *Client) FetchContactByID(ctx context.Context, id int) (*model.Contact, error) {
	var out model.Contact
	if err := c.do(ctx, http.MethodGet, contactPath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetch contact %d: %w", id, err)
	}
	return &out, nil
}

// CreateContact validates in and posts it; invalid input never leaves the process.
func (c *Client) CreateContact(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out model.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", in, &out); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &out, nil
}

// UpdateContact replaces every field of contact.ID.
func (c *Client) UpdateContact(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	if err := contact.Input().Validate(); err != nil {
		return nil, err
	}
	var out model.Contact
	if err := c.do(ctx, http.MethodPut, contactPath(contact.ID), contact, &out); err != nil {
		return nil, fmt.Errorf("update contact %d: %w", contact.ID, err)
	}
	return &out, nil
}

// ToggleFavourite sends contact back with its favourite flag flipped.
func (c *Client) ToggleFavourite(ctx context.Context, contact model.Contact) (*model.Contact, error) {
	contact.Favourite = !contact.Favourite
	var out model.Contact
	if err := c.do(ctx, http.MethodPut, contactPath(contact.ID), contact, &out); err != nil {
		return nil, fmt.Errorf("toggle favourite %d: %w", contact.ID, err)
	}
	return &out, nil
}

// DeleteContact returns the deleted id.
func (c *Client) DeleteContact(ctx context.Context, id int) (int, error) {
	if err := c.do(ctx, http.MethodDelete, contactPath(id), nil, nil); err != nil {
		return 0, fmt.Errorf("delete contact %d: %w", id, err)
	}
	return id, nil
}

func contactPath(id int) string {
	return "/contacts/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &HTTPError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
