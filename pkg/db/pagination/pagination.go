package pagination

import "strconv"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Pagination binds the cursor query parameters shared by list endpoints.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Limit clamps the requested page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// Cursor decodes the page token into the last-seen row ID, 0 for the first page.
func (p Pagination) Cursor() int64 {
	if p.PageToken == "" {
		return 0
	}
	value, err := strconv.ParseInt(p.PageToken, 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// PageInfo is embedded in list responses.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	TotalSize     int64  `json:"total_size"`
}

// TokenFor encodes a row ID as the next page token.
func TokenFor(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
