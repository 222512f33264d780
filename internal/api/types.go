package api

import "github.com/tayloree/dinecli/internal/menu"

// RecordsResponse is the top-level response from the menu feed.
type RecordsResponse struct {
	Records   []menu.RawRecord `json:"records"`
	Generated string           `json:"generated,omitempty"`
}
