package utils

import "github.com/rs/xid"

// GenerateID returns a short sortable unique id, used to correlate log lines
// belonging to one request.
func GenerateID() string {
	return xid.New().String()
}
