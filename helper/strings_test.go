package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"Name":          "name",
		"CouncilMember": "council_member",
		"UserID":        "user_id",
		"HTTPStatus":    "http_status",
		"BaseVersion":   "base_version",
		"Area2Name":     "area2_name",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Underscore(in), in)
	}
}
