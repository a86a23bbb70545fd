package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"calculus", "%calculus%"},
		{"100%", `%100\%%`},
		{"room_2", `%room\_2%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ContainsPattern(tc.in))
		})
	}
}
