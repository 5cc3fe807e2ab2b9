package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name       string
		in         PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"vacío usa el límite por defecto", PageRequest{}, DefaultPageLimit, 0},
		{"límite excesivo se acota", PageRequest{Limit: 1000, Offset: 5}, MaxPageLimit, 5},
		{"offset negativo vuelve a cero", PageRequest{Limit: 10, Offset: -3}, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.Normalize()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}
