package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Running Shoes", "running-shoes"},
		{"  Air Max 90!  ", "air-max-90"},
		{"Botas -- de   Cuero", "botas-de-cuero"},
		{"Zapatos Niño", "zapatos-nio"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
