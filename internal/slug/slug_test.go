package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vail", "vail"},
		{"Beaver Creek", "beaver-creek"},
		{"Crested  Butte", "crested-butte"},
		{"Val-d'Isère", "val-d-isere"},
		{"Zermatt – Matterhorn", "zermatt-matterhorn"},
		{"Åre", "are"},
		{"  Big Sky  ", "big-sky"},
		{"49 Degrees North", "49-degrees-north"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.in), "input %q", tt.in)
	}
}
