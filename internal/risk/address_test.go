package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"abbreviates street", "456 elm street, 10003", "456 Elm St, 10003"},
		{"abbreviates avenue", "12 fifth avenue", "12 Fifth Ave"},
		{"abbreviates road", "9 old mill road", "9 Old Mill Rd"},
		{"abbreviates drive", "3 riverside drive", "3 Riverside Dr"},
		{"abbreviates lane", "77 penny lane", "77 Penny Ln"},
		{"abbreviates boulevard", "100 sunset boulevard", "100 Sunset Blvd"},
		{"collapses whitespace", "456   elm    st", "456 Elm St"},
		{"trims ends", "  456 elm st  ", "456 Elm St"},
		{"case-insensitive match", "456 ELM STREET", "456 ELM St"},
		{"keeps interior casing", "456 McAllister st", "456 McAllister St"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAddress(tt.address))
		})
	}
}

func TestNormalizeAddressIdempotent(t *testing.T) {
	for _, address := range []string{
		"456 elm street, 10003",
		"  100   sunset boulevard  ",
		"77 Penny Ln",
	} {
		once := NormalizeAddress(address)
		assert.Equal(t, once, NormalizeAddress(once), "input %q", address)
	}
}

func TestNormalizeAddressDoesNotTouchWordInterior(t *testing.T) {
	// "st" only abbreviates as a standalone word; the prefix in "station"
	// must survive.
	assert.Equal(t, "4 Station Rd", NormalizeAddress("4 station road"))
}
