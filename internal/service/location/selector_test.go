package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dhakaSavar() AddressPair {
	a := Address{Country: "Bangladesh", Division: "Dhaka", District: "Dhaka", Upazila: "Savar"}
	return AddressPair{Permanent: a, Present: a}
}

func TestParseSelectorTrimsSegments(t *testing.T) {
	s := ParseSelector("  Bangladesh>Dhaka >  All Districts ")
	assert.Equal(t, []string{"Bangladesh", "Dhaka", "All Districts"}, s.Segments())
	assert.Equal(t, "Bangladesh>Dhaka >  All Districts", s.Raw())
	assert.False(t, s.IsEmpty())

	assert.True(t, ParseSelector("   ").IsEmpty())
	assert.True(t, ParseSelector(" > > ").IsEmpty())
}

func TestMatchEmptySelectorMatchesEverything(t *testing.T) {
	assert.True(t, Match("", AddressPair{}))
	assert.True(t, Match("  ", dhakaSavar()))
}

func TestMatchAllDivisions(t *testing.T) {
	candidates := []AddressPair{
		dhakaSavar(),
		{Present: Address{Division: "Sylhet"}},
		{},
	}
	for _, c := range candidates {
		assert.True(t, Match("Bangladesh > All Divisions", c))
		assert.True(t, Match("bangladesh > all divisions", c))
	}
}

func TestMatchAllDistrictsUsesDivision(t *testing.T) {
	sel := "Bangladesh > Dhaka > All Districts"

	assert.True(t, Match(sel, AddressPair{Present: Address{Division: "Dhaka"}}))
	assert.False(t, Match(sel, AddressPair{Present: Address{Division: "Chattogram"}}))
	assert.True(t, Match(sel, AddressPair{
		Present:   Address{Division: "Chattogram"},
		Permanent: Address{Division: "Dhaka"},
	}))
	assert.True(t, Match(sel, AddressPair{Present: Address{Division: "Dhaka Division"}}))
}

func TestMatchAllUpazilasUsesDistrict(t *testing.T) {
	sel := "Bangladesh > Dhaka > Gazipur > All Upazilas"

	assert.True(t, Match(sel, AddressPair{Present: Address{Division: "Khulna", District: "Gazipur"}}))
	assert.True(t, Match(sel, AddressPair{Permanent: Address{District: "gazipur"}}))
	assert.False(t, Match(sel, AddressPair{Present: Address{Division: "Dhaka", District: "Tangail"}}))
}

func TestMatchFullPathIsConjunctive(t *testing.T) {
	sel := "Bangladesh > Dhaka > Dhaka > Savar"

	assert.True(t, Match(sel, dhakaSavar()))

	wrongUpazila := AddressPair{Present: Address{Division: "Dhaka", District: "Dhaka", Upazila: "Dohar"}}
	assert.False(t, Match(sel, wrongUpazila))

	viaArea := AddressPair{Present: Address{Division: "Dhaka", District: "Dhaka", Area: "Savar Cantonment"}}
	assert.True(t, Match(sel, viaArea))

	viaPermanent := AddressPair{
		Present:   Address{Division: "Sylhet", District: "Sylhet", Upazila: "Zakiganj"},
		Permanent: Address{Division: "Dhaka", District: "Dhaka", Upazila: "Savar"},
	}
	assert.True(t, Match(sel, viaPermanent))
}

func TestMatchFullPathRequiresSameAddressSet(t *testing.T) {
	// Division and district only on present, upazila only on permanent.
	split := AddressPair{
		Present:   Address{Division: "Dhaka", District: "Gazipur", Upazila: "Sreepur"},
		Permanent: Address{Division: "Khulna", District: "Satkhira", Upazila: "Kaliganj"},
	}
	assert.False(t, Match("Bangladesh > Dhaka > Gazipur > Kaliganj", split))
	assert.True(t, Match("Bangladesh > Khulna > Satkhira > Kaliganj", split))
}

func TestMatchFallbackSubstring(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		pair AddressPair
		want bool
	}{
		{"single token in area", "Mirpur", AddressPair{Present: Address{Area: "Mirpur 10"}}, true},
		{"segment in upazila", "Bangladesh > Savar", dhakaSavar(), true},
		{"segment in division", "Bangladesh > Sylhet", AddressPair{Permanent: Address{Division: "Sylhet"}}, true},
		{"raw string substring", "Cox's", AddressPair{Present: Address{District: "Cox's Bazar"}}, true},
		{"country only is not a token", "Bangladesh > Rangpur", AddressPair{Present: Address{Country: "Bangladesh", Division: "Dhaka"}}, false},
		{"no match", "Bangladesh > Barishal", dhakaSavar(), false},
		{"short upazila wildcard is not a token", "Bangladesh > All Upazilas", AddressPair{Present: Address{Area: "All Upazilas Road"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.sel, tt.pair))
		})
	}
}

func TestContainsIgnoresEmpty(t *testing.T) {
	assert.False(t, contains("", "Dhaka"))
	assert.False(t, contains("Dhaka", ""))
	assert.True(t, contains(" DHAKA ", "dhaka"))
}
