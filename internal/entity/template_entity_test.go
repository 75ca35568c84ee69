package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleFromName(t *testing.T) {
	tests := []struct {
		name string
		want StyleLabel
	}{
		{"Quarterly", StyleBusiness},
		{"My_Creative_Deck", StyleCreative},
		{"minimal-dark", StyleMinimal},
		{"DARK", StyleDark},
		{"creative minimal", StyleCreative},
		{"", StyleBusiness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFromName(tt.name))
		})
	}
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageEN, ParseLanguage("en", LanguageRU))
	assert.Equal(t, LanguageRU, ParseLanguage("de", LanguageRU))
	assert.Equal(t, LanguageEN, ParseLanguage("", LanguageEN))
}
