package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnvelopes_UnmarshalKeepsOrder(t *testing.T) {
	var doc struct {
		Envelopes Envelopes `yaml:"envelopes"`
	}
	src := "envelopes:\n  zeta: f1\n  alpha:\n  mid: ~\n  num: 12\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	assert.Equal(t, Envelopes{
		{Name: "zeta", Filler: "f1"},
		{Name: "alpha"},
		{Name: "mid"},
		{Name: "num", Filler: "12"},
	}, doc.Envelopes)
	assert.Equal(t, []string{"zeta", "alpha", "mid", "num"}, doc.Envelopes.Names())
}

func TestEnvelopes_UnmarshalRejectsNonScalarFiller(t *testing.T) {
	var doc struct {
		Envelopes Envelopes `yaml:"envelopes"`
	}
	err := yaml.Unmarshal([]byte("envelopes:\n  a: [x, y]\n"), &doc)
	assert.Error(t, err)
}

func TestEnvelopes_Merge(t *testing.T) {
	base := Envelopes{{Name: "a", Filler: "fa"}, {Name: "b", Filler: "fb"}}
	child := Envelopes{{Name: "c", Filler: "fc"}, {Name: "a"}}

	got := child.Merge(base)
	assert.Equal(t, Envelopes{{Name: "a"}, {Name: "b", Filler: "fb"}, {Name: "c", Filler: "fc"}}, got)
	assert.Equal(t, "fa", base[0].Filler, "base is left alone")

	filler, ok := got.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "fb", filler)
	assert.False(t, got.Has("z"))
}

func TestStarTagged(t *testing.T) {
	expr, star := StarTagged(" *(0 0 1 90 0 90) ")
	assert.True(t, star)
	assert.Equal(t, "(0 0 1 90 0 90)", expr)

	expr, star = StarTagged("(1)")
	assert.False(t, star)
	assert.Equal(t, "(1)", expr)
}

func TestError_Is(t *testing.T) {
	cause := errors.New("disk on fire")
	err := fmt.Errorf("outer: %w", Wrap(ErrInvalidConfig, cause, "configuration %q", "base"))

	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, `outer: invalid configuration: configuration "base": disk on fire`, err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrInvalidConfig, apiErr.Kind)
}
