package codec_test

import (
	"errors"
	"testing"

	"github.com/aretw0/waypoint/pkg/codec"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Article struct {
	ID    int      `json:"id" yaml:"id"`
	Title string   `json:"title" yaml:"title"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestDecode_InMemory(t *testing.T) {
	set := codec.NewSet()
	want := Article{ID: 42, Title: "Waypoints"}

	got, err := codec.Decode[Article](set, domain.InMemory(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecode_MapPayload(t *testing.T) {
	set := codec.NewSet()

	got, err := codec.Decode[Article](set, domain.InMemory(map[string]any{"id": 7, "title": "t"}))
	require.NoError(t, err)
	assert.Equal(t, Article{ID: 7, Title: "t"}, got)
}

func TestDecode_Serialized(t *testing.T) {
	set := codec.NewSet()

	got, err := codec.Decode[Article](set, domain.Serialized(domain.FormatJSON, `{"id":42,"title":"json","tags":["a"]}`))
	require.NoError(t, err)
	assert.Equal(t, Article{ID: 42, Title: "json", Tags: []string{"a"}}, got)

	got, err = codec.Decode[Article](set, domain.Serialized(domain.FormatYAML, "id: 3\ntitle: yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, Article{ID: 3, Title: "yaml"}, got)
}

func TestDecode_TypeMismatch(t *testing.T) {
	set := codec.NewSet()

	_, err := codec.Decode[Article](set, domain.InMemory("not an article"))
	var typeErr *domain.PayloadTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "codec_test.Article", typeErr.Expected)
	assert.Equal(t, "string", typeErr.Actual)

	_, err = codec.Decode[Article](set, domain.Serialized(domain.FormatJSON, `{"id":"x"}`))
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, domain.FormatJSON, typeErr.Format)

	_, err = codec.Decode[Article](set, domain.Serialized(domain.FormatJSON, `{broken`))
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "malformed data", typeErr.Actual)

	_, err = codec.Decode[Article](set, domain.Serialized("toml", "id = 1"))
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, err.Error(), "toml")

	_, err = codec.Decode[Article](set, domain.Payload{})
	require.ErrorAs(t, err, &typeErr)
}

func TestSet_Encode(t *testing.T) {
	set := codec.NewSet()

	p, err := set.Encode(domain.InMemory(Article{ID: 1, Title: "x"}))
	require.NoError(t, err)
	assert.True(t, p.IsEncoded())
	assert.Equal(t, domain.FormatJSON, p.Format)
	assert.JSONEq(t, `{"id":1,"title":"x"}`, p.Encoded)

	roundTrip, err := codec.Decode[Article](set, p)
	require.NoError(t, err)
	assert.Equal(t, Article{ID: 1, Title: "x"}, roundTrip)

	already := domain.Serialized(domain.FormatYAML, "id: 1\n")
	p, err = set.Encode(already)
	require.NoError(t, err)
	assert.Equal(t, already, p)

	yamlFirst := codec.NewSet(codec.YAML{})
	p, err = yamlFirst.Encode(domain.InMemory(map[string]int{"id": 2}))
	require.NoError(t, err)
	assert.Equal(t, "id: 2\n", p.Encoded)
}
