package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_Deterministic(t *testing.T) {
	corpus := []string{
		"golang backend engineer with kubernetes experience",
		"python data scientist pandas numpy",
		"golang microservices grpc kubernetes",
	}

	m1 := Fit(corpus, WordOptions())
	m2 := Fit(corpus, WordOptions())

	v1 := m1.Vector("golang kubernetes")
	v2 := m2.Vector("golang kubernetes")
	require.NotNil(t, v1)
	assert.Equal(t, v1, v2)
}

func TestVector_UnknownTermsYieldNil(t *testing.T) {
	m := Fit([]string{"golang backend engineer"}, WordOptions())

	assert.Nil(t, m.Vector("haskell category theory"))
	assert.Nil(t, m.Vector(""))
	assert.Nil(t, m.Vector("the and of")) // stop words only
}

func TestVector_UnfittedModel(t *testing.T) {
	var m *Model
	assert.Nil(t, m.Vector("anything"))
	assert.False(t, m.Fitted())

	empty := Fit(nil, WordOptions())
	assert.Nil(t, empty.Vector("anything"))
}

func TestCosine_Properties(t *testing.T) {
	corpus := []string{
		"golang backend engineer kubernetes docker",
		"frontend react typescript css",
		"golang kubernetes platform engineer",
	}
	m := Fit(corpus, WordOptions())

	self := m.Vector("golang kubernetes engineer")
	assert.InDelta(t, 1.0, Cosine(self, self), 1e-9)

	near := Cosine(m.Vector("golang kubernetes"), m.Vector("golang kubernetes engineer"))
	far := Cosine(m.Vector("golang kubernetes"), m.Vector("react css"))
	assert.Greater(t, near, far)
	assert.GreaterOrEqual(t, far, 0.0)

	assert.Zero(t, Cosine(nil, self))
	assert.Zero(t, Cosine(self, nil))
	assert.Zero(t, Cosine(nil, nil))
}

func TestCharNGrams_SkillVariants(t *testing.T) {
	corpus := []string{
		"postgresql redis kafka",
		"mysql mongodb cassandra",
		"postgres rabbitmq",
	}
	m := Fit(corpus, CharOptions())

	// Char n-grams should see "postgres" and "postgresql" as related.
	related := Cosine(m.Vector("postgresql"), m.Vector("postgres"))
	unrelated := Cosine(m.Vector("postgresql"), m.Vector("mongodb"))
	assert.Greater(t, related, unrelated)
}

func TestMaxFeatures_CapsVocabulary(t *testing.T) {
	corpus := []string{"alpha beta gamma delta epsilon zeta eta theta"}
	m := Fit(corpus, Options{Analyzer: AnalyzerWord, MaxFeatures: 3})
	assert.Len(t, m.vocab, 3)
}
