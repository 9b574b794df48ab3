package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/chenai/internal/chenai"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantTarget     Target
		wantCollection string
		wantRule       string
	}{
		{
			name:       "realtime keyword goes to internet",
			query:      "latest AI news today",
			wantTarget: TargetInternet,
			wantRule:   "realtime",
		},
		{
			name:       "realtime beats agent keyword",
			query:      "What are the latest agent frameworks?",
			wantTarget: TargetInternet,
			wantRule:   "realtime",
		},
		{
			name:       "realtime beats prompt keyword",
			query:      "recent prompt engineering papers",
			wantTarget: TargetInternet,
			wantRule:   "realtime",
		},
		{
			name:           "agent collection",
			query:          "How does task decomposition work in LLM agents?",
			wantTarget:     TargetCollectionA,
			wantCollection: chenai.CollectionAgent,
			wantRule:       "agent",
		},
		{
			name:           "prompt collection",
			query:          "What is chain-of-thought prompting?",
			wantTarget:     TargetCollectionB,
			wantCollection: chenai.CollectionPrompt,
			wantRule:       "prompt",
		},
		{
			name:           "attack collection",
			query:          "Explain jailbreak techniques",
			wantTarget:     TargetCollectionC,
			wantCollection: chenai.CollectionAttack,
			wantRule:       "attack",
		},
		{
			name:           "case insensitive",
			query:          "ZERO-SHOT vs FEW-SHOT",
			wantTarget:     TargetCollectionB,
			wantCollection: chenai.CollectionPrompt,
			wantRule:       "prompt",
		},
		{
			name:           "agent wins over attack when both match",
			query:          "adversarial attacks on an agent",
			wantTarget:     TargetCollectionA,
			wantCollection: chenai.CollectionAgent,
			wantRule:       "agent",
		},
		{
			name:       "no keyword falls back to internet",
			query:      "Who painted the Mona Lisa?",
			wantTarget: TargetInternet,
			wantRule:   "fallback",
		},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Route(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, d.Target)
			assert.Equal(t, tt.wantRule, d.Rule)
			assert.Equal(t, tt.query, d.Params.Query)
			if tt.wantTarget.IsCollection() {
				assert.Equal(t, tt.wantCollection, d.Params.Collection)
				assert.Equal(t, 5, d.Params.N)
				assert.Equal(t, chenai.FuncSearchDB, d.Function())
			} else {
				assert.Empty(t, d.Params.Collection)
				assert.Equal(t, chenai.FuncInternetSearch, d.Function())
			}
		})
	}
}

func TestRouteRealtimePrecedence(t *testing.T) {
	r := New()
	topical := append(append(append([]string{}, AgentKeywords...), PromptKeywords...), AttackKeywords...)
	for _, rt := range RealtimeKeywords {
		for _, kw := range topical {
			d, err := r.Route(kw + " " + rt)
			require.NoError(t, err)
			assert.Equal(t, TargetInternet, d.Target, "query %q", kw+" "+rt)
		}
	}
}

func TestRouteEmptyQuery(t *testing.T) {
	r := New()
	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := r.Route(q)
		assert.ErrorIs(t, err, chenai.ErrNoQuery)
	}
}

func TestRouteIsIdempotent(t *testing.T) {
	r := New()
	for _, q := range []string{"What is chain-of-thought prompting?", "latest AI news today", "hello there"} {
		first, err := r.Route(q)
		require.NoError(t, err)
		second, err := r.Route(q)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestRouteFallbackNone(t *testing.T) {
	r := New(WithFallback(TargetNone))

	d, err := r.Route("Who painted the Mona Lisa?")
	require.NoError(t, err)
	assert.Equal(t, TargetNone, d.Target)
	assert.Empty(t, d.Function())

	d, err = r.Route("breaking headlines")
	require.NoError(t, err)
	assert.Equal(t, TargetInternet, d.Target)
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetInternet, got)

	got, err = ParseTarget(" None ")
	require.NoError(t, err)
	assert.Equal(t, TargetNone, got)

	_, err = ParseTarget("collection_a")
	assert.Error(t, err)
}
