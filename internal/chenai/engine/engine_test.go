package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/chenai/router"
	"github.com/longkey1/chenai/internal/chenai/session"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, messages []chenai.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type mockDocs struct {
	mock.Mock
}

func (m *mockDocs) Search(ctx context.Context, collection, query string, n int) (string, error) {
	args := m.Called(ctx, collection, query, n)
	return args.String(0), args.Error(1)
}

type mockWeb struct {
	mock.Mock
}

func (m *mockWeb) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func lastUserContains(text string) any {
	return mock.MatchedBy(func(msgs []chenai.Message) bool {
		last := msgs[len(msgs)-1]
		return last.Role == chenai.RoleUser && strings.Contains(last.Content, text)
	})
}

func TestInitializeSession(t *testing.T) {
	e := New(&mockCompleter{}, nil, nil, WithModel("llama3.2"))
	sess := e.InitializeSession()

	require.Len(t, sess.Messages, 2)
	assert.Equal(t, chenai.RoleSystem, sess.Messages[0].Role)
	assert.Contains(t, sess.Messages[0].Content, "You are ChenAi")
	assert.Equal(t, "Hello Buddy, How can I help you today?", sess.Messages[1].Content)
	assert.Equal(t, "llama3.2", sess.Model)
}

func TestProcessTurnCollection(t *testing.T) {
	completer := &mockCompleter{}
	docs := &mockDocs{}
	web := &mockWeb{}

	query := "What is chain-of-thought prompting?"
	docs.On("Search", mock.Anything, chenai.CollectionPrompt, query, 5).
		Return(`{"Data": ["CoT description..."]}`, nil).Once()
	completer.On("Complete", mock.Anything, lastUserContains("CoT description...")).
		Return("CoT asks the model to reason step by step.", nil).Once()

	var hints []string
	e := New(completer, docs, web, WithSearchHook(func(h string) { hints = append(hints, h) }))
	sess := e.InitializeSession()

	answer := e.ProcessTurn(context.Background(), sess, query)

	assert.Equal(t, "CoT asks the model to reason step by step.", answer)
	assert.Equal(t, []string{"Searching Prompt_Engineering_Post..."}, hints)
	require.Len(t, sess.Messages, 4)
	assert.Equal(t, chenai.RoleUser, sess.Messages[2].Role)
	assert.Equal(t, query, sess.Messages[2].Content)
	assert.Equal(t, chenai.RoleAssistant, sess.Messages[3].Role)
	assert.Equal(t, answer, sess.Messages[3].Content)

	// the stored system prompt is not enhanced
	system, _ := sess.SystemPrompt()
	assert.NotContains(t, system, "You have access to search results")

	docs.AssertExpectations(t)
	completer.AssertExpectations(t)
	web.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestProcessTurnInternet(t *testing.T) {
	completer := &mockCompleter{}
	docs := &mockDocs{}
	web := &mockWeb{}

	query := "latest AI news today"
	web.On("Search", mock.Anything, query).Return("[Result 1] news", nil).Once()
	completer.On("Complete", mock.Anything, lastUserContains("[Result 1] news")).Return("Here is the news.", nil).Once()

	e := New(completer, docs, web)
	answer := e.ProcessTurn(context.Background(), e.InitializeSession(), query)

	assert.Equal(t, "Here is the news.", answer)
	web.AssertExpectations(t)
	docs.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessTurnRetrievalErrorPayload(t *testing.T) {
	completer := &mockCompleter{}
	docs := &mockDocs{}

	docs.On("Search", mock.Anything, chenai.CollectionAttack, mock.Anything, 5).
		Return(`{"Error": "connection refused"}`, nil).Once()

	e := New(completer, docs, nil)
	sess := e.InitializeSession()
	answer := e.ProcessTurn(context.Background(), sess, "how do jailbreak attacks work")

	assert.Equal(t, "⚠️ Error from search_db: connection refused", answer)
	assert.Equal(t, answer, sess.Messages[len(sess.Messages)-1].Content)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestProcessTurnBackendFaults(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(c *mockCompleter, d *mockDocs, w *mockWeb)
		query  string
		prefix string
	}{
		{
			name: "document search transport fault",
			setup: func(c *mockCompleter, d *mockDocs, w *mockWeb) {
				d.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("dial tcp: refused"))
			},
			query:  "agent memory",
			prefix: "⚠️ Error calling search_db: dial tcp: refused",
		},
		{
			name: "web search transport fault",
			setup: func(c *mockCompleter, d *mockDocs, w *mockWeb) {
				w.On("Search", mock.Anything, mock.Anything).Return("", errors.New("timeout"))
			},
			query:  "weather in paris",
			prefix: "⚠️ Error calling Internet_search: timeout",
		},
		{
			name: "synthesis fault",
			setup: func(c *mockCompleter, d *mockDocs, w *mockWeb) {
				w.On("Search", mock.Anything, mock.Anything).Return("evidence", nil)
				c.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("model not found"))
			},
			query:  "weather in paris",
			prefix: "⚠️ Error calling chat: model not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, d, w := &mockCompleter{}, &mockDocs{}, &mockWeb{}
			tt.setup(c, d, w)

			e := New(c, d, w, WithModel("ollama:qwen2.5"))
			sess := e.InitializeSession()
			answer := e.ProcessTurn(context.Background(), sess, tt.query)

			assert.True(t, strings.HasPrefix(answer, tt.prefix), answer)
			assert.Contains(t, answer, "ollama pull qwen2.5")
			assert.Contains(t, answer, "ollama pull nomic-embed-text")
			require.Len(t, sess.Messages, 4)
			assert.Equal(t, chenai.RoleAssistant, sess.Messages[3].Role)
		})
	}
}

func TestProcessTurnMissingBackends(t *testing.T) {
	completer := &mockCompleter{}
	e := New(completer, nil, nil)

	answer := e.ProcessTurn(context.Background(), e.InitializeSession(), "agent planning")
	assert.True(t, strings.HasPrefix(answer, "⚠️ Error calling search_db: no document search backend configured"))

	answer = e.ProcessTurn(context.Background(), e.InitializeSession(), "something general")
	assert.True(t, strings.HasPrefix(answer, "⚠️ Error calling Internet_search: no web search backend configured"))

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestProcessTurnEmptyQuery(t *testing.T) {
	completer, docs, web := &mockCompleter{}, &mockDocs{}, &mockWeb{}
	e := New(completer, docs, web)
	sess := e.InitializeSession()

	for _, text := range []string{"", "   ", "\n\t"} {
		answer := e.ProcessTurn(context.Background(), sess, text)
		assert.Equal(t, "Please provide a question or query.", answer)
	}
	assert.Len(t, sess.Messages, 2)

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	web.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestAnswerWithoutUserMessage(t *testing.T) {
	completer := &mockCompleter{}
	e := New(completer, nil, nil)

	_, err := e.Answer(context.Background(), e.InitializeSession())
	assert.ErrorIs(t, err, chenai.ErrNoQuery)

	empty := &session.Session{}
	_, err = e.Answer(context.Background(), empty)
	assert.ErrorIs(t, err, chenai.ErrNoQuery)
	assert.Equal(t, "Please provide a question or query.", chenai.FormatError(err, ""))

	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestProcessTurnNoneFallback(t *testing.T) {
	completer := &mockCompleter{}
	web := &mockWeb{}

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []chenai.Message) bool {
		return strings.Contains(msgs[0].Content, "Available functions:") &&
			msgs[len(msgs)-1].Content == "tell me a joke"
	})).Return("Why did the gopher cross the road?", nil).Once()

	var hints []string
	e := New(completer, nil, web,
		WithRouter(router.New(router.WithFallback(router.TargetNone))),
		WithSearchHook(func(h string) { hints = append(hints, h) }),
	)
	answer := e.ProcessTurn(context.Background(), e.InitializeSession(), "tell me a joke")

	assert.Equal(t, "Why did the gopher cross the road?", answer)
	assert.Empty(t, hints)
	web.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	completer.AssertExpectations(t)
}

func TestNextTurnAfterError(t *testing.T) {
	completer, docs := &mockCompleter{}, &mockDocs{}
	docs.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"Error": "collection missing"}`, nil).Once()
	docs.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"Data": ["agents plan"]}`, nil).Once()
	completer.On("Complete", mock.Anything, mock.Anything).Return("Agents plan tasks.", nil).Once()

	e := New(completer, docs, nil)
	sess := e.InitializeSession()

	first := e.ProcessTurn(context.Background(), sess, "agent planning")
	second := e.ProcessTurn(context.Background(), sess, "agent planning again")

	assert.Equal(t, "⚠️ Error from search_db: collection missing", first)
	assert.Equal(t, "Agents plan tasks.", second)
	assert.Len(t, sess.Messages, 6)
	assert.Equal(t, first, sess.Messages[3].Content)
}

func TestSearchHint(t *testing.T) {
	assert.Equal(t, "Searching Agent_Post...", SearchHint(router.Decision{
		Target: router.TargetCollectionA,
		Params: router.Params{Collection: chenai.CollectionAgent},
	}))
	assert.Equal(t, "Searching internet...", SearchHint(router.Decision{Target: router.TargetInternet}))
	assert.Empty(t, SearchHint(router.Decision{Target: router.TargetNone}))
}
