// Copyright 2025 Veridoc Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package clausematch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridoc/clausematch/ai/mock"
	"github.com/veridoc/clausematch/core"
)

// topicEmbedder embeds text as one indicator dimension per legal topic, so
// texts about the same topic are cosine-similar and texts about different
// topics are nearly orthogonal.
func topicEmbedder(provider *mock.MockProvider) {
	topics := [][]string{
		{"custody", "child", "children", "visitation", "guardianship"},
		{"payment", "alimony", "support", "compensation"},
		{"termination", "terminate", "cancel", "notice"},
		{"confidential", "disclosure", "privacy"},
	}
	provider.GetMockEmbedder().EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		lower := strings.ToLower(text)
		vector := make([]float32, len(topics)+1)
		vector[len(topics)] = 0.05
		for i, words := range topics {
			for _, w := range words {
				if strings.Contains(lower, w) {
					vector[i]++
				}
			}
		}
		return vector, nil
	}
}

func agreementClauses() []core.Clause {
	return []core.Clause{
		{Title: "Child Custody", Text: "The mother shall have primary custody of the minor children. Visitation shall occur on alternating weekends."},
		{Title: "Spousal Support", Text: "The husband shall pay monthly alimony as spousal support payment until remarriage."},
		{Title: "Termination", Text: "Either party may terminate this agreement upon thirty days written notice."},
		{Title: "Confidentiality", Text: "The terms of this agreement shall remain confidential and no disclosure is permitted."},
	}
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	provider := mock.NewMockProvider()
	topicEmbedder(provider)
	opts = append([]EngineOption{WithInMemoryStore(), WithProvider(provider)}, opts...)
	engine, err := NewEngine("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("in-memory with injected provider", func(t *testing.T) {
		engine := newTestEngine(t)
		assert.NotNil(t, engine.Cache())
	})

	t.Run("keyword-only opens no store", func(t *testing.T) {
		engine, err := NewEngine("", WithKeywordOnly())
		require.NoError(t, err)
		defer engine.Close()
		assert.Nil(t, engine.Cache())
	})

	t.Run("unreadable store falls back to a cold in-memory cache", func(t *testing.T) {
		// A regular file where the store directory should be makes the
		// backend unopenable; startup must degrade, not fail.
		path := filepath.Join(t.TempDir(), "notadir")
		require.NoError(t, os.WriteFile(path, []byte("junk"), 0644))

		provider := mock.NewMockProvider()
		topicEmbedder(provider)
		engine, err := NewEngine(path, WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()
		assert.NotNil(t, engine.Cache())

		response, err := engine.Match(context.Background(), "custody of children", agreementClauses())
		require.NoError(t, err)
		assert.False(t, response.Degraded)
		require.NotEmpty(t, response.Matches)
		assert.Equal(t, 0, response.Matches[0].ClauseIndex)
	})

	t.Run("on-disk store persists across engines", func(t *testing.T) {
		dir := t.TempDir()

		provider := mock.NewMockProvider()
		topicEmbedder(provider)
		first, err := NewEngine(dir, WithProvider(provider))
		require.NoError(t, err)
		_, err = first.Match(context.Background(), "custody of children", agreementClauses())
		require.NoError(t, err)
		require.NoError(t, first.Close())

		provider = mock.NewMockProvider()
		topicEmbedder(provider)
		second, err := NewEngine(dir, WithProvider(provider))
		require.NoError(t, err)
		defer second.Close()
		_, err = second.Match(context.Background(), "custody of children", agreementClauses())
		require.NoError(t, err)
	})
}

func TestEngineAnalyze(t *testing.T) {
	engine := newTestEngine(t)

	analysis := engine.Analyze("Who has custody of the children?")
	assert.Equal(t, []string{"custody", "children"}, analysis.Keywords)
	assert.Equal(t, core.IntentResponsibility, analysis.Intent)
	assert.Contains(t, analysis.LegalEntities, "custody")
}

func TestEngineMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("custody query finds the custody clause", func(t *testing.T) {
		engine := newTestEngine(t)
		response, err := engine.Match(ctx, "Who has custody of the children?", agreementClauses())
		require.NoError(t, err)
		require.NotEmpty(t, response.Matches)

		top := response.Matches[0]
		assert.Equal(t, 0, top.ClauseIndex)
		assert.Equal(t, "Child Custody", top.Title)
		assert.GreaterOrEqual(t, top.Score, 0.45)
		assert.False(t, response.Degraded)
	})

	t.Run("alimony query prefers the support clause", func(t *testing.T) {
		engine := newTestEngine(t)
		response, err := engine.Match(ctx, "alimony payment obligations", agreementClauses())
		require.NoError(t, err)
		require.NotEmpty(t, response.Matches)
		assert.Equal(t, 1, response.Matches[0].ClauseIndex)
	})

	t.Run("keyword-only engine still matches", func(t *testing.T) {
		engine, err := NewEngine("", WithKeywordOnly())
		require.NoError(t, err)
		defer engine.Close()

		response, err := engine.Match(ctx, "custody of children", agreementClauses())
		require.NoError(t, err)
		assert.True(t, response.Degraded)
		require.NotEmpty(t, response.Matches)
		assert.Equal(t, 0, response.Matches[0].ClauseIndex)
	})

	t.Run("embedding failure degrades without error", func(t *testing.T) {
		provider := mock.NewMockProvider()
		provider.GetMockEmbedder().EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("model offline")
		}
		engine, err := NewEngine("", WithInMemoryStore(), WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()

		response, err := engine.Match(ctx, "custody of children", agreementClauses())
		require.NoError(t, err)
		assert.True(t, response.Degraded)
		require.NotEmpty(t, response.Matches)
	})

	t.Run("repeated match reuses cached embeddings", func(t *testing.T) {
		provider := mock.NewMockProvider()
		topicEmbedder(provider)
		engine, err := NewEngine("", WithInMemoryStore(), WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()

		_, err = engine.Match(ctx, "custody of children", agreementClauses())
		require.NoError(t, err)
		calls := provider.GetMockEmbedder().CallCount()
		assert.Greater(t, calls, 0)

		_, err = engine.Match(ctx, "custody of children", agreementClauses())
		require.NoError(t, err)
		assert.Equal(t, calls, provider.GetMockEmbedder().CallCount())
	})
}

func TestEngineLocateSegments(t *testing.T) {
	engine := newTestEngine(t)

	response, err := engine.Match(context.Background(), "Who has custody of the children?", agreementClauses())
	require.NoError(t, err)
	require.NotEmpty(t, response.Matches)

	top := response.Matches[0]
	segments := engine.LocateSegments(top.Text, &top)
	require.NotEmpty(t, segments)
	for _, seg := range segments {
		assert.GreaterOrEqual(t, seg.Start, 0)
		assert.LessOrEqual(t, seg.End, len(top.Text))
		assert.Less(t, seg.Start, seg.End)
	}
}

func TestEngineCheckHealth(t *testing.T) {
	t.Run("healthy provider", func(t *testing.T) {
		engine := newTestEngine(t)
		assert.NoError(t, engine.CheckHealth(context.Background()))
	})

	t.Run("unhealthy provider surfaces the error", func(t *testing.T) {
		provider := mock.NewMockProvider()
		topicEmbedder(provider)
		provider.HealthErr = errors.New("connection refused")
		engine, err := NewEngine("", WithInMemoryStore(), WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()
		assert.Error(t, engine.CheckHealth(context.Background()))
	})

	t.Run("keyword-only reports semantic disabled", func(t *testing.T) {
		engine, err := NewEngine("", WithKeywordOnly())
		require.NoError(t, err)
		defer engine.Close()
		assert.ErrorIs(t, engine.CheckHealth(context.Background()), ErrSemanticDisabled)
	})
}
