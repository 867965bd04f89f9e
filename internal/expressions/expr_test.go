package expressions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaui/actioneer/pkg/schema"
)

func TestExprEngine_Evaluate_Arithmetic(t *testing.T) {
	eng := NewExprEngine()
	env := map[string]any{
		"record": map[string]any{"id": 1},
	}

	out, err := eng.Evaluate(context.Background(), "record.id + 100", env)
	require.NoError(t, err)
	assert.Equal(t, 101, out)
}

func TestExprEngine_Evaluate_MissingProperty(t *testing.T) {
	eng := NewExprEngine()
	env := map[string]any{
		"data": map[string]any{},
	}

	out, err := eng.Evaluate(context.Background(), "data.missing", env)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExprEngine_Evaluate_UndefinedVariable(t *testing.T) {
	eng := NewExprEngine()

	out, err := eng.Evaluate(context.Background(), "ghost", map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExprEngine_Evaluate_Empty(t *testing.T) {
	eng := NewExprEngine()

	_, err := eng.Evaluate(context.Background(), "", nil)
	require.Error(t, err)

	var ee *schema.EngineError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, schema.ErrCodeValidation, ee.Code)
}

func TestExprEngine_Evaluate_CompileError(t *testing.T) {
	eng := NewExprEngine()

	_, err := eng.Evaluate(context.Background(), "1 +", nil)
	require.Error(t, err)

	var ee *schema.EngineError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, schema.ErrCodeValidation, ee.Code)
}

func TestExprEngine_CacheReuse(t *testing.T) {
	eng := NewExprEngine()
	env := map[string]any{"data": map[string]any{"n": 2}}

	for i := 0; i < 3; i++ {
		out, err := eng.Evaluate(context.Background(), "data.n * 2", env)
		require.NoError(t, err)
		assert.Equal(t, 4, out)
	}

	eng.mu.RLock()
	defer eng.mu.RUnlock()
	assert.Len(t, eng.cache, 1)
}
