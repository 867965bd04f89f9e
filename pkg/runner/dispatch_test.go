package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaui/actioneer/pkg/schema"
)

func TestDispatchScript_Evaluates(t *testing.T) {
	r := New(WithContext(&schema.ActionContext{Record: map[string]any{"id": 1}}))

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:    schema.TypeScript,
		Execute: "record.id + 100",
	})

	require.True(t, res.Success)
	assert.Equal(t, 101, res.Data)
}

func TestDispatchScript_TargetFallback(t *testing.T) {
	r := New(WithContext(&schema.ActionContext{Data: map[string]any{"n": 3}}))

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeScript,
		Target: "data.n * 2",
	})

	require.True(t, res.Success)
	assert.Equal(t, 6, res.Data)
}

func TestDispatchScript_MissingExpression(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: schema.TypeScript})

	assert.False(t, res.Success)
	assert.Equal(t, "No script provided", res.Error)
}

func TestDispatchScript_UndefinedValue(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:    schema.TypeScript,
		Execute: "data.missing",
	})

	require.True(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestDispatchURL_RelativeRedirect(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeURL,
		Target: "/dashboard",
	})

	require.True(t, res.Success)
	assert.Equal(t, "/dashboard", res.Redirect)
}

func TestDispatchURL_RelativeWithPort(t *testing.T) {
	var gotURL string
	var gotOpts NavigateOptions
	r := New()
	r.SetNavigationHandler(func(ctx context.Context, url string, opts NavigateOptions) {
		gotURL = url
		gotOpts = opts
	})

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeURL,
		Target: "/dashboard",
	})

	require.True(t, res.Success)
	assert.Empty(t, res.Redirect)
	assert.Equal(t, "/dashboard", gotURL)
	assert.False(t, gotOpts.External)
	assert.False(t, gotOpts.NewTab)
}

func TestDispatchURL_AbsoluteExternal(t *testing.T) {
	var gotOpts NavigateOptions
	r := New()
	r.SetNavigationHandler(func(ctx context.Context, url string, opts NavigateOptions) {
		gotOpts = opts
	})

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeURL,
		Target: "https://example.com/docs",
	})

	require.True(t, res.Success)
	assert.True(t, gotOpts.External)
	assert.True(t, gotOpts.NewTab)
}

func TestDispatchURL_AbsoluteNoPort(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeURL,
		Target: "https://example.com/docs",
	})

	require.True(t, res.Success)
	assert.Equal(t, "https://example.com/docs", res.Redirect)
}

func TestDispatchURL_SchemeInjectionBlocked(t *testing.T) {
	r := New()

	for _, target := range []string{"javascript:alert(1)", "data:text/html,x", "vbscript:x"} {
		res := r.Execute(context.Background(), &schema.ActionDef{
			Type:   schema.TypeURL,
			Target: target,
		})

		assert.False(t, res.Success, target)
		assert.Contains(t, res.Error, "Invalid URL", target)
	}
}

func TestDispatchURL_MissingTarget(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: schema.TypeURL})

	assert.False(t, res.Success)
	assert.Equal(t, "No URL provided", res.Error)
}

func TestDispatchNavigation_ForwardsReplace(t *testing.T) {
	var gotURL string
	var gotOpts NavigateOptions
	r := New()
	r.SetNavigationHandler(func(ctx context.Context, url string, opts NavigateOptions) {
		gotURL = url
		gotOpts = opts
	})

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:     schema.TypeNavigation,
		Navigate: &schema.NavigateSpec{To: "/settings", Replace: true},
	})

	require.True(t, res.Success)
	assert.Equal(t, "/settings", gotURL)
	assert.True(t, gotOpts.Replace)
	assert.False(t, gotOpts.External)
}

func TestDispatchNavigation_InvalidScheme(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:     schema.TypeNavigation,
		Navigate: &schema.NavigateSpec{To: "javascript:alert(1)"},
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Invalid URL")
}

func TestDispatchNavigation_MissingTo(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: schema.TypeNavigation})

	assert.False(t, res.Success)
	assert.Equal(t, "No URL provided", res.Error)
}

func TestDispatchModal_NoPort_ReturnsSchema(t *testing.T) {
	r := New()
	modalSchema := map[string]any{"component": "form", "fields": []any{"name"}}

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:  schema.TypeModal,
		Modal: modalSchema,
	})

	require.True(t, res.Success)
	assert.Equal(t, modalSchema, res.Modal)
}

func TestDispatchModal_TargetFallback(t *testing.T) {
	r := New()
	modalSchema := map[string]any{"component": "confirm"}

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeModal,
		Target: modalSchema,
	})

	require.True(t, res.Success)
	assert.Equal(t, modalSchema, res.Modal)
}

func TestDispatchModal_PortDelegation(t *testing.T) {
	r := New()
	r.SetModalHandler(func(ctx context.Context, modal any, actx *schema.ActionContext) (*schema.ActionResult, error) {
		return schema.SucceededWith("submitted"), nil
	})

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:  schema.TypeModal,
		Modal: map[string]any{"component": "form"},
	})

	require.True(t, res.Success)
	assert.Equal(t, "submitted", res.Data)
	assert.Nil(t, res.Modal)
}

func TestDispatchModal_PortError(t *testing.T) {
	r := New()
	r.SetModalHandler(func(ctx context.Context, modal any, actx *schema.ActionContext) (*schema.ActionResult, error) {
		return nil, errors.New("host closed")
	})

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:  schema.TypeModal,
		Modal: map[string]any{},
	})

	assert.False(t, res.Success)
	assert.Equal(t, "host closed", res.Error)
}

func TestDispatchModal_MissingSchema(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: schema.TypeModal})

	assert.False(t, res.Success)
	assert.Equal(t, "No modal schema/target", res.Error)
}

func TestDispatchLegacy_OnClick(t *testing.T) {
	var called bool
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		OnClick: func(ctx context.Context) error {
			called = true
			return nil
		},
	})

	require.True(t, res.Success)
	assert.True(t, called)
	assert.Nil(t, res.Data)
}

func TestDispatchLegacy_OnClickError(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		OnClick: func(ctx context.Context) error {
			return errors.New("click failed")
		},
	})

	assert.False(t, res.Success)
	assert.Equal(t, "click failed", res.Error)
}

func TestDispatchLegacy_OnClickPanic(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		OnClick: func(ctx context.Context) error {
			panic("boom")
		},
	})

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "boom")
}

func TestDispatchLegacy_NoCallback(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{})

	assert.True(t, res.Success)
}

func TestDispatch_RegisteredHandlerShadowsBuiltin(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterHandler(schema.TypeURL, func(ctx context.Context, a *schema.ActionDef, c *schema.ActionContext) *schema.ActionResult {
		return schema.SucceededWith("intercepted")
	}))

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeURL,
		Target: "javascript:alert(1)",
	})

	require.True(t, res.Success)
	assert.Equal(t, "intercepted", res.Data)
}

func TestDispatch_HandlerPanicContained(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterHandler("explosive", func(ctx context.Context, a *schema.ActionDef, c *schema.ActionContext) *schema.ActionResult {
		panic("kaboom")
	}))

	res := r.Execute(context.Background(), &schema.ActionDef{Type: "explosive"})

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "kaboom")
}

func TestDispatch_HandlerNilResult(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterHandler("void", func(ctx context.Context, a *schema.ActionDef, c *schema.ActionContext) *schema.ActionResult {
		return nil
	}))

	res := r.Execute(context.Background(), &schema.ActionDef{Type: "void"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "returned no result")
}

func TestDispatch_FlowWithoutTarget(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: schema.TypeFlow})

	assert.False(t, res.Success)
	assert.Equal(t, "No flow target", res.Error)
}

func TestDispatch_FlowWithoutHandler(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{
		Type:   schema.TypeFlow,
		Target: "approval-flow",
	})

	assert.False(t, res.Success)
	assert.Equal(t, "Flow handler not registered", res.Error)
}

func TestDispatch_UnhandledType(t *testing.T) {
	r := New()

	res := r.Execute(context.Background(), &schema.ActionDef{Type: "teleport"})

	assert.False(t, res.Success)
	assert.Equal(t, "Unhandled action type: teleport", res.Error)
}
