package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsingContext_PushPop(t *testing.T) {
	pc := NewParsingContext()
	require.True(t, pc.IsEmpty())

	listing := &ResourceListing{}
	api := &API{Path: "/pets/{id}"}
	op := &Operation{Nickname: "getPet", HTTPMethod: "GET"}

	pc.PushNamed(KindResources, listing, "json:resource_listing")
	require.NoError(t, pc.Push(KindAPI, api, "path"))
	require.NoError(t, pc.Push(KindOperation, op, "nickname"))

	assert.Equal(t, 3, pc.Depth())
	assert.Same(t, listing, pc.Resources())
	assert.Same(t, api, pc.API())
	assert.Same(t, op, pc.Operation())
	assert.Nil(t, pc.Parameter())
	assert.Equal(t, "resources=json:resource_listing, api=/pets/{id}, operation=getPet", pc.Breadcrumb())
	assert.Equal(t, "ParsingContext(stack=[resources=json:resource_listing, api=/pets/{id}, operation=getPet])", pc.String())

	pc.Pop()
	assert.Nil(t, pc.Operation(), "pop must unbind the operation")
	assert.Same(t, api, pc.API())

	pc.Pop()
	pc.Pop()
	assert.True(t, pc.IsEmpty())
	assert.Empty(t, pc.Breadcrumb())
}

func TestParsingContext_PushMissingField(t *testing.T) {
	pc := NewParsingContext()
	pc.PushNamed(KindResources, &ResourceListing{}, "json:resource_listing")

	err := pc.Push(KindOperation, &Operation{HTTPMethod: "GET"}, "nickname")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var se *SpecError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, SchemaError, se.Code)
	assert.Equal(t, "nickname", se.Field)
	assert.Equal(t, "resources=json:resource_listing", se.Context)
	assert.Equal(t, 1, pc.Depth(), "failed push must leave the context unchanged")
}

func TestParsingContext_ErrorResponseID(t *testing.T) {
	pc := NewParsingContext()
	require.NoError(t, pc.Push(KindErrorResponse, &ErrorResponse{Code: 404}, "code"))
	assert.Equal(t, "error_response=404", pc.Breadcrumb())
	pc.Pop()

	err := pc.Push(KindErrorResponse, &ErrorResponse{Reason: "oops"}, "code")
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParsingContext_ZeroValuedIDIsMissing(t *testing.T) {
	pc := NewParsingContext()
	pc.PushNamed(KindResources, &ResourceListing{}, "json:resource_listing")

	for _, push := range []func() error{
		func() error { return pc.Push(KindAPI, &API{Path: ""}, "path") },
		func() error { return pc.Push(KindOperation, &Operation{Nickname: ""}, "nickname") },
		func() error { return pc.Push(KindErrorResponse, &ErrorResponse{Code: 0, Reason: "zero"}, "code") },
	} {
		err := push()
		require.ErrorIs(t, err, ErrSchema)
		assert.Equal(t, 1, pc.Depth(), "a rejected push leaves the stack unchanged")
	}
}

func TestParsingContext_Errorf(t *testing.T) {
	pc := NewParsingContext()
	pc.PushNamed(KindResources, &ResourceListing{}, "json:resource_listing")
	pc.PushNamed(KindOperation, &Operation{}, "getPet")

	err := pc.Errorf("bad %s", "thing")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrSchema)
	assert.Equal(t, "bad thing (context: resources=json:resource_listing, operation=getPet)", err.Error())
}

func TestParsingContext_PopEmptyPanics(t *testing.T) {
	pc := NewParsingContext()
	assert.Panics(t, func() { pc.Pop() })
}

func TestParsingContext_ZeroValueUsable(t *testing.T) {
	var pc ParsingContext
	pc.PushNamed(KindModel, &Model{ID: "Pet"}, "Pet")
	assert.Equal(t, "Pet", pc.Model().ID)
	pc.Pop()
	assert.True(t, pc.IsEmpty())
}
