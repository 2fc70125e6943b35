package funcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/funcs"
)

func TestDefault_Lookup(t *testing.T) {
	t.Parallel()

	reg := funcs.Default()

	tests := []struct {
		key  string
		want string
	}{
		{key: "getvar", want: "getvar"},
		{key: "GetVar", want: "getvar"},
		{key: "bot", want: "char"},
		{key: "lastcharmessage", want: "previous_char_chat"},
		{key: "#if", want: "#if"},
		{key: "when", want: "#when"},
		{key: "else", want: ":else"},
		{key: ":each", want: "#each"},
		{key: "each", want: "#each"},
		{key: "?", want: "?"},
		{key: "//", want: "//"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			fn, ok := reg.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, fn.Name)
		})
	}

	_, ok := reg.Lookup("does_not_exist")
	assert.False(t, ok)
	_, ok = reg.Lookup("")
	assert.False(t, ok)
}

func TestDefault_ListHasNoDuplicates(t *testing.T) {
	t.Parallel()

	reg := funcs.Default()
	list := reg.List()

	require.Equal(t, reg.Len(), len(list))
	assert.Greater(t, len(list), 100)

	seen := make(map[string]bool)
	for _, fn := range list {
		assert.False(t, seen[fn.Name], "duplicate %s", fn.Name)
		seen[fn.Name] = true
		assert.NotEmpty(t, fn.Description, fn.Name)
		assert.NotEmpty(t, fn.Category, fn.Name)
	}

	assert.Contains(t, reg.Categories(), "block")
}

func TestFunction_Kind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantKind funcs.Kind
		wantBase string
	}{
		{name: "getvar", wantKind: funcs.KindPlain, wantBase: "getvar"},
		{name: "#when", wantKind: funcs.KindBlock, wantBase: "when"},
		{name: ":else", wantKind: funcs.KindSpecial, wantBase: "else"},
		{name: "?", wantKind: funcs.KindMath, wantBase: "?"},
		{name: "//", wantKind: funcs.KindComment, wantBase: "//"},
	}

	for _, tt := range tests {
		fn := &funcs.Function{Name: tt.name}
		assert.Equal(t, tt.wantKind, fn.Kind(), tt.name)
		assert.Equal(t, tt.wantBase, fn.BaseName(), tt.name)
	}
}

func TestFunction_Signature(t *testing.T) {
	t.Parallel()

	fn, ok := funcs.Default().Lookup("replace")
	require.True(t, ok)
	assert.Equal(t, "replace(string, target, replacement)", fn.Signature())
	assert.False(t, fn.Variadic())

	fn, ok = funcs.Default().Lookup("random")
	require.True(t, ok)
	assert.True(t, fn.Variadic())
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	reg := funcs.NewRegistry()
	require.NoError(t, reg.Register(funcs.Function{Name: "a", Aliases: []string{"b"}}))

	err := reg.Register(funcs.Function{Name: "B"})
	require.ErrorIs(t, err, funcs.ErrDuplicate)

	err = reg.Register(funcs.Function{Name: "c", Aliases: []string{"A"}})
	require.ErrorIs(t, err, funcs.ErrDuplicate)

	assert.Equal(t, 1, reg.Len())
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := funcs.Load([]byte("functions:\n  - name: x\n    bogus: 1\n"))
	require.Error(t, err)

	reg, err := funcs.Load([]byte("functions:\n  - name: x\n    arguments: [a]\n"))
	require.NoError(t, err)
	fn, ok := reg.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, fn.Arguments)
}
