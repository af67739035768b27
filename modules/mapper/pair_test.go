package mapper_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"photogram/modules/mapper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	user struct {
		ID   int64
		Name string
	}
	userDto struct {
		ID   int64
		Name string
	}
	role struct {
		Name string
	}
	roleDto struct {
		Name string
	}
)

var (
	userType    = reflect.TypeFor[user]()
	userDtoType = reflect.TypeFor[userDto]()
	roleType    = reflect.TypeFor[role]()
	roleDtoType = reflect.TypeFor[roleDto]()
)

func userPair(opts ...mapper.PairOption) *mapper.Pair[user, userDto] {
	return mapper.NewPair(
		func(_ context.Context, u user) (userDto, error) { return userDto(u), nil },
		func(_ context.Context, d userDto) (user, error) { return user(d), nil },
		opts...,
	)
}

func rolePair(opts ...mapper.PairOption) *mapper.Pair[role, roleDto] {
	return mapper.NewPair(
		func(_ context.Context, r role) (roleDto, error) { return roleDto(r), nil },
		func(_ context.Context, d roleDto) (role, error) { return role(d), nil },
		opts...,
	)
}

//
// -----------------------------------------------------------------------------
// Types / Compatible
// -----------------------------------------------------------------------------

// TestPair_Types verifies the pair is taken from the type parameters.
func TestPair_Types(t *testing.T) {
	t.Parallel()

	first, second := userPair().Types()
	assert.Equal(t, userType, first)
	assert.Equal(t, userDtoType, second)
}

// TestPair_Compatible verifies only the two declared types are compatible.
func TestPair_Compatible(t *testing.T) {
	t.Parallel()

	p := userPair()
	assert.True(t, p.Compatible(userType))
	assert.True(t, p.Compatible(userDtoType))
	assert.False(t, p.Compatible(roleType))
	assert.False(t, p.Compatible(reflect.TypeFor[*user]()))
	assert.False(t, p.Compatible(nil))
}

// TestPair_Kind verifies the default kind and the Collection option.
func TestPair_Kind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mapper.KindSingle, userPair().Kind())
	assert.Equal(t, mapper.KindCollection, userPair(mapper.Collection()).Kind())
	assert.Equal(t, "collection", mapper.KindCollection.String())
}

//
// -----------------------------------------------------------------------------
// Map
// -----------------------------------------------------------------------------

// TestPair_Map_RoundTrip verifies both directions and that a round trip keeps the fields.
func TestPair_Map_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := userPair()
	in := user{ID: 7, Name: "alice"}

	dto, err := p.Map(ctx, in, userDtoType)
	require.NoError(t, err)
	assert.Equal(t, userDto{ID: 7, Name: "alice"}, dto)

	back, err := p.Map(ctx, dto, userType)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

// TestPair_Map_SelfMap verifies mapping a type onto itself is rejected.
func TestPair_Map_SelfMap(t *testing.T) {
	t.Parallel()

	_, err := userPair().Map(context.Background(), user{}, userType)
	require.ErrorIs(t, err, mapper.ErrSelfMap)
}

// TestPair_Map_ForeignSource verifies a source of neither declared type is rejected.
func TestPair_Map_ForeignSource(t *testing.T) {
	t.Parallel()

	_, err := userPair().Map(context.Background(), "alice", userDtoType)
	require.ErrorIs(t, err, mapper.ErrUnmappable)

	_, err = userPair().Map(context.Background(), &user{}, userDtoType)
	require.ErrorIs(t, err, mapper.ErrUnmappable)
}

// TestPair_Map_WrongTarget verifies a declared source with a foreign target is rejected.
func TestPair_Map_WrongTarget(t *testing.T) {
	t.Parallel()

	_, err := userPair().Map(context.Background(), user{}, roleDtoType)
	require.ErrorIs(t, err, mapper.ErrIncompatibleTarget)
}

// TestPair_Map_ConversionError verifies conversion errors stay reachable through errors.Is.
func TestPair_Map_ConversionError(t *testing.T) {
	t.Parallel()

	errLookup := errors.New("user not found")
	p := mapper.NewPair(
		func(_ context.Context, u user) (userDto, error) { return userDto(u), nil },
		func(_ context.Context, d userDto) (user, error) { return user{}, errLookup },
	)

	_, err := p.Map(context.Background(), userDto{ID: 1}, userType)
	require.ErrorIs(t, err, errLookup)

	var merr *mapper.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, userDtoType, merr.Source)
	assert.Equal(t, userType, merr.Target)
	assert.False(t, merr.Collection)
}

//
// -----------------------------------------------------------------------------
// MapAll
// -----------------------------------------------------------------------------

// TestPair_MapAll_RequiresCollectionKind verifies single pairs refuse bulk conversion.
func TestPair_MapAll_RequiresCollectionKind(t *testing.T) {
	t.Parallel()

	_, err := userPair().MapAll(context.Background(), []user{{ID: 1}}, userDtoType)
	require.ErrorIs(t, err, mapper.ErrNotACollectionMapper)

	_, err = userPair().ForwardAll(context.Background(), []user{{ID: 1}})
	require.ErrorIs(t, err, mapper.ErrNotACollectionMapper)
}

// TestPair_MapAll_Positional verifies elements are converted in order.
func TestPair_MapAll_Positional(t *testing.T) {
	t.Parallel()

	out, err := userPair(mapper.Collection()).MapAll(
		context.Background(),
		[]user{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		userDtoType,
	)
	require.NoError(t, err)
	assert.Equal(t, []userDto{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, out)
}

// TestPair_MapAll_Array verifies arrays are accepted like slices.
func TestPair_MapAll_Array(t *testing.T) {
	t.Parallel()

	out, err := userPair(mapper.Collection()).MapAll(
		context.Background(),
		[2]userDto{{ID: 1}, {ID: 2}},
		userType,
	)
	require.NoError(t, err)
	assert.Equal(t, []user{{ID: 1}, {ID: 2}}, out)
}

// TestPair_MapAll_MixedElements verifies a foreign element after the first is a cast failure.
func TestPair_MapAll_MixedElements(t *testing.T) {
	t.Parallel()

	_, err := userPair(mapper.Collection()).MapAll(
		context.Background(),
		[]any{user{ID: 1}, role{Name: "USER"}},
		userDtoType,
	)
	require.ErrorIs(t, err, mapper.ErrCastFailure)

	var merr *mapper.Error
	require.ErrorAs(t, err, &merr)
	assert.True(t, merr.Collection)
	assert.Equal(t, userType, merr.Source)
	assert.True(t, strings.HasPrefix(err.Error(), "collection mapping"))
	assert.Contains(t, err.Error(), "element 1")
}

// TestPair_MapAll_NotACollection verifies scalar sources are rejected.
func TestPair_MapAll_NotACollection(t *testing.T) {
	t.Parallel()

	_, err := userPair(mapper.Collection()).MapAll(context.Background(), user{}, userDtoType)
	require.ErrorIs(t, err, mapper.ErrNotACollection)
}

// TestPair_ForwardBackwardAll verifies the typed bulk helpers.
func TestPair_ForwardBackwardAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := rolePair(mapper.Collection())

	dtos, err := p.ForwardAll(ctx, []role{{Name: "USER"}, {Name: "ADMIN"}})
	require.NoError(t, err)
	assert.Equal(t, []roleDto{{Name: "USER"}, {Name: "ADMIN"}}, dtos)

	roles, err := p.BackwardAll(ctx, dtos)
	require.NoError(t, err)
	assert.Equal(t, []role{{Name: "USER"}, {Name: "ADMIN"}}, roles)

	empty, err := p.ForwardAll(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
